// Package http provides the HTTP side of the command bridge.
//
// Endpoints:
//   - Health: / and /health
//   - Services: GET /services
//   - Commands: POST /invoke and POST /invoke/:command
//   - Front-end logs: POST /logs (correlated by command and request ID)
//
// A command result is always a types.Result. The status code follows its
// kind: not_found is 404, invalid_argument is 400, any other failure is 500.
// Unknown commands are 404.
//
// Example Usage:
//
//	handlers := http.NewHandlers(registry, metrics, logger)
//	router.POST("/invoke/:command", handlers.InvokeCommand)
//	router.GET("/services", handlers.ListServices)
package http
