// Package middleware provides the HTTP middleware stack of the bridge.
//
// Middleware stack includes:
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Per-IP token bucket rate limiting with idle eviction
//   - RequestID: UUID request IDs echoed in X-Request-ID
//   - Logger: One zap entry per request
//
// Example Usage:
//
//	router.Use(middleware.RequestID())
//	router.Use(middleware.Logger(logger))
//	router.Use(middleware.CORS(middleware.CORSConfigFor(cfg.Server.CORSOrigins)))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
