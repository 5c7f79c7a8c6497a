// Package ws provides the WebSocket IPC channel for the desktop shell.
//
// Each text frame carries one command:
//
//	{"id": "42", "cmd": "open_folder", "args": {"path": "/home/me"}}
//
// and is answered with a reply carrying the same id:
//
//	{"id": "42", "type": "result", "success": true, "data": {...}}
//
// Commands are dispatched through the service registry exactly like
// POST /invoke/:command, so legacy command names work on both transports.
// Frames with no id get a generated one; "ping" is answered with "pong".
//
// Example Usage:
//
//	handler := ws.NewHandler(registry, metrics, logger)
//	router.GET("/ipc", handler.HandleConnection)
package ws
