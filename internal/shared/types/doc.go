// Package types provides shared data structures for the AIOP backend.
//
// Core Types:
//   - Service: Service provider definition
//   - Tool: Command definition within a service
//   - Result: Standard command result
//
// Transport Types:
//   - InvokeRequest: HTTP command invocation
//   - IPCMessage, IPCReply: WebSocket command frames
//
// Example Usage:
//
//	result := &types.Result{
//	    Success: true,
//	    Data:    map[string]interface{}{"status": "OK"},
//	}
package types
