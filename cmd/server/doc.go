// Package main is the entry point for the AIOP desktop backend.
//
// The desktop shell talks to this process for every file-system and
// extension operation:
//
//	Desktop UI → POST /invoke/:command or WS /ipc → service registry
//	                                              → filesystem provider
//	                                              → extensions provider
//
// Configuration:
//   - Environment variables (PORT, HOST, AIOP_DATA_DIR, FS_LEGACY_ERRORS, ...)
//   - CLI flags (override env vars)
//
// Usage:
//
//	./server -port 8000 -data-dir ~/.local/share
//
//	# Development mode (colored logs)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
