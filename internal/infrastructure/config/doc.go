// Package config provides 12-factor configuration management for the AIOP backend.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP bridge settings (port, host, allowed origins)
//   - Storage: data directory and legacy error behaviour
//   - Copy: hidden files and ignore rules for tree copies
//   - Extensions: bundle validation and entry sanitisation
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Bridge listening on %s\n", cfg.Address())
//
// Environment Variables:
//   - PORT, HOST, CORS_ORIGINS
//   - AIOP_DATA_DIR, FS_LEGACY_ERRORS
//   - COPY_INCLUDE_HIDDEN, COPY_RESPECT_IGNORE_FILES, COPY_IGNORE
//   - EXTENSIONS_VALIDATE, ENTRY_SANITIZE
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
