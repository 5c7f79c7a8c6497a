// Package paths provides standardized application-data paths.
//
// Both the server and the CLI resolve the same layout so an extension installed
// from one is visible to the other.
//
// # Directory Structure
//
//	<local-data>/
//	  └── AIOP/
//	      └── Extensions/
//	          └── <name>/    (one copied extension bundle)
//
// The local-data directory follows the platform convention (XDG on Linux,
// Application Support on macOS, LOCALAPPDATA on Windows) and can be replaced
// through configuration.
package paths
