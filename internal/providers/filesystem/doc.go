// Package filesystem provides the file-system operations behind the desktop shell.
//
// This package is organized into:
//   - directory: Listing (list)
//   - basic: Core file operations (read, write, delete, remove named folder)
//   - copy: Best-effort recursive tree copy with a skip manifest
//   - ignore: Hidden-file and ignore-file rules applied while copying
//   - provider: Command definitions dispatched by the service registry
//
// All Operator methods:
//   - Run synchronously and release every handle before returning
//   - Return *Error values carrying an ErrorKind (NotFound, IOFailure, ...)
//   - Hold no state between calls
//
// The command provider can reproduce the shell's historical error policy,
// where listing, reading and writing degrade to empty or neutral results
// instead of surfacing an error.
//
// Example Usage:
//
//	ops := filesystem.New(filesystem.DefaultOptions(), logger)
//	entries, err := ops.List(ctx, "/home/user/notes")
//	if errors.Is(err, filesystem.ErrNotFound) {
//	    ...
//	}
package filesystem
