// Package providers groups the service providers the command bridge
// dispatches to.
//
// Available Providers:
//   - filesystem: list, read, write and delete paths for the desktop shell
//   - extensions: install, list and remove bundles under the extensions root
//
// Provider Interface:
//   - Definition(): Returns service metadata and tool definitions
//   - Execute(): Runs a tool with parameters
//
// Example Usage:
//
//	ops := filesystem.New(filesystem.DefaultOptions(), logger)
//	fs := filesystem.NewProvider(ops, true, logger)
//	result, err := fs.Execute(ctx, "filesystem.read", map[string]interface{}{"path": p})
package providers
