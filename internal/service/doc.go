// Package service provides the command registry behind the desktop bridge.
//
// Providers register a service definition and execute tools addressed as
// "service.tool". Legacy command names used by the shell (open_folder,
// move_extension, ...) are registered as aliases that rename their
// arguments onto the tool's parameters.
//
// Example Usage:
//
//	registry := service.NewRegistry()
//	registry.Register(filesystemProvider)
//	registry.Alias("read_file", service.Alias{Command: "filesystem.read_strict"})
//	result, err := registry.Execute(ctx, "read_file", map[string]interface{}{"path": p})
package service
