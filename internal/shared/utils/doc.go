// Package utils validates bridge input before it reaches a provider:
// payload size and nesting, command names, categories and path arguments.
package utils
