// Package main is the entry point for aiopctl, the terminal client for
// AIOP file and extension operations.
package main
