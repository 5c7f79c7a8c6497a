package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Folder names under the local data directory
const (
	AppFolder        = "AIOP"
	ExtensionsFolder = "Extensions"
)

// Layout resolves application paths from a base local-data directory
type Layout struct {
	Base string
}

// NewLayout returns a layout rooted at base, or at the platform local-data
// directory when base is empty
func NewLayout(base string) (Layout, error) {
	if base == "" {
		dir, err := LocalDataDir()
		if err != nil {
			return Layout{}, err
		}
		base = dir
	}
	return Layout{Base: filepath.Clean(base)}, nil
}

// AppDir returns <base>/AIOP
func (l Layout) AppDir() string {
	return filepath.Join(l.Base, AppFolder)
}

// ExtensionsDir returns <base>/AIOP/Extensions
func (l Layout) ExtensionsDir() string {
	return filepath.Join(l.Base, AppFolder, ExtensionsFolder)
}

// ExtensionDir returns the folder of a single extension
func (l Layout) ExtensionDir(name string) string {
	return filepath.Join(l.ExtensionsDir(), name)
}

// LocalDataDir returns the per-user local data directory.
//
//	Linux:   $XDG_DATA_HOME or ~/.local/share
//	macOS:   ~/Library/Application Support
//	Windows: %LOCALAPPDATA%
func LocalDataDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return dir, nil
		}
		return "", errors.New("LOCALAPPDATA is not defined")
	case "darwin", "ios":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" && filepath.IsAbs(dir) {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

// ValidateFolderName checks that name addresses a direct child folder
func ValidateFolderName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("folder name cannot be empty")
	}
	if filepath.IsAbs(name) {
		return fmt.Errorf("folder name cannot be an absolute path")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("folder name cannot contain path separators")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("folder name contains invalid path components")
	}
	return nil
}
