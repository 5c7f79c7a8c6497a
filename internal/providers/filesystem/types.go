package filesystem

import (
	"os"

	"go.uber.org/zap"
)

// EntryKind distinguishes files from directories in a listing
type EntryKind string

const (
	EntryFile      EntryKind = "file"
	EntryDirectory EntryKind = "directory"
)

// FileEntry describes one child of a listed directory
type FileEntry struct {
	Name string    `json:"name"`
	Kind EntryKind `json:"kind"`
	Path string    `json:"path"`
}

// IsDir reports whether the entry is a directory
func (e FileEntry) IsDir() bool {
	return e.Kind == EntryDirectory
}

// Options configures an Operator
type Options struct {
	// IncludeHidden copies dot-files during CopyTree
	IncludeHidden bool
	// RespectIgnoreFiles applies .ignore files at every level of the copy source,
	// and .gitignore files when the source is inside a git work tree
	RespectIgnoreFiles bool
	// IgnorePatterns are extra doublestar patterns excluded from CopyTree
	IgnorePatterns []string
	// FileMode is used when Write creates a file
	FileMode os.FileMode
	// DirMode is used for directories created by CopyTree
	DirMode os.FileMode
}

// DefaultOptions returns the options used by the desktop shell
func DefaultOptions() Options {
	return Options{
		IncludeHidden:      false,
		RespectIgnoreFiles: true,
		FileMode:           0o644,
		DirMode:            0o755,
	}
}

// Operator performs synchronous file-system operations.
// It holds no mutable state; concurrent calls on overlapping paths are not
// coordinated.
type Operator struct {
	opts   Options
	logger *zap.Logger
}

// New creates an operator
func New(opts Options, logger *zap.Logger) *Operator {
	if opts.FileMode == 0 {
		opts.FileMode = 0o644
	}
	if opts.DirMode == 0 {
		opts.DirMode = 0o755
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Operator{opts: opts, logger: logger}
}
