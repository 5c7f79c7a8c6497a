package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// SkippedEntry records one entry CopyTree could not mirror
type SkippedEntry struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// CopyReport summarises a best-effort tree copy
type CopyReport struct {
	Source      string         `json:"source"`
	Destination string         `json:"destination"`
	Files       int            `json:"files"`
	Directories int            `json:"directories"`
	Bytes       int64          `json:"bytes"`
	Ignored     int            `json:"ignored"`
	Skipped     []SkippedEntry `json:"skipped"`
}

// Partial reports whether any entry was skipped
func (r *CopyReport) Partial() bool {
	return r != nil && len(r.Skipped) > 0
}

// PartialError returns a PartialFailure error describing the skipped entries,
// or nil when the copy was complete. CopyTree never returns it; callers that
// want all-or-nothing semantics can.
func (r *CopyReport) PartialError() error {
	if !r.Partial() {
		return nil
	}
	return &Error{
		Op:   "copy",
		Path: r.Source,
		Kind: PartialFailure,
		Err:  fmt.Errorf("%d entries skipped", len(r.Skipped)),
	}
}

// CopyTree mirrors source into destRoot/<basename(source)>.
//
// Entries that fail are logged, recorded in the report's skip manifest and
// left behind; the walk continues. An error is returned only when the source
// cannot be walked or the destination cannot be created.
func (o *Operator) CopyTree(ctx context.Context, source, destRoot string) (*CopyReport, error) {
	if source == "" {
		return nil, invalidArg("copy", source, "source required")
	}
	if destRoot == "" {
		return nil, invalidArg("copy", source, "destination root required")
	}

	src, err := filepath.Abs(source)
	if err != nil {
		return nil, wrapErr("copy", source, err)
	}
	root, err := filepath.Abs(destRoot)
	if err != nil {
		return nil, wrapErr("copy", destRoot, err)
	}

	info, err := os.Stat(src)
	if err != nil {
		return nil, wrapErr("copy", src, err)
	}
	if !info.IsDir() {
		return nil, &Error{Op: "copy", Path: src, Kind: IOFailure, Err: errors.New("source is not a directory")}
	}

	base := filepath.Base(src)
	if base == "." || base == string(filepath.Separator) {
		return nil, invalidArg("copy", src, "source has no base name")
	}

	dest := filepath.Join(root, base)
	if dest == src {
		return nil, invalidArg("copy", src, "destination is the source folder")
	}
	if err := os.MkdirAll(dest, o.opts.DirMode); err != nil {
		o.logger.Error("Failed to create destination", zap.String("path", dest), zap.Error(err))
		return nil, &Error{Op: "copy", Path: dest, Kind: IOFailure, Err: fmt.Errorf("failed to create target folder: %w", err)}
	}

	report := &CopyReport{Source: src, Destination: dest, Skipped: []SkippedEntry{}}
	matcher := o.newIgnoreMatcher(src)

	var mu sync.Mutex
	skip := func(p string, err error) {
		o.logger.Warn("Skipping entry during copy", zap.String("path", p), zap.Error(err))
		mu.Lock()
		report.Skipped = append(report.Skipped, SkippedEntry{Path: p, Reason: err.Error()})
		mu.Unlock()
	}

	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, src, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			skip(p, err)
			return nil
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			skip(p, err)
			return nil
		}
		if rel == "." {
			return nil
		}
		// A destination nested in the source must not be copied into itself
		if p == dest {
			return filepath.SkipDir
		}

		if matcher.Match(rel, d.IsDir()) {
			mu.Lock()
			report.Ignored++
			mu.Unlock()
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// Symlinks are resolved but never descended into
		target := filepath.Join(dest, rel)
		mode := d.Type()
		if mode&fs.ModeSymlink != 0 {
			fi, err := os.Stat(p)
			if err != nil {
				skip(p, err)
				return nil
			}
			mode = fi.Mode().Type()
		}

		switch {
		case mode.IsDir():
			if err := os.MkdirAll(target, o.opts.DirMode); err != nil {
				skip(p, err)
				return nil
			}
			mu.Lock()
			report.Directories++
			mu.Unlock()
			if d.IsDir() && matcher.Descends() {
				matcher.load(p, filepath.ToSlash(rel))
			}
		case mode.IsRegular():
			n, err := o.copyFile(p, target)
			if err != nil {
				skip(p, err)
				return nil
			}
			mu.Lock()
			report.Files++
			report.Bytes += n
			mu.Unlock()
		default:
			skip(p, fmt.Errorf("unsupported file type %s", mode))
		}
		return nil
	})
	if err != nil {
		o.logger.Error("Copy walk failed", zap.String("source", src), zap.Error(err))
		return report, &Error{Op: "copy", Path: src, Kind: IOFailure, Err: fmt.Errorf("failed to copy directory: %w", err)}
	}

	fields := []zap.Field{
		zap.String("source", src),
		zap.String("destination", dest),
		zap.Int("files", report.Files),
		zap.Int("directories", report.Directories),
		zap.Int64("bytes", report.Bytes),
		zap.Int("ignored", report.Ignored),
		zap.Int("skipped", len(report.Skipped)),
	}
	if report.Partial() {
		o.logger.Warn("Directory copied with skipped entries", fields...)
	} else {
		o.logger.Info("Directory copied", fields...)
	}
	return report, nil
}

// copyFile copies src to dst, truncating dst, and keeps the source permissions
func (o *Operator) copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(dst), o.opts.DirMode); err != nil {
		return 0, err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return n, err
}
