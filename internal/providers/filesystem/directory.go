package filesystem

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// List returns the direct children of dir.
//
// A missing dir fails with NotFound. A dir that exists but cannot be opened
// or read fails with IOFailure. Children whose metadata cannot be read are
// skipped. Order follows the OS enumeration and is not stable.
func (o *Operator) List(ctx context.Context, dir string) ([]FileEntry, error) {
	if dir == "" {
		return nil, invalidArg("list", dir, "path required")
	}
	if err := ctx.Err(); err != nil {
		return nil, &Error{Op: "list", Path: dir, Kind: IOFailure, Err: err}
	}

	if _, err := os.Stat(dir); err != nil {
		return nil, wrapErr("list", dir, err)
	}

	f, err := os.Open(dir)
	if err != nil {
		o.logger.Debug("Failed to open directory", zap.String("path", dir), zap.Error(err))
		return nil, wrapErr("list", dir, err)
	}
	defer f.Close()

	dirents, err := f.ReadDir(-1)
	if err != nil {
		if len(dirents) == 0 {
			o.logger.Debug("Failed to read directory", zap.String("path", dir), zap.Error(err))
			return nil, wrapErr("list", dir, err)
		}
		o.logger.Debug("Directory read stopped early", zap.String("path", dir), zap.Int("read", len(dirents)), zap.Error(err))
	}

	entries := make([]FileEntry, 0, len(dirents))
	for _, d := range dirents {
		info, err := d.Info()
		if err != nil {
			o.logger.Debug("Failed to read metadata", zap.String("path", filepath.Join(dir, d.Name())), zap.Error(err))
			continue
		}

		kind := EntryFile
		if info.IsDir() {
			kind = EntryDirectory
		}
		entries = append(entries, FileEntry{
			Name: d.Name(),
			Kind: kind,
			Path: filepath.Join(dir, d.Name()),
		})
	}

	return entries, nil
}
