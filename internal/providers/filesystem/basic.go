package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AIOP/backend/internal/shared/paths"
)

// Read returns the full text content of a file.
// Content that is not valid UTF-8 fails with IOFailure.
func (o *Operator) Read(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", invalidArg("read", path, "path required")
	}
	if err := ctx.Err(); err != nil {
		return "", &Error{Op: "read", Path: path, Kind: IOFailure, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		o.logger.Debug("Failed to read file", zap.String("path", path), zap.Error(err))
		return "", wrapErr("read", path, err)
	}

	if !utf8.Valid(data) {
		charset := detectCharset(data)
		o.logger.Debug("File is not valid UTF-8", zap.String("path", path), zap.String("charset", charset))
		return "", &Error{
			Op:   "read",
			Path: path,
			Kind: IOFailure,
			Err:  fmt.Errorf("stream did not contain valid UTF-8 (detected %s)", charset),
		}
	}

	return string(data), nil
}

// Write creates or truncates path and writes content to it
func (o *Operator) Write(ctx context.Context, path, content string) error {
	if path == "" {
		return invalidArg("write", path, "path required")
	}
	if err := ctx.Err(); err != nil {
		return &Error{Op: "write", Path: path, Kind: IOFailure, Err: err}
	}

	if err := os.WriteFile(path, []byte(content), o.opts.FileMode); err != nil {
		o.logger.Warn("Failed to write file", zap.String("path", path), zap.Error(err))
		return wrapErr("write", path, err)
	}

	o.logger.Debug("File written", zap.String("path", path), zap.Int("size", len(content)))
	return nil
}

// Delete removes a file, or a directory with all of its contents.
// Fails with NotFound when path is neither.
func (o *Operator) Delete(ctx context.Context, path string) error {
	if path == "" {
		return invalidArg("delete", path, "path required")
	}
	if err := ctx.Err(); err != nil {
		return &Error{Op: "delete", Path: path, Kind: IOFailure, Err: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return wrapErr("delete", path, err)
	}

	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		o.logger.Warn("Failed to delete path", zap.String("path", path), zap.Bool("is_dir", info.IsDir()), zap.Error(err))
		return wrapErr("delete", path, err)
	}

	o.logger.Info("Path deleted", zap.String("path", path), zap.Bool("is_dir", info.IsDir()))
	return nil
}

// RemoveNamed recursively deletes the folder name directly under root.
// name must be a single path element.
func (o *Operator) RemoveNamed(ctx context.Context, root, name string) error {
	if err := paths.ValidateFolderName(name); err != nil {
		return &Error{Op: "remove", Path: name, Kind: InvalidArgument, Err: err}
	}
	if root == "" {
		return invalidArg("remove", name, "root required")
	}
	if err := ctx.Err(); err != nil {
		return &Error{Op: "remove", Path: name, Kind: IOFailure, Err: err}
	}

	target := filepath.Join(root, name)
	if _, err := os.Stat(target); err != nil {
		return wrapErr("remove", target, err)
	}

	if err := os.RemoveAll(target); err != nil {
		o.logger.Warn("Failed to remove folder", zap.String("path", target), zap.Error(err))
		return wrapErr("remove", target, err)
	}

	o.logger.Info("Folder removed", zap.String("path", target))
	return nil
}
