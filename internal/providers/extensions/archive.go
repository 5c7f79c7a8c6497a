package extensions

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AIOP/backend/internal/providers/filesystem"
	"github.com/GriffinCanCode/AIOP/backend/internal/shared/paths"
)

type archiveFormat int

const (
	formatZip archiveFormat = iota
	formatTar
	formatTarGzip
	formatTarZstd
)

// Longer suffixes first
var archiveSuffixes = []struct {
	suffix string
	format archiveFormat
}{
	{".tar.gz", formatTarGzip},
	{".tgz", formatTarGzip},
	{".tar.zst", formatTarZstd},
	{".tzst", formatTarZstd},
	{".tar", formatTar},
	{".zip", formatZip},
}

// detectArchive returns the extension folder name and format of an archive path
func detectArchive(path string) (string, archiveFormat, bool) {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	for _, s := range archiveSuffixes {
		if strings.HasSuffix(lower, s.suffix) && len(base) > len(s.suffix) {
			return base[:len(base)-len(s.suffix)], s.format, true
		}
	}
	return "", 0, false
}

// InstallArchive extracts an archive and installs it as the extension named
// after the archive file. A single top-level folder inside the archive is
// treated as the bundle root.
func (m *Manager) InstallArchive(ctx context.Context, archive string) (*InstallResult, error) {
	if archive == "" {
		return nil, &filesystem.Error{Op: "extract", Kind: filesystem.InvalidArgument, Err: errors.New("archive path required")}
	}
	name, format, err := archiveName(archive)
	if err != nil {
		return nil, &filesystem.Error{Op: "extract", Path: archive, Kind: filesystem.InvalidArgument, Err: err}
	}

	result, err := m.installArchive(ctx, archive, name, format)
	if err != nil {
		return nil, err
	}
	m.record("install_archive", result.Report)
	return result, nil
}

// archiveName derives the extension folder name from an archive file name
func archiveName(file string) (string, archiveFormat, error) {
	name, format, ok := detectArchive(file)
	if !ok {
		return "", 0, errors.New("unsupported archive format")
	}
	if err := paths.ValidateFolderName(name); err != nil {
		return "", 0, err
	}
	return name, format, nil
}

func (m *Manager) installArchive(ctx context.Context, archive, name string, format archiveFormat) (*InstallResult, error) {
	if _, err := os.Stat(archive); err != nil {
		kind := filesystem.IOFailure
		if errors.Is(err, fs.ErrNotExist) {
			kind = filesystem.NotFound
		}
		return nil, &filesystem.Error{Op: "extract", Path: archive, Kind: kind, Err: err}
	}

	tmp, err := os.MkdirTemp("", "aiop-extension-*")
	if err != nil {
		return nil, &filesystem.Error{Op: "extract", Path: archive, Kind: filesystem.IOFailure, Err: err}
	}
	defer os.RemoveAll(tmp)

	extractDir := filepath.Join(tmp, "extract")
	if err := os.Mkdir(extractDir, 0o755); err != nil {
		return nil, &filesystem.Error{Op: "extract", Path: archive, Kind: filesystem.IOFailure, Err: err}
	}

	skipped, err := extract(ctx, archive, format, extractDir)
	if err != nil {
		return nil, &filesystem.Error{Op: "extract", Path: archive, Kind: filesystem.IOFailure, Err: err}
	}

	bundleDir := filepath.Join(tmp, name)
	if err := os.Rename(bundleRoot(extractDir), bundleDir); err != nil {
		return nil, &filesystem.Error{Op: "extract", Path: archive, Kind: filesystem.IOFailure, Err: err}
	}

	result, err := m.install(ctx, bundleDir)
	if err != nil {
		return nil, err
	}

	result.Report.Source = archive
	result.Report.Skipped = append(skipped, result.Report.Skipped...)
	if result.Bundle != nil {
		result.Bundle.Path = archive
	}

	m.logger.Info("Extension archive installed",
		zap.String("archive", archive),
		zap.String("destination", result.Destination),
		zap.Int("skipped", len(result.Report.Skipped)))

	return result, nil
}

func extract(ctx context.Context, archive string, format archiveFormat, dest string) ([]filesystem.SkippedEntry, error) {
	if format == formatZip {
		return extractZip(ctx, archive, dest)
	}

	f, err := os.Open(archive)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	switch format {
	case formatTarGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		r = gz
	case formatTarZstd:
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	return extractTar(ctx, r, dest)
}

func extractZip(ctx context.Context, archive, dest string) ([]filesystem.SkippedEntry, error) {
	reader, err := zip.OpenReader(archive)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var skipped []filesystem.SkippedEntry
	for _, file := range reader.File {
		if err := ctx.Err(); err != nil {
			return skipped, err
		}

		target, ok := safeJoin(dest, file.Name)
		if !ok {
			skipped = append(skipped, filesystem.SkippedEntry{Path: file.Name, Reason: "path escapes destination"})
			continue
		}

		mode := file.Mode()
		switch {
		case mode.IsDir():
			err = os.MkdirAll(target, 0o755)
		case mode.IsRegular():
			err = writeZipEntry(target, file)
		default:
			skipped = append(skipped, filesystem.SkippedEntry{Path: file.Name, Reason: "unsupported entry type"})
			continue
		}
		if err != nil {
			skipped = append(skipped, filesystem.SkippedEntry{Path: file.Name, Reason: err.Error()})
		}
	}
	return skipped, nil
}

func writeZipEntry(target string, file *zip.File) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return writeEntry(target, rc, file.Mode().Perm())
}

func extractTar(ctx context.Context, r io.Reader, dest string) ([]filesystem.SkippedEntry, error) {
	tr := tar.NewReader(r)

	var skipped []filesystem.SkippedEntry
	for {
		if err := ctx.Err(); err != nil {
			return skipped, err
		}

		header, err := tr.Next()
		if err == io.EOF {
			return skipped, nil
		}
		if err != nil {
			return skipped, err
		}

		target, ok := safeJoin(dest, header.Name)
		if !ok {
			skipped = append(skipped, filesystem.SkippedEntry{Path: header.Name, Reason: "path escapes destination"})
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			err = os.MkdirAll(target, 0o755)
		case tar.TypeReg:
			err = writeEntry(target, tr, os.FileMode(header.Mode).Perm())
		default:
			skipped = append(skipped, filesystem.SkippedEntry{Path: header.Name, Reason: "unsupported entry type"})
			continue
		}
		if err != nil {
			skipped = append(skipped, filesystem.SkippedEntry{Path: header.Name, Reason: err.Error()})
		}
	}
}

func writeEntry(target string, r io.Reader, perm os.FileMode) error {
	if perm == 0 {
		perm = 0o644
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// safeJoin joins an archive entry name onto dest, rejecting names that
// would land outside it
func safeJoin(dest, name string) (string, bool) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return target, true
}

// bundleRoot descends into a lone top-level folder
func bundleRoot(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return dir
	}

	var visible []fs.DirEntry
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || e.Name() == "__MACOSX" {
			continue
		}
		visible = append(visible, e)
	}
	if len(visible) == 1 && visible[0].IsDir() {
		return filepath.Join(dir, visible[0].Name())
	}
	return dir
}
