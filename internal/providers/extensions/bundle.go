package extensions

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"

	"github.com/GriffinCanCode/AIOP/backend/internal/providers/filesystem"
)

var (
	errNoManifest = errors.New("bundle has no manifest")
	errNoEntry    = errors.New("bundle has no html entry page")
)

// Scan inspects a bundle folder: manifest, entry page and size
func Scan(ctx context.Context, dir string) (*Bundle, error) {
	root := filepath.Clean(dir)
	info, err := os.Stat(root)
	if err != nil {
		kind := filesystem.IOFailure
		if errors.Is(err, fs.ErrNotExist) {
			kind = filesystem.NotFound
		}
		return nil, &filesystem.Error{Op: "scan", Path: root, Kind: kind, Err: err}
	}
	if !info.IsDir() {
		return nil, &filesystem.Error{Op: "scan", Path: root, Kind: filesystem.InvalidArgument, Err: errors.New("bundle is not a directory")}
	}

	bundle := &Bundle{Path: root}
	var (
		mu    sync.Mutex
		pages []string
	)

	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil || path == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		mu.Lock()
		defer mu.Unlock()
		bundle.Files++
		bundle.Bytes += info.Size()
		if filepath.Dir(path) == root && strings.EqualFold(filepath.Ext(path), ".html") {
			pages = append(pages, d.Name())
		}
		return nil
	})
	if err != nil {
		return nil, &filesystem.Error{Op: "scan", Path: root, Kind: filesystem.IOFailure, Err: err}
	}

	bundle.EntryFile = pickEntry(pages)
	if bundle.EntryFile != "" {
		if data, err := os.ReadFile(filepath.Join(root, bundle.EntryFile)); err == nil {
			bundle.Assets = entryAssets(string(data))
			bundle.MissingAssets = missingAssets(root, bundle.Assets)
		}
	}

	name, manifest, err := loadManifest(root)
	if err != nil {
		return bundle, &filesystem.Error{Op: "scan", Path: root, Kind: filesystem.InvalidArgument, Err: err}
	}
	bundle.ManifestFile = name
	bundle.Manifest = manifest

	return bundle, nil
}

// Validate checks that the bundle has a manifest and an HTML entry page
func (b *Bundle) Validate() error {
	if b.Manifest == nil {
		return &filesystem.Error{Op: "validate", Path: b.Path, Kind: filesystem.InvalidArgument, Err: errNoManifest}
	}
	if b.EntryFile == "" {
		return &filesystem.Error{Op: "validate", Path: b.Path, Kind: filesystem.InvalidArgument, Err: errNoEntry}
	}

	entry := filepath.Join(b.Path, b.EntryFile)
	mtype, err := mimetype.DetectFile(entry)
	if err != nil {
		return &filesystem.Error{Op: "validate", Path: entry, Kind: filesystem.IOFailure, Err: err}
	}
	if !mtype.Is("text/html") {
		return &filesystem.Error{
			Op:   "validate",
			Path: entry,
			Kind: filesystem.InvalidArgument,
			Err:  fmt.Errorf("entry page is %s, not html", mtype.String()),
		}
	}
	return nil
}

// pickEntry prefers index.html, then the first page by name
func pickEntry(pages []string) string {
	if len(pages) == 0 {
		return ""
	}
	sort.Strings(pages)
	for _, p := range pages {
		if strings.EqualFold(p, EntryFile) {
			return p
		}
	}
	return pages[0]
}
