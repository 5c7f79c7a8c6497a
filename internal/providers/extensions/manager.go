package extensions

import (
	"context"
	"os"
	"path/filepath"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AIOP/backend/internal/providers/filesystem"
	"github.com/GriffinCanCode/AIOP/backend/internal/shared/paths"
)

// Manager installs, lists and removes extensions under the extensions root
type Manager struct {
	ops        *filesystem.Operator
	layout     paths.Layout
	opts       Options
	sanitizer  *bluemonday.Policy
	recorder   Recorder
	downloader *downloader
	logger     *zap.Logger
}

// NewManager creates a manager for layout's extensions folder
func NewManager(ops *filesystem.Operator, layout paths.Layout, opts Options, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		ops:        ops,
		layout:     layout,
		opts:       opts,
		sanitizer:  bluemonday.UGCPolicy(),
		downloader: newDownloader(opts),
		logger:     logger,
	}
}

// SetRecorder attaches a copy observer
func (m *Manager) SetRecorder(r Recorder) {
	m.recorder = r
}

// Root returns the extensions folder
func (m *Manager) Root() string {
	return m.layout.ExtensionsDir()
}

// EnsureRoot creates the application folder and its extensions folder
func (m *Manager) EnsureRoot() error {
	for _, dir := range []string{m.layout.AppDir(), m.layout.ExtensionsDir()} {
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &filesystem.Error{Op: "mkdir", Path: dir, Kind: filesystem.IOFailure, Err: err}
		}
		m.logger.Info("Created folder", zap.String("path", dir))
	}
	return nil
}

// Install copies the bundle folder source into the extensions root
func (m *Manager) Install(ctx context.Context, source string) (*InstallResult, error) {
	result, err := m.install(ctx, source)
	if err != nil {
		return nil, err
	}
	m.record("install", result.Report)

	m.logger.Info("Extension installed",
		zap.String("source", result.Report.Source),
		zap.String("destination", result.Destination),
		zap.Int("skipped", len(result.Report.Skipped)))

	return result, nil
}

func (m *Manager) install(ctx context.Context, source string) (*InstallResult, error) {
	bundle, err := Scan(ctx, source)
	if m.opts.Validate {
		if err != nil {
			return nil, err
		}
		if err := bundle.Validate(); err != nil {
			return nil, err
		}
	} else if err != nil {
		m.logger.Debug("Bundle scan failed", zap.String("source", source), zap.Error(err))
	}
	if bundle != nil && len(bundle.MissingAssets) > 0 {
		m.logger.Warn("Entry page references missing files",
			zap.String("source", source),
			zap.Strings("missing", bundle.MissingAssets))
	}

	if err := m.EnsureRoot(); err != nil {
		return nil, err
	}

	report, err := m.ops.CopyTree(ctx, source, m.Root())
	if err != nil {
		return nil, err
	}
	return &InstallResult{Destination: report.Destination, Bundle: bundle, Report: report}, nil
}

// Remove deletes the named extension folder
func (m *Manager) Remove(ctx context.Context, name string) error {
	return m.ops.RemoveNamed(ctx, m.Root(), name)
}

// List returns installed extensions in folder order
func (m *Manager) List(ctx context.Context) ([]Extension, error) {
	entries, err := m.ops.List(ctx, m.Root())
	if err != nil {
		return nil, err
	}

	extensions := make([]Extension, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		ext := Extension{Folder: entry.Name, Path: entry.Path}
		if _, manifest, err := loadManifest(entry.Path); err != nil {
			m.logger.Warn("Invalid extension manifest", zap.String("folder", entry.Name), zap.Error(err))
		} else {
			ext.Manifest = manifest
		}
		if info, err := os.Stat(filepath.Join(entry.Path, EntryFile)); err == nil && info.Mode().IsRegular() {
			ext.HasEntry = true
		}
		extensions = append(extensions, ext)
	}
	return extensions, nil
}

func (m *Manager) record(op string, report *filesystem.CopyReport) {
	if m.recorder != nil && report != nil {
		m.recorder.RecordCopy(op, report)
	}
}

// folderPath validates name and returns its path under the root
func (m *Manager) folderPath(op, name string) (string, error) {
	if err := paths.ValidateFolderName(name); err != nil {
		return "", &filesystem.Error{Op: op, Path: name, Kind: filesystem.InvalidArgument, Err: err}
	}
	return filepath.Join(m.Root(), name), nil
}
