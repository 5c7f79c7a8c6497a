package extensions

import (
	"time"

	"github.com/GriffinCanCode/AIOP/backend/internal/providers/filesystem"
)

// EntryFile is the page the shell loads for an installed extension
const EntryFile = "index.html"

// Manifest describes an extension bundle
type Manifest struct {
	Name         string `json:"name" yaml:"name" toml:"name"`
	Description  string `json:"description" yaml:"description" toml:"description"`
	Author       string `json:"author" yaml:"author" toml:"author"`
	CreationDate string `json:"creationDate" yaml:"creationDate" toml:"creationDate"`
	Version      string `json:"version" yaml:"version" toml:"version"`
	IconClass    string `json:"iconClass" yaml:"iconClass" toml:"iconClass"`
}

// Extension is one installed extension folder
type Extension struct {
	Folder   string    `json:"folder"`
	Path     string    `json:"path"`
	Manifest *Manifest `json:"manifest,omitempty"`
	HasEntry bool      `json:"hasEntry"`
}

// Bundle is the result of scanning a folder before installation
type Bundle struct {
	Path         string    `json:"path"`
	ManifestFile string    `json:"manifestFile,omitempty"`
	Manifest     *Manifest `json:"manifest,omitempty"`
	EntryFile    string    `json:"entryFile,omitempty"`
	Files        int       `json:"files"`
	Bytes        int64     `json:"bytes"`
	// Assets are the local files the entry page references
	Assets []string `json:"assets,omitempty"`
	// MissingAssets are referenced files absent from the bundle
	MissingAssets []string `json:"missingAssets,omitempty"`
}

// InstallResult is returned by Install and InstallArchive
type InstallResult struct {
	Destination string                 `json:"destination"`
	Bundle      *Bundle                `json:"bundle,omitempty"`
	Report      *filesystem.CopyReport `json:"report"`
}

// EntryPage is the loaded entry document of an extension
type EntryPage struct {
	Folder    string   `json:"folder"`
	Path      string   `json:"path"`
	Title     string   `json:"title"`
	HTML      string   `json:"html"`
	Sanitized bool     `json:"sanitized"`
	Assets    []string `json:"assets"`
}

// Options configures a Manager
type Options struct {
	// Validate requires a manifest and an HTML entry before installing
	Validate bool
	// Sanitize passes entry pages through an HTML sanitizer
	Sanitize bool
	// DownloadTimeout bounds one archive download, retries included
	DownloadTimeout time.Duration
	// DownloadRetries is the retry budget for transient HTTP failures
	DownloadRetries int
	// RetryWait is the minimum wait between download retries
	RetryWait time.Duration
	// MaxDownloadBytes caps the size of a downloaded archive
	MaxDownloadBytes int64
}

// Recorder observes completed copies
type Recorder interface {
	RecordCopy(op string, report *filesystem.CopyReport)
}
