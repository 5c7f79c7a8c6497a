package extensions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AIOP/backend/internal/providers/filesystem"
)

const (
	DefaultDownloadTimeout = 60 * time.Second
	DefaultDownloadRetries = 3
	DefaultMaxDownload     = 256 << 20
)

var errDownloadTooLarge = errors.New("archive exceeds the download size limit")

// downloader fetches extension archives over HTTP
type downloader struct {
	client   *resty.Client
	maxBytes int64
}

func newDownloader(opts Options) *downloader {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.DownloadRetries
	if retryClient.RetryMax <= 0 {
		retryClient.RetryMax = DefaultDownloadRetries
	}
	if opts.RetryWait > 0 {
		retryClient.RetryWaitMin = opts.RetryWait
		retryClient.RetryWaitMax = 4 * opts.RetryWait
	}
	retryClient.Logger = nil

	timeout := opts.DownloadTimeout
	if timeout <= 0 {
		timeout = DefaultDownloadTimeout
	}
	maxBytes := opts.MaxDownloadBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDownload
	}

	client := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(timeout).
		SetHeader("User-Agent", "AIOP-Extensions/1.0").
		SetDoNotParseResponse(true)

	return &downloader{client: client, maxBytes: maxBytes}
}

// fetch streams rawURL into dest
func (d *downloader) fetch(ctx context.Context, rawURL, dest string) (int64, error) {
	resp, err := d.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return 0, err
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return 0, fmt.Errorf("download failed: %s", resp.Status())
	}

	f, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, io.LimitReader(body, d.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, err
	}
	if n > d.maxBytes {
		return n, errDownloadTooLarge
	}
	return n, nil
}

// archiveURL checks that rawURL is an http(s) link to a supported archive
// and returns the archive file name
func archiveURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	file := path.Base(u.Path)
	if file == "." || file == "/" {
		return "", errors.New("url does not name an archive file")
	}
	return file, nil
}

// InstallURL downloads an archive and installs it like InstallArchive.
// The extension folder is named after the last path element of the URL.
func (m *Manager) InstallURL(ctx context.Context, rawURL string) (*InstallResult, error) {
	if rawURL == "" {
		return nil, &filesystem.Error{Op: "download", Kind: filesystem.InvalidArgument, Err: errors.New("url required")}
	}
	file, err := archiveURL(rawURL)
	if err != nil {
		return nil, &filesystem.Error{Op: "download", Path: rawURL, Kind: filesystem.InvalidArgument, Err: err}
	}
	name, format, err := archiveName(file)
	if err != nil {
		return nil, &filesystem.Error{Op: "download", Path: rawURL, Kind: filesystem.InvalidArgument, Err: err}
	}

	tmp, err := os.MkdirTemp("", "aiop-download-*")
	if err != nil {
		return nil, &filesystem.Error{Op: "download", Path: rawURL, Kind: filesystem.IOFailure, Err: err}
	}
	defer os.RemoveAll(tmp)

	archive := filepath.Join(tmp, file)
	size, err := m.downloader.fetch(ctx, rawURL, archive)
	if err != nil {
		m.logger.Warn("Extension download failed", zap.String("url", rawURL), zap.Error(err))
		return nil, &filesystem.Error{Op: "download", Path: rawURL, Kind: filesystem.IOFailure, Err: err}
	}
	m.logger.Info("Downloaded extension archive", zap.String("url", rawURL), zap.Int64("bytes", size))

	result, err := m.installArchive(ctx, archive, name, format)
	if err != nil {
		return nil, err
	}
	result.Report.Source = rawURL
	if result.Bundle != nil {
		result.Bundle.Path = rawURL
	}
	m.record("install_url", result.Report)
	return result, nil
}
