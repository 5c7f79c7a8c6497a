package extensions

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Entry loads the index.html page of an installed extension
func (m *Manager) Entry(ctx context.Context, name string) (*EntryPage, error) {
	dir, err := m.folderPath("entry", name)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, EntryFile)
	html, err := m.ops.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	page := &EntryPage{
		Folder: name,
		Path:   path,
		Title:  pageTitle(html),
		HTML:   html,
		Assets: entryAssets(html),
	}
	if m.opts.Sanitize {
		page.HTML = m.sanitizer.Sanitize(html)
		page.Sanitized = true
	}

	m.logger.Debug("Loaded extension entry", zap.String("folder", name), zap.Int("size", len(html)))
	return page, nil
}

func pageTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
