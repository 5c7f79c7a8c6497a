package extensions

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/antchfx/htmlquery"
)

// assetRefs selects every attribute that can point at a bundled file
const assetRefs = `//script/@src | //link/@href | //img/@src | //source/@src | //audio/@src | //video/@src`

// entryAssets returns the local files an entry page references, as
// slash-separated paths relative to the page, sorted and deduplicated.
// Remote URLs, data URIs and fragment links are ignored.
func entryAssets(html string) []string {
	doc, err := htmlquery.Parse(strings.NewReader(html))
	if err != nil {
		return nil
	}
	nodes, err := htmlquery.QueryAll(doc, assetRefs)
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{}, len(nodes))
	assets := make([]string, 0, len(nodes))
	for _, node := range nodes {
		ref, ok := localRef(htmlquery.InnerText(node))
		if !ok {
			continue
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		assets = append(assets, ref)
	}
	sort.Strings(assets)
	return assets
}

func localRef(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, "//") {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Path == "" {
		return "", false
	}
	ref := path.Clean(strings.TrimPrefix(u.Path, "/"))
	if ref == "." || ref == ".." || strings.HasPrefix(ref, "../") {
		return "", false
	}
	return ref, true
}

// missingAssets returns the refs that do not exist as files under root
func missingAssets(root string, refs []string) []string {
	var missing []string
	for _, ref := range refs {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(ref)))
		if err != nil || info.IsDir() {
			missing = append(missing, ref)
		}
	}
	return missing
}
