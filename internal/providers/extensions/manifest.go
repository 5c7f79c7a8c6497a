package extensions

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Manifest file names tried in order before falling back to any *.json
var manifestNames = []string{
	"extension.json",
	"extension.yaml",
	"extension.yml",
	"extension.toml",
}

// ParseManifest decodes a manifest, picking the format from the file extension
func ParseManifest(name string, data []byte) (*Manifest, error) {
	var m Manifest
	var err error

	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		err = sonic.Unmarshal(data, &m)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	case ".toml":
		err = toml.Unmarshal(data, &m)
	default:
		return nil, fmt.Errorf("unsupported manifest format: %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(name), err)
	}

	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return nil, fmt.Errorf("%s: name is required", filepath.Base(name))
	}
	return &m, nil
}

// findManifest returns the manifest file name in dir, or "" when there is none
func findManifest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	present := make(map[string]bool, len(entries))
	var jsonFiles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		present[e.Name()] = true
		if strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			jsonFiles = append(jsonFiles, e.Name())
		}
	}

	for _, name := range manifestNames {
		if present[name] {
			return name, nil
		}
	}
	if len(jsonFiles) > 0 {
		sort.Strings(jsonFiles)
		return jsonFiles[0], nil
	}
	return "", nil
}

// loadManifest reads and parses the manifest in dir
func loadManifest(dir string) (string, *Manifest, error) {
	name, err := findManifest(dir)
	if err != nil || name == "" {
		return "", nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return name, nil, err
	}

	m, err := ParseManifest(name, data)
	return name, m, err
}
