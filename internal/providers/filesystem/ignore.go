package filesystem

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

const (
	// ignoreFile is honoured in every directory of the copy source
	ignoreFile = ".ignore"
	// gitIgnoreFile only applies when the source sits inside a git work tree
	gitIgnoreFile = ".gitignore"
)

type ignoreRule struct {
	base    string // slash-separated directory the rule was read from, "" for the root
	pattern string
	dirOnly bool
}

// ignoreMatcher decides which entries CopyTree leaves out.
// Rules are added while the walk descends, so access is guarded.
type ignoreMatcher struct {
	includeHidden bool
	files         []string
	logger        *zap.Logger

	mu    sync.RWMutex
	rules []ignoreRule
}

func (o *Operator) newIgnoreMatcher(root string) *ignoreMatcher {
	m := &ignoreMatcher{includeHidden: o.opts.IncludeHidden, logger: o.logger}
	for _, p := range o.opts.IgnorePatterns {
		m.add("", p)
	}

	if !o.opts.RespectIgnoreFiles {
		return m
	}
	if insideGitRepo(root) {
		m.files = append(m.files, gitIgnoreFile)
	}
	m.files = append(m.files, ignoreFile)
	m.load(root, "")
	return m
}

// load reads the ignore files found in dir, whose path relative to the copy
// root is rel
func (m *ignoreMatcher) load(dir, rel string) {
	for _, name := range m.files {
		file := filepath.Join(dir, name)
		f, err := os.Open(file)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			m.add(rel, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			m.logger.Warn("Failed to read ignore file", zap.String("path", file), zap.Error(err))
		}
		f.Close()
	}
}

// add converts a gitignore-style line into a doublestar rule scoped to base.
// Negations are not supported and are dropped.
func (m *ignoreMatcher) add(base, line string) {
	p := strings.TrimSpace(line)
	if p == "" || strings.HasPrefix(p, "#") {
		return
	}
	if strings.HasPrefix(p, "!") {
		m.logger.Debug("Negated ignore pattern not supported", zap.String("pattern", p))
		return
	}

	rule := ignoreRule{base: base}
	if strings.HasSuffix(p, "/") {
		rule.dirOnly = true
		p = strings.TrimRight(p, "/")
	}

	// Unanchored patterns without a slash match at any depth
	if strings.HasPrefix(p, "/") {
		p = strings.TrimLeft(p, "/")
	} else if !strings.Contains(p, "/") && !strings.HasPrefix(p, "**") {
		p = "**/" + p
	}

	if p == "" || !doublestar.ValidatePattern(p) {
		m.logger.Warn("Invalid ignore pattern", zap.String("pattern", line))
		return
	}
	rule.pattern = p

	m.mu.Lock()
	m.rules = append(m.rules, rule)
	m.mu.Unlock()
}

// Match reports whether rel (relative to the copy root) is excluded
func (m *ignoreMatcher) Match(rel string, isDir bool) bool {
	rel = filepath.ToSlash(rel)
	if !m.includeHidden && strings.HasPrefix(path.Base(rel), ".") {
		return true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rules {
		if r.dirOnly && !isDir {
			continue
		}
		target := rel
		if r.base != "" {
			if !strings.HasPrefix(rel, r.base+"/") {
				continue
			}
			target = rel[len(r.base)+1:]
		}
		if ok, _ := doublestar.Match(r.pattern, target); ok {
			return true
		}
	}
	return false
}

// Descends reports whether nested ignore files need loading
func (m *ignoreMatcher) Descends() bool {
	return len(m.files) > 0
}

func insideGitRepo(dir string) bool {
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
}
