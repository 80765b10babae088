package fs

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"strings"
)

// ignorePattern is a parsed ignore pattern with its matching strategy.
type ignorePattern struct {
	pattern   string
	matchPath bool // match the whole relative path rather than the basename
}

// IgnoreMatcher decides which workspace paths are invisible to the engine.
// Patterns without '/' match a basename at any depth; patterns with '/'
// match the full slash-separated path from the root. A directory that
// matches hides everything beneath it.
type IgnoreMatcher struct {
	patterns []ignorePattern
}

// NewIgnoreMatcher parses raw patterns, skipping blank lines and '#'
// comments. A leading "/" anchors a pattern to the root.
func NewIgnoreMatcher(rawPatterns []string) *IgnoreMatcher {
	var patterns []ignorePattern
	for _, raw := range rawPatterns {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		raw = strings.TrimSuffix(raw, "/")
		anchored := strings.HasPrefix(raw, "/")
		raw = strings.TrimPrefix(raw, "/")
		if raw == "" {
			continue
		}
		patterns = append(patterns, ignorePattern{
			pattern:   raw,
			matchPath: anchored || strings.Contains(raw, "/"),
		})
	}
	return &IgnoreMatcher{patterns: patterns}
}

// Match reports whether rel, a slash-separated path relative to the root,
// is ignored.
func (m *IgnoreMatcher) Match(rel string) bool {
	if len(m.patterns) == 0 {
		return false
	}

	base := path.Base(rel)
	for _, p := range m.patterns {
		subject := base
		if p.matchPath {
			subject = rel
		}
		// A malformed pattern never matches.
		if ok, err := path.Match(p.pattern, subject); err == nil && ok {
			return true
		}
	}
	return false
}

// ParseIgnoreFile reads one pattern per line. A missing file yields no
// patterns and no error.
func ParseIgnoreFile(filename string) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		patterns = append(patterns, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return patterns, nil
}
