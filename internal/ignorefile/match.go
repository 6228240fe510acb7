package ignorefile

import (
	"strings"

	pathspec "github.com/shibumi/go-pathspec"
)

// Matcher matches root relative paths against the glob patterns of an
// ignore file. Regexp sections are not evaluated.
type Matcher struct {
	patterns []string
}

func NewMatcher(f *File) *Matcher {
	return &Matcher{patterns: f.GlobPatterns()}
}

func LoadMatcher(path string) (*Matcher, error) {
	f, err := Read(path)
	if err != nil {
		return nil, err
	}
	return NewMatcher(f), nil
}

func (m *Matcher) Match(rel string, isDir bool) (bool, error) {
	if m == nil || len(m.patterns) == 0 {
		return false, nil
	}
	if isDir && !strings.HasSuffix(rel, "/") {
		rel += "/"
	}
	return pathspec.GitIgnore(m.patterns, "/"+rel)
}
