package ignorefile

import "path/filepath"

// Set holds repository root relative paths in slash form.
type Set map[string]struct{}

func NewSet(paths ...string) Set {
	s := make(Set, len(paths))
	for _, path := range paths {
		s.Add(path)
	}
	return s
}

func (s Set) Add(path string) { s[filepath.ToSlash(path)] = struct{}{} }

func (s Set) Has(path string) bool {
	_, ok := s[path]
	return ok
}
