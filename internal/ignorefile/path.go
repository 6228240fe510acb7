package ignorefile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// realpath resolves symlinks in abs. Components that don't exist are kept
// as they are, on top of the resolved longest existing prefix.
func realpath(abs string) (string, error) {
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	parent := filepath.Dir(abs)
	if parent == abs {
		return abs, nil
	}
	parent, err = realpath(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(parent, filepath.Base(abs)), nil
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return realpath(abs)
}

// Resolve converts path (absolute, or relative to the working directory)
// into a slash separated path relative to the repository root and reports
// whether it is a directory.
func (u *Updater) Resolve(path string) (rel string, isDir bool, err error) {
	if path == "" {
		return "", false, &PathError{Path: path, Err: ErrEmptyPath}
	}
	abs, err := canonical(path)
	if err != nil {
		return "", false, &PathError{Path: path, Err: err}
	}
	rel, err = filepath.Rel(u.root, abs)
	if err != nil {
		return "", false, &PathError{Path: path, Err: ErrOutsideRoot}
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false, &PathError{Path: path, Err: ErrOutsideRoot}
	}
	if rel == "." {
		return "", false, &PathError{Path: path, Err: ErrRepositoryRoot}
	}

	st, err := os.Stat(abs)
	if err == nil {
		isDir = st.IsDir()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", false, &PathError{Path: path, Err: err}
	}
	return filepath.ToSlash(rel), isDir, nil
}
