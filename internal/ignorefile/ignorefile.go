// Package ignorefile maintains the glob section of a Mercurial ignore file.
package ignorefile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"
)

const DefaultFilename = ".hgignore"

const (
	lockRetryDelay = 100 * time.Millisecond
	// The ignore file is tracked and shared like any other source file.
	newFileMode os.FileMode = 0644
)

type (
	Updater struct {
		root     string
		filename string
		lockFile string
		dryRun   bool
		log      *zap.Logger
	}

	Option func(u *Updater)

	Result struct {
		// Newly written entries, in the order they were given.
		Ignored []string
		// Entries that were already listed in the ignore file.
		AlreadyIgnored []string
	}
)

func WithFilename(filename string) Option { return func(u *Updater) { u.filename = filename } }

// WithLockFile makes Add hold an advisory lock on path while it reads,
// validates and rewrites the ignore file.
func WithLockFile(path string) Option { return func(u *Updater) { u.lockFile = path } }

func WithDryRun(dryRun bool) Option { return func(u *Updater) { u.dryRun = dryRun } }

func WithLogger(log *zap.Logger) Option { return func(u *Updater) { u.log = log } }

func New(repoRoot string, opts ...Option) (*Updater, error) {
	root, err := canonical(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("could not resolve repository root: %w", err)
	}
	u := &Updater{
		root:     root,
		filename: DefaultFilename,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

func (u *Updater) Root() string { return u.root }

func (u *Updater) Path() string { return filepath.Join(u.root, u.filename) }

// Add appends candidates to the glob section of the ignore file.
//
// Every candidate must either be in untracked or already be listed in the
// ignore file. Directories are not checked against untracked. If any
// candidate fails validation, the ignore file is left untouched.
func (u *Updater) Add(ctx context.Context, candidates []string, untracked Set) (*Result, error) {
	if u.lockFile != "" {
		unlock, err := u.lock(ctx)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	path := u.Path()
	f, err := Read(path)
	if err != nil {
		return nil, fmt.Errorf("could not read ignore file: %w", err)
	}

	result, err := u.validate(candidates, untracked, f)
	if err != nil {
		return nil, err
	}

	before := f.Bytes()
	f.Insert(result.Ignored...)
	after := f.Bytes()

	if u.dryRun {
		u.log.Debug("dry run, ignore file is not written", zap.String("path", path), zap.Strings("ignored", result.Ignored))
		return result, nil
	}
	if bytes.Equal(before, after) {
		u.log.Debug("ignore file is up to date", zap.String("path", path))
		return result, nil
	}

	_, statErr := os.Stat(path)
	created := errors.Is(statErr, fs.ErrNotExist)

	err = atomic.WriteFile(path, bytes.NewReader(after))
	if err != nil {
		return nil, fmt.Errorf("could not write ignore file: %w", err)
	}
	if created {
		// The temporary file behind the rename is created with 0600.
		err = os.Chmod(path, newFileMode)
		if err != nil {
			return nil, fmt.Errorf("could not set mode of ignore file: %w", err)
		}
	}
	u.log.Debug("ignore file written",
		zap.String("path", path),
		zap.Strings("ignored", result.Ignored),
		zap.Strings("alreadyIgnored", result.AlreadyIgnored),
	)
	return result, nil
}

func (u *Updater) validate(candidates []string, untracked Set, f *File) (*Result, error) {
	result := &Result{
		Ignored:        make([]string, 0, len(candidates)),
		AlreadyIgnored: make([]string, 0),
	}
	seen := make(map[string]struct{}, len(candidates))

	for _, candidate := range candidates {
		rel, isDir, err := u.Resolve(candidate)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[rel]; ok {
			continue
		}
		seen[rel] = struct{}{}

		switch {
		case f.Contains(rel):
			result.AlreadyIgnored = append(result.AlreadyIgnored, rel)
		case isDir:
			// Directories are never reported by status, add them anyway.
			result.Ignored = append(result.Ignored, rel)
		case untracked.Has(rel):
			result.Ignored = append(result.Ignored, rel)
		default:
			return nil, &StateError{Path: rel}
		}
	}
	return result, nil
}

func (u *Updater) lock(ctx context.Context) (unlock func(), err error) {
	l := flock.New(u.lockFile)
	locked, err := l.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("could not lock %s: %w", u.lockFile, err)
	}
	if !locked {
		return nil, fmt.Errorf("could not lock %s", u.lockFile)
	}
	u.log.Debug("lock acquired", zap.String("lockFile", u.lockFile))
	return func() {
		err := l.Unlock()
		if err != nil {
			u.log.Warn("could not release lock", zap.String("lockFile", u.lockFile), zap.Error(err))
		}
	}, nil
}
