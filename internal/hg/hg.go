// Package hg talks to the Mercurial working copy the ignore file belongs to.
package hg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/tomruk/hgignore/internal/ignorefile"
	"go.uber.org/zap"
)

const (
	DefaultCommand = "hg"
	metaDir        = ".hg"
)

var ErrNoRepository = errors.New("no repository found")

type (
	Repository interface {
		Root() string
		// Unknown returns the files that are neither tracked nor ignored,
		// relative to the root.
		Unknown(ctx context.Context) (ignorefile.Set, error)
	}

	Mercurial struct {
		root    string
		command string
		log     *zap.Logger
	}
)

// FindRoot returns the first directory, starting at dir and going up,
// that contains a .hg directory.
func FindRoot(dir string) (string, error) {
	start, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	dir = start
	for {
		if st, err := os.Stat(filepath.Join(dir, metaDir)); err == nil && st.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w in %s (or any of the parent directories)", ErrNoRepository, start)
		}
		dir = parent
	}
}

// MetaDir returns the .hg directory of the repository at root.
func MetaDir(root string) string { return filepath.Join(root, metaDir) }

// NewMercurial returns a Repository backed by the hg executable. command is
// parsed like a shell command line, so it may carry extra arguments.
func NewMercurial(root, command string, log *zap.Logger) *Mercurial {
	if command == "" {
		command = DefaultCommand
	}
	return &Mercurial{
		root:    root,
		command: command,
		log:     log,
	}
}

func (m *Mercurial) Root() string { return m.root }

func (m *Mercurial) Unknown(ctx context.Context) (ignorefile.Set, error) {
	out, err := m.run(ctx, "status", "--unknown", "--no-status", "--print0")
	if err != nil {
		return nil, err
	}
	unknown := parseStatus(out)
	m.log.Debug("unknown files listed", zap.String("root", m.root), zap.Int("count", len(unknown)))
	return unknown, nil
}

func (m *Mercurial) Version(ctx context.Context) (string, error) {
	out, err := m.run(ctx, "version", "--quiet")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Executable returns the resolved path of the hg executable.
func (m *Mercurial) Executable() (string, error) {
	w, err := m.words()
	if err != nil {
		return "", err
	}
	return exec.LookPath(w[0])
}

func (m *Mercurial) words() ([]string, error) {
	parser := shellwords.NewParser()
	parser.ParseEnv = true

	w, err := parser.Parse(m.command)
	if err != nil {
		return nil, err
	}
	if len(w) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return w, nil
}

func (m *Mercurial) run(ctx context.Context, args ...string) ([]byte, error) {
	w, err := m.words()
	if err != nil {
		return nil, err
	}
	w = append(w, args...)

	m.log.Debug("running", zap.Strings("command", w), zap.String("dir", m.root))
	cmd := exec.CommandContext(ctx, w[0], w[1:]...)
	cmd.Dir = m.root
	// Plain mode keeps the output free of user configuration such as
	// relative paths or color.
	cmd.Env = append(os.Environ(), "HGPLAIN=1")

	stderr := bytes.Buffer{}
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", strings.Join(w, " "), err, msg)
		}
		return nil, fmt.Errorf("%s: %w", strings.Join(w, " "), err)
	}
	return out, nil
}

func parseStatus(out []byte) ignorefile.Set {
	unknown := make(ignorefile.Set)
	for _, path := range strings.Split(string(out), "\x00") {
		path = strings.TrimRight(path, "\r\n")
		if path == "" {
			continue
		}
		unknown.Add(path)
	}
	return unknown
}
