package ignorefile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T, files ...string) (root string, u *Updater) {
	root = t.TempDir()
	for _, file := range files {
		path := filepath.Join(root, filepath.FromSlash(file))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, nil, 0644))
	}
	u, err := New(root)
	require.NoError(t, err)
	return root, u
}

func readIgnore(t *testing.T, u *Updater) string {
	content, err := os.ReadFile(u.Path())
	require.NoError(t, err)
	return string(content)
}

func TestAddUntracked(t *testing.T) {
	root, u := newTestRepo(t, "foo.txt", "dir/bar.txt")

	result, err := u.Add(context.Background(), []string{
		filepath.Join(root, "foo.txt"),
		filepath.Join(root, "dir", "bar.txt"),
	}, NewSet("foo.txt", "dir/bar.txt"))
	require.NoError(t, err)
	require.Equal(t, []string{"foo.txt", "dir/bar.txt"}, result.Ignored)
	require.Empty(t, result.AlreadyIgnored)
	require.Equal(t, "syntax: glob\nfoo.txt\ndir/bar.txt\n", readIgnore(t, u))
}

func TestAddTwiceReportsAlreadyIgnored(t *testing.T) {
	root, u := newTestRepo(t, "foo.txt")
	untracked := NewSet("foo.txt")
	candidates := []string{filepath.Join(root, "foo.txt")}

	_, err := u.Add(context.Background(), candidates, untracked)
	require.NoError(t, err)

	result, err := u.Add(context.Background(), candidates, untracked)
	require.NoError(t, err)
	require.Empty(t, result.Ignored)
	require.Equal(t, []string{"foo.txt"}, result.AlreadyIgnored)
	require.Equal(t, "syntax: glob\nfoo.txt\n", readIgnore(t, u))
}

func TestAddInsertsBelowMarker(t *testing.T) {
	root, u := newTestRepo(t, "baz.txt")
	require.NoError(t, os.WriteFile(u.Path(), []byte("syntax: glob\nbar.txt\n"), 0644))

	result, err := u.Add(context.Background(), []string{filepath.Join(root, "baz.txt")}, NewSet("baz.txt"))
	require.NoError(t, err)
	require.Equal(t, []string{"baz.txt"}, result.Ignored)
	require.Equal(t, "syntax: glob\nbaz.txt\nbar.txt\n", readIgnore(t, u))
}

func TestAddAppendsMarker(t *testing.T) {
	root, u := newTestRepo(t, "foo.txt")
	require.NoError(t, os.WriteFile(u.Path(), []byte("syntax: regexp\n\\.orig$\n"), 0644))

	_, err := u.Add(context.Background(), []string{filepath.Join(root, "foo.txt")}, NewSet("foo.txt"))
	require.NoError(t, err)
	require.Equal(t, "syntax: regexp\n\\.orig$\nsyntax: glob\nfoo.txt\n", readIgnore(t, u))
}

func TestAddNotUnknown(t *testing.T) {
	const content = "syntax: glob\nbar.txt\n"
	root, u := newTestRepo(t, "tracked.txt", "new.txt")
	require.NoError(t, os.WriteFile(u.Path(), []byte(content), 0644))

	_, err := u.Add(context.Background(), []string{
		filepath.Join(root, "new.txt"),
		filepath.Join(root, "tracked.txt"),
	}, NewSet("new.txt"))
	require.Error(t, err)

	var stateErr *StateError
	require.True(t, errors.As(err, &stateErr))
	require.Equal(t, "tracked.txt", stateErr.Path)
	require.Equal(t, content, readIgnore(t, u))
}

func TestAddNotUnknownDoesNotCreateFile(t *testing.T) {
	root, u := newTestRepo(t, "tracked.txt")

	_, err := u.Add(context.Background(), []string{filepath.Join(root, "tracked.txt")}, NewSet())
	require.Error(t, err)
	require.NoFileExists(t, u.Path())
}

func TestAddDirectory(t *testing.T) {
	root, u := newTestRepo(t, "build/out.bin")

	result, err := u.Add(context.Background(), []string{filepath.Join(root, "build")}, NewSet())
	require.NoError(t, err)
	require.Equal(t, []string{"build"}, result.Ignored)

	result, err = u.Add(context.Background(), []string{filepath.Join(root, "build")}, NewSet())
	require.NoError(t, err)
	require.Empty(t, result.Ignored)
	require.Equal(t, []string{"build"}, result.AlreadyIgnored)
	require.Equal(t, "syntax: glob\nbuild\n", readIgnore(t, u))
}

func TestAddRelativePaths(t *testing.T) {
	root, u := newTestRepo(t, "foo.txt", "sub/bar.txt")
	chdir(t, filepath.Join(root, "sub"))

	result, err := u.Add(context.Background(), []string{"bar.txt", "../foo.txt", "./bar.txt"}, NewSet("foo.txt", "sub/bar.txt"))
	require.NoError(t, err)
	require.Equal(t, []string{"sub/bar.txt", "foo.txt"}, result.Ignored)
	require.Equal(t, "syntax: glob\nsub/bar.txt\nfoo.txt\n", readIgnore(t, u))
}

func TestAddSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
	root, u := newTestRepo(t, "foo.txt")
	require.NoError(t, os.Symlink(filepath.Join(root, "foo.txt"), filepath.Join(root, "link.txt")))

	result, err := u.Add(context.Background(), []string{filepath.Join(root, "link.txt")}, NewSet("foo.txt"))
	require.NoError(t, err)
	require.Equal(t, []string{"foo.txt"}, result.Ignored)
}

func TestAddInvalidPaths(t *testing.T) {
	root, u := newTestRepo(t, "foo.txt")
	outside := filepath.Join(t.TempDir(), "foo.txt")

	tests := []struct {
		path string
		err  error
	}{
		{"", ErrEmptyPath},
		{root, ErrRepositoryRoot},
		{outside, ErrOutsideRoot},
	}
	for _, test := range tests {
		_, err := u.Add(context.Background(), []string{test.path}, NewSet("foo.txt"))
		require.ErrorIs(t, err, test.err)

		var pathErr *PathError
		require.ErrorAs(t, err, &pathErr)
		require.Equal(t, test.path, pathErr.Path)
	}
	require.NoFileExists(t, u.Path())
}

func TestAddNoCandidates(t *testing.T) {
	_, u := newTestRepo(t)

	result, err := u.Add(context.Background(), nil, NewSet())
	require.NoError(t, err)
	require.Empty(t, result.Ignored)
	require.Equal(t, "syntax: glob\n", readIgnore(t, u))
}

func TestAddDryRun(t *testing.T) {
	root, _ := newTestRepo(t, "foo.txt")
	u, err := New(root, WithDryRun(true))
	require.NoError(t, err)

	result, err := u.Add(context.Background(), []string{filepath.Join(root, "foo.txt")}, NewSet("foo.txt"))
	require.NoError(t, err)
	require.Equal(t, []string{"foo.txt"}, result.Ignored)
	require.NoFileExists(t, u.Path())
}

func TestAddCustomFilename(t *testing.T) {
	root, _ := newTestRepo(t, "foo.txt")
	u, err := New(root, WithFilename("ignore.txt"))
	require.NoError(t, err)
	require.Equal(t, "ignore.txt", filepath.Base(u.Path()))

	_, err = u.Add(context.Background(), []string{filepath.Join(root, "foo.txt")}, NewSet("foo.txt"))
	require.NoError(t, err)
	require.Equal(t, "syntax: glob\nfoo.txt\n", readIgnore(t, u))
}

func TestAddWaitsForLock(t *testing.T) {
	root, _ := newTestRepo(t, "foo.txt")
	lockFile := filepath.Join(root, ".hg", "hgignore.lock")
	require.NoError(t, os.MkdirAll(filepath.Dir(lockFile), 0755))

	u, err := New(root, WithLockFile(lockFile))
	require.NoError(t, err)

	other := flock.New(lockFile)
	require.NoError(t, other.Lock())

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_, err = u.Add(ctx, []string{filepath.Join(root, "foo.txt")}, NewSet("foo.txt"))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.NoFileExists(t, u.Path())

	require.NoError(t, other.Unlock())
	_, err = u.Add(context.Background(), []string{filepath.Join(root, "foo.txt")}, NewSet("foo.txt"))
	require.NoError(t, err)
	require.Equal(t, "syntax: glob\nfoo.txt\n", readIgnore(t, u))
}

func TestAddCreatesReadableFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix file modes")
	}
	root, u := newTestRepo(t, "foo.txt")

	_, err := u.Add(context.Background(), []string{filepath.Join(root, "foo.txt")}, NewSet("foo.txt"))
	require.NoError(t, err)
	st, err := os.Stat(u.Path())
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0644), st.Mode().Perm())

	_, u = newTestRepo(t)
	_, err = u.Add(context.Background(), nil, NewSet())
	require.NoError(t, err)
	st, err = os.Stat(u.Path())
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0644), st.Mode().Perm())
}

// chdir changes the working directory for the duration of the test, like
// testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
