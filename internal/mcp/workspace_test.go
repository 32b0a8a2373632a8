package mcp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// realTempDir returns a temporary directory with symlinks resolved
func realTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func TestWorkspace_Resolve(t *testing.T) {
	root := realTempDir(t)
	outside := realTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.csv"), []byte("user,password\nroot,hunter2\n"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "data"), 0755))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "link")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "secret.csv"), filepath.Join(root, "secret.csv")))
	require.NoError(t, os.Symlink(filepath.Join(root, "data"), filepath.Join(root, "alias")))

	ws, err := NewWorkspace(root)
	require.NoError(t, err)
	assert.Equal(t, root, ws.Root())

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"relative", "data/sales.csv", filepath.Join(root, "data", "sales.csv"), false},
		{"missing directories", "new/dir/x.csv", filepath.Join(root, "new", "dir", "x.csv"), false},
		{"root", ".", root, false},
		{"inner dotdot", "data/../sales.csv", filepath.Join(root, "sales.csv"), false},
		{"absolute inside", filepath.Join(root, "x.csv"), filepath.Join(root, "x.csv"), false},
		{"symlink inside", "alias/x.csv", filepath.Join(root, "data", "x.csv"), false},
		{"parent", "..", "", true},
		{"escaping relative", "../x.csv", "", true},
		{"sibling prefix", root + "-other/x.csv", "", true},
		{"absolute outside", "/etc/passwd", "", true},
		{"symlinked directory", "link/secret.csv", "", true},
		{"symlinked directory missing file", "link/nope.csv", "", true},
		{"symlinked file", "secret.csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ws.Resolve(tt.path)
			if tt.wantErr {
				assert.ErrorContains(t, err, "path escapes workspace")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewWorkspace_SymlinkedRoot(t *testing.T) {
	target := realTempDir(t)
	link := filepath.Join(realTempDir(t), "ws")
	require.NoError(t, os.Symlink(target, link))

	ws, err := NewWorkspace(link)
	require.NoError(t, err)
	assert.Equal(t, target, ws.Root())

	got, err := ws.Resolve(filepath.Join(link, "x.csv"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(target, "x.csv"), got)
}

func TestNewWorkspace_MissingRoot(t *testing.T) {
	_, err := NewWorkspace(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, "failed to resolve workspace")
}

func TestWorkspace_Unrestricted(t *testing.T) {
	ws, err := NewWorkspace("")
	require.NoError(t, err)
	assert.Empty(t, ws.Root())

	got, err := ws.Resolve("../data/./x.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("..", "data", "x.csv"), got)
}
