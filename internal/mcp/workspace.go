package mcp

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"syscall"
)

// Workspace resolves tool-supplied paths. With an empty root every path is
// accepted as given; otherwise relative paths are joined to the root and
// anything whose real location is outside it, symlinks followed, is
// rejected.
type Workspace struct {
	root string
}

// NewWorkspace creates a workspace rooted at root, or an unrestricted one
// when root is empty. The root must exist.
func NewWorkspace(root string) (*Workspace, error) {
	if root == "" {
		return &Workspace{}, nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace: %w", err)
	}
	return &Workspace{root: resolved}, nil
}

// Root returns the real path of the workspace root, or "" when unrestricted
func (w *Workspace) Root() string {
	return w.root
}

// Resolve maps a tool argument to the real file system path it designates
func (w *Workspace) Resolve(path string) (string, error) {
	if w.root == "" {
		return filepath.Clean(path), nil
	}

	var absPath string
	if filepath.IsAbs(path) {
		absPath = filepath.Clean(path)
	} else {
		absPath = filepath.Join(w.root, path)
	}

	resolved, err := realPath(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	rel, err := filepath.Rel(w.root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes workspace: %s", path)
	}
	return resolved, nil
}

// realPath follows symlinks in p. When p does not exist, its longest
// existing ancestor is resolved and the missing components are appended.
func realPath(p string) (string, error) {
	missing := ""
	for {
		resolved, err := filepath.EvalSymlinks(p)
		if err == nil {
			return filepath.Join(resolved, missing), nil
		}
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
			return "", err
		}
		parent := filepath.Dir(p)
		if parent == p {
			return "", err
		}
		missing = filepath.Join(filepath.Base(p), missing)
		p = parent
	}
}
