// # internal/resolver/fstree.go
package resolver

import (
	"os"
	"path/filepath"
)

// FileTree is the walker's view of the crate on disk. Paths are always
// crate-root-relative and slash-separated, so tests can substitute an
// in-memory fixture tree.
type FileTree interface {
	Exists(rel string) bool
	ReadFile(rel string) ([]byte, error)
}

// DirTree serves a real directory.
type DirTree struct {
	root string
}

func NewDirTree(root string) *DirTree {
	return &DirTree{root: root}
}

func (t *DirTree) Root() string {
	return t.root
}

func (t *DirTree) abs(rel string) string {
	return filepath.Join(t.root, filepath.FromSlash(rel))
}

func (t *DirTree) Exists(rel string) bool {
	info, err := os.Stat(t.abs(rel))
	return err == nil && !info.IsDir()
}

func (t *DirTree) ReadFile(rel string) ([]byte, error) {
	return os.ReadFile(t.abs(rel))
}

// MemTree is a fixture tree for tests.
type MemTree struct {
	files map[string][]byte
}

func NewMemTree() *MemTree {
	return &MemTree{files: make(map[string][]byte)}
}

func (t *MemTree) Add(rel, content string) *MemTree {
	t.files[rel] = []byte(content)
	return t
}

func (t *MemTree) Exists(rel string) bool {
	_, ok := t.files[rel]
	return ok
}

func (t *MemTree) ReadFile(rel string) ([]byte, error) {
	data, ok := t.files[rel]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}
