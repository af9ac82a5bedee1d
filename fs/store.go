// Package fs provides the atomic on-disk PageStore used by static export.
package fs

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/llmready"
	"github.com/google/uuid"
)

// Ensure FileStore implements llmready.PageStore at compile time.
var _ llmready.PageStore = (*FileStore)(nil)

// FileStore implements llmready.PageStore with atomic update semantics.
// Files are written to a unique temporary sibling of the output directory
// and moved into place on Commit.
type FileStore struct {
	baseDir string
	name    string
	tmpName string
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
		tmpName: "." + name + "-" + uuid.NewString() + ".tmp",
	}
}

// TempDir returns the directory pending files are written to.
func (s *FileStore) TempDir() string {
	return filepath.Join(s.baseDir, s.tmpName)
}

// Dir returns the output directory.
func (s *FileStore) Dir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes the page to the markdown path its URL is served under.
func (s *FileStore) Save(ctx context.Context, page *llmready.Page) error {
	relPath, err := URLToPath(page.URL)
	if err != nil {
		return err
	}
	return s.SaveFile(ctx, relPath, page.Content)
}

// SaveFile writes content to name, relative to the output directory.
func (s *FileStore) SaveFile(ctx context.Context, name, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tempDir := s.TempDir()
	fullPath := filepath.Join(tempDir, filepath.FromSlash(name))
	if !strings.HasPrefix(fullPath, tempDir+string(filepath.Separator)) {
		return llmready.Errorf(llmready.EINVALID, "path traversal in %q", name)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// Commit replaces the output directory with the pending files.
func (s *FileStore) Commit() error {
	// Nothing saved still produces an (empty) output directory.
	if err := os.MkdirAll(s.TempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.Dir()); err != nil {
		return err
	}
	return os.Rename(s.TempDir(), s.Dir())
}

// Abort discards the pending files.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.TempDir())
}

// URLToPath converts a page URL to the relative file path of its markdown
// variant, mirroring the ".md" URLs the middleware serves.
// Example: https://example.com/docs/api/users → docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", llmready.Errorf(llmready.EINVALID, "invalid page url %q: %v", rawURL, err)
	}
	return strings.TrimPrefix(llmready.MarkdownPath(u.Path), "/"), nil
}
