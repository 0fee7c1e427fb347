package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ServePrefix is the URL prefix cover files are served under.
const ServePrefix = "/uploads"

// CoverStore persists uploaded cover images on disk and hands back the path
// they will be served from. It owns nothing but files; the book record keeps
// the returned path.
type CoverStore struct {
	basePath string
}

// NewCoverStore creates a CoverStore rooted at basePath, creating the
// directory if needed.
func NewCoverStore(basePath string) (*CoverStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("could not create upload directory: %w", err)
	}
	return &CoverStore{basePath: basePath}, nil
}

// Save writes the upload to disk under a timestamped name so concurrent
// uploads of the same filename cannot collide, and returns the served path.
func (s *CoverStore) Save(originalName string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitize(originalName))

	f, err := os.Create(filepath.Join(s.basePath, name))
	if err != nil {
		return "", fmt.Errorf("could not create cover file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("could not write cover file: %w", err)
	}
	return ServePrefix + "/" + name, nil
}

// Remove deletes the file behind a served path. Missing files are not an
// error; the sweeper may have gotten there first.
func (s *CoverStore) Remove(servedPath string) error {
	name := strings.TrimPrefix(servedPath, ServePrefix+"/")
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("not a cover path: %s", servedPath)
	}
	err := os.Remove(filepath.Join(s.basePath, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns the served paths of every stored cover file along with its
// modification time.
func (s *CoverStore) List() (map[string]time.Time, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, err
	}
	files := make(map[string]time.Time, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files[ServePrefix+"/"+entry.Name()] = info.ModTime()
	}
	return files, nil
}

// sanitize strips path separators and whitespace from an uploaded filename.
func sanitize(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == string(filepath.Separator) {
		return "cover"
	}
	return name
}
