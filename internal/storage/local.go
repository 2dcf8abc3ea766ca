// Package storage persists uploaded submission bytes.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrTooLarge is returned by Save when the payload exceeds the size limit.
var ErrTooLarge = errors.New("storage: payload exceeds size limit")

// Store is the byte store behind file attachments.
type Store interface {
	// Save writes r under name and returns the storage path and size.
	Save(name string, r io.Reader, maxBytes int64) (string, int64, error)
	// Remove deletes the bytes at path. A missing file is not an error.
	Remove(path string) error
	// URL returns the public download URL for a stored name.
	URL(name string) string
}

// LocalStore keeps files in a directory that is also served read-only
// under urlPrefix.
type LocalStore struct {
	dir           string
	publicBaseURL string
	urlPrefix     string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir, publicBaseURL, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &LocalStore{
		dir:           dir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		urlPrefix:     "/" + strings.Trim(urlPrefix, "/"),
	}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(name string, r io.Reader, maxBytes int64) (string, int64, error) {
	if name == "" || filepath.Base(name) != name {
		return "", 0, fmt.Errorf("storage: invalid name %q", name)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create %s: %w", name, err)
	}

	src := r
	if maxBytes > 0 {
		src = io.LimitReader(r, maxBytes+1)
	}

	size, err := io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil && maxBytes > 0 && size > maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		if errors.Is(err, ErrTooLarge) {
			return "", 0, err
		}
		return "", 0, fmt.Errorf("failed to write %s: %w", name, err)
	}

	return path, size, nil
}

func (s *LocalStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

func (s *LocalStore) URL(name string) string {
	return s.publicBaseURL + s.urlPrefix + "/" + url.PathEscape(name)
}
