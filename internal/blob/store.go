// Package blob is a content-addressed byte store on the filesystem.
// Keys are sha256 hex of the content, so identical payloads land on the
// same file and are written at most once.
package blob

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrNotFound = errors.New("blob not found")

// Checksum returns the sha256 hex digest used as a blob key.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Store is one namespace of the blob store. Inputs and outputs are
// independent Stores rooted in sibling directories; they share the
// hashing scheme and nothing else.
type Store struct {
	dir string
	ext string
}

func NewStore(dir, ext string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create dir %s: %w", dir, err)
	}
	return &Store{dir: dir, ext: ext}, nil
}

// Path returns where the blob for checksum lives (or would live).
func (s *Store) Path(checksum string) string {
	return filepath.Join(s.dir, checksum+s.ext)
}

// Put writes data under its own checksum and returns the checksum.
// Idempotent: if the key already exists the write is skipped.
func (s *Store) Put(data []byte) (string, error) {
	checksum := Checksum(data)
	path := s.Path(checksum)

	if _, err := os.Stat(path); err == nil {
		return checksum, nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("blob: write %s: %w", checksum, err)
	}
	return checksum, nil
}

func (s *Store) Get(checksum string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(checksum))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, checksum)
		}
		return nil, fmt.Errorf("blob: read %s: %w", checksum, err)
	}
	return data, nil
}

// Exists reports whether a blob is present without reading it.
func (s *Store) Exists(checksum string) bool {
	_, err := os.Stat(s.Path(checksum))
	return err == nil
}
