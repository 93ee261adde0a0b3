// Package snapshot persists inventories as a flat JSON array of CIDR strings.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Flarenzy/netcollide/internal/domain"
)

const DefaultPath = "collected_ips.json"

type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Save replaces the snapshot file. The new content is written to a temporary
// file in the same directory and renamed over the old one.
func (s *FileStore) Save(_ context.Context, inv domain.Inventory) error {
	data, err := Marshal(inv)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context) (domain.Inventory, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSnapshotUnavailable, err)
	}
	inv, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSnapshotUnavailable, s.path, err)
	}
	return inv, nil
}

// Ping checks that the snapshot directory exists.
func (s *FileStore) Ping(_ context.Context) error {
	info, err := os.Stat(filepath.Dir(s.path))
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", filepath.Dir(s.path))
	}
	return nil
}

// Marshal renders inv as a JSON array indented with four spaces, followed by
// a newline. A nil inventory is written as an empty array.
func Marshal(inv domain.Inventory) ([]byte, error) {
	if inv == nil {
		inv = domain.Inventory{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	if err := enc.Encode(inv); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

func Unmarshal(data []byte) (domain.Inventory, error) {
	var inv domain.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, errors.New("snapshot is not a JSON array")
	}
	return inv, nil
}
