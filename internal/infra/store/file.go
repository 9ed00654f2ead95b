// Package store provides the snapshot store implementations: a JSON file for
// single-box deployments and a single-row Postgres table when the bot shares
// a database.
package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"subshare-bot/internal/domain/subshare"
	"subshare-bot/internal/pkg/errs"
	"subshare-bot/internal/usecase/shared"
)

// FileStore keeps the authoritative snapshot in memory and persists every
// committed mutation to a JSON document. Writes go through a temp file and
// rename so a crash mid-write never leaves a torn snapshot behind.
type FileStore struct {
	mu      sync.Mutex
	path    string
	current *subshare.Snapshot
}

var _ shared.SnapshotStore = (*FileStore)(nil)

// NewFileStore opens the store, creating an empty snapshot when the file
// does not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fs.current = subshare.NewSnapshot()
		if err := fs.write(fs.current); err != nil {
			return nil, err
		}
		return fs, nil
	} else if err != nil {
		return nil, errs.Wrap(err, "stat snapshot file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(err, "read snapshot file")
	}
	snap := subshare.NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, errs.Wrap(err, "decode snapshot file")
	}
	snap.Normalize()
	fs.current = snap
	return fs, nil
}

func (fs *FileStore) Load(ctx context.Context) (*subshare.Snapshot, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.current.Clone()
}

// Update applies fn to a copy of the current snapshot under the store lock.
// The copy becomes authoritative only after it reached disk; a failed fn or
// a write fault leaves the previous snapshot in place.
func (fs *FileStore) Update(ctx context.Context, fn func(*subshare.Snapshot) error) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	snap, err := fs.current.Clone()
	if err != nil {
		return err
	}
	if err := fn(snap); err != nil {
		if errs.Is(err, shared.ErrNoChange) {
			return nil
		}
		return err
	}
	if err := fs.write(snap); err != nil {
		return err
	}
	fs.current = snap
	return nil
}

func (fs *FileStore) write(snap *subshare.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errs.Wrap(err, "encode snapshot")
	}
	dir := filepath.Dir(fs.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return errs.Wrap(err, "create temp snapshot")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errs.Wrap(err, "write temp snapshot")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errs.Wrap(err, "close temp snapshot")
	}
	if err := os.Rename(tmpName, fs.path); err != nil {
		os.Remove(tmpName)
		return errs.Wrap(err, "publish snapshot")
	}
	return nil
}
