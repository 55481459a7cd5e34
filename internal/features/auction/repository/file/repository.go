package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"auction-tool-backend/internal/features/auction/models"
	"auction-tool-backend/internal/features/auction/repository"
)

// fileRepository keeps the active auction set, the closed-auction archive and
// the channel bindings as whole-snapshot JSON files. Every mutation rewrites
// the affected snapshot through a temp file and rename, so a reader (or a
// restarting process) never observes a partially written snapshot.
type fileRepository struct {
	mu sync.Mutex

	snapshotPath string
	closedPath   string
	bindingsPath string

	// In-memory mirror of the active snapshot; the file is the source of
	// truth and the mirror is rebuilt from it on open.
	auctions map[string]*models.Auction
}

type snapshot struct {
	Auctions map[string]*models.Auction `json:"auctions"`
}

// New opens the file-backed repository, loading the active snapshot if one
// exists. A missing snapshot is the first-run case, not an error.
func New(snapshotPath, closedPath, bindingsPath string) (repository.Repository, error) {
	r := &fileRepository{
		snapshotPath: snapshotPath,
		closedPath:   closedPath,
		bindingsPath: bindingsPath,
		auctions:     make(map[string]*models.Auction),
	}

	snap, err := readSnapshot(snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open auction snapshot: %w", err)
	}
	if snap.Auctions != nil {
		r.auctions = snap.Auctions
	}

	return r, nil
}

func (r *fileRepository) Save(ctx context.Context, auction *models.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.auctions[auction.ID] = auction.Clone()
	return r.writeSnapshotLocked()
}

func (r *fileRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[id]; !ok {
		return nil
	}
	delete(r.auctions, id)
	return r.writeSnapshotLocked()
}

func (r *fileRepository) LoadAll(ctx context.Context) ([]*models.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.Auction, 0, len(r.auctions))
	for _, a := range r.auctions {
		out = append(out, a.Clone())
	}
	return out, nil
}

func (r *fileRepository) Archive(ctx context.Context, auction *models.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := readSnapshot(r.closedPath)
	if err != nil {
		return fmt.Errorf("failed to read closed-auction archive: %w", err)
	}
	if snap.Auctions == nil {
		snap.Auctions = make(map[string]*models.Auction)
	}
	snap.Auctions[auction.ID] = auction.Clone()

	return writeAtomic(r.closedPath, snap)
}

func (r *fileRepository) SaveBindings(ctx context.Context, bindings map[string]models.ChannelBinding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return writeAtomic(r.bindingsPath, bindings)
}

func (r *fileRepository) LoadBindings(ctx context.Context) (map[string]models.ChannelBinding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.bindingsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]models.ChannelBinding), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read channel bindings: %w", err)
	}

	bindings := make(map[string]models.ChannelBinding)
	if err := json.Unmarshal(data, &bindings); err != nil {
		return nil, fmt.Errorf("failed to decode channel bindings: %w", err)
	}
	return bindings, nil
}

func (r *fileRepository) Ping(ctx context.Context) error {
	dir := filepath.Dir(r.snapshotPath)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("snapshot directory unavailable: %w", err)
	}
	return nil
}

func (r *fileRepository) writeSnapshotLocked() error {
	return writeAtomic(r.snapshotPath, snapshot{Auctions: r.auctions})
}

func readSnapshot(path string) (snapshot, error) {
	var snap snapshot

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return snap, nil
	}
	if err != nil {
		return snap, err
	}

	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("corrupt snapshot %s: %w", path, err)
	}
	return snap, nil
}

// writeAtomic marshals v and replaces path with write-temp-then-rename
// semantics. The temp file lives in the target directory so the rename stays
// on one filesystem.
func writeAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp snapshot: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
