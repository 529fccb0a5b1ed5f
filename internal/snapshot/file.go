package snapshot

import (
	"context"
	"os"
)

// FileStore keeps the snapshot as a JSON file next to the client.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Save(ctx context.Context, snap Snapshot) error {
	raw, err := encode(snap)
	if err != nil {
		return err
	}

	return os.WriteFile(f.path, raw, 0o600)
}

func (f *FileStore) Load(ctx context.Context) (Snapshot, bool, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}

	snap, ok := decode(raw)
	return snap, ok, nil
}

func (f *FileStore) Clear(ctx context.Context) error {
	err := os.Remove(f.path)
	if os.IsNotExist(err) {
		return nil
	}

	return err
}
