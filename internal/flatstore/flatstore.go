// Package flatstore is the fallback persistence backend: one JSON file
// per collection, written whole on every save, plus a scalars file for
// individual settings. It has no indexes and no partial writes; it
// exists so the tracker keeps working when the SQLite backend cannot
// be opened.
package flatstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const scalarsFile = "scalars"

// FlatStore persists whole collections as JSON files under a directory.
type FlatStore struct {
	dir string

	mu     sync.Mutex
	lastID int64
}

// New creates a FlatStore rooted at dir, creating the directory if needed.
func New(dir string) (*FlatStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating flat store directory %s: %w", dir, err)
	}
	return &FlatStore{dir: dir}, nil
}

// Dir returns the directory holding the flat files.
func (fs *FlatStore) Dir() string {
	return fs.dir
}

// Save serializes records and writes the entire collection as one unit,
// overwriting any prior value. The write is atomic (temp file + rename)
// so a crash never leaves a half-written collection behind.
func (fs *FlatStore) Save(collection string, records any) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing collection %q: %w", collection, err)
	}
	return fs.writeFile(collection, data)
}

// Load deserializes the collection into dest. A missing or unparseable
// file is not an error: dest is left untouched, which for a slice
// destination means the collection reads as empty.
func (fs *FlatStore) Load(collection string, dest any) error {
	data, err := os.ReadFile(fs.path(collection))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading collection %q: %w", collection, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// Corrupt data reads as empty rather than failing the caller.
		return nil
	}
	return nil
}

// Has reports whether a non-empty file exists for the collection.
func (fs *FlatStore) Has(collection string) bool {
	info, err := os.Stat(fs.path(collection))
	return err == nil && info.Size() > 0
}

// Remove deletes the collection file. Removing a missing collection is
// not an error.
func (fs *FlatStore) Remove(collection string) error {
	err := os.Remove(fs.path(collection))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing collection %q: %w", collection, err)
	}
	return nil
}

// SetScalar stores a single setting under key, independent of the
// collection files.
func (fs *FlatStore) SetScalar(key string, value any) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	scalars, err := fs.readScalars()
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding scalar %q: %w", key, err)
	}
	scalars[key] = json.RawMessage(encoded)
	return fs.writeScalars(scalars)
}

// GetScalar decodes the setting stored under key into dest. Returns
// false with no error when the key is absent.
func (fs *FlatStore) GetScalar(key string, dest any) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	scalars, err := fs.readScalars()
	if err != nil {
		return false, err
	}
	raw, ok := scalars[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decoding scalar %q: %w", key, err)
	}
	return true, nil
}

// DeleteScalar removes the setting stored under key.
func (fs *FlatStore) DeleteScalar(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	scalars, err := fs.readScalars()
	if err != nil {
		return err
	}
	if _, ok := scalars[key]; !ok {
		return nil
	}
	delete(scalars, key)
	return fs.writeScalars(scalars)
}

// Scalars returns a copy of every stored scalar, keyed by name.
func (fs *FlatStore) Scalars() (map[string]json.RawMessage, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.readScalars()
}

// NextID generates a locally unique record id from the wall clock.
// Ids are microsecond-scaled milliseconds with a monotonic bump, so
// rapid successive calls within one session never collide.
func (fs *FlatStore) NextID() int64 {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	id := time.Now().UnixMilli() * 1000
	if id <= fs.lastID {
		id = fs.lastID + 1
	}
	fs.lastID = id
	return id
}

func (fs *FlatStore) path(collection string) string {
	return filepath.Join(fs.dir, collection+".json")
}

// writeFile writes data to the collection file atomically.
func (fs *FlatStore) writeFile(collection string, data []byte) error {
	target := fs.path(collection)
	tmp, err := os.CreateTemp(fs.dir, collection+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %q: %w", collection, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing collection %q: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file for %q: %w", collection, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing collection %q: %w", collection, err)
	}
	return nil
}

func (fs *FlatStore) readScalars() (map[string]json.RawMessage, error) {
	scalars := make(map[string]json.RawMessage)
	data, err := os.ReadFile(fs.path(scalarsFile))
	if os.IsNotExist(err) {
		return scalars, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading scalars: %w", err)
	}
	if err := json.Unmarshal(data, &scalars); err != nil {
		// Corrupt scalars read as empty, matching collection behavior.
		return make(map[string]json.RawMessage), nil
	}
	return scalars, nil
}

func (fs *FlatStore) writeScalars(scalars map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(scalars, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing scalars: %w", err)
	}
	return fs.writeFile(scalarsFile, data)
}
