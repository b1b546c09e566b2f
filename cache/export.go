package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// SnapshotVersion identifies the snapshot file layout.
const SnapshotVersion = "1.0"

// Snapshot is the on-disk form of a translation store. Keys are "hash:LANG".
type Snapshot struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []SnapshotEntry   `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type SnapshotEntry struct {
	Key         string `json:"key"`
	Translation string `json:"translation"`
}

// Exporter writes cache snapshots.
type Exporter struct {
	cache TranslationCache
}

func NewExporter(cache TranslationCache) *Exporter {
	return &Exporter{cache: cache}
}

// Export writes the cache contents to w as indented JSON, sorted by key.
func (e *Exporter) Export(w io.Writer, metadata map[string]string) error {
	lister, ok := e.cache.(Lister)
	if !ok {
		return fmt.Errorf("cache type %T does not support export", e.cache)
	}

	stored := lister.Entries()
	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    make([]SnapshotEntry, 0, len(stored)),
		Metadata:   metadata,
	}
	for key, translation := range stored {
		snap.Entries = append(snap.Entries, SnapshotEntry{Key: key, Translation: translation})
	}
	sort.Slice(snap.Entries, func(i, j int) bool { return snap.Entries[i].Key < snap.Entries[j].Key })

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// ExportToFile writes a snapshot next to path and renames it into place,
// so an interrupted export never truncates an existing snapshot.
func (e *Exporter) ExportToFile(path string, metadata map[string]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".csvlate-cache-*")
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := e.Export(tmp, metadata); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Importer loads cache snapshots.
type Importer struct {
	cache TranslationCache
}

func NewImporter(cache TranslationCache) *Importer {
	return &Importer{cache: cache}
}

// ImportResult counts what a snapshot contributed to the store.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Failed   int // Malformed keys or store errors
}

// Import reads a snapshot from r and loads its entries into the cache.
func (i *Importer) Import(r io.Reader) (*ImportResult, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %q", snap.Version)
	}

	res := &ImportResult{Version: snap.Version, Metadata: snap.Metadata}
	for _, e := range snap.Entries {
		_, _, ok := SplitKey(e.Key)
		if !ok || i.cache.Set(e.Key, e.Translation) != nil {
			res.Failed++
			continue
		}
		res.Imported++
	}
	return res, nil
}

// ImportFromFile imports a snapshot file. A missing file imports nothing.
func (i *Importer) ImportFromFile(path string) (*ImportResult, error) {
	f, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return &ImportResult{Version: SnapshotVersion}, nil
	case err != nil:
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	return i.Import(f)
}
