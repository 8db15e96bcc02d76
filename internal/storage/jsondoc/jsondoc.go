// Package jsondoc persists the catalog documents as flat JSON arrays on
// disk. Writes are atomic (temp file + rename), reads of a missing or
// broken document yield an empty list. There is no locking: two concurrent
// read-modify-write cycles on the same document race and the later write
// wins. That limitation is accepted for a single-operator tool.
package jsondoc

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	gocache "github.com/patrickmn/go-cache"

	"gallery_admin/internal/domain/apperr"
	"gallery_admin/internal/metrics"
)

type Kind string

const (
	KindAlbums  Kind = "albums.json"
	KindTags    Kind = "tags.json"
	KindGallery Kind = "gallery.json"
)

// Store reads and writes the JSON documents under a single data directory.
// A parsed-document cache fronts disk reads; every write refreshes it, so
// the cache never serves anything older than the last write of this process.
type Store struct {
	dir   string
	cache *gocache.Cache
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	return &Store{
		dir:   dir,
		cache: gocache.New(gocache.NoExpiration, 0),
	}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Path returns the on-disk location of a document.
func (s *Store) Path(kind Kind) string {
	return filepath.Join(s.dir, string(kind))
}

// Read loads a document. A missing file, unreadable file or malformed JSON
// is treated as "document does not exist yet" and yields an empty slice.
func Read[T any](ctx context.Context, s *Store, kind Kind) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if v, ok := s.cache.Get(string(kind)); ok {
		if records, ok := v.([]T); ok {
			out := make([]T, len(records))
			copy(out, records)
			return out, nil
		}
	}

	raw, err := os.ReadFile(s.Path(kind))
	if err != nil {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return []T{}, nil
	}
	if records == nil {
		records = []T{}
	}

	s.cache.Set(string(kind), records, gocache.NoExpiration)

	out := make([]T, len(records))
	copy(out, records)

	return out, nil
}

// Write atomically replaces a document: serialize to a sibling temp file,
// fsync, then rename over the target. A crash mid-write never corrupts the
// live document.
func Write[T any](ctx context.Context, s *Store, kind Kind, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if records == nil {
		records = []T{}
	}

	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return apperr.IO("serialize "+string(kind), err)
	}

	tmp, err := os.CreateTemp(s.dir, string(kind)+".tmp-*")
	if err != nil {
		return apperr.IO("create temp for "+string(kind), err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return apperr.IO("write temp for "+string(kind), err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return apperr.IO("sync temp for "+string(kind), err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return apperr.IO("close temp for "+string(kind), err)
	}

	if err := os.Rename(tmp.Name(), s.Path(kind)); err != nil {
		os.Remove(tmp.Name())
		return apperr.IO("replace "+string(kind), err)
	}

	cached := make([]T, len(records))
	copy(cached, records)
	s.cache.Set(string(kind), cached, gocache.NoExpiration)

	metrics.DocumentWritesTotal.WithLabelValues(string(kind)).Inc()

	return nil
}
