// Package filestore writes accepted snapshots as GeoJSON files: one global
// collection plus one collection per storm.
package filestore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/storm-track-geojson/internal/domain"
)

// GlobalFile is the name of the collection holding every feature.
const GlobalFile = "currentGeoJSON.json"

// Store writes snapshots into a directory. It implements pipeline.Loader.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New creates a Store rooted at dir. The directory is created on first write.
func New(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Load writes the global collection and each storm's collection. Every file
// is staged to a temp file first; nothing is replaced unless all of them
// were staged. Storm files are renamed into place before the global file.
func (s *Store) Load(ctx context.Context, snap domain.Snapshot) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var staged []stagedFile
	defer func() {
		for _, f := range staged {
			os.Remove(f.tmp) //nolint:errcheck // no-op after a successful rename
		}
	}()

	storms := snap.Storms()
	for _, name := range domain.StormNames(snap.Features) {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := s.stage(StormFile(name), storms[name])
		if err != nil {
			return err
		}
		staged = append(staged, f)
	}
	f, err := s.stage(GlobalFile, snap.Features)
	if err != nil {
		return err
	}
	staged = append(staged, f)

	for _, f := range staged {
		if err := os.Rename(f.tmp, f.path); err != nil {
			return fmt.Errorf("rename %s: %w", f.path, err)
		}
		s.logger.Info("saved geojson", "path", f.path, "features", f.features)
	}
	return nil
}

type stagedFile struct {
	tmp      string
	path     string
	features int
}

func (s *Store) stage(name string, fc domain.FeatureCollection) (stagedFile, error) {
	data, err := fc.MarshalJSON()
	if err != nil {
		return stagedFile{}, fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp, err := writeTemp(path, data)
	if err != nil {
		return stagedFile{}, err
	}
	return stagedFile{tmp: tmp, path: path, features: len(fc)}, nil
}

// StormFile returns the file name used for a storm's collection.
func StormFile(storm string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, storm)
	if safe == "" || safe == "." || safe == ".." || safe == strings.TrimSuffix(GlobalFile, ".json") {
		safe = "_" + safe
	}
	return safe + ".json"
}

// writeTemp writes data to a temp file next to path and returns its name.
// The caller renames it over path.
func writeTemp(path string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(format string, err error) (string, error) {
		tmp.Close()
		os.Remove(tmpName) //nolint:errcheck // best effort
		return "", fmt.Errorf(format, path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fail("write %s: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync %s: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail("chmod %s: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best effort
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return tmpName, nil
}
