// Package cache remembers per-file scan results between runs so unchanged
// files are not rescanned under an unchanged configuration.
package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	xxhash "github.com/cespare/xxhash/v2"

	"github.com/redactyl/sekret/internal/types"
)

// Entry is the cached outcome of scanning one file.
type Entry struct {
	// Hash is the content hash of the file when it was scanned.
	Hash    string                  `json:"hash"`
	Secrets []types.PotentialSecret `json:"secrets"`
}

type DB struct {
	// Fingerprint identifies the settings the entries were computed under.
	Fingerprint string           `json:"fingerprint"`
	Entries     map[string]Entry `json:"entries"`
}

const (
	gitFileName  = "sekretcache.json"
	rootFileName = ".sekretcache.json"
)

func defaultPath(root string) string {
	// Prefer .git so the cache is never committed by accident.
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, gitFileName)
	}
	return filepath.Join(root, rootFileName)
}

// IsCacheFile reports whether path names a cache file, so walkers can skip it.
func IsCacheFile(path string) bool {
	return filepath.Base(path) == rootFileName
}

// Load reads the cache under root. Entries computed under a different
// fingerprint are discarded. A missing or unreadable cache yields an empty DB
// alongside the error.
func Load(root, fingerprint string) (DB, error) {
	empty := DB{Fingerprint: fingerprint, Entries: map[string]Entry{}}
	f, err := os.ReadFile(defaultPath(root))
	if err != nil {
		return empty, err
	}
	var db DB
	if err := json.Unmarshal(f, &db); err != nil {
		return empty, err
	}
	if db.Fingerprint != fingerprint || db.Entries == nil {
		return empty, nil
	}
	return db, nil
}

func Save(root string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	p := defaultPath(root)
	b, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0644)
}

// Lookup returns the cached secrets for path when its content hash matches.
func (db DB) Lookup(path, hash string) ([]types.PotentialSecret, bool) {
	e, ok := db.Entries[path]
	if !ok || e.Hash != hash {
		return nil, false
	}
	return e.Secrets, true
}

// Hash is the content hash stored in entries and fingerprints.
func Hash(b []byte) string {
	return strconv.FormatUint(xxhash.Sum64(b), 16)
}
