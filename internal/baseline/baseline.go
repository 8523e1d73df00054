// Package baseline reads and writes baseline files: the settings a scan ran
// with plus the hashed secrets it reported.
package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/blang/semver/v4"

	"github.com/redactyl/sekret/internal/settings"
	"github.com/redactyl/sekret/internal/types"
)

// Version is the baseline format version written by this build. Baselines
// with a newer major version are rejected.
var Version = semver.MustParse("1.0.0")

var (
	ErrUnsupportedVersion = errors.New("unsupported baseline version")
	ErrInvalidBaseline    = errors.New("invalid baseline")
)

// Baseline is the on-disk document. Results are keyed by filename.
type Baseline struct {
	Version     string                             `json:"version"`
	PluginsUsed []settings.Entry                   `json:"plugins_used"`
	FiltersUsed []settings.Entry                   `json:"filters_used"`
	Results     map[string][]types.PotentialSecret `json:"results"`
	GeneratedAt string                             `json:"generated_at"`
}

// New captures the active settings and secrets.
func New(secrets []types.PotentialSecret) (*Baseline, error) {
	cfg, err := settings.Get().JSON()
	if err != nil {
		return nil, err
	}
	b := &Baseline{
		Version:     Version.String(),
		PluginsUsed: cfg.PluginsUsed,
		FiltersUsed: cfg.FiltersUsed,
		Results:     map[string][]types.PotentialSecret{},
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, s := range secrets {
		b.Results[s.Filename] = append(b.Results[s.Filename], s)
	}
	for _, list := range b.Results {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].LineNumber != list[j].LineNumber {
				return list[i].LineNumber < list[j].LineNumber
			}
			return list[i].HashedSecret < list[j].HashedSecret
		})
	}
	return b, nil
}

// Load reads the baseline at path.
func Load(path string) (*Baseline, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var b Baseline
	if err := json.Unmarshal(f, &b); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidBaseline, path, err)
	}
	if b.Version != "" {
		v, err := semver.ParseTolerant(b.Version)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: version %q: %v", ErrInvalidBaseline, path, b.Version, err)
		}
		if v.Major > Version.Major {
			return nil, fmt.Errorf("%w: %s is %s, this build reads %d.x", ErrUnsupportedVersion, path, v, Version.Major)
		}
	}
	if b.Results == nil {
		b.Results = map[string][]types.PotentialSecret{}
	}
	return &b, nil
}

// Save writes b to path as indented JSON.
func Save(path string, b *Baseline) error {
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(buf, '\n'), 0644)
}

// Config returns the settings portion for settings.ConfigureFromBaseline.
// Keys missing from the file stay nil so they leave settings untouched.
func (b *Baseline) Config() settings.Config {
	return settings.Config{PluginsUsed: b.PluginsUsed, FiltersUsed: b.FiltersUsed}
}

// Contains reports whether s was already recorded for its file.
func (b *Baseline) Contains(s types.PotentialSecret) bool {
	for _, known := range b.Results[s.Filename] {
		if known.HashedSecret == s.HashedSecret && known.Type == s.Type {
			return true
		}
	}
	return false
}

// FilterNew returns the secrets not recorded in b.
func FilterNew(secrets []types.PotentialSecret, b *Baseline) []types.PotentialSecret {
	var out []types.PotentialSecret
	for _, s := range secrets {
		if !b.Contains(s) {
			out = append(out, s)
		}
	}
	return out
}
