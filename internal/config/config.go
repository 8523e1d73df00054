package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/redactyl/sekret/internal/settings"
)

// EnvPrefix marks environment variables that override file configuration,
// e.g. SEKRET_VERBOSITY=2 or SEKRET_EXCLUDE="docs/**,*.md".
const EnvPrefix = "SEKRET_"

var (
	ErrNoLocalConfig  = errors.New("no local config")
	ErrNoGlobalConfig = errors.New("no global config")
)

// FileConfig is the on-disk configuration shape. plugins_used and
// filters_used use the baseline entry format; nil means the key was absent.
type FileConfig struct {
	PluginsUsed     []settings.Entry `koanf:"plugins_used" yaml:"plugins_used"`
	FiltersUsed     []settings.Entry `koanf:"filters_used" yaml:"filters_used"`
	Include         []string         `koanf:"include" yaml:"include,omitempty"`
	Exclude         []string         `koanf:"exclude" yaml:"exclude,omitempty"`
	MaxBytes        *int64           `koanf:"max_bytes" yaml:"max_bytes,omitempty"`
	DefaultExcludes *bool            `koanf:"default_excludes" yaml:"default_excludes,omitempty"`
	Baseline        *string          `koanf:"baseline" yaml:"baseline,omitempty"`
	Verbosity       *int             `koanf:"verbosity" yaml:"verbosity,omitempty"`
	NoColor         *bool            `koanf:"no_color" yaml:"no_color,omitempty"`
}

// Settings returns the settings portion of the file.
func (fc FileConfig) Settings() settings.Config {
	return settings.Config{PluginsUsed: fc.PluginsUsed, FiltersUsed: fc.FiltersUsed}
}

var localNames = []string{".sekret.yml", ".sekret.yaml", "sekret.yml", "sekret.yaml"}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return FileConfig{}, fmt.Errorf("load %s: %w", path, err)
	}
	return decode(k)
}

// LocalPath returns the first repo-local config file present in repoRoot.
// It supports .sekret.yml/.yaml and sekret.yml/.yaml, in that order.
func LocalPath(repoRoot string) (string, bool) {
	for _, name := range localNames {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// LoadLocal searches for a repo-local config file in the given root.
func LoadLocal(repoRoot string) (FileConfig, error) {
	p, ok := LocalPath(repoRoot)
	if !ok {
		return FileConfig{}, ErrNoLocalConfig
	}
	return LoadFile(p)
}

// GlobalPath returns the global config location under XDG_CONFIG_HOME, or
// ~/.config when it is unset.
func GlobalPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return "", errors.New("no config dir")
	}
	return filepath.Join(base, "sekret", "config.yml"), nil
}

// LoadGlobal loads the global config file.
func LoadGlobal() (FileConfig, error) {
	p, err := GlobalPath()
	if err != nil {
		return FileConfig{}, err
	}
	if _, err := os.Stat(p); err != nil {
		return FileConfig{}, ErrNoGlobalConfig
	}
	return LoadFile(p)
}

// Load layers, in increasing precedence, the global file, the repo-local file
// under repoRoot (or explicit, when non-empty) and SEKRET_ environment
// variables. Missing files are skipped; unreadable ones are errors. Lists
// replace rather than append across layers.
func Load(repoRoot, explicit string) (FileConfig, error) {
	k := koanf.New(".")

	if p, err := GlobalPath(); err == nil {
		if _, err := os.Stat(p); err == nil {
			if err := k.Load(file.Provider(p), yaml.Parser()); err != nil {
				return FileConfig{}, fmt.Errorf("load global config from %s: %w", p, err)
			}
		}
	}

	local := explicit
	if local == "" {
		local, _ = LocalPath(repoRoot)
	}
	if local != "" {
		if err := k.Load(file.Provider(local), yaml.Parser()); err != nil {
			return FileConfig{}, fmt.Errorf("load config from %s: %w", local, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return FileConfig{}, fmt.Errorf("load env vars: %w", err)
	}
	return decode(k)
}

func decode(k *koanf.Koanf) (FileConfig, error) {
	var cfg FileConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return FileConfig{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}
