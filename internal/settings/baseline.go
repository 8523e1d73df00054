package settings

import (
	"fmt"

	"github.com/redactyl/sekret/internal/filters"
	"github.com/redactyl/sekret/internal/gibberish"
	"github.com/redactyl/sekret/internal/wordlist"
)

// ConfigureFromBaseline applies a baseline's plugins_used and filters_used to
// the global settings and returns them. Lists absent from cfg leave the
// corresponding configuration alone. When filters are configured, the
// wordlist and gibberish filters get their backing data initialized. A
// non-empty filename registers the baseline file itself as excluded.
func ConfigureFromBaseline(cfg Config, filename string) (*Settings, error) {
	s := Get()

	if cfg.PluginsUsed != nil {
		if _, err := s.ConfigurePlugins(cfg.PluginsUsed); err != nil {
			return nil, err
		}
	}

	if cfg.FiltersUsed != nil {
		if _, err := s.ConfigureFilters(cfg.FiltersUsed); err != nil {
			return nil, err
		}

		if params, ok := s.filters.get(filters.WordlistFilterPath); ok {
			if err := initializeWordlist(params); err != nil {
				return nil, err
			}
		}
		if params, ok := s.filters.get(filters.GibberishFilterPath); ok {
			if err := initializeGibberish(params); err != nil {
				return nil, err
			}
		}
	}

	if filename != "" {
		s.filters.set(filters.BaselineFilePath, Params{"filename": filename})
		clearFilterCache()
	}
	return s, nil
}

func initializeWordlist(params Params) error {
	fileName, ok := params["file_name"].(string)
	if !ok {
		return fmt.Errorf("%s: %w %q", filters.WordlistFilterPath, ErrMissingKey, "file_name")
	}
	minLength, err := intParam(params, "min_length", wordlist.DefaultMinLength)
	if err != nil {
		return fmt.Errorf("%s: %w", filters.WordlistFilterPath, err)
	}
	fileHash, _ := params["file_hash"].(string)
	if _, err := wordlist.Initialize(fileName, minLength, fileHash); err != nil {
		return fmt.Errorf("%s: %w", filters.WordlistFilterPath, err)
	}
	return nil
}

func initializeGibberish(params Params) error {
	model, _ := params["model"].(string)
	limit, err := floatParam(params, "limit", gibberish.DefaultLimit)
	if err != nil {
		return fmt.Errorf("%s: %w", filters.GibberishFilterPath, err)
	}
	if _, err := gibberish.Initialize(model, limit); err != nil {
		return fmt.Errorf("%s: %w", filters.GibberishFilterPath, err)
	}
	return nil
}

func intParam(params Params, key string, def int) (int, error) {
	switch v := params[key].(type) {
	case nil:
		return def, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s: expected an integer, got %v", key, v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("%s: expected an integer, got %T", key, v)
	}
}

func floatParam(params Params, key string, def float64) (float64, error) {
	switch v := params[key].(type) {
	case nil:
		return def, nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%s: expected a number, got %T", key, v)
	}
}
