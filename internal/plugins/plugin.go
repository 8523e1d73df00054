package plugins

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redactyl/sekret/internal/types"
)

var (
	ErrUnknownPlugin = errors.New("unknown plugin")
	ErrInvalidParam  = errors.New("invalid plugin parameter")
)

// Plugin is a configured detector.
type Plugin interface {
	// Name is the class name the plugin was registered under.
	Name() string
	// SecretType labels the findings the plugin reports.
	SecretType() string
	// JSON returns the plugin's effective configuration. It always carries
	// "name" and includes defaults the plugin computed for itself.
	JSON() map[string]any
	// AnalyzeLine reports potential secrets on one line of filename.
	AnalyzeLine(filename, line string, lineNumber int) []types.PotentialSecret
}

// Type constructs plugins of one class.
type Type struct {
	Name string
	New  func(params map[string]any) (Plugin, error)
}

var registry = map[string]Type{}

func register(t Type) {
	registry[t.Name] = t
}

func init() {
	for _, t := range []Type{
		{Name: "AWSKeyDetector", New: newAWSKeyDetector},
		{Name: "Base64HighEntropyString", New: newBase64HighEntropyString},
		{Name: "HexHighEntropyString", New: newHexHighEntropyString},
		{Name: "GitHubTokenDetector", New: newGitHubTokenDetector},
		{Name: "JwtTokenDetector", New: newJwtTokenDetector},
		{Name: "KeywordDetector", New: newKeywordDetector},
		{Name: "PrivateKeyDetector", New: newPrivateKeyDetector},
		{Name: "SlackDetector", New: newSlackDetector},
		{Name: "StripeDetector", New: newStripeDetector},
	} {
		register(t)
	}
}

// Types returns a copy of the registry, keyed by class name.
func Types() map[string]Type {
	out := make(map[string]Type, len(registry))
	for k, v := range registry {
		out[k] = v
	}
	return out
}

// Names returns the registered class names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FromClassname builds the plugin registered as name with params. Errors are
// returned as-is to the caller; an unregistered name yields ErrUnknownPlugin.
func FromClassname(name string, params map[string]any) (Plugin, error) {
	t, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, name)
	}
	p, err := t.New(params)
	if err != nil {
		return nil, fmt.Errorf("initialize %s: %w", name, err)
	}
	return p, nil
}

// floatParam reads a numeric parameter, accepting the shapes JSON and YAML
// decoders produce.
func floatParam(params map[string]any, key string, def float64) (float64, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return def, nil
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidParam, key, err)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidParam, key, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s has type %T", ErrInvalidParam, key, v)
	}
}

func stringParam(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s has type %T", ErrInvalidParam, key, v)
	}
	return s, nil
}
