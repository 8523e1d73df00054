package settings

import (
	"bytes"
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v3"
)

// Params holds the configuration of one plugin or filter.
type Params map[string]any

// Entry is one element of plugins_used or filters_used: an identity key
// ("name" or "path") plus parameters. Encoded entries list the identity key
// first and the remaining keys in lexical order.
type Entry map[string]any

// Config is the serialized settings shape shared with baselines. A nil list
// means the key was absent; JSON always returns non-nil lists.
type Config struct {
	PluginsUsed []Entry `json:"plugins_used" yaml:"plugins_used"`
	FiltersUsed []Entry `json:"filters_used" yaml:"filters_used"`
}

func (e Entry) orderedKeys() []string {
	keys := make([]string, 0, len(e))
	var lead string
	for _, id := range []string{"name", "path"} {
		if _, ok := e[id]; ok {
			lead = id
			break
		}
	}
	for k := range e {
		if k != lead {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if lead != "" {
		keys = append([]string{lead}, keys...)
	}
	return keys
}

// MarshalJSON writes the identity key first.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range e.orderedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(e[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the identity key first.
func (e Entry) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range e.orderedKeys() {
		var v yaml.Node
		if err := v.Encode(e[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&v,
		)
	}
	return node, nil
}

// copyValue deep-copies the map and slice shapes decoders produce.
func copyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = copyValue(e)
		}
		return out
	case Entry:
		return Entry(copyValue(map[string]any(x)).(map[string]any))
	case Params:
		return Params(copyValue(map[string]any(x)).(map[string]any))
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = copyValue(e)
		}
		return out
	case []string:
		out := make([]string, len(x))
		copy(out, x)
		return out
	default:
		return v
	}
}
