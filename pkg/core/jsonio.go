package core

import (
	"encoding/json"
	"io"
)

// MarshalSecrets pretty-prints secrets as JSON for humans or pipelines. Raw
// secret values are never written.
func MarshalSecrets(w io.Writer, secrets []Secret) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(secrets)
}

// UnmarshalSecrets decodes secrets JSON, useful for ingestion tests.
func UnmarshalSecrets(r io.Reader) ([]Secret, error) {
	var out []Secret
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
