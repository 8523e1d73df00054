package types

import (
	"crypto/sha1"
	"encoding/hex"
)

// PotentialSecret describes a value a plugin flagged on a given line. The raw
// secret is kept in memory for filters but never serialized; baselines carry
// only its SHA-1 digest.
type PotentialSecret struct {
	Type         string `json:"type"`
	Filename     string `json:"filename"`
	HashedSecret string `json:"hashed_secret"`
	IsVerified   bool   `json:"is_verified"`
	LineNumber   int    `json:"line_number"`
	Secret       string `json:"-"`
}

// NewPotentialSecret fills in the hashed form of secret.
func NewPotentialSecret(typ, filename, secret string, line int) PotentialSecret {
	return PotentialSecret{
		Type:         typ,
		Filename:     filename,
		HashedSecret: HashSecret(secret),
		LineNumber:   line,
		Secret:       secret,
	}
}

// HashSecret returns the hex SHA-1 of secret, the identity used in baselines.
func HashSecret(secret string) string {
	sum := sha1.Sum([]byte(secret))
	return hex.EncodeToString(sum[:])
}
