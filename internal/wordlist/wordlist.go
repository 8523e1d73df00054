// Package wordlist excludes secrets that contain a known word. The list is
// loaded once through Initialize and consulted by the wordlist filter.
package wordlist

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DefaultMinLength is used when a configuration omits min_length.
const DefaultMinLength = 3

var (
	ErrHashMismatch  = errors.New("wordlist hash mismatch")
	ErrNotInitialize = errors.New("wordlist not initialized")
)

// List is a loaded set of lowercase words.
type List struct {
	FileName  string
	MinLength int
	FileHash  string
	words     []string
}

var active *List

// Initialize loads fileName, keeping words of at least minLength runes. When
// fileHash is non-empty it must match the file's content hash, so a baseline
// pinned to one word list cannot silently run against another. The loaded
// list becomes the active one and is also returned.
func Initialize(fileName string, minLength int, fileHash string) (*List, error) {
	b, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("read wordlist: %w", err)
	}
	sum := Hash(b)
	if fileHash != "" && fileHash != sum {
		return nil, fmt.Errorf("%w: %s has %s, expected %s", ErrHashMismatch, fileName, sum, fileHash)
	}
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	l := &List{FileName: fileName, MinLength: minLength, FileHash: sum}
	seen := map[string]bool{}
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		w := strings.ToLower(strings.TrimSpace(sc.Text()))
		if len([]rune(w)) < minLength || seen[w] {
			continue
		}
		seen[w] = true
		l.words = append(l.words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan wordlist: %w", err)
	}
	active = l
	return l, nil
}

// Hash returns the content hash recorded as file_hash in configurations.
func Hash(b []byte) string {
	return strconv.FormatUint(xxhash.Sum64(b), 16)
}

// FileHash hashes the file at path.
func FileHash(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Hash(b), nil
}

// Active returns the list loaded by the last successful Initialize.
func Active() (*List, error) {
	if active == nil {
		return nil, ErrNotInitialize
	}
	return active, nil
}

// Reset drops the active list.
func Reset() {
	active = nil
}

// Len returns the number of distinct words kept.
func (l *List) Len() int {
	return len(l.words)
}

// Contains reports whether any word occurs in secret, case-insensitively.
func (l *List) Contains(secret string) bool {
	s := strings.ToLower(secret)
	for _, w := range l.words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// ShouldExcludeSecret checks secret against the active list. Without an
// active list nothing is excluded.
func ShouldExcludeSecret(secret string) bool {
	if active == nil {
		return false
	}
	return active.Contains(secret)
}
