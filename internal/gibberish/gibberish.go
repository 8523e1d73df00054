// Package gibberish scores strings with a character bigram model so that
// secrets made of ordinary words can be excluded.
package gibberish

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

// DefaultLimit is the score at or below which a string reads as language.
const DefaultLimit = 3.7

const alphabet = "abcdefghijklmnopqrstuvwxyz "

//go:embed corpus.txt
var defaultCorpus string

var ErrInvalidModel = errors.New("invalid gibberish model")

// Model holds negative log transition probabilities between alphabet
// characters.
type Model struct {
	Alphabet string      `json:"alphabet"`
	NegLog   [][]float64 `json:"neg_log_probs"`
	index    map[rune]int
}

// Detector pairs a model with the exclusion limit.
type Detector struct {
	Model *Model
	Limit float64
}

var active *Detector

// Train builds a model from text with add-one smoothing.
func Train(text string) *Model {
	n := len(alphabet)
	counts := make([][]float64, n)
	for i := range counts {
		counts[i] = make([]float64, n)
		for j := range counts[i] {
			counts[i][j] = 1
		}
	}
	m := &Model{Alphabet: alphabet}
	m.buildIndex()
	prev := -1
	for _, r := range normalize(text) {
		cur, ok := m.index[r]
		if !ok {
			continue
		}
		if prev >= 0 {
			counts[prev][cur]++
		}
		prev = cur
	}
	m.NegLog = make([][]float64, n)
	for i, row := range counts {
		total := 0.0
		for _, c := range row {
			total += c
		}
		m.NegLog[i] = make([]float64, n)
		for j, c := range row {
			m.NegLog[i][j] = -math.Log(c / total)
		}
	}
	return m
}

// Load reads a JSON model written by Save.
func Load(path string) (*Model, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gibberish model: %w", err)
	}
	var m Model
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	n := len([]rune(m.Alphabet))
	if n == 0 || len(m.NegLog) != n {
		return nil, fmt.Errorf("%w: %s", ErrInvalidModel, path)
	}
	for _, row := range m.NegLog {
		if len(row) != n {
			return nil, fmt.Errorf("%w: %s", ErrInvalidModel, path)
		}
	}
	m.buildIndex()
	return &m, nil
}

// Save writes m as JSON.
func (m *Model) Save(path string) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func (m *Model) buildIndex() {
	m.index = make(map[rune]int, len(m.Alphabet))
	for i, r := range []rune(m.Alphabet) {
		m.index[r] = i
	}
}

// Score returns the mean negative log probability of s's transitions. Higher
// scores look more random. Strings with no scorable transition score +Inf.
func (m *Model) Score(s string) float64 {
	total, pairs := 0.0, 0
	prev := -1
	for _, r := range normalize(s) {
		cur, ok := m.index[r]
		if !ok {
			prev = -1
			continue
		}
		if prev >= 0 {
			total += m.NegLog[prev][cur]
			pairs++
		}
		prev = cur
	}
	if pairs == 0 {
		return math.Inf(1)
	}
	return total / float64(pairs)
}

func normalize(s string) string {
	return strings.ToLower(s)
}

// Initialize activates the model at modelPath, or the built-in model when
// modelPath is empty. A non-positive limit selects DefaultLimit.
func Initialize(modelPath string, limit float64) (*Detector, error) {
	var m *Model
	if modelPath == "" {
		m = Train(defaultCorpus)
	} else {
		var err error
		if m, err = Load(modelPath); err != nil {
			return nil, err
		}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	active = &Detector{Model: m, Limit: limit}
	return active, nil
}

// Reset drops the active detector.
func Reset() {
	active = nil
}

// IsGibberish reports whether s scores above the detector's limit.
func (d *Detector) IsGibberish(s string) bool {
	return d.Model.Score(s) > d.Limit
}

// ShouldExcludeSecret reports whether secret reads as language under the
// active detector. Without an active detector nothing is excluded.
func ShouldExcludeSecret(secret string) bool {
	if active == nil {
		return false
	}
	return !active.IsGibberish(secret)
}
