package plugins

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/redactyl/sekret/internal/types"
)

const (
	base64Charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/-_="
	hexCharset    = "0123456789abcdefABCDEF"

	DefaultBase64Limit = 4.5
	DefaultHexLimit    = 3.0
)

// highEntropyString reports quoted strings drawn from a charset whose Shannon
// entropy exceeds limit.
type highEntropyString struct {
	name       string
	secretType string
	charset    string
	limit      float64
	re         *regexp.Regexp
	adjust     func(s string, h float64) float64
}

func newHighEntropy(name, secretType, charset string, def float64, params map[string]any) (*highEntropyString, error) {
	limit, err := floatParam(params, "limit", def)
	if err != nil {
		return nil, err
	}
	if limit < 0 || limit > 8 {
		return nil, fmt.Errorf("%w: limit must be between 0.0 and 8.0, got %v", ErrInvalidParam, limit)
	}
	class := charClass(charset)
	return &highEntropyString{
		name:       name,
		secretType: secretType,
		charset:    charset,
		limit:      limit,
		re:         regexp.MustCompile(`"(` + class + `+)"|'(` + class + `+)'`),
	}, nil
}

// charClass builds a regexp character class matching exactly the runes of
// charset.
func charClass(charset string) string {
	var b strings.Builder
	b.WriteByte('[')
	for _, r := range charset {
		if strings.ContainsRune(`\-]^[`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte(']')
	return b.String()
}

func newBase64HighEntropyString(params map[string]any) (Plugin, error) {
	return newHighEntropy("Base64HighEntropyString", "Base64 High Entropy String", base64Charset, DefaultBase64Limit, params)
}

func newHexHighEntropyString(params map[string]any) (Plugin, error) {
	p, err := newHighEntropy("HexHighEntropyString", "Hex High Entropy String", hexCharset, DefaultHexLimit, params)
	if err != nil {
		return nil, err
	}
	p.adjust = adjustNumeric
	return p, nil
}

// adjustNumeric lowers the entropy of all-digit strings, which otherwise
// crowd the results with ids and timestamps.
func adjustNumeric(s string, h float64) float64 {
	if strings.Trim(s, "0123456789") != "" || len(s) < 2 {
		return h
	}
	return h - 1.2/math.Log2(float64(len(s)))
}

func (p *highEntropyString) Name() string       { return p.name }
func (p *highEntropyString) SecretType() string { return p.secretType }

func (p *highEntropyString) JSON() map[string]any {
	return map[string]any{"name": p.name, "limit": p.limit}
}

func (p *highEntropyString) AnalyzeLine(filename, line string, lineNumber int) []types.PotentialSecret {
	var out []types.PotentialSecret
	for _, m := range p.re.FindAllStringSubmatch(line, -1) {
		s := m[1]
		if s == "" {
			s = m[2]
		}
		h := Entropy(s, p.charset)
		if p.adjust != nil {
			h = p.adjust(s, h)
		}
		if h > p.limit {
			out = append(out, types.NewPotentialSecret(p.secretType, filename, s, lineNumber))
		}
	}
	return out
}

// Entropy is the Shannon entropy of s over the characters of charset.
func Entropy(s, charset string) float64 {
	if s == "" {
		return 0
	}
	count := map[rune]int{}
	for _, r := range s {
		count[r]++
	}
	h := 0.0
	n := float64(len(s))
	for _, r := range charset {
		c, ok := count[r]
		if !ok {
			continue
		}
		p := float64(c) / n
		h -= p * math.Log2(p)
		delete(count, r)
	}
	return h
}
