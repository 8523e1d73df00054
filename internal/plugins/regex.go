package plugins

import (
	"regexp"

	"github.com/redactyl/sekret/internal/types"
)

// regexDetector reports every match of its patterns. When a pattern has a
// capture group, the first group is the secret; otherwise the whole match is.
type regexDetector struct {
	name       string
	secretType string
	patterns   []*regexp.Regexp
}

func (d *regexDetector) Name() string       { return d.name }
func (d *regexDetector) SecretType() string { return d.secretType }

func (d *regexDetector) JSON() map[string]any {
	return map[string]any{"name": d.name}
}

func (d *regexDetector) AnalyzeLine(filename, line string, lineNumber int) []types.PotentialSecret {
	var out []types.PotentialSecret
	seen := map[string]bool{}
	for _, re := range d.patterns {
		for _, m := range re.FindAllStringSubmatch(line, -1) {
			secret := m[0]
			if len(m) > 1 && m[1] != "" {
				secret = m[1]
			}
			if seen[secret] {
				continue
			}
			seen[secret] = true
			out = append(out, types.NewPotentialSecret(d.secretType, filename, secret, lineNumber))
		}
	}
	return out
}

var (
	reAWSAccess = regexp.MustCompile(`\b((?:A3T[A-Z0-9]|AKIA|ASIA|ABIA|ACCA)[0-9A-Z]{16})\b`)
	reAWSSecret = regexp.MustCompile(`(?i)(?:aws_secret_access_key|aws_secret_key|secretkey)["'\s:=]+([A-Za-z0-9/+=]{40})`)

	// PAT formats evolve; cover ghp_, gho_, ghu_, ghs_, ghr_
	reGHP       = regexp.MustCompile(`\b(g(?:hp|ho|hu|hs|hr)_[A-Za-z0-9]{36})\b`)
	reGHFine    = regexp.MustCompile(`\b(github_pat_[A-Za-z0-9_]{82})\b`)
	reJWT       = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+?\.[A-Za-z0-9._-]+?\.[A-Za-z0-9._-]+`)
	rePEM       = regexp.MustCompile(`-----BEGIN[ A-Z0-9]*PRIVATE KEY(?: BLOCK)?-----`)
	rePuTTY     = regexp.MustCompile(`PuTTY-User-Key-File-2`)
	reSlack     = regexp.MustCompile(`(xox[abprs]-[A-Za-z0-9-]{10,48})`)
	reSlackHook = regexp.MustCompile(`(https://hooks\.slack\.com/services/T[A-Za-z0-9_]+/B[A-Za-z0-9_]+/[A-Za-z0-9_]+)`)
	reStripe    = regexp.MustCompile(`((?:sk|rk)_live_[A-Za-z0-9]{24,})`)
)

func newAWSKeyDetector(map[string]any) (Plugin, error) {
	return &regexDetector{
		name:       "AWSKeyDetector",
		secretType: "AWS Access Key",
		patterns:   []*regexp.Regexp{reAWSAccess, reAWSSecret},
	}, nil
}

func newGitHubTokenDetector(map[string]any) (Plugin, error) {
	return &regexDetector{
		name:       "GitHubTokenDetector",
		secretType: "GitHub Token",
		patterns:   []*regexp.Regexp{reGHP, reGHFine},
	}, nil
}

func newJwtTokenDetector(map[string]any) (Plugin, error) {
	return &regexDetector{
		name:       "JwtTokenDetector",
		secretType: "JSON Web Token",
		patterns:   []*regexp.Regexp{reJWT},
	}, nil
}

func newPrivateKeyDetector(map[string]any) (Plugin, error) {
	return &regexDetector{
		name:       "PrivateKeyDetector",
		secretType: "Private Key",
		patterns:   []*regexp.Regexp{rePEM, rePuTTY},
	}, nil
}

func newSlackDetector(map[string]any) (Plugin, error) {
	return &regexDetector{
		name:       "SlackDetector",
		secretType: "Slack Token",
		patterns:   []*regexp.Regexp{reSlack, reSlackHook},
	}, nil
}

func newStripeDetector(map[string]any) (Plugin, error) {
	return &regexDetector{
		name:       "StripeDetector",
		secretType: "Stripe Access Key",
		patterns:   []*regexp.Regexp{reStripe},
	}, nil
}
