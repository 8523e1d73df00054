package report

import (
	"encoding/json"
	"io"

	"github.com/redactyl/sekret/internal/types"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type sarifResult struct {
	RuleID       string            `json:"ruleId"`
	Level        string            `json:"level"`
	Message      sarifMessage      `json:"message"`
	Locations    []sarifLoc        `json:"locations"`
	Fingerprints map[string]string `json:"partialFingerprints,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

// WriteSARIF writes secrets as SARIF 2.1.0. Verified secrets are errors,
// everything else a warning. The hashed secret is carried as a partial
// fingerprint so code-scanning dashboards can track a secret across moves.
func WriteSARIF(w io.Writer, secrets []types.PotentialSecret, toolVersion string) error {
	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: "sekret", Version: toolVersion}},
		Results: []sarifResult{},
	}
	for _, s := range secrets {
		level := "warning"
		if s.IsVerified {
			level = "error"
		}
		run.Results = append(run.Results, sarifResult{
			RuleID:  s.Type,
			Level:   level,
			Message: sarifMessage{Text: s.Type + " detected"},
			Locations: []sarifLoc{{
				PhysicalLocation: sarifPhys{
					ArtifactLocation: sarifArt{URI: s.Filename},
					Region:           sarifRegion{StartLine: s.LineNumber},
				},
			}},
			Fingerprints: map[string]string{"hashedSecret/v1": s.HashedSecret},
		})
	}
	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
