// Package audit keeps an append-only JSONL history of scans.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/redactyl/sekret/internal/types"
)

const fileName = "sekret_audit.jsonl"

// ScanRecord summarizes one scan. Raw secret values never reach the log
// because PotentialSecret does not serialize them.
type ScanRecord struct {
	Timestamp      time.Time               `json:"timestamp"`
	ScanID         string                  `json:"scan_id"`
	Root           string                  `json:"root"`
	TotalSecrets   int                     `json:"total_secrets"`
	NewSecrets     int                     `json:"new_secrets"`
	BaselinedCount int                     `json:"baselined_count"`
	TypeCounts     map[string]int          `json:"type_counts"`
	FilesScanned   int                     `json:"files_scanned"`
	Duration       string                  `json:"duration"`
	BaselineFile   string                  `json:"baseline_file,omitempty"`
	Secrets        []types.PotentialSecret `json:"secrets,omitempty"`
}

type Log struct {
	path string
}

// New places the log inside .git when root is a work tree so it stays out
// of commits.
func New(root string) *Log {
	p := filepath.Join(root, "."+fileName)
	if st, err := os.Stat(filepath.Join(root, ".git")); err == nil && st.IsDir() {
		p = filepath.Join(root, ".git", fileName)
	}
	return &Log{path: p}
}

func (l *Log) Path() string { return l.path }

// IsLogFile reports whether path names an audit log written into a work
// tree, so scans can skip it.
func IsLogFile(path string) bool {
	return filepath.Base(path) == "."+fileName
}

// History returns the recorded scans, newest first. A missing log is an
// empty history. Corrupt lines are skipped.
func (l *Log) History() ([]ScanRecord, error) {
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var records []ScanRecord
	dec := json.NewDecoder(f)
	for dec.More() {
		var r ScanRecord
		if err := dec.Decode(&r); err != nil {
			break
		}
		records = append(records, r)
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (l *Log) Append(r ScanRecord) error {
	if r.ScanID == "" {
		r.ScanID = fmt.Sprintf("scan_%d", r.Timestamp.UnixNano())
	}
	// owner-only: records name files that hold secrets
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(r); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	return nil
}

// Delete removes the record at index, counted newest first as History
// returns them.
func (l *Log) Delete(index int) error {
	records, err := l.History()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(records) {
		return fmt.Errorf("invalid index: %d", index)
	}
	records = append(records[:index], records[index+1:]...)

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("rewrite audit log: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	for i := len(records) - 1; i >= 0; i-- {
		if err := enc.Encode(records[i]); err != nil {
			return fmt.Errorf("write audit record: %w", err)
		}
	}
	return nil
}

// NewRecord builds a record from the full result set and the subset not
// covered by the baseline.
func NewRecord(root string, all, fresh []types.PotentialSecret, filesScanned int, took time.Duration, baselineFile string) ScanRecord {
	counts := make(map[string]int)
	for _, s := range all {
		counts[s.Type]++
	}
	secrets := append([]types.PotentialSecret(nil), fresh...)
	sort.SliceStable(secrets, func(i, j int) bool {
		if secrets[i].Filename != secrets[j].Filename {
			return secrets[i].Filename < secrets[j].Filename
		}
		return secrets[i].LineNumber < secrets[j].LineNumber
	})
	return ScanRecord{
		Timestamp:      time.Now().UTC(),
		Root:           root,
		TotalSecrets:   len(all),
		NewSecrets:     len(fresh),
		BaselinedCount: len(all) - len(fresh),
		TypeCounts:     counts,
		FilesScanned:   filesScanned,
		Duration:       took.Round(time.Millisecond).String(),
		BaselineFile:   baselineFile,
		Secrets:        secrets,
	}
}
