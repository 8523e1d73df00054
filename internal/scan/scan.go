package scan

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/redactyl/sekret/internal/cache"
	"github.com/redactyl/sekret/internal/filters"
	"github.com/redactyl/sekret/internal/git"
	"github.com/redactyl/sekret/internal/ignore"
	"github.com/redactyl/sekret/internal/inject"
	"github.com/redactyl/sekret/internal/logging"
	"github.com/redactyl/sekret/internal/plugins"
	"github.com/redactyl/sekret/internal/settings"
	"github.com/redactyl/sekret/internal/types"
)

// Config controls which files a scan visits.
type Config struct {
	Root string
	// Include and Exclude are doublestar patterns relative to Root.
	Include         []string
	Exclude         []string
	MaxBytes        int64
	DefaultExcludes bool
	// GitTracked limits a scan inside a git work tree to tracked files.
	GitTracked bool
	// UseCache reuses results for files whose content and settings are
	// unchanged since the last cached run.
	UseCache bool
}

// Result is the outcome of scanning a tree.
type Result struct {
	Secrets      []types.PotentialSecret
	FilesScanned int
	FilesCached  int
}

var (
	fileVars   = inject.Args{"filename": true}
	lineVars   = inject.Args{"filename": true, "line": true, "previous_line": true, "line_number": true}
	secretVars = inject.Args{"filename": true, "line": true, "previous_line": true, "line_number": true, "secret": true, "plugin": true}
)

// stages partitions the active filters by the earliest stage that provides
// all of their variables. Filters needing variables no stage provides never
// run.
type stages struct {
	file, line, secret []*filters.Filter
}

func currentStages() stages {
	log := logging.GetLogger("scan")
	var st stages
	for _, f := range settings.Filters() {
		switch {
		case f.InjectableVariables.Satisfied(fileVars):
			st.file = append(st.file, f)
		case f.InjectableVariables.Satisfied(lineVars):
			st.line = append(st.line, f)
		case f.InjectableVariables.Satisfied(secretVars):
			st.secret = append(st.secret, f)
		default:
			log.Debug().
				Strs("variables", f.InjectableVariables.Sorted()).
				Msgf("Filter %s needs variables no stage provides", f.Path)
		}
	}
	return st
}

// excluded runs fs against args. A failing filter is logged and treated as
// not excluding.
func excluded(fs []*filters.Filter, args inject.Args) bool {
	log := logging.GetLogger("scan")
	for _, f := range fs {
		ok, err := f.Exclude(args)
		if err != nil {
			log.Warn().Err(err).Msg("Filter failed")
			continue
		}
		if ok {
			log.Trace().Str("filter", f.Path).Msg("excluded")
			return true
		}
	}
	return false
}

// File scans filename with the configured plugins and filters.
func File(filename string) ([]types.PotentialSecret, error) {
	st := currentStages()
	if excluded(st.file, inject.Args{"filename": filename}) {
		return nil, nil
	}
	data, ok := readText(filename)
	if !ok {
		return nil, nil
	}
	return lines(st, filename, data)
}

// Lines scans data as the content of filename. File-stage filters are not
// applied.
func Lines(filename string, data []byte) ([]types.PotentialSecret, error) {
	return lines(currentStages(), filename, data)
}

func lines(st stages, filename string, data []byte) ([]types.PotentialSecret, error) {
	active, err := settings.Plugins()
	if err != nil {
		return nil, err
	}
	var out []types.PotentialSecret
	seen := map[string]bool{}
	prev := ""
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		args := inject.Args{
			"filename":      filename,
			"line":          line,
			"previous_line": prev,
			"line_number":   n,
		}
		prev = line
		if excluded(st.line, args) {
			continue
		}
		for _, p := range active {
			out = append(out, analyze(st, p, args, filename, line, n, seen)...)
		}
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("read %s: %w", filename, err)
	}
	return out, nil
}

func analyze(st stages, p plugins.Plugin, lineArgs inject.Args, filename, line string, n int, seen map[string]bool) []types.PotentialSecret {
	var out []types.PotentialSecret
	for _, s := range p.AnalyzeLine(filename, line, n) {
		key := fmt.Sprintf("%s|%s|%d", s.Type, s.HashedSecret, s.LineNumber)
		if seen[key] {
			continue
		}
		args := make(inject.Args, len(lineArgs)+2)
		for k, v := range lineArgs {
			args[k] = v
		}
		args["secret"] = s.Secret
		args["plugin"] = p.Name()
		if excluded(st.secret, args) {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// Files walks cfg.Root and scans every eligible file. Results are ordered by
// filename, then line number.
func Files(ctx context.Context, cfg Config) (Result, error) {
	log := logging.GetLogger("scan")
	var res Result

	var db cache.DB
	if cfg.UseCache {
		fp, err := fingerprint()
		if err != nil {
			return res, err
		}
		if db, err = cache.Load(cfg.Root, fp); err != nil {
			log.Debug().Err(err).Msg("No usable scan cache")
		}
	}

	st := currentStages()
	err := Walk(ctx, cfg, func(path string) error {
		if excluded(st.file, inject.Args{"filename": path}) {
			return nil
		}
		data, ok := readText(path)
		if !ok {
			return nil
		}
		var hash string
		if cfg.UseCache {
			hash = cache.Hash(data)
			if found, ok := db.Lookup(path, hash); ok {
				res.FilesCached++
				res.Secrets = append(res.Secrets, found...)
				return nil
			}
		}
		found, err := lines(st, path, data)
		if err != nil {
			return err
		}
		res.FilesScanned++
		res.Secrets = append(res.Secrets, found...)
		if cfg.UseCache {
			db.Entries[path] = cache.Entry{Hash: hash, Secrets: found}
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	if cfg.UseCache {
		if err := cache.Save(cfg.Root, db); err != nil {
			log.Warn().Err(err).Msg("Could not save scan cache")
		}
	}
	sortSecrets(res.Secrets)
	log.Info().
		Int("scanned", res.FilesScanned).
		Int("cached", res.FilesCached).
		Int("secrets", len(res.Secrets)).
		Msg("Scan complete")
	return res, nil
}

// Staged scans the index version of files staged for commit under cfg.Root.
// File-stage filters see the work tree path.
func Staged(ctx context.Context, cfg Config) (Result, error) {
	var res Result
	paths, data, err := git.StagedFiles(cfg.Root)
	if err != nil {
		return res, err
	}
	ign, err := ignore.Load(filepath.Join(cfg.Root, ignore.FileName))
	if err != nil {
		return res, err
	}
	st := currentStages()
	for i, rel := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !allowedByGlobs(rel, cfg) || ign.Match(rel) {
			continue
		}
		if cfg.MaxBytes > 0 && int64(len(data[i])) > cfg.MaxBytes {
			continue
		}
		if looksBinary(data[i]) {
			continue
		}
		p := filepath.Join(cfg.Root, rel)
		if excluded(st.file, inject.Args{"filename": p}) {
			continue
		}
		found, err := lines(st, p, data[i])
		if err != nil {
			return res, err
		}
		res.FilesScanned++
		res.Secrets = append(res.Secrets, found...)
	}
	sortSecrets(res.Secrets)
	return res, nil
}

// fingerprint hashes the serialized settings so cached results are dropped
// whenever plugins or filters change.
func fingerprint() (string, error) {
	cfg, err := settings.Get().JSON()
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return cache.Hash(b), nil
}

func sortSecrets(s []types.PotentialSecret) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Filename != s[j].Filename {
			return s[i].Filename < s[j].Filename
		}
		if s[i].LineNumber != s[j].LineNumber {
			return s[i].LineNumber < s[j].LineNumber
		}
		return strings.Compare(s[i].Type, s[j].Type) < 0
	})
}
