package registry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TeamRegistry maps asset tickers to the usernames of their project team
// accounts. Lookups are case-insensitive; a missing or malformed source
// yields an empty registry rather than an error, so team filtering simply
// disables itself for the run.
type TeamRegistry struct {
	accounts map[string]map[string]struct{} // TICKER -> set of usernames
	loaded   bool
}

// Empty returns a registry with no data; every lookup misses.
func Empty() *TeamRegistry {
	return &TeamRegistry{accounts: map[string]map[string]struct{}{}}
}

// Load reads a registry file. The format is chosen by extension: .yaml/.yml
// is a ticker -> usernames mapping, anything else is parsed as CSV with a
// ticker column and a delimited usernames column. A missing file is not an
// error.
func Load(path string) (*TeamRegistry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Warn("registry: file not found, team filtering disabled", "path", path)
			return Empty(), nil
		}
		return nil, fmt.Errorf("registry: open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(f)
	default:
		return loadCSV(f)
	}
}

func loadYAML(r io.Reader) (*TeamRegistry, error) {
	var raw map[string][]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		slog.Warn("registry: malformed yaml, team filtering disabled", "error", err)
		return Empty(), nil
	}
	reg := Empty()
	for ticker, usernames := range raw {
		reg.add(ticker, strings.Join(usernames, ","))
	}
	reg.loaded = len(reg.accounts) > 0
	return reg, nil
}

func loadCSV(r io.Reader) (*TeamRegistry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		slog.Warn("registry: malformed csv, team filtering disabled", "error", err)
		return Empty(), nil
	}
	reg := Empty()
	for i, row := range rows {
		if len(row) < 2 {
			continue // malformed rows are skipped, not fatal
		}
		ticker, usernames := row[0], row[1]
		if i == 0 && strings.EqualFold(strings.TrimSpace(ticker), "ticker") {
			continue // header
		}
		reg.add(ticker, usernames)
	}
	reg.loaded = len(reg.accounts) > 0
	return reg, nil
}

// add registers one row. Usernames may be delimited by comma, semicolon,
// pipe or newline; leading @ is stripped.
func (t *TeamRegistry) add(ticker, usernames string) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return
	}
	for _, sep := range []string{";", "|", "\n"} {
		usernames = strings.ReplaceAll(usernames, sep, ",")
	}
	set := t.accounts[ticker]
	for _, u := range strings.Split(usernames, ",") {
		u = normalize(u)
		if u == "" {
			continue
		}
		if set == nil {
			set = map[string]struct{}{}
		}
		set[u] = struct{}{}
	}
	if len(set) > 0 {
		t.accounts[ticker] = set
	}
}

func normalize(username string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(username)), "@")
}

// IsTeamAccount reports whether username belongs to the project team of
// symbol. Unknown symbols mean "no team accounts known".
func (t *TeamRegistry) IsTeamAccount(username, symbol string) bool {
	if t == nil || len(t.accounts) == 0 {
		return false
	}
	u := normalize(username)
	if u == "" {
		return false
	}
	set := t.accounts[strings.ToUpper(strings.TrimSpace(symbol))]
	_, ok := set[u]
	return ok
}

// AccountsFor returns the known team usernames for symbol.
func (t *TeamRegistry) AccountsFor(symbol string) []string {
	set := t.accounts[strings.ToUpper(strings.TrimSpace(symbol))]
	out := make([]string, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	return out
}

// Stats summarizes the loaded registry for reporting.
type Stats struct {
	Loaded        bool `json:"loaded"`
	Projects      int  `json:"projects"`
	TotalAccounts int  `json:"total_accounts"`
}

func (t *TeamRegistry) Stats() Stats {
	s := Stats{Loaded: t.loaded, Projects: len(t.accounts)}
	for _, set := range t.accounts {
		s.TotalAccounts += len(set)
	}
	return s
}
