// Package watchlist loads the standing queries the daemon evaluates on each
// refresh tick.
package watchlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
)

// Entry is one named standing query.
type Entry struct {
	Name  string       `json:"name" yaml:"name"`
	Query domain.Query `json:"query" yaml:"query"`
}

type watchlistFile struct {
	Queries []Entry `json:"queries" yaml:"queries"`
}

// Load reads the watchlist from a YAML or JSON file.
func Load(path string) ([]Entry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("watchlist file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open watchlist file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read watchlist file: %w", err)
	}

	parsed, err := parseWatchlist(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Queries) == 0 {
		return nil, errors.New("watchlist file contains no queries entries")
	}

	seen := make(map[string]struct{}, len(parsed.Queries))
	out := make([]Entry, 0, len(parsed.Queries))
	for i := range parsed.Queries {
		entry := sanitizeEntry(parsed.Queries[i])
		if err := validateEntry(entry); err != nil {
			return nil, fmt.Errorf("queries[%d]: %w", i, err)
		}
		if _, exists := seen[entry.Name]; exists {
			return nil, fmt.Errorf("duplicate query name %q", entry.Name)
		}
		seen[entry.Name] = struct{}{}
		out = append(out, entry)
	}

	return out, nil
}

func parseWatchlist(data []byte, ext string) (watchlistFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var parsed watchlistFile
		if err := d.fn(data, &parsed); err == nil {
			return parsed, nil
		}
	}

	return watchlistFile{}, errors.New("watchlist file format not recognized (expected YAML or JSON)")
}

func sanitizeEntry(e Entry) Entry {
	e.Name = strings.TrimSpace(e.Name)
	e.Query.Text = strings.TrimSpace(e.Query.Text)
	e.Query.Category = strings.TrimSpace(e.Query.Category)
	e.Query.DateFrom = strings.TrimSpace(e.Query.DateFrom)
	e.Query.DateTo = strings.TrimSpace(e.Query.DateTo)
	return e
}

func validateEntry(e Entry) error {
	if e.Name == "" {
		return errors.New("name is required")
	}
	for _, id := range e.Query.Providers {
		if _, ok := domain.ParseProviderID(string(id)); !ok {
			return fmt.Errorf("unknown provider %q in query %q", id, e.Name)
		}
	}
	return nil
}
