// Package tables loads the semicolon-delimited ignition reference tables
// compiled into the binary and serves them as immutable, pre-parsed
// matrices. A manifest maps logical table IDs to asset filenames so the
// resolvers never deal in file paths.
package tables

import (
	"embed"
	"encoding/csv"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed assets
var assets embed.FS

const manifestPath = "assets/manifest.yaml"

var (
	// ErrMissingTable indicates an unknown table ID or an absent backing
	// asset. This is a configuration failure, not an out-of-range input.
	ErrMissingTable = errors.New("reference table not found")

	// ErrMalformedTable indicates a backing asset that could not be
	// parsed as a semicolon-delimited table with a header row.
	ErrMalformedTable = errors.New("reference table malformed")
)

type manifest struct {
	Tables map[string]string `yaml:"tables"`
}

// Store holds the loaded reference tables. It is built once and is safe
// for concurrent readers; tables are never mutated after load.
type Store struct {
	tables map[string]*Table
}

// NewStore parses the embedded manifest and every table it names.
// A missing or malformed asset fails construction outright so a broken
// build never serves partial reference data.
func NewStore() (*Store, error) {
	raw, err := assets.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingTable, manifestPath)
	}

	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(m.Tables) == 0 {
		return nil, fmt.Errorf("%w: manifest lists no tables", ErrMalformedTable)
	}

	s := &Store{tables: make(map[string]*Table, len(m.Tables))}
	for id, filename := range m.Tables {
		t, err := loadTable(id, "assets/"+filename)
		if err != nil {
			return nil, err
		}
		s.tables[id] = t
	}
	return s, nil
}

// Load returns the table with the given logical ID.
func (s *Store) Load(id string) (*Table, error) {
	t, ok := s.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingTable, id)
	}
	return t, nil
}

// IDs returns the logical IDs of every loaded table.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.tables))
	for id := range s.tables {
		ids = append(ids, id)
	}
	return ids
}

func loadTable(id, path string) (*Table, error) {
	f, err := assets.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q (%s)", ErrMissingTable, id, path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1 // validated below with a clearer error
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMalformedTable, id, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: %q has no data rows", ErrMalformedTable, id)
	}
	width := len(records[0])
	for i, rec := range records[1:] {
		if len(rec) != width {
			return nil, fmt.Errorf("%w: %q row %d has %d fields, header has %d",
				ErrMalformedTable, id, i+1, len(rec), width)
		}
	}

	return newTable(id, records), nil
}
