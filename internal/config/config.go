// Package config defines the canonical, JSON-serializable configuration model
// for the race importer. It is intentionally small, explicit, and dependency-
// free so that import jobs can be loaded from disk (or other sources) and
// passed through the program without additional glue code.
//
// Example (trimmed):
//
//	{
//	  "job":     "um_races",
//	  "source":  { "kind": "file", "file": { "path": "TWO_CENTURIES_OF_UM_RACES.csv" } },
//	  "parser":  { "kind": "csv", "options": { "has_header": true } },
//	  "import":  { "limit": 0, "dry_run": false },
//	  "storage": { "kind": "sqlite", "db": { "dsn": "vacathon.db", "auto_migrate": true } }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultCSVPath is the dataset shipped alongside the project checkout.
const DefaultCSVPath = "TWO_CENTURIES_OF_UM_RACES.csv"

// Pipeline describes a full import job. It is the top-level object decoded
// from a config file (e.g., configs/*.json).
type Pipeline struct {
	// Job names the import run; it labels logs and metrics.
	Job string `json:"job"`

	// Source describes where input data comes from (e.g., local file).
	Source Source `json:"source"`

	// Parser configures how raw bytes are turned into records (e.g., CSV).
	Parser Parser `json:"parser"`

	// Import carries importer-level behavior: event cap and dry-run mode.
	Import Import `json:"import"`

	// Storage describes where derived events are written.
	Storage Storage `json:"storage"`
}

// Source identifies the data source. Additional kinds can be added over time.
type Source struct {
	// Kind selects the source implementation. Current value: "file".
	Kind string `json:"kind"`

	// File carries options for the "file" source kind.
	File SourceFile `json:"file"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	// Path is the local filesystem path to the input CSV.
	Path string `json:"path"`
}

// Parser selects how to parse the raw source into logical rows/columns.
type Parser struct {
	// Kind selects the parser implementation. Current value: "csv".
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the parser implementation.
	// For CSV, typical keys include:
	//   has_header (bool), comma (string), trim_space (bool), header_map (object)
	Options Options `json:"options"`
}

// Import controls importer behavior across all storage kinds.
type Import struct {
	// Limit caps the number of distinct events admitted; 0 means no cap.
	Limit int `json:"limit"`

	// DryRun previews derived events without touching storage.
	DryRun bool `json:"dry_run"`
}

// Storage selects the sink used to persist derived events.
type Storage struct {
	// Kind selects the storage implementation: "postgres", "sqlite",
	// "mysql", or "mssql".
	Kind string `json:"kind"`

	// DB configures the selected backend.
	DB DBConfig `json:"db"`
}

// DBConfig configures the DB sink.
type DBConfig struct {
	// DSN is the backend connection string (pgx URL, sqlite path, mysql DSN).
	DSN string `json:"dsn"`

	// AutoMigrate creates the events/categories schema when missing.
	AutoMigrate bool `json:"auto_migrate"`
}

// Default returns the pipeline used when no config file is given: the
// bundled dataset into a local SQLite file.
func Default() Pipeline {
	return Pipeline{
		Job:    "um_races",
		Source: Source{Kind: "file", File: SourceFile{Path: DefaultCSVPath}},
		Parser: Parser{Kind: "csv", Options: Options{}},
		Storage: Storage{
			Kind: "sqlite",
			DB:   DBConfig{DSN: "vacathon.db", AutoMigrate: true},
		},
	}
}

// Load decodes a Pipeline from a JSON file.
func Load(path string) (Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var p Pipeline
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		return Pipeline{}, fmt.Errorf("decode config: %w", err)
	}
	return p, nil
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It purposefully
// performs only minimal type coercion and returns provided defaults when a
// key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers are decoded as
// float64 by encoding/json, so this method accepts float64 and casts to int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. Useful for single-character parser settings such as a
// CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored. Returns an empty
// map when the key is missing or the value is not an object.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null
// "options" object in JSON decodes to a non-nil, empty Options map. This
// simplifies call sites by removing the need to nil-check Options values.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
