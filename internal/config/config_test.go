package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/PBPF11/vacathon/internal/config"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "import.json")
	body := `{
		"job": "um_races",
		"source": {"kind": "file", "file": {"path": "races.csv"}},
		"parser": {"kind": "csv", "options": {"has_header": true, "comma": ";"}},
		"import": {"limit": 25, "dry_run": true},
		"storage": {"kind": "postgres", "db": {"dsn": "postgresql://localhost/vacathon", "auto_migrate": true}}
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	p, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Source.File.Path != "races.csv" {
		t.Fatalf("path=%q", p.Source.File.Path)
	}
	if p.Import.Limit != 25 || !p.Import.DryRun {
		t.Fatalf("import=%+v", p.Import)
	}
	if !p.Parser.Options.Bool("has_header", false) {
		t.Fatalf("has_header option lost")
	}
	if p.Parser.Options.Rune("comma", ',') != ';' {
		t.Fatalf("comma option lost")
	}
	if !p.Storage.DB.AutoMigrate {
		t.Fatalf("auto_migrate lost")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing config")
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := config.Options{"n": float64(3), "s": "x", "m": map[string]any{"a": "b", "skip": 1}}
	if o.Int("n", 0) != 3 {
		t.Fatalf("Int")
	}
	if o.Int("missing", 7) != 7 {
		t.Fatalf("Int default")
	}
	if o.String("s", "") != "x" {
		t.Fatalf("String")
	}
	if m := o.StringMap("m"); m["a"] != "b" || len(m) != 1 {
		t.Fatalf("StringMap=%v", m)
	}
}

func TestValidatePipeline(t *testing.T) {
	p := config.Default()
	if issues := config.ValidatePipeline(p); config.HasErrors(issues) {
		t.Fatalf("default pipeline should validate, got %v", issues)
	}

	p.Source.File.Path = ""
	p.Storage.Kind = "oracle"
	issues := config.ValidatePipeline(p)
	if !config.HasErrors(issues) {
		t.Fatalf("expected errors, got %v", issues)
	}

	paths := map[string]bool{}
	for _, iss := range issues {
		paths[iss.Path] = true
	}
	if !paths["source.file.path"] || !paths["storage.kind"] {
		t.Fatalf("missing expected issue paths: %v", issues)
	}
}

func TestValidatePipelineDryRunRelaxesStorage(t *testing.T) {
	p := config.Default()
	p.Import.DryRun = true
	p.Storage.Kind = "oracle"
	for _, iss := range config.ValidatePipeline(p) {
		if iss.Path == "storage.kind" && iss.Severity == config.SeverityError {
			t.Fatalf("dry-run storage issues should be warnings: %v", iss)
		}
	}
}
