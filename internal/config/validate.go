// Package config provides configuration models and helpers for import jobs.
//
// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "source.file.path"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// knownStorageKinds mirrors the backends wired via internal/storage/all.
var knownStorageKinds = map[string]bool{
	"postgres": true,
	"sqlite":   true,
	"mysql":    true,
	"mssql":    true,
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Instead it returns a slice of Issue
// values; callers decide whether warnings are fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{SeverityWarning, "job", "job name is empty; logs and metrics will use a generic label"})
	}

	switch p.Source.Kind {
	case "file":
		if strings.TrimSpace(p.Source.File.Path) == "" {
			issues = append(issues, Issue{SeverityError, "source.file.path", "path must not be empty"})
		}
	case "":
		issues = append(issues, Issue{SeverityError, "source.kind", "source kind is required (expected \"file\")"})
	default:
		issues = append(issues, Issue{SeverityError, "source.kind", fmt.Sprintf("unsupported source kind %q", p.Source.Kind)})
	}

	switch p.Parser.Kind {
	case "csv":
	case "":
		issues = append(issues, Issue{SeverityError, "parser.kind", "parser kind is required (expected \"csv\")"})
	default:
		issues = append(issues, Issue{SeverityError, "parser.kind", fmt.Sprintf("unsupported parser kind %q", p.Parser.Kind)})
	}

	if p.Import.Limit < 0 {
		issues = append(issues, Issue{SeverityError, "import.limit", "limit must not be negative"})
	}

	// In dry-run mode storage is never opened, so storage problems degrade
	// to warnings there.
	storageSeverity := SeverityError
	if p.Import.DryRun {
		storageSeverity = SeverityWarning
	}

	if p.Storage.Kind == "" {
		issues = append(issues, Issue{storageSeverity, "storage.kind", "storage kind is required"})
	} else if !knownStorageKinds[p.Storage.Kind] {
		issues = append(issues, Issue{storageSeverity, "storage.kind", fmt.Sprintf("unknown storage kind %q", p.Storage.Kind)})
	}
	if p.Storage.Kind != "" && strings.TrimSpace(p.Storage.DB.DSN) == "" {
		issues = append(issues, Issue{storageSeverity, "storage.db.dsn", "DSN must not be empty"})
	}

	return issues
}

// HasErrors reports whether any issue carries error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}
