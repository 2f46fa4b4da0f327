package ot

import (
	"errors"
	"fmt"
)

// ErrFontLoad is the terminal error for fonts which cannot be turned into
// geometry at all, e.g. because a mandatory table is missing.
var ErrFontLoad = errors.New("font load error")

// MissingTableError reports a mandatory table absent from the table directory.
// Parse reports one MissingTableError per missing table, joined and wrapped
// with ErrFontLoad.
type MissingTableError struct {
	Table Tag
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("missing mandatory table '%s'", e.Table)
}

// errFontFormat produces user level errors for structural font format problems.
func errFontFormat(message string) error {
	return fmt.Errorf("%w: TrueType font format: %s", ErrFontLoad, message)
}

// ErrorSeverity represents the severity level of a font parsing error.
type ErrorSeverity int

const (
	// SeverityCritical indicates an error that makes the font unusable.
	SeverityCritical ErrorSeverity = iota
	// SeverityMajor indicates an error confined to a part of the font, e.g. a single glyph.
	SeverityMajor
	// SeverityMinor indicates an issue that can be safely ignored in most cases.
	SeverityMinor
)

// String returns a human-readable representation of the error severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityMajor:
		return "MAJOR"
	case SeverityMinor:
		return "MINOR"
	default:
		return "UNKNOWN"
	}
}

// FontError represents an error encountered during font parsing or mesh compilation.
// Errors are accumulated and can be inspected after parsing completes.
type FontError struct {
	Table    Tag           // The table where the error occurred (e.g., "glyf", "cmap")
	Section  string        // Specific section within the table (e.g., "glyph 17", "Format4")
	Issue    string        // Human-readable description of the issue
	Severity ErrorSeverity // Severity level of the error
	Offset   uint32        // Byte offset in the font file where the error occurred (0 if unknown)
}

// Error implements the error interface.
func (e FontError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("[%s] %s/%s at offset %d: %s", e.Severity, e.Table, e.Section, e.Offset, e.Issue)
	}
	return fmt.Sprintf("[%s] %s/%s: %s", e.Severity, e.Table, e.Section, e.Issue)
}

// GlyphError creates a major error for a single glyph. Glyphs with errors
// are compiled to empty geometry, the rest of the font is unaffected.
func GlyphError(glyph GlyphIndex, err error) FontError {
	return FontError{
		Table:    T("glyf"),
		Section:  fmt.Sprintf("glyph %d", glyph),
		Issue:    err.Error(),
		Severity: SeverityMajor,
	}
}

// FontWarning represents a non-critical issue encountered during font parsing.
// Warnings indicate potential problems but do not prevent font usage.
type FontWarning struct {
	Table  Tag    // The table where the warning occurred
	Issue  string // Human-readable description of the warning
	Offset uint32 // Byte offset in the font file where the warning occurred (0 if unknown)
}

// String returns a human-readable representation of the warning.
func (w FontWarning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("[WARNING] %s at offset %d: %s", w.Table, w.Offset, w.Issue)
	}
	return fmt.Sprintf("[WARNING] %s: %s", w.Table, w.Issue)
}

// errorCollector accumulates errors and warnings during font parsing.
type errorCollector struct {
	errors   []FontError
	warnings []FontWarning
}

func (ec *errorCollector) addError(table Tag, section string, issue string, severity ErrorSeverity, offset uint32) {
	ec.errors = append(ec.errors, FontError{
		Table:    table,
		Section:  section,
		Issue:    issue,
		Severity: severity,
		Offset:   offset,
	})
}

func (ec *errorCollector) addWarning(table Tag, issue string, offset uint32) {
	ec.warnings = append(ec.warnings, FontWarning{
		Table:  table,
		Issue:  issue,
		Offset: offset,
	})
}
