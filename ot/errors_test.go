package ot

import (
	"errors"
	"testing"
)

// TestErrorSeverity verifies the ErrorSeverity String() method.
func TestErrorSeverity(t *testing.T) {
	tests := []struct {
		severity ErrorSeverity
		expected string
	}{
		{SeverityCritical, "CRITICAL"},
		{SeverityMajor, "MAJOR"},
		{SeverityMinor, "MINOR"},
		{ErrorSeverity(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		result := tt.severity.String()
		if result != tt.expected {
			t.Errorf("ErrorSeverity(%d).String() = %q; want %q", tt.severity, result, tt.expected)
		}
	}
}

// TestFontError verifies FontError formatting.
func TestFontError(t *testing.T) {
	tests := []struct {
		name     string
		err      FontError
		expected string
	}{
		{
			name: "Error with offset",
			err: FontError{
				Table:    T("cmap"),
				Section:  "Format4",
				Issue:    "Buffer too small",
				Severity: SeverityMinor,
				Offset:   1234,
			},
			expected: "[MINOR] cmap/Format4 at offset 1234: Buffer too small",
		},
		{
			name:     "Glyph error",
			err:      GlyphError(17, errors.New("truncated outline")),
			expected: "[MAJOR] glyf/glyph 17: truncated outline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			if result != tt.expected {
				t.Errorf("FontError.Error() = %q; want %q", result, tt.expected)
			}
		})
	}
}

// TestFontWarning verifies FontWarning formatting.
func TestFontWarning(t *testing.T) {
	tests := []struct {
		name     string
		warning  FontWarning
		expected string
	}{
		{
			name:     "Warning with offset",
			warning:  FontWarning{Table: T("hmtx"), Issue: "left side bearings truncated", Offset: 5678},
			expected: "[WARNING] hmtx at offset 5678: left side bearings truncated",
		},
		{
			name:     "Warning without offset",
			warning:  FontWarning{Table: T("head"), Issue: "bad magic number"},
			expected: "[WARNING] head: bad magic number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.warning.String()
			if result != tt.expected {
				t.Errorf("FontWarning.String() = %q; want %q", result, tt.expected)
			}
		})
	}
}

func TestErrorCollector(t *testing.T) {
	ec := &errorCollector{}
	ec.addError(T("cmap"), "Format12", "groups exceed table", SeverityMinor, 100)
	ec.addError(T("hhea"), "NumberOfHMetrics", "too large", SeverityMajor, 0)
	ec.addWarning(T("glyf"), "table offset not 4-byte aligned", 401)
	if len(ec.errors) != 2 || len(ec.warnings) != 1 {
		t.Fatalf("expected 2 errors and 1 warning, have %d and %d", len(ec.errors), len(ec.warnings))
	}
	if ec.errors[1].Severity != SeverityMajor {
		t.Errorf("expected second error to be major, is %s", ec.errors[1].Severity)
	}
	font := &Font{parseErrors: ec.errors, parseWarnings: ec.warnings}
	if len(font.Errors()) != 2 {
		t.Errorf("Font.Errors() should return 2 errors; got %d", len(font.Errors()))
	}
	emptyFont := &Font{}
	if emptyFont.Errors() == nil || len(emptyFont.Warnings()) != 0 {
		t.Error("empty font should return empty, non-nil errors")
	}
}

func TestMissingTableError(t *testing.T) {
	err := checkMandatoryTables(newTableDirectory(0), &errorCollector{})
	if !errors.Is(err, ErrFontLoad) {
		t.Fatalf("expected font load error, got %v", err)
	}
	var missing *MissingTableError
	if !errors.As(err, &missing) || missing.Table != T("head") {
		t.Errorf("expected first missing table to be 'head', got %v", missing)
	}
}
