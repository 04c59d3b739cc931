package errors

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCatalogRendersBothLanguages(t *testing.T) {
	for code, def := range ErrorCatalog {
		if def.TemplateAr == "" || def.TemplateEn == "" {
			t.Errorf("%s: both templates must be defined", code)
		}
	}
}

func TestNewRendersTemplates(t *testing.T) {
	err := New("UNDEF-0001", map[string]any{"Name": "العدد"})

	if err.Code != "UNDEF-0001" {
		t.Errorf("code %q", err.Code)
	}
	if err.Class != ClassUndefined {
		t.Errorf("class %q", err.Class)
	}
	if !strings.Contains(err.MessageAr, "العدد") {
		t.Errorf("arabic message missing name: %q", err.MessageAr)
	}
	if !strings.Contains(err.MessageEn, "العدد") {
		t.Errorf("english message missing name: %q", err.MessageEn)
	}
}

func TestUnknownCodeFallsBack(t *testing.T) {
	err := New("NOPE-9999", nil)
	if err.MessageEn != "NOPE-9999" {
		t.Errorf("expected code as message, got %q", err.MessageEn)
	}
}

func TestStringFormat(t *testing.T) {
	err := NewWithPosition("OP-0002", 3, 7, nil)
	s := err.String()

	if !strings.HasPrefix(s, "[OP-0002] ") {
		t.Errorf("missing code prefix: %q", s)
	}
	if !strings.Contains(s, "القسمة على صفر | division by zero") {
		t.Errorf("missing bilingual message: %q", s)
	}
	if !strings.Contains(s, "line 3, column 7") {
		t.Errorf("missing position: %q", s)
	}
	if !strings.Contains(s, "السطر 3، العمود 7") {
		t.Errorf("missing arabic position: %q", s)
	}
}

func TestWithPositionDoesNotMutate(t *testing.T) {
	base := New("OP-0002", nil)
	positioned := base.WithPosition(5, 2)

	if base.Line != 0 {
		t.Errorf("base mutated: line=%d", base.Line)
	}
	if positioned.Line != 5 || positioned.Column != 2 {
		t.Errorf("position not set: %d:%d", positioned.Line, positioned.Column)
	}
}

func TestClassPredicates(t *testing.T) {
	if !New("LEX-0001", nil).IsLexError() {
		t.Error("LEX-0001 should be a lex error")
	}
	if !New("PARSE-0002", map[string]any{"Token": "x"}).IsParseError() {
		t.Error("PARSE-0002 should be a parse error")
	}
	if !New("TYPE-0001", nil).IsRuntimeError() {
		t.Error("TYPE-0001 should be a runtime error")
	}
	if New("LEX-0001", nil).IsRuntimeError() {
		t.Error("LEX-0001 is not a runtime error")
	}
}

func TestToJSON(t *testing.T) {
	err := NewWithPosition("OP-0002", 1, 4, nil)
	data, jerr := err.ToJSON()
	if jerr != nil {
		t.Fatalf("marshal: %v", jerr)
	}

	var decoded map[string]any
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("unmarshal: %v", jerr)
	}
	if decoded["code"] != "OP-0002" {
		t.Errorf("code: %v", decoded["code"])
	}
	if decoded["message_en"] != "division by zero" {
		t.Errorf("message_en: %v", decoded["message_en"])
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"kitten", "sitting", 3},
		{"مجموع", "مجموع", 0},
		{"مجموع", "مجموعه", 1}, // rune-based, not byte-based
	}

	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.expected {
			t.Errorf("distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestFindClosestMatch(t *testing.T) {
	candidates := []string{"اطبع", "طول", "مجموع", "print", "length"}

	tests := []struct {
		input    string
		expected string
	}{
		{"اطبعع", "اطبع"},
		{"prin", "print"},
		{"lenght", "length"},
		{"zzzzzz", ""},  // nothing close
		{"اطبع", ""},    // exact match is not a suggestion
		{"", ""},
	}

	for _, tt := range tests {
		if got := FindClosestMatch(tt.input, candidates); got != tt.expected {
			t.Errorf("FindClosestMatch(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestUndefinedVariableSuggestion(t *testing.T) {
	err := NewUndefinedVariable("مجموعع", []string{"مجموع", "س"})
	if !strings.Contains(err.HintAr, "مجموع") {
		t.Errorf("arabic hint missing suggestion: %q", err.HintAr)
	}
	if !strings.Contains(err.HintEn, "مجموع") {
		t.Errorf("english hint missing suggestion: %q", err.HintEn)
	}

	// No near-miss keeps the catalog hint
	err = NewUndefinedVariable("qqqq", []string{"مجموع"})
	if strings.Contains(err.HintEn, "did you mean") {
		t.Errorf("unexpected suggestion: %q", err.HintEn)
	}
}
