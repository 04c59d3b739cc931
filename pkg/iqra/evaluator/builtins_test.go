package evaluator

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/iqra-lang/iqra/pkg/iqra/parser"
)

func TestBilingualNamesShareOneImplementation(t *testing.T) {
	pairs := [][2]string{
		{"print", "اطبع"},
		{"list", "قائمة"},
		{"list_len", "طول_القائمة"},
		{"get", "عنصر"},
		{"append", "أضف"},
		{"remove", "احذف"},
		{"contains", "يحتوي"},
		{"map", "قاموس"},
		{"map_get", "جلب_عنصر"},
		{"map_set", "تعيين_عنصر"},
		{"map_remove", "حذف_عنصر"},
		{"keys", "مفاتيح"},
		{"type", "نوع"},
		{"to_number", "إلى_رقم"},
		{"to_string", "إلى_نص"},
		{"is_number", "رقم؟"},
		{"is_string", "نص؟"},
		{"len", "طول"},
		{"sum", "جمع"},
		{"average", "متوسط"},
		{"max", "أكبر"},
		{"min", "أصغر"},
		{"word_count", "عدد_الكلمات"},
		{"reverse", "عكس"},
		{"today", "تاريخ_اليوم"},
		{"parse_date", "حلل_تاريخ"},
		{"format_date", "نسق_تاريخ"},
		{"format_number", "نسق_رقم"},
		{"system", "نفذ_أمر"},
		{"system_with_io", "نفذ_أمر_بمدخل"},
		{"read_file", "اقرأ_ملف"},
		{"write_file", "اكتب_ملف"},
		{"list_files", "قائمة_ملفات"},
		{"env_var", "متغير_بيئة"},
		{"system_info", "معلومات_النظام"},
	}

	for _, pair := range pairs {
		en := LookupBuiltin(pair[0])
		ar := LookupBuiltin(pair[1])
		if en == nil || ar == nil {
			t.Errorf("missing registry entry for %q/%q", pair[0], pair[1])
			continue
		}
		if en != ar {
			t.Errorf("%q and %q resolve to different entries", pair[0], pair[1])
		}
	}

	// Extra alias
	if LookupBuiltin("قاموس_قيمة") != LookupBuiltin("map_get") {
		t.Error("قاموس_قيمة should alias map_get")
	}
}

func TestPrintGoesThroughLogger(t *testing.T) {
	program := `اطبع("مرحبا", 42, صحيح)
print("سطر ثان")`

	logger := &BufferedLogger{}
	env := NewEnvironment()
	env.SetLogger(logger)

	result := evalSource(t, program, env)
	if isError(result) {
		t.Fatalf("unexpected error: %s", result.Inspect())
	}

	lines := logger.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "مرحبا 42 صحيح" {
		t.Errorf("line 0: %q", lines[0])
	}
	if lines[1] != "سطر ثان" {
		t.Errorf("line 1: %q", lines[1])
	}
}

// evalSource runs input against a caller-supplied environment, so tests
// can observe loggers, locales, and caches across calls.
func evalSource(t *testing.T, input string, env *Environment) Object {
	t.Helper()
	program, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("parse error: %s", err.String())
	}
	return Eval(program, env)
}

func TestArityContract(t *testing.T) {
	tests := []struct {
		input string
	}{
		{"طول_القائمة()"},
		{"طول_القائمة(قائمة(), قائمة())"},
		{"عنصر(قائمة(1))"},
		{"نوع()"},
		{"تاريخ_اليوم(1)"},
		{"تعيين_عنصر(قاموس(), \"أ\")"},
	}
	for _, tt := range tests {
		errObj := evalExpectError(t, tt.input, "ARITY-0001")
		if errObj.Err.MessageAr == "" || errObj.Err.MessageEn == "" {
			t.Errorf("input %q: arity error must be bilingual", tt.input)
		}
	}
}

func TestTypeContract(t *testing.T) {
	tests := []struct {
		input string
	}{
		{"طول_القائمة(5)"},
		{"عنصر(5, 0)"},
		{"عنصر(قائمة(1), \"صفر\")"},
		{"جلب_عنصر(قائمة(), \"أ\")"},
		{"مفاتيح(قائمة())"},
		{"عدد_الكلمات(42)"},
		{"طول(صحيح)"},
		{"اقرأ_ملف(1)"},
	}
	for _, tt := range tests {
		errObj := evalExpectError(t, tt.input, "TYPE-0001")
		if errObj.Err.MessageAr == "" {
			t.Errorf("input %q: expected Arabic message", tt.input)
		}
	}
}

func TestListBuiltins(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"طول_القائمة(قائمة(1, 2, 3))", "3"},
		{"عنصر(قائمة(\"أ\", \"ب\"), 1)", "ب"},
		{"أضف(قائمة(1), 2)", "[1, 2]"},
		{"احذف(قائمة(1, 2, 3), 1)", "[1, 3]"},
		{"يحتوي(قائمة(1, 2), 2)", "صحيح"},
		{"يحتوي(قائمة(1, 2), 9)", "خطأ"},
		{"يحتوي(قائمة(\"أ\"), \"أ\")", "صحيح"},
	}
	for _, tt := range tests {
		evalExpect(t, tt.input, tt.expected)
	}

	evalExpectError(t, "عنصر(قائمة(1), 5)", "INDEX-0001")
	evalExpectError(t, "احذف(قائمة(1), 5)", "INDEX-0001")
}

func TestMapBuiltins(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"جلب_عنصر(قاموس(\"أ\", 1), \"أ\")", "1"},
		{"جلب_عنصر(قاموس(\"أ\", 1), \"ب\")", "فارغ"}, // lenient, unlike indexing
		{"تعيين_عنصر(قاموس(), \"س\", 9)", "{س: 9}"},
		{"حذف_عنصر(قاموس(\"أ\", 1, \"ب\", 2), \"أ\")", "{ب: 2}"},
		{"مفاتيح(قاموس())", "[]"},
	}
	for _, tt := range tests {
		evalExpect(t, tt.input, tt.expected)
	}

	evalExpectError(t, "قاموس(\"أ\")", "ARITY-0002")
	evalExpectError(t, "قاموس(1, 2)", "TYPE-0004")
}

func TestTypeAndConversionBuiltins(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"نوع(5)", "رقم"},
		{"نوع(\"س\")", "نص"},
		{"نوع(صحيح)", "منطقي"},
		{"نوع(فارغ)", "فارغ"},
		{"نوع(قائمة())", "قائمة"},
		{"نوع(قاموس())", "قاموس"},
		{"إلى_رقم(\"42\")", "42"},
		{"إلى_رقم(\"٤٢\")", "42"},
		{"إلى_رقم(\" 3.5 \")", "3.5"},
		{"إلى_رقم(صحيح)", "1"},
		{"إلى_نص(42)", "42"},
		{"إلى_نص(صحيح)", "صحيح"},
		{"رقم؟(5)", "صحيح"},
		{"رقم؟(\"5\")", "خطأ"},
		{"نص؟(\"س\")", "صحيح"},
		{"نص؟(5)", "خطأ"},
	}
	for _, tt := range tests {
		evalExpect(t, tt.input, tt.expected)
	}

	evalExpectError(t, "إلى_رقم(\"ليس رقماً\")", "CONV-0001")
}

func TestStringAndAggregateBuiltins(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"طول(\"سلام\")", "4"}, // runes, not bytes
		{"طول(قائمة(1, 2))", "2"},
		{"طول(قاموس(\"أ\", 1))", "1"},
		{"جمع(قائمة(1, 2, 3))", "6"},
		{"جمع(قائمة())", "0"},
		{"جمع(قائمة(\"٢\", 3))", "5"}, // element coercion
		{"متوسط(قائمة(2, 4, 6))", "4"},
		{"أكبر(قائمة(3, 9, 1))", "9"},
		{"أصغر(قائمة(3, 9, 1))", "1"},
		{"أكبر(قائمة())", "فارغ"},
		{"عدد_الكلمات(\"واحد اثنان ثلاثة\")", "3"},
		{"عدد_الكلمات(\"\")", "0"},
		{"عكس(\"abc\")", "cba"},
		{"عكس(قائمة(1, 2, 3))", "[3, 2, 1]"},
	}
	for _, tt := range tests {
		evalExpect(t, tt.input, tt.expected)
	}

	evalExpectError(t, "متوسط(قائمة())", "OP-0002")
	evalExpectError(t, "جمع(قائمة(قائمة()))", "CONV-0001")
}

func TestReverseLeavesOriginalIntact(t *testing.T) {
	evalExpect(t, `
أ = قائمة(1, 2, 3)
ب = عكس(أ)
عنصر(أ, 0)`, "1")
}

func TestTodayFormatAndCaching(t *testing.T) {
	env := NewEnvironment()
	env.SetLogger(&NullLogger{})

	first := evalSource(t, "تاريخ_اليوم()", env)
	str, ok := first.(*Str)
	if !ok {
		t.Fatalf("expected Str, got %T", first)
	}
	if !regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`).MatchString(str.Value) {
		t.Errorf("expected YYYY-MM-DD, got %q", str.Value)
	}

	second := evalSource(t, "today()", env)
	if second.(*Str).Value != str.Value {
		t.Error("today must be cached per run")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`حلل_تاريخ("March 5, 2026")`, "2026-03-05"},
		{`حلل_تاريخ("2026-03-05T10:30:00Z")`, "2026-03-05"},
		{`parse_date("05 Mar 2026")`, "2026-03-05"},
	}
	for _, tt := range tests {
		evalExpect(t, tt.input, tt.expected)
	}

	evalExpectError(t, `حلل_تاريخ("ليس تاريخاً")`, "FMT-0001")
}

func TestFormatDate(t *testing.T) {
	env := NewEnvironment()
	env.SetLogger(&NullLogger{})

	result := evalSource(t, `نسق_تاريخ("2026-03-02")`, env)
	str, ok := result.(*Str)
	if !ok {
		t.Fatalf("expected Str, got %s", result.Inspect())
	}
	if !strings.Contains(str.Value, "March") || !strings.Contains(str.Value, "2026") {
		t.Errorf("expected written English date, got %q", str.Value)
	}

	env.SetLocale("fr")
	result = evalSource(t, `نسق_تاريخ("2026-03-02")`, env)
	if !strings.Contains(result.(*Str).Value, "mars") {
		t.Errorf("expected French month name, got %q", result.Inspect())
	}

	evalExpectError(t, `نسق_تاريخ("اليوم")`, "FMT-0001")
}

func TestFormatNumber(t *testing.T) {
	env := NewEnvironment()
	env.SetLogger(&NullLogger{})

	result := evalSource(t, "نسق_رقم(1234567)", env)
	if got := result.(*Str).Value; got != "1,234,567" {
		t.Errorf("en grouping: got %q", got)
	}

	// The ar locale renders Arabic-Indic digits
	env.SetLocale("ar")
	result = evalSource(t, "نسق_رقم(1234)", env)
	if got := result.(*Str).Value; !strings.Contains(got, "١") {
		t.Errorf("ar locale should use Arabic-Indic digits, got %q", got)
	}
}

func TestFileBuiltins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "قصة.txt")

	env := NewEnvironment()
	env.SetLogger(&NullLogger{})

	write := `اكتب_ملف("` + path + `", "كان يا ما كان")`
	if result := evalSource(t, write, env); isError(result) {
		t.Fatalf("write failed: %s", result.Inspect())
	}

	read := `اقرأ_ملف("` + path + `")`
	result := evalSource(t, read, env)
	if result.Inspect() != "كان يا ما كان" {
		t.Errorf("read back %q", result.Inspect())
	}

	files := evalSource(t, `قائمة_ملفات("`+dir+`")`, env)
	if files.Inspect() != `["قصة.txt"]` {
		t.Errorf("list_files: %s", files.Inspect())
	}

	evalExpectError(t, `اقرأ_ملف("`+filepath.Join(dir, "غير_موجود")+`")`, "IO-0001")
	evalExpectError(t, `قائمة_ملفات("`+filepath.Join(dir, "غير_موجود")+`")`, "IO-0003")
}

func TestEnvVar(t *testing.T) {
	os.Setenv("IQRA_TEST_VALUE", "قيمة")
	defer os.Unsetenv("IQRA_TEST_VALUE")

	evalExpect(t, `متغير_بيئة("IQRA_TEST_VALUE")`, "قيمة")
	evalExpect(t, `متغير_بيئة("IQRA_TEST_DOES_NOT_EXIST")`, "فارغ")
}

func TestSystemInfo(t *testing.T) {
	env := NewEnvironment()
	env.SetLogger(&NullLogger{})

	result := evalSource(t, "معلومات_النظام()", env)
	dict, ok := result.(*Dict)
	if !ok {
		t.Fatalf("expected Dict, got %T", result)
	}
	if _, found := dict.Get("os"); !found {
		t.Error("missing os key")
	}
	if _, found := dict.Get("arch"); !found {
		t.Error("missing arch key")
	}

	// Cached: same Dict pointer on every call
	again := evalSource(t, "system_info()", env)
	if again.(*Dict) != dict {
		t.Error("system_info must be cached per run")
	}
}
