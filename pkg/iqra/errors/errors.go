// Package errors provides structured, bilingual error types for the Iqra
// language.
//
// Every error carries an Arabic and an English rendering of the same
// message, a stable code, an optional corrective suggestion in both
// languages, and a source position. Lexer, parser, and evaluator all draw
// from one catalog so that the two language surfaces can never drift.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassLex       ErrorClass = "lex"       // Tokenizer errors
	ClassParse     ErrorClass = "parse"     // Parser/syntax errors
	ClassType      ErrorClass = "type"      // Type mismatches
	ClassArity     ErrorClass = "arity"     // Wrong argument count
	ClassUndefined ErrorClass = "undefined" // Not found/defined
	ClassOperator  ErrorClass = "operator"  // Invalid operations
	ClassIndex     ErrorClass = "index"     // Out of bounds / missing key
	ClassConvert   ErrorClass = "convert"   // Value conversion failures
	ClassIO        ErrorClass = "io"        // File and environment access
	ClassSystem    ErrorClass = "system"    // Process execution
	ClassFormat    ErrorClass = "format"    // Date/number formatting
)

// IqraError represents any error from tokenizing, parsing, or evaluation.
type IqraError struct {
	Class     ErrorClass     `json:"class"`
	Code      string         `json:"code"`              // e.g. "TYPE-0001"
	MessageAr string         `json:"message_ar"`        // Arabic rendering
	MessageEn string         `json:"message_en"`        // English rendering
	HintAr    string         `json:"hint_ar,omitempty"` // Arabic suggestion
	HintEn    string         `json:"hint_en,omitempty"` // English suggestion
	Line      int            `json:"line"`              // 1-based (0 if unknown)
	Column    int            `json:"column"`            // 1-based (0 if unknown)
	Data      map[string]any `json:"data,omitempty"`    // Template variables
}

// Error implements the error interface.
func (e *IqraError) Error() string {
	return e.String()
}

// String renders the error in the bilingual "arabic | english" form used
// across the whole toolchain.
func (e *IqraError) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(e.Code)
	sb.WriteString("] ")
	sb.WriteString(e.MessageAr)
	sb.WriteString(" | ")
	sb.WriteString(e.MessageEn)
	if e.HintAr != "" || e.HintEn != "" {
		sb.WriteString("\nاقتراح: ")
		sb.WriteString(e.HintAr)
		sb.WriteString(" | Suggestion: ")
		sb.WriteString(e.HintEn)
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("\nالسطر %d، العمود %d | line %d, column %d",
			e.Line, e.Column, e.Line, e.Column))
	}
	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *IqraError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithPosition returns a copy of the error with line and column set.
func (e *IqraError) WithPosition(line, column int) *IqraError {
	copy := *e
	copy.Line = line
	copy.Column = column
	return &copy
}

// WithHints returns a copy of the error with replacement suggestions.
func (e *IqraError) WithHints(hintAr, hintEn string) *IqraError {
	copy := *e
	copy.HintAr = hintAr
	copy.HintEn = hintEn
	return &copy
}

// IsLexError reports whether this error came from tokenization.
func (e *IqraError) IsLexError() bool { return e.Class == ClassLex }

// IsParseError reports whether this error came from parsing.
func (e *IqraError) IsParseError() bool { return e.Class == ClassParse }

// IsRuntimeError reports whether this error came from evaluation.
func (e *IqraError) IsRuntimeError() bool {
	return e.Class != ClassLex && e.Class != ClassParse
}

// ErrorDef defines an error in the catalog. Message and hint templates
// exist in both languages and share one set of {{.placeholders}}.
type ErrorDef struct {
	Class      ErrorClass
	TemplateAr string
	TemplateEn string
	HintAr     string
	HintEn     string
}

// ErrorCatalog maps error codes to their bilingual definitions.
var ErrorCatalog = map[string]ErrorDef{
	// Lex errors
	"LEX-0001": {
		Class:      ClassLex,
		TemplateAr: "سلسلة نصية غير منتهية",
		TemplateEn: "unterminated string",
		HintAr:     "أغلق السلسلة بعلامة \"",
		HintEn:     "close the string with \"",
	},
	"LEX-0002": {
		Class:      ClassLex,
		TemplateAr: "حرف غير صالح: '{{.Char}}'",
		TemplateEn: "invalid character: '{{.Char}}'",
	},

	// Parse errors
	"PARSE-0001": {
		Class:      ClassParse,
		TemplateAr: "توقعت {{.Expected}}، وجدت '{{.Got}}'",
		TemplateEn: "expected {{.Expected}}, found '{{.Got}}'",
	},
	"PARSE-0002": {
		Class:      ClassParse,
		TemplateAr: "رمز غير متوقع: '{{.Token}}'",
		TemplateEn: "unexpected token: '{{.Token}}'",
	},
	"PARSE-0003": {
		Class:      ClassParse,
		TemplateAr: "كتلة غير مغلقة",
		TemplateEn: "unclosed block",
		HintAr:     "أغلق الكتلة بقوس }",
		HintEn:     "close the block with }",
	},

	// Type errors
	"TYPE-0001": {
		Class:      ClassType,
		TemplateAr: "{{.Function}} تتوقع {{.ExpectedAr}}، وجدت {{.GotAr}}",
		TemplateEn: "{{.Function}} expects {{.Expected}}, got {{.Got}}",
		HintAr:     "تأكد من نوع الوسائط",
		HintEn:     "check the argument types",
	},
	"TYPE-0002": {
		Class:      ClassType,
		TemplateAr: "معاملات غير صالحة للعملية '{{.Operator}}'",
		TemplateEn: "invalid operands for operator '{{.Operator}}'",
		HintAr:     "استخدم أرقاماً فقط",
		HintEn:     "use numbers only",
	},
	"TYPE-0003": {
		Class:      ClassType,
		TemplateAr: "لا يمكن استدعاء {{.GotAr}} كدالة",
		TemplateEn: "cannot call {{.Got}} as a function",
	},
	"TYPE-0004": {
		Class:      ClassType,
		TemplateAr: "مفاتيح القاموس يجب أن تكون نصوصاً",
		TemplateEn: "map keys must be strings",
		HintAr:     "تأكد أن جميع المفاتيح نصوص",
		HintEn:     "make every key a string",
	},

	// Arity errors
	"ARITY-0001": {
		Class:      ClassArity,
		TemplateAr: "{{.Function}} تتوقع {{.Want}} من الوسائط، وجدت {{.Got}}",
		TemplateEn: "{{.Function}} expects {{.Want}} argument(s), got {{.Got}}",
		HintAr:     "تأكد من عدد الوسائط المدخلة",
		HintEn:     "check the number of arguments",
	},
	"ARITY-0002": {
		Class:      ClassArity,
		TemplateAr: "{{.Function}} تتوقع عدداً زوجياً من الوسائط",
		TemplateEn: "{{.Function}} expects an even number of arguments",
		HintAr:     "استخدم أزواج مفتاح/قيمة",
		HintEn:     "pass key/value pairs",
	},

	// Undefined errors
	"UNDEF-0001": {
		Class:      ClassUndefined,
		TemplateAr: "المتغير غير معرف: {{.Name}}",
		TemplateEn: "undefined variable: {{.Name}}",
		HintAr:     "تأكد من تعريف المتغير قبل استخدامه",
		HintEn:     "define the variable before using it",
	},
	"UNDEF-0002": {
		Class:      ClassUndefined,
		TemplateAr: "الدالة غير معرفة: {{.Name}}",
		TemplateEn: "undefined function: {{.Name}}",
		HintAr:     "تأكد من كتابة اسم الدالة بشكل صحيح",
		HintEn:     "check the spelling of the function name",
	},

	// Operator errors
	"OP-0001": {
		Class:      ClassOperator,
		TemplateAr: "عملية غير معروفة: {{.Operator}}",
		TemplateEn: "unknown operator: {{.Operator}}",
	},
	"OP-0002": {
		Class:      ClassOperator,
		TemplateAr: "القسمة على صفر",
		TemplateEn: "division by zero",
		HintAr:     "تأكد أن المقسوم عليه ليس صفراً",
		HintEn:     "make sure the divisor is not zero",
	},
	"OP-0003": {
		Class:      ClassOperator,
		TemplateAr: "القسمة الباقية على صفر",
		TemplateEn: "modulo by zero",
		HintAr:     "تأكد أن المقسوم عليه ليس صفراً",
		HintEn:     "make sure the divisor is not zero",
	},

	// Index errors
	"INDEX-0001": {
		Class:      ClassIndex,
		TemplateAr: "الفهرس خارج النطاق: {{.Index}}",
		TemplateEn: "index out of bounds: {{.Index}}",
		HintAr:     "تأكد من أن الفهرس ضمن حدود القائمة",
		HintEn:     "keep the index within the list bounds",
	},
	"INDEX-0002": {
		Class:      ClassIndex,
		TemplateAr: "المفتاح غير موجود: {{.Key}}",
		TemplateEn: "key not found: {{.Key}}",
		HintAr:     "تأكد من وجود المفتاح في القاموس",
		HintEn:     "make sure the key exists in the map",
	},
	"INDEX-0003": {
		Class:      ClassIndex,
		TemplateAr: "عملية فهرسة غير صالحة",
		TemplateEn: "invalid indexing operation",
		HintAr:     "استخدم قائمة أو قاموساً مع فهرس مناسب",
		HintEn:     "index a list with a number or a map with a string",
	},

	// Conversion errors
	"CONV-0001": {
		Class:      ClassConvert,
		TemplateAr: "لا يمكن تحويل '{{.Value}}' إلى رقم",
		TemplateEn: "cannot convert '{{.Value}}' to number",
		HintAr:     "تأكد أن النص يمثل رقماً صالحاً",
		HintEn:     "make sure the text is a valid number",
	},

	// I/O errors
	"IO-0001": {
		Class:      ClassIO,
		TemplateAr: "فشل قراءة الملف: {{.GoError}}",
		TemplateEn: "failed to read file: {{.GoError}}",
		HintAr:     "تأكد من صحة المسار وصلاحيات القراءة",
		HintEn:     "check the path and read permissions",
	},
	"IO-0002": {
		Class:      ClassIO,
		TemplateAr: "فشل كتابة الملف: {{.GoError}}",
		TemplateEn: "failed to write file: {{.GoError}}",
		HintAr:     "تأكد من صحة المسار وصلاحيات الكتابة",
		HintEn:     "check the path and write permissions",
	},
	"IO-0003": {
		Class:      ClassIO,
		TemplateAr: "فشل جلب قائمة الملفات: {{.GoError}}",
		TemplateEn: "failed to list files: {{.GoError}}",
		HintAr:     "تأكد من صحة المسار",
		HintEn:     "check the path",
	},

	// System execution errors
	"SYS-0001": {
		Class:      ClassSystem,
		TemplateAr: "فشل تنفيذ الأمر: {{.GoError}}",
		TemplateEn: "system command failed: {{.GoError}}",
		HintAr:     "تأكد من صحة الأمر وصلاحيات التنفيذ",
		HintEn:     "check the command and execute permissions",
	},
	"SYS-0002": {
		Class:      ClassSystem,
		TemplateAr: "أمر فارغ",
		TemplateEn: "empty command",
	},
	"SYS-0003": {
		Class:      ClassSystem,
		TemplateAr: "البرنامج غير موجود والتنفيذ عبر الصدفة معطل: {{.Command}}",
		TemplateEn: "program not found and shell fallback is disabled: {{.Command}}",
		HintAr:     "عيّن IQRA_ALLOW_SHELL_FALLBACK=1 لتفعيل التنفيذ عبر الصدفة (غير آمن للمدخلات غير الموثوقة)",
		HintEn:     "set IQRA_ALLOW_SHELL_FALLBACK=1 to enable shell fallback (unsafe for untrusted input)",
	},
	"SYS-0004": {
		Class:      ClassSystem,
		TemplateAr: "لم يُضبط منفذ النظام",
		TemplateEn: "no system executor configured",
	},

	// Format errors
	"FMT-0001": {
		Class:      ClassFormat,
		TemplateAr: "تاريخ غير صالح: {{.Value}}",
		TemplateEn: "invalid date: {{.Value}}",
		HintAr:     "استخدم تاريخاً مثل 2026-08-24",
		HintEn:     "use a date like 2026-08-24",
	},
}

// New creates an IqraError from the catalog. Unknown codes produce a
// generic operator-class error carrying the code as the message.
func New(code string, data map[string]any) *IqraError {
	def, ok := ErrorCatalog[code]
	if !ok {
		return &IqraError{
			Class:     ClassOperator,
			Code:      code,
			MessageAr: code,
			MessageEn: code,
			Data:      data,
		}
	}
	return &IqraError{
		Class:     def.Class,
		Code:      code,
		MessageAr: renderTemplate(def.TemplateAr, data),
		MessageEn: renderTemplate(def.TemplateEn, data),
		HintAr:    renderTemplate(def.HintAr, data),
		HintEn:    renderTemplate(def.HintEn, data),
		Data:      data,
	}
}

// NewWithPosition creates an IqraError with position information.
func NewWithPosition(code string, line, column int, data map[string]any) *IqraError {
	err := New(code, data)
	err.Line = line
	err.Column = column
	return err
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil || tmplStr == "" {
		return tmplStr
	}
	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}
	return buf.String()
}

// levenshteinDistance computes the edit distance between two strings.
// Operates on runes so Arabic identifiers measure correctly.
func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	matrix := make([][]int, len(ra)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(rb)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(ra)][len(rb)]
}

// FindClosestMatch finds the closest match to the given name from the
// candidates, within an edit-distance threshold scaled by name length.
// Returns "" when nothing is close enough.
func FindClosestMatch(input string, candidates []string) string {
	if len(input) == 0 || len(candidates) == 0 {
		return ""
	}

	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.Strings(sorted)

	inputLower := strings.ToLower(input)
	var bestMatch string
	bestDistance := -1

	for _, candidate := range sorted {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	runeLen := len([]rune(input))
	threshold := 1
	if runeLen >= 4 && runeLen <= 6 {
		threshold = 2
	} else if runeLen >= 7 {
		threshold = 3
	}

	if bestDistance <= 0 || bestDistance > threshold {
		return ""
	}
	return bestMatch
}

// NewUndefinedVariable creates an undefined variable error, adding a
// bilingual "did you mean" suggestion when a near-miss exists.
func NewUndefinedVariable(name string, available []string) *IqraError {
	err := New("UNDEF-0001", map[string]any{"Name": name})
	if suggestion := FindClosestMatch(name, available); suggestion != "" {
		err.HintAr = "هل تقصد '" + suggestion + "'؟"
		err.HintEn = "did you mean '" + suggestion + "'?"
	}
	return err
}

// NewUndefinedFunction creates an undefined function error, adding a
// bilingual "did you mean" suggestion when a near-miss exists.
func NewUndefinedFunction(name string, available []string) *IqraError {
	err := New("UNDEF-0002", map[string]any{"Name": name})
	if suggestion := FindClosestMatch(name, available); suggestion != "" {
		err.HintAr = "هل تقصد '" + suggestion + "'؟"
		err.HintEn = "did you mean '" + suggestion + "'?"
	}
	return err
}
