package parser

import (
	"testing"

	"github.com/iqra-lang/iqra/pkg/iqra/ast"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, err := Parse(input)
	if err != nil {
		t.Fatalf("parse error: %s", err.String())
	}
	return program
}

func TestAssignStatements(t *testing.T) {
	program := parseProgram(t, "x = 5\nالعدد = ١٠\ny = x")

	if len(program.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(program.Statements))
	}

	names := []string{"x", "العدد", "y"}
	for i, name := range names {
		stmt, ok := program.Statements[i].(*ast.AssignStatement)
		if !ok {
			t.Fatalf("statement %d is %T, want *ast.AssignStatement", i, program.Statements[i])
		}
		if stmt.Name.Value != name {
			t.Errorf("statement %d: name %q, want %q", i, stmt.Name.Value, name)
		}
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"-a * b", "((-a) * b)"},
		{"a + b - c", "((a + b) - c)"},
		{"a * b % c", "((a * b) % c)"},
		{"a < b == c > d", "((a < b) == (c > d))"},
		{"a <= b != c >= d", "((a <= b) != (c >= d))"},
		{"a or b and c", "(a or (b and c))"},
		{"not a and b", "((not a) and b)"},
		{"a + b > c or d", "(((a + b) > c) or d)"},
		{"x[0] + f(y)", "((x[0]) + f(y))"},
		{"-x[0]", "(-(x[0]))"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		if got := program.String(); got != tt.expected {
			t.Errorf("input %q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

// Programs written with Arabic keywords and with English keywords must
// produce structurally identical trees.
func TestKeywordSpellingEquivalence(t *testing.T) {
	tests := []struct {
		arabic  string
		english string
	}{
		{
			"اذا س > ٥ { ارجع صحيح } وإلا { ارجع خطأ }",
			"if س > 5 { return true } else { return false }",
		},
		{
			"بينما ن < ١٠ { ن = ن + ١ }",
			"while ن < 10 { ن = ن + 1 }",
		},
		{
			"دالة ضعف(س) { ارجع س * ٢ }",
			"function ضعف(س) { return س * 2 }",
		},
		{
			"س = ليس صحيح و فارغ",
			"س = not true and nil",
		},
		{
			"حاول { خ = ١ / ٠ } امسك خطأي { اطبع(خطأي) }",
			"try { خ = 1 / 0 } catch خطأي { اطبع(خطأي) }",
		},
	}

	for _, tt := range tests {
		arProgram := parseProgram(t, tt.arabic)
		enProgram := parseProgram(t, tt.english)
		if arProgram.String() != enProgram.String() {
			t.Errorf("trees differ:\n  arabic:  %s\n  english: %s",
				arProgram.String(), enProgram.String())
		}
	}
}

func TestIfElseChain(t *testing.T) {
	program := parseProgram(t, `
if x > 2 {
	y = 1
} else if x > 1 {
	y = 2
} else {
	y = 3
}`)

	stmt, ok := program.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("got %T, want *ast.IfStatement", program.Statements[0])
	}
	second, ok := stmt.Alternative.(*ast.IfStatement)
	if !ok {
		t.Fatalf("alternative is %T, want chained *ast.IfStatement", stmt.Alternative)
	}
	if _, ok := second.Alternative.(*ast.BlockStatement); !ok {
		t.Fatalf("final alternative is %T, want *ast.BlockStatement", second.Alternative)
	}
}

func TestFunctionStatement(t *testing.T) {
	program := parseProgram(t, "function add(a, b) { return a + b }")

	fn, ok := program.Statements[0].(*ast.FunctionStatement)
	if !ok {
		t.Fatalf("got %T, want *ast.FunctionStatement", program.Statements[0])
	}
	if fn.Name.Value != "add" {
		t.Errorf("name %q", fn.Name.Value)
	}
	if len(fn.Params) != 2 || fn.Params[0].Value != "a" || fn.Params[1].Value != "b" {
		t.Errorf("params %v", fn.Params)
	}
	if len(fn.Body.Statements) != 1 {
		t.Errorf("body has %d statements", len(fn.Body.Statements))
	}
}

func TestBareReturn(t *testing.T) {
	program := parseProgram(t, "function f() { return }")
	fn := program.Statements[0].(*ast.FunctionStatement)
	ret, ok := fn.Body.Statements[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("got %T, want *ast.ReturnStatement", fn.Body.Statements[0])
	}
	if ret.ReturnValue != nil {
		t.Errorf("expected bare return, got value %v", ret.ReturnValue)
	}
}

func TestListAndMapLiterals(t *testing.T) {
	program := parseProgram(t, `x = [1, 2, "ثلاثة"]
y = {"الاسم": "ليلى", "العمر": 30}
z = []
w = {}`)

	list := program.Statements[0].(*ast.AssignStatement).Value.(*ast.ListLiteral)
	if len(list.Elements) != 3 {
		t.Errorf("list has %d elements", len(list.Elements))
	}

	m := program.Statements[1].(*ast.AssignStatement).Value.(*ast.MapLiteral)
	if len(m.Keys) != 2 {
		t.Fatalf("map has %d keys", len(m.Keys))
	}
	first := m.Keys[0].(*ast.StringLiteral)
	if first.Value != "الاسم" {
		t.Errorf("first key %q; literal order must be preserved", first.Value)
	}

	empty := program.Statements[2].(*ast.AssignStatement).Value.(*ast.ListLiteral)
	if len(empty.Elements) != 0 {
		t.Errorf("expected empty list")
	}
	emptyMap := program.Statements[3].(*ast.AssignStatement).Value.(*ast.MapLiteral)
	if len(emptyMap.Keys) != 0 {
		t.Errorf("expected empty map")
	}
}

func TestBraceAtStatementStartIsBlock(t *testing.T) {
	program := parseProgram(t, "{ x = 1 }")
	if _, ok := program.Statements[0].(*ast.BlockStatement); !ok {
		t.Fatalf("got %T, want *ast.BlockStatement", program.Statements[0])
	}
}

func TestMultiLineLiterals(t *testing.T) {
	program := parseProgram(t, `x = [
	1,
	2,
	3,
]
y = {
	"a": 1,
	"b": 2,
}`)

	list := program.Statements[0].(*ast.AssignStatement).Value.(*ast.ListLiteral)
	if len(list.Elements) != 3 {
		t.Errorf("list has %d elements", len(list.Elements))
	}
	m := program.Statements[1].(*ast.AssignStatement).Value.(*ast.MapLiteral)
	if len(m.Keys) != 2 {
		t.Errorf("map has %d keys", len(m.Keys))
	}
}

func TestCallAndIndexExpressions(t *testing.T) {
	program := parseProgram(t, `اطبع(س, ١٠)
قائمة(1)[0]`)

	call, ok := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected call expression")
	}
	if len(call.Arguments) != 2 {
		t.Errorf("call has %d arguments", len(call.Arguments))
	}

	idx, ok := program.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.IndexExpression)
	if !ok {
		t.Fatalf("expected index expression")
	}
	if _, ok := idx.Left.(*ast.CallExpression); !ok {
		t.Errorf("index target is %T", idx.Left)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input        string
		expectedCode string
	}{
		{"if x > 1", "PARSE-0001"},        // missing block
		{"function (a) { }", "PARSE-0001"}, // missing name
		{"x = ", "PARSE-0002"},             // missing value
		{"+ 5", "PARSE-0002"},              // no prefix position for +
		{"while x { y = 1", "PARSE-0003"},  // unclosed block
		{`x = "مفتوحة`, "LEX-0001"},        // lex failure surfaces through parse
	}

	for _, tt := range tests {
		_, err := Parse(tt.input)
		if err == nil {
			t.Errorf("input %q: expected error", tt.input)
			continue
		}
		if err.Code != tt.expectedCode {
			t.Errorf("input %q: expected %s, got %s", tt.input, tt.expectedCode, err.Code)
		}
	}
}

func TestErrorsAreBilingual(t *testing.T) {
	_, err := Parse("if x > 1")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.MessageAr == "" || err.MessageEn == "" {
		t.Errorf("both renderings must be present: ar=%q en=%q", err.MessageAr, err.MessageEn)
	}
	if err.Line == 0 {
		t.Errorf("expected position information")
	}
}

func TestSemicolonSeparators(t *testing.T) {
	program := parseProgram(t, "x = 1; y = 2; x + y")
	if len(program.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(program.Statements))
	}
}
