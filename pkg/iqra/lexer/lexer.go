package lexer

import (
	"fmt"

	"github.com/iqra-lang/iqra/pkg/iqra/errors"
)

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF
	NEWLINE

	// Identifiers and literals
	IDENT  // x, مجموع, foo_bar
	NUMBER // 123, 3.14, ١٢٣
	STRING // "foobar"

	// Operators
	ASSIGN   // =
	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	PERCENT  // %
	EQ       // ==
	NOT_EQ   // !=
	LT       // <
	LTE      // <=
	GT       // >
	GTE      // >=

	// Delimiters
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]

	// Keywords (each with Arabic and English spellings)
	IF       // اذا / إذا / if
	ELSE     // وإلا / والا / وإلاّ / else
	WHILE    // بينما / while
	FUNCTION // دالة / function
	RETURN   // ارجع / أرجع / return
	TRY      // حاول / try
	CATCH    // امسك / catch
	TRUE     // صحيح / true
	FALSE    // خطأ / false
	NIL      // فارغ / nil
	AND      // و / and / &&
	OR       // أو / or / ||
	NOT      // ليس / not / !
)

// Token represents a single token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %s, Line: %d, Column: %d}",
		t.Type.String(), t.Literal, t.Line, t.Column)
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	switch tt {
	case ILLEGAL:
		return "ILLEGAL"
	case EOF:
		return "EOF"
	case NEWLINE:
		return "NEWLINE"
	case IDENT:
		return "IDENT"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case ASSIGN:
		return "="
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case ASTERISK:
		return "*"
	case SLASH:
		return "/"
	case PERCENT:
		return "%"
	case EQ:
		return "=="
	case NOT_EQ:
		return "!="
	case LT:
		return "<"
	case LTE:
		return "<="
	case GT:
		return ">"
	case GTE:
		return ">="
	case COMMA:
		return ","
	case SEMICOLON:
		return ";"
	case COLON:
		return ":"
	case LPAREN:
		return "("
	case RPAREN:
		return ")"
	case LBRACE:
		return "{"
	case RBRACE:
		return "}"
	case LBRACKET:
		return "["
	case RBRACKET:
		return "]"
	case IF:
		return "if"
	case ELSE:
		return "else"
	case WHILE:
		return "while"
	case FUNCTION:
		return "function"
	case RETURN:
		return "return"
	case TRY:
		return "try"
	case CATCH:
		return "catch"
	case TRUE:
		return "true"
	case FALSE:
		return "false"
	case NIL:
		return "nil"
	case AND:
		return "and"
	case OR:
		return "or"
	case NOT:
		return "not"
	default:
		return "UNKNOWN"
	}
}

// keywords is the single point of truth for dual-language keyword parity.
// Every accepted spelling maps to one canonical token kind; adding a
// spelling here never changes the grammar downstream.
var keywords = map[string]TokenType{
	// Arabic spellings
	"اذا":   IF,
	"إذا":   IF,
	"وإلا":  ELSE,
	"والا":  ELSE,
	"وإلاّ": ELSE,
	"بينما": WHILE,
	"دالة":  FUNCTION,
	"ارجع":  RETURN,
	"أرجع":  RETURN,
	"حاول":  TRY,
	"امسك":  CATCH,
	"صحيح":  TRUE,
	"خطأ":   FALSE,
	"فارغ":  NIL,
	"و":     AND,
	"أو":    OR,
	"ليس":   NOT,

	// English spellings
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"function": FUNCTION,
	"return":   RETURN,
	"try":      TRY,
	"catch":    CATCH,
	"true":     TRUE,
	"false":    FALSE,
	"nil":      NIL,
	"and":      AND,
	"or":       OR,
	"not":      NOT,
}

// LookupIdent checks whether an identifier is a reserved word
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// KeywordSpellings returns every accepted keyword spelling, for REPL
// completion and fuzzy-match candidates.
func KeywordSpellings() []string {
	out := make([]string, 0, len(keywords))
	for spelling := range keywords {
		out = append(out, spelling)
	}
	return out
}

// Lexer tokenizes Iqra source code
type Lexer struct {
	input        []rune
	position     int  // current position (points to ch)
	readPosition int  // next reading position
	ch           rune // current rune under examination
	line         int
	column       int

	errs []*errors.IqraError
}

// New creates a new lexer for the given input. Tokenizing the same input
// twice yields identical output; no cursor state survives between calls
// to New.
func New(input string) *Lexer {
	l := &Lexer{input: []rune(input), line: 1, column: 0}
	l.readChar()
	return l
}

// Errors returns the structured lexical errors encountered so far.
func (l *Lexer) Errors() []*errors.IqraError {
	return l.errs
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken scans and returns the next token
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	// Line comments run to end of line; the newline itself is a token
	for l.ch == '/' && l.peekChar() == '/' {
		l.skipComment()
		l.skipWhitespace()
	}

	tok := Token{Line: l.line, Column: l.column}

	switch l.ch {
	case 0:
		tok.Type = EOF
		tok.Literal = ""
		return tok
	case '\n':
		tok.Type = NEWLINE
		tok.Literal = "\n"
		l.readChar()
		return tok
	case '"':
		return l.readString()
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = EQ, "=="
		} else {
			tok.Type, tok.Literal = ASSIGN, "="
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = NOT_EQ, "!="
		} else {
			tok.Type, tok.Literal = NOT, "!"
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = LTE, "<="
		} else {
			tok.Type, tok.Literal = LT, "<"
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = GTE, ">="
		} else {
			tok.Type, tok.Literal = GT, ">"
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok.Type, tok.Literal = AND, "&&"
		} else {
			return l.illegalChar()
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok.Type, tok.Literal = OR, "||"
		} else {
			return l.illegalChar()
		}
	case '+':
		tok.Type, tok.Literal = PLUS, "+"
	case '-':
		tok.Type, tok.Literal = MINUS, "-"
	case '*':
		tok.Type, tok.Literal = ASTERISK, "*"
	case '/':
		tok.Type, tok.Literal = SLASH, "/"
	case '%':
		tok.Type, tok.Literal = PERCENT, "%"
	case ',':
		tok.Type, tok.Literal = COMMA, ","
	case ';':
		tok.Type, tok.Literal = SEMICOLON, ";"
	case ':':
		tok.Type, tok.Literal = COLON, ":"
	case '(':
		tok.Type, tok.Literal = LPAREN, "("
	case ')':
		tok.Type, tok.Literal = RPAREN, ")"
	case '{':
		tok.Type, tok.Literal = LBRACE, "{"
	case '}':
		tok.Type, tok.Literal = RBRACE, "}"
	case '[':
		tok.Type, tok.Literal = LBRACKET, "["
	case ']':
		tok.Type, tok.Literal = RBRACKET, "]"
	default:
		if isDigit(l.ch) {
			return l.readNumber()
		}
		if isIdentStart(l.ch) {
			return l.readIdentifier()
		}
		return l.illegalChar()
	}

	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readNumber scans a numeric literal in either digit script and returns
// it normalized to ASCII digits.
func (l *Lexer) readNumber() Token {
	tok := Token{Type: NUMBER, Line: l.line, Column: l.column}
	var literal []rune
	for isDigit(l.ch) || l.ch == '.' {
		literal = append(literal, normalizeDigit(l.ch))
		l.readChar()
	}
	tok.Literal = string(literal)
	return tok
}

func (l *Lexer) readIdentifier() Token {
	tok := Token{Line: l.line, Column: l.column}
	start := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	tok.Literal = string(l.input[start:l.position])
	tok.Type = LookupIdent(tok.Literal)
	return tok
}

func (l *Lexer) readString() Token {
	tok := Token{Type: STRING, Line: l.line, Column: l.column}
	l.readChar() // consume opening quote

	var out []rune
	for {
		switch l.ch {
		case '"':
			l.readChar() // consume closing quote
			tok.Literal = string(out)
			return tok
		case 0:
			l.errs = append(l.errs, errors.NewWithPosition("LEX-0001", tok.Line, tok.Column, nil))
			tok.Type = ILLEGAL
			tok.Literal = string(out)
			return tok
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '\\':
				out = append(out, '\\')
			case '"':
				out = append(out, '"')
			default:
				out = append(out, '\\', l.ch)
			}
			l.readChar()
		default:
			out = append(out, l.ch)
			l.readChar()
		}
	}
}

func (l *Lexer) illegalChar() Token {
	tok := Token{Type: ILLEGAL, Literal: string(l.ch), Line: l.line, Column: l.column}
	l.errs = append(l.errs, errors.NewWithPosition("LEX-0002", tok.Line, tok.Column,
		map[string]any{"Char": string(l.ch)}))
	l.readChar()
	return tok
}

// Tokenize scans the whole input and returns either the full token
// sequence (ending with EOF) or the first lexical error.
func Tokenize(input string) ([]Token, *errors.IqraError) {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == ILLEGAL {
			return nil, l.errs[len(l.errs)-1]
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

func isDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || isArabicDigit(ch)
}

func isArabicDigit(ch rune) bool {
	return ch >= '٠' && ch <= '٩' // U+0660..U+0669
}

// normalizeDigit maps Arabic-Indic digits to their ASCII equivalents so
// that both scripts denote the same Number value.
func normalizeDigit(ch rune) rune {
	if isArabicDigit(ch) {
		return '0' + (ch - '٠')
	}
	return ch
}

// NormalizeDigits rewrites every Arabic-Indic digit in s to ASCII. Used by
// the lexer and by the to_number builtin so both agree on numerals.
func NormalizeDigits(s string) string {
	out := []rune(s)
	for i, ch := range out {
		out[i] = normalizeDigit(ch)
	}
	return string(out)
}

func isIdentStart(ch rune) bool {
	return isASCIILetter(ch) || ch == '_' || isArabicLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9') || isArabicDigit(ch)
}

func isASCIILetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isArabicLetter reports whether ch falls in the Arabic Unicode blocks,
// including supplements and the extended block. The base block also covers
// the Arabic question mark so predicate names like رقم؟ lex as identifiers.
func isArabicLetter(ch rune) bool {
	return (ch >= 0x0600 && ch <= 0x06FF && !isArabicDigit(ch)) ||
		(ch >= 0x0750 && ch <= 0x077F) ||
		(ch >= 0x08A0 && ch <= 0x08FF)
}
