// Package repl implements the interactive session: line editing, history,
// tab completion over both keyword vocabularies, and multi-line input.
package repl

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/iqra-lang/iqra/pkg/iqra/config"
	"github.com/iqra-lang/iqra/pkg/iqra/errors"
	"github.com/iqra-lang/iqra/pkg/iqra/evaluator"
	"github.com/iqra-lang/iqra/pkg/iqra/iqra"
	"github.com/iqra-lang/iqra/pkg/iqra/lexer"
)

const PROMPT_AR = "اقرأ> "
const PROMPT_EN = "iqra> "
const CONTINUATION_PROMPT = "  ... "

const LOGO = `
▄█ ▄▀▄ █▀▄ ▄▀▄     ا ق ر أ
 █ ▀▄█ █▀▄ █▀█ `

// Start runs the REPL until exit or Ctrl+D. One persistent Runtime holds
// the session, so definitions accumulate across inputs.
func Start(out io.Writer, rt *iqra.Runtime, cfg *config.Config, version string) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(input string) []string {
		return filterCompletions(input, rt)
	})

	// Load command history from file
	if f, err := os.Open(cfg.HistoryFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	// Save history on exit
	defer func() {
		if f, err := os.Create(cfg.HistoryFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	prompt := PROMPT_AR
	if cfg.Prompt == "en" {
		prompt = PROMPT_EN
	}

	fmt.Fprintln(out, LOGO)
	fmt.Fprintln(out, "v"+version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "اكتب 'خروج' أو exit للخروج | type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Tab للإكمال | Tab completes, ↑↓ recall history, :help for commands")
	fmt.Fprintln(out, "")

	var inputBuffer strings.Builder

	for {
		currentPrompt := prompt
		if inputBuffer.Len() > 0 {
			currentPrompt = CONTINUATION_PROMPT
		}
		input, err := line.Prompt(currentPrompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C clears any buffered input
				fmt.Fprintln(out, "^C")
				inputBuffer.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nمع السلامة | goodbye")
				return
			}
			fmt.Fprintf(out, "input error: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)
		if inputBuffer.Len() == 0 && (trimmed == "exit" || trimmed == "quit" || trimmed == "خروج") {
			fmt.Fprintln(out, "مع السلامة | goodbye")
			return
		}

		if inputBuffer.Len() == 0 && strings.HasPrefix(trimmed, ":") {
			handleReplCommand(trimmed, rt, out)
			continue
		}

		if inputBuffer.Len() == 0 && trimmed == "" {
			continue
		}

		if inputBuffer.Len() > 0 {
			inputBuffer.WriteString("\n")
		}
		inputBuffer.WriteString(input)

		fullInput := inputBuffer.String()
		if needsMoreInput(fullInput) {
			continue
		}

		line.AppendHistory(fullInput)
		inputBuffer.Reset()

		result, evalErr := rt.EvalFragment(fullInput)
		if evalErr != nil {
			printError(out, evalErr)
			continue
		}
		if result != nil && result.Type() != evaluator.NULL_OBJ {
			fmt.Fprintln(out, result.Inspect())
		}
	}
}

func handleReplCommand(cmd string, rt *iqra.Runtime, out io.Writer) {
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(out, "REPL commands:")
		fmt.Fprintln(out, "  :help, :h, :?   show this help")
		fmt.Fprintln(out, "  :env            show names bound in the session")
		fmt.Fprintln(out, "  :clear          reset the session")
		fmt.Fprintln(out, "  exit, خروج      leave the REPL")
	case ":env":
		names := rt.SessionNames()
		if len(names) == 0 {
			fmt.Fprintln(out, "(لا متغيرات | no variables)")
			return
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintln(out, "  "+name)
		}
	case ":clear":
		rt.ResetSession()
		fmt.Fprintln(out, "تم مسح الجلسة | session cleared")
	default:
		fmt.Fprintf(out, "unknown command: %s (:help)\n", cmd)
	}
}

func printError(out io.Writer, err *errors.IqraError) {
	fmt.Fprintln(out, err.String())
}

// filterCompletions completes the last word against keywords, builtin
// names in both languages, and session bindings.
func filterCompletions(input string, rt *iqra.Runtime) []string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}
	if input[len(input)-1] == ' ' || input[len(input)-1] == '\t' {
		return nil
	}

	words := strings.Fields(input)
	lastWord := words[len(words)-1]
	prefix := input[:len(input)-len(lastWord)]

	candidates := lexer.KeywordSpellings()
	candidates = append(candidates, evaluator.BuiltinNames()...)
	candidates = append(candidates, rt.SessionNames()...)
	sort.Strings(candidates)

	var matches []string
	for _, word := range candidates {
		if strings.HasPrefix(word, lastWord) {
			matches = append(matches, prefix+word)
		}
	}
	return matches
}

// needsMoreInput reports whether braces, brackets, or parentheses remain
// open outside of string literals.
func needsMoreInput(input string) bool {
	braceCount := 0
	bracketCount := 0
	parenCount := 0
	inString := false
	escapeNext := false

	for _, ch := range input {
		if escapeNext {
			escapeNext = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escapeNext = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				braceCount++
			}
		case '}':
			if !inString {
				braceCount--
			}
		case '[':
			if !inString {
				bracketCount++
			}
		case ']':
			if !inString {
				bracketCount--
			}
		case '(':
			if !inString {
				parenCount++
			}
		case ')':
			if !inString {
				parenCount--
			}
		}
	}

	return braceCount > 0 || bracketCount > 0 || parenCount > 0 || inString
}
