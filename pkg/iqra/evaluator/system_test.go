package evaluator

import (
	goerrors "errors"
	"strings"
	"testing"
)

// stubExecutor records commands and returns canned output, standing in
// for the OS process layer.
type stubExecutor struct {
	output   string
	err      error
	commands []string
	inputs   []string
}

func (s *stubExecutor) Execute(command string) (string, error) {
	s.commands = append(s.commands, command)
	return s.output, s.err
}

func (s *stubExecutor) ExecuteWithInput(command, input string) (string, error) {
	s.commands = append(s.commands, command)
	s.inputs = append(s.inputs, input)
	return s.output, s.err
}

func TestSystemUsesInjectedExecutor(t *testing.T) {
	stub := &stubExecutor{output: "  مخرجات  \n"}
	env := NewEnvironment()
	env.SetLogger(&NullLogger{})
	env.SetExec(stub)

	result := evalSource(t, `نفذ_أمر("echo مرحبا")`, env)
	if result.Inspect() != "مخرجات" {
		t.Errorf("expected trimmed stub output, got %q", result.Inspect())
	}
	if len(stub.commands) != 1 || stub.commands[0] != "echo مرحبا" {
		t.Errorf("commands: %v", stub.commands)
	}
}

func TestSystemWithInput(t *testing.T) {
	stub := &stubExecutor{output: "ok"}
	env := NewEnvironment()
	env.SetLogger(&NullLogger{})
	env.SetExec(stub)

	result := evalSource(t, `نفذ_أمر_بمدخل("cat", "مدخل")`, env)
	if result.Inspect() != "ok" {
		t.Errorf("got %q", result.Inspect())
	}
	if len(stub.inputs) != 1 || stub.inputs[0] != "مدخل" {
		t.Errorf("inputs: %v", stub.inputs)
	}
}

func TestSystemWithoutExecutor(t *testing.T) {
	// The test environment has no executor, so system builtins fail
	// with a structured error instead of reaching the OS
	evalExpectError(t, `نفذ_أمر("rm -rf /")`, "SYS-0004")
	evalExpectError(t, `نفذ_أمر_بمدخل("cat", "x")`, "SYS-0004")
}

func TestExecutorErrorsBecomeBilingualErrors(t *testing.T) {
	tests := []struct {
		err          error
		expectedCode string
	}{
		{ErrEmptyCommand, "SYS-0002"},
		{&ProgramNotFoundError{Command: "frobnicate"}, "SYS-0003"},
	}

	for _, tt := range tests {
		stub := &stubExecutor{err: tt.err}
		env := NewEnvironment()
		env.SetLogger(&NullLogger{})
		env.SetExec(stub)

		result := evalSource(t, `نفذ_أمر("frobnicate --now"`+")", env)
		errObj, ok := result.(*Error)
		if !ok {
			t.Fatalf("expected error, got %s", result.Inspect())
		}
		if errObj.Err.Code != tt.expectedCode {
			t.Errorf("expected %s, got %s", tt.expectedCode, errObj.Err.Code)
		}
		if errObj.Err.MessageAr == "" || errObj.Err.MessageEn == "" {
			t.Error("system errors must be bilingual")
		}
	}
}

func TestShellFallbackDisabledHint(t *testing.T) {
	stub := &stubExecutor{err: &ProgramNotFoundError{Command: "nothere"}}
	env := NewEnvironment()
	env.SetLogger(&NullLogger{})
	env.SetExec(stub)

	result := evalSource(t, `نفذ_أمر("nothere | wc -l")`, env)
	errObj := result.(*Error)
	if !strings.Contains(errObj.Err.HintEn, "IQRA_ALLOW_SHELL_FALLBACK") {
		t.Errorf("hint should name the enabling flag, got %q", errObj.Err.HintEn)
	}
}

func TestDefaultExecutorDirectSpawn(t *testing.T) {
	// No fallback configured: a missing program surfaces as
	// ProgramNotFoundError before anything runs
	exec := &DefaultSystemExecutor{allowShellFallback: false}

	_, err := exec.Execute("definitely-not-a-real-program-xyz arg")
	var notFound *ProgramNotFoundError
	if !goerrors.As(err, &notFound) {
		t.Fatalf("expected ProgramNotFoundError, got %v", err)
	}
	if notFound.Command != "definitely-not-a-real-program-xyz" {
		t.Errorf("command: %q", notFound.Command)
	}

	if _, err := exec.Execute("   "); !goerrors.Is(err, ErrEmptyCommand) {
		t.Errorf("expected ErrEmptyCommand, got %v", err)
	}
}

func TestDefaultExecutorRunsRealCommand(t *testing.T) {
	exec := NewDefaultSystemExecutor()

	// echo exists on every platform this project targets
	output, err := exec.Execute("echo سلام")
	if err != nil {
		t.Skipf("echo unavailable: %v", err)
	}
	if strings.TrimSpace(output) != "سلام" {
		t.Errorf("got %q", output)
	}
}

func TestTryCatchAroundSystem(t *testing.T) {
	stub := &stubExecutor{err: &ProgramNotFoundError{Command: "bad"}}
	env := NewEnvironment()
	env.SetLogger(&NullLogger{})
	env.SetExec(stub)

	result := evalSource(t, `
نتيجة = "قبل"
حاول {
	نتيجة = نفذ_أمر("bad")
} امسك خ {
	نتيجة = "أمسك"
}
نتيجة`, env)
	if result.Inspect() != "أمسك" {
		t.Errorf("got %q", result.Inspect())
	}
}
