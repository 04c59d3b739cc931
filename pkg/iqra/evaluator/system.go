package evaluator

import (
	goerrors "errors"
	"os"
	osexec "os/exec"
	"runtime"
	"strings"
)

// SystemExecutor is the single boundary through which programs reach the
// operating system's process layer. The runtime owns exactly one,
// injected at construction; hosts substitute their own for sandboxing or
// tests.
type SystemExecutor interface {
	Execute(command string) (string, error)
	ExecuteWithInput(command, input string) (string, error)
}

// ErrEmptyCommand is returned for blank command strings.
var ErrEmptyCommand = goerrors.New("empty command")

// ProgramNotFoundError is returned when the named program does not exist
// and shell fallback is disabled.
type ProgramNotFoundError struct {
	Command string
}

func (e *ProgramNotFoundError) Error() string {
	return "program not found: " + e.Command
}

// DefaultSystemExecutor spawns the command directly by splitting it on
// whitespace, never through a shell, so metacharacters in the command
// string carry no meaning. When shell fallback was enabled at
// construction and the program does not exist, the whole string is re-run
// through the platform shell instead.
type DefaultSystemExecutor struct {
	allowShellFallback bool
}

// NewDefaultSystemExecutor builds the default executor. The
// IQRA_ALLOW_SHELL_FALLBACK environment variable is read exactly once,
// here; only the value "1" enables fallback.
func NewDefaultSystemExecutor() *DefaultSystemExecutor {
	return &DefaultSystemExecutor{
		allowShellFallback: os.Getenv("IQRA_ALLOW_SHELL_FALLBACK") == "1",
	}
}

// Execute runs the command and returns its combined stdout.
func (e *DefaultSystemExecutor) Execute(command string) (string, error) {
	return e.run(command, "")
}

// ExecuteWithInput runs the command with input piped to its stdin.
func (e *DefaultSystemExecutor) ExecuteWithInput(command, input string) (string, error) {
	return e.run(command, input)
}

func (e *DefaultSystemExecutor) run(command, input string) (string, error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return "", ErrEmptyCommand
	}

	if _, err := osexec.LookPath(parts[0]); err != nil {
		if !e.allowShellFallback {
			return "", &ProgramNotFoundError{Command: parts[0]}
		}
		return runCmd(shellCommand(command), input)
	}

	return runCmd(osexec.Command(parts[0], parts[1:]...), input)
}

func runCmd(cmd *osexec.Cmd, input string) (string, error) {
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(output), nil
}

func shellCommand(command string) *osexec.Cmd {
	if runtime.GOOS == "windows" {
		return osexec.Command("cmd", "/C", command)
	}
	return osexec.Command("sh", "-c", command)
}

// systemError maps executor failures into the bilingual error taxonomy.
// Raw Go errors never reach programs.
func systemError(command string, err error) *Error {
	var notFound *ProgramNotFoundError
	switch {
	case goerrors.Is(err, ErrEmptyCommand):
		return newError("SYS-0002", nil)
	case goerrors.As(err, &notFound):
		return newError("SYS-0003", map[string]any{"Command": notFound.Command})
	default:
		return newError("SYS-0001", map[string]any{"GoError": err.Error()})
	}
}
