package evaluator

import (
	"io"
	"os"
	"strings"
	"sync"
)

// Logger receives all interpreter output (the print builtin and friends).
// Hosts inject their own to capture or redirect output.
type Logger interface {
	Log(message string)
}

// StdoutLogger writes to standard output.
type StdoutLogger struct{}

func (l *StdoutLogger) Log(message string) {
	os.Stdout.WriteString(message + "\n")
}

// WriterLogger writes to any io.Writer.
type WriterLogger struct {
	W io.Writer
}

func (l *WriterLogger) Log(message string) {
	io.WriteString(l.W, message+"\n")
}

// NullLogger discards all output.
type NullLogger struct{}

func (l *NullLogger) Log(message string) {}

// BufferedLogger collects output lines in memory. Safe for concurrent use;
// tests and the watch mode use it to capture program output.
type BufferedLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *BufferedLogger) Log(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, message)
}

// Lines returns a copy of the captured output.
func (l *BufferedLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// String returns the captured output joined by newlines.
func (l *BufferedLogger) String() string {
	return strings.Join(l.Lines(), "\n")
}

// Reset discards the captured output.
func (l *BufferedLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = nil
}

// Environment holds variable bindings with lexical scoping
type Environment struct {
	store map[string]Object
	outer *Environment

	// Root-only fields; accessors walk to the root so every scope in a
	// run shares one logger, executor, locale, and cache set.
	logger       Logger
	exec         SystemExecutor
	locale       string
	todayCache   string
	sysInfoCache *Dict
}

// NewEnvironment creates a new root environment
func NewEnvironment() *Environment {
	return &Environment{
		store:  map[string]Object{},
		logger: &StdoutLogger{},
		locale: "en",
	}
}

// NewEnclosedEnvironment creates an environment nested inside outer
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: map[string]Object{}, outer: outer}
}

func (e *Environment) root() *Environment {
	env := e
	for env.outer != nil {
		env = env.outer
	}
	return env
}

// Logger returns the output sink shared by the whole environment chain.
func (e *Environment) Logger() Logger {
	return e.root().logger
}

// SetLogger replaces the output sink for the whole chain.
func (e *Environment) SetLogger(l Logger) {
	e.root().logger = l
}

// Exec returns the system executor, or nil when none was injected.
func (e *Environment) Exec() SystemExecutor {
	return e.root().exec
}

// SetExec injects the system executor.
func (e *Environment) SetExec(exec SystemExecutor) {
	e.root().exec = exec
}

// Locale returns the BCP 47 locale used by formatting builtins.
func (e *Environment) Locale() string {
	return e.root().locale
}

// SetLocale sets the formatting locale.
func (e *Environment) SetLocale(locale string) {
	e.root().locale = locale
}

// Get looks a name up through the scope chain.
func (e *Environment) Get(name string) (Object, bool) {
	obj, ok := e.store[name]
	if !ok && e.outer != nil {
		return e.outer.Get(name)
	}
	return obj, ok
}

// Set binds a name in this scope, shadowing any outer binding.
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val
	return val
}

// Update walks the scope chain and overwrites the nearest existing
// binding. When the name is bound nowhere, it is created in this scope.
func (e *Environment) Update(name string, val Object) Object {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.store[name]; ok {
			env.store[name] = val
			return val
		}
	}
	e.store[name] = val
	return val
}

// Names returns every name visible from this scope, for did-you-mean
// suggestions.
func (e *Environment) Names() []string {
	var names []string
	seen := map[string]bool{}
	for env := e; env != nil; env = env.outer {
		for name := range env.store {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
