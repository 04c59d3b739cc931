// Package iqra is the public embedding surface of the interpreter.
//
// Hosts construct a Runtime with an injected SystemExecutor and either
// Run whole programs or EvalFragment pieces of one ongoing session. The
// engine never exits the host process: every failure comes back as a
// structured bilingual error.
package iqra

import (
	"github.com/iqra-lang/iqra/pkg/iqra/errors"
	"github.com/iqra-lang/iqra/pkg/iqra/evaluator"
	"github.com/iqra-lang/iqra/pkg/iqra/parser"
)

// Logger and its implementations, re-exported for hosts.
type (
	Logger         = evaluator.Logger
	StdoutLogger   = evaluator.StdoutLogger
	WriterLogger   = evaluator.WriterLogger
	BufferedLogger = evaluator.BufferedLogger
	NullLogger     = evaluator.NullLogger
)

// SystemExecutor is re-exported so hosts can inject their own.
type SystemExecutor = evaluator.SystemExecutor

// Runtime binds an environment, a logger, and one system executor.
type Runtime struct {
	logger evaluator.Logger
	exec   evaluator.SystemExecutor
	locale string

	// session environment for EvalFragment; Run never touches it
	session *evaluator.Environment
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger directs all program output to l.
func WithLogger(l evaluator.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// WithLocale sets the locale used by the formatting builtins.
func WithLocale(locale string) Option {
	return func(r *Runtime) { r.locale = locale }
}

// New creates a Runtime around the given executor. Passing nil is valid
// and makes the system builtins fail with a structured error instead of
// reaching the process layer, which is the stance embedders who want no
// OS access should take.
func New(exec evaluator.SystemExecutor, opts ...Option) *Runtime {
	r := &Runtime{
		logger: &evaluator.StdoutLogger{},
		exec:   exec,
		locale: "en",
	}
	for _, opt := range opts {
		opt(r)
	}
	r.session = r.newEnvironment()
	return r
}

func (r *Runtime) newEnvironment() *evaluator.Environment {
	env := evaluator.NewEnvironment()
	env.SetLogger(r.logger)
	env.SetExec(r.exec)
	env.SetLocale(r.locale)
	return env
}

// Run executes a whole program in a fresh environment. Successive Run
// calls share nothing.
func (r *Runtime) Run(source string) (evaluator.Object, *errors.IqraError) {
	return r.eval(source, r.newEnvironment())
}

// EvalFragment executes source against the persistent session
// environment, so definitions survive across calls. This is the REPL
// entry point.
func (r *Runtime) EvalFragment(source string) (evaluator.Object, *errors.IqraError) {
	return r.eval(source, r.session)
}

// ResetSession discards the persistent session environment.
func (r *Runtime) ResetSession() {
	r.session = r.newEnvironment()
}

// SessionNames returns the names bound in the session environment.
func (r *Runtime) SessionNames() []string {
	return r.session.Names()
}

func (r *Runtime) eval(source string, env *evaluator.Environment) (evaluator.Object, *errors.IqraError) {
	program, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}

	result := evaluator.Eval(program, env)
	if errObj, ok := result.(*evaluator.Error); ok {
		return nil, errObj.Err
	}
	return result, nil
}
