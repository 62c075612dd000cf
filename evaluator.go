package breakfilter

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultStandbyLimit bounds how many entries a demoted cache may hold and
// still be kept for repossession on the next session start.
const DefaultStandbyLimit = 256

// predicate is one cache entry. Exactly one of program and compileErr is set
// at construction; runtimeErr starts empty and becomes sticky after the
// first evaluation fault.
type predicate struct {
	program    Program
	compileErr string
	runtimeErr string
}

// FilterEvaluator compiles breakpoint filter expressions, memoizes the
// compiled predicates by source text, and rotates the cache across debug
// sessions. One instance serves the whole application and is safe for
// concurrent use.
type FilterEvaluator struct {
	mu           sync.Mutex
	compiler     Compiler
	registry     *FunctionRegistry
	logger       FilterLogger
	live         map[string]*predicate
	standby      map[string]*predicate
	standbyLimit int
	running      bool
}

// Option configures a FilterEvaluator instance.
type Option func(*FilterEvaluator)

// WithCompiler selects the expression compiler backend. The default is the
// expr backend.
func WithCompiler(compiler Compiler) Option {
	return func(e *FilterEvaluator) {
		e.compiler = compiler
	}
}

// WithFunctionRegistry exposes host helper functions to filter expressions
// compiled by the default backend.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(e *FilterEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

// WithStandbyLimit overrides DefaultStandbyLimit. A demoted cache holding
// more entries than the limit is dropped instead of retained.
func WithStandbyLimit(limit int) Option {
	return func(e *FilterEvaluator) {
		if limit < 0 {
			limit = 0
		}
		e.standbyLimit = limit
	}
}

// New constructs a FilterEvaluator. Without WithCompiler it uses the expr
// backend, wired with the registry from WithFunctionRegistry when present.
func New(opts ...Option) *FilterEvaluator {
	e := &FilterEvaluator{
		live:         map[string]*predicate{},
		standbyLimit: DefaultStandbyLimit,
		logger:       noopFilterLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.compiler == nil {
		var copts []ExprCompilerOption
		if e.registry != nil {
			copts = append(copts, ExprWithFunctions(e.registry))
		}
		e.compiler = NewExprCompiler(copts...)
	}
	return e
}

// IsValidExpression reports the compile verdict for expression: nil when it
// compiles cleanly, the diagnostic otherwise. A cached entry answers without
// recompiling; a miss runs the compiler in validation-only mode and never
// inserts into the cache.
func (e *FilterEvaluator) IsValidExpression(expression string) error {
	if expression == "" {
		return ErrEmptyExpression
	}
	engine := compilerEngineName(e.compiler)
	start := time.Now()

	e.mu.Lock()
	entry, hit := e.live[expression]
	e.mu.Unlock()

	var err error
	if hit {
		if entry.compileErr != "" {
			err = newFilterError(engine, StageCompile, expression, errors.New(entry.compileErr))
		}
	} else if verr := e.compiler.Validate(expression); verr != nil {
		err = newFilterError(engine, StageCompile, expression, errors.New(compileErrorText(verr)))
	}
	e.logger.LogFilter(FilterLogEvent{
		Engine:   engine,
		Op:       OpValidate,
		Expr:     expression,
		Duration: time.Since(start),
		CacheHit: hit,
		Err:      err,
	})
	return err
}

// Evaluate runs expression against vars and returns its boolean value. The
// result is exactly one of {bool, error}: compile diagnostics, bind
// failures, and runtime faults all come back as the error, never as a
// panic. Compile and runtime errors stick to the cache entry for the
// lifetime of the current cache.
func (e *FilterEvaluator) Evaluate(expression string, vars VariableProvider) (bool, error) {
	if expression == "" {
		return false, ErrEmptyExpression
	}
	if vars == nil {
		return false, ErrNilVariables
	}
	engine := compilerEngineName(e.compiler)
	start := time.Now()

	e.mu.Lock()
	entry, hit := e.live[expression]
	e.mu.Unlock()

	if !hit {
		// Compile outside the lock; a racing compile of the same expression
		// is cheaper than stalling unrelated lookups. Last writer wins.
		entry = e.compile(expression)
		e.mu.Lock()
		e.live[expression] = entry
		e.mu.Unlock()
	}

	result, err := e.run(engine, expression, entry, vars)
	e.logger.LogFilter(FilterLogEvent{
		Engine:   engine,
		Op:       OpEvaluate,
		Expr:     expression,
		Duration: time.Since(start),
		CacheHit: hit,
		Err:      err,
	})
	if err != nil {
		return false, err
	}
	return result, nil
}

// OnDebuggingSessionChanged rotates the predicate cache on session
// transitions. Stopping demotes the live cache to the standby slot and
// installs a fresh one; starting repossesses the standby slot when it was
// retained. Repeated signals with the same state are no-ops.
func (e *FilterEvaluator) OnDebuggingSessionChanged(isDebugging bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if isDebugging == e.running {
		return
	}
	e.running = isDebugging
	if isDebugging {
		if e.standby != nil {
			e.live = e.standby
			e.standby = nil
			return
		}
		e.live = map[string]*predicate{}
		return
	}
	// Approximate memory-pressure reclaim deterministically: caches larger
	// than the standby limit are dropped instead of retained. Whatever was
	// in the slot before is discarded either way, so compiled predicates
	// never outlive more than one stop/start cycle un-rearmed.
	if len(e.live) <= e.standbyLimit {
		e.standby = e.live
	} else {
		e.standby = nil
	}
	e.live = map[string]*predicate{}
}

func (e *FilterEvaluator) compile(expression string) *predicate {
	program, err := e.compiler.Compile(expression)
	if err != nil {
		return &predicate{compileErr: compileErrorText(err)}
	}
	if program == nil {
		return &predicate{compileErr: invalidExpressionText}
	}
	return &predicate{program: program}
}

func (e *FilterEvaluator) run(engine, expression string, entry *predicate, vars VariableProvider) (bool, error) {
	if entry.compileErr != "" {
		return false, newFilterError(engine, StageCompile, expression, errors.New(entry.compileErr))
	}

	e.mu.Lock()
	poison := entry.runtimeErr
	e.mu.Unlock()
	if poison != "" {
		return false, newFilterError(engine, StageRun, expression, errors.New(poison))
	}

	result, runErr := runProgram(entry.program, vars)
	if runErr != nil {
		text := fmt.Sprintf("filter expression failed: %T: %v", runErr, runErr)
		// First fault wins; later racers report the stored text.
		e.mu.Lock()
		if entry.runtimeErr == "" {
			entry.runtimeErr = text
		} else {
			text = entry.runtimeErr
		}
		e.mu.Unlock()
		return false, newFilterError(engine, StageRun, expression, errors.New(text))
	}
	return result, nil
}

// runProgram invokes the compiled predicate behind a recover boundary so a
// fault inside user expression code can never escape to the caller.
func runProgram(program Program, vars VariableProvider) (result bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if !ok {
				rerr = fmt.Errorf("%v", r)
			}
			err = rerr
		}
	}()
	return program.Run(vars)
}

// compilerEngineName labels log and error output per backend.
func compilerEngineName(c Compiler) string {
	if c == nil {
		return "unknown"
	}
	name := c.Engine()
	if name == "" {
		return "custom"
	}
	return name
}
