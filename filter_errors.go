package breakfilter

import (
	"errors"
	"fmt"
	"strings"
)

// Pipeline stages recorded on FilterError.
const (
	// StageCompile covers parse, type-check, and code-generation failures.
	StageCompile = "compile"
	// StageBind covers failures constructing a runnable program from an
	// otherwise successful compilation.
	StageBind = "bind"
	// StageRun covers faults raised while the compiled predicate executes.
	StageRun = "run"
)

// Contract violations. These indicate caller bugs, not bad user input, and
// are never cached.
var (
	ErrEmptyExpression = errors.New("breakfilter: expression must not be empty")
	ErrNilVariables    = errors.New("breakfilter: variable provider must not be nil")
)

// errNotBoolean is raised when an expression produced a value the backend
// could not pin to bool at compile time and it turned out not to be one.
var errNotBoolean = errors.New("filter expression must evaluate to a boolean")

// unknownCompileError is reported when a backend signals failure without an
// error-severity diagnostic of its own.
const unknownCompileError = "Unknown error"

// invalidExpressionText is the user-facing message for bind-stage failures.
// The distinction from an ordinary compile diagnostic is internal only.
const invalidExpressionText = "invalid filter expression"

// FilterError captures engine and stage metadata alongside the originating
// error.
type FilterError struct {
	Engine string
	Stage  string
	Expr   string
	Err    error
}

func (e *FilterError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("breakfilter: %s %s %s: %v", e.Engine, e.Stage, describeExpression(e.Expr), e.Err)
}

func (e *FilterError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

// newFilterError builds a FilterError without inspecting err.
func newFilterError(engine, stage, expr string, err error) error {
	if err == nil {
		return nil
	}
	return &FilterError{
		Engine: engine,
		Stage:  stage,
		Expr:   expr,
		Err:    err,
	}
}

// wrapFilterError augments an existing FilterError in the chain rather than
// stacking a second one.
func wrapFilterError(engine, stage, expr string, err error) error {
	if err == nil {
		return nil
	}

	var ferr *FilterError
	if errors.As(err, &ferr) {
		if ferr.Engine == "" {
			ferr.Engine = engine
		}
		if ferr.Stage == "" {
			ferr.Stage = stage
		}
		if ferr.Expr == "" {
			ferr.Expr = expr
		}
		return err
	}

	return &FilterError{
		Engine: engine,
		Stage:  stage,
		Expr:   expr,
		Err:    err,
	}
}

// compileErrorText reduces a compiler failure to the diagnostic text cached
// on the predicate entry. Bind failures collapse to the generic
// invalid-expression message.
func compileErrorText(err error) string {
	if err == nil {
		return ""
	}
	cause := err
	var ferr *FilterError
	if errors.As(err, &ferr) {
		if ferr.Stage == StageBind {
			return invalidExpressionText
		}
		if ferr.Err != nil {
			cause = ferr.Err
		}
	}
	text := cause.Error()
	if strings.TrimSpace(text) == "" {
		return unknownCompileError
	}
	return text
}
