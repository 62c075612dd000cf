package breakfilter

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// exprEnv declares the five filter variables to the type checker with the
// exact identifiers visible inside expressions.
type exprEnv struct {
	MachineName string `expr:"MachineName"`
	ProcessID   int    `expr:"ProcessId"`
	ProcessName string `expr:"ProcessName"`
	ThreadID    int    `expr:"ThreadId"`
	ThreadName  string `expr:"ThreadName"`
}

// ExprCompilerOption configures the expr backend.
type ExprCompilerOption func(*exprCompiler)

// ExprWithFunctions exposes registry helpers to compiled expressions.
func ExprWithFunctions(registry *FunctionRegistry) ExprCompilerOption {
	return func(c *exprCompiler) {
		if registry == nil {
			return
		}
		c.registry = registry.Clone()
	}
}

// exprCompiler compiles filter expressions with github.com/expr-lang/expr.
// Diagnostics carry positions inside the user's expression text, so errors
// point at what the user typed rather than at wrapper scaffolding.
type exprCompiler struct {
	registry *FunctionRegistry
}

// NewExprCompiler constructs the default Compiler backend.
func NewExprCompiler(opts ...ExprCompilerOption) Compiler {
	c := &exprCompiler{}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *exprCompiler) Engine() string { return "expr" }

func (c *exprCompiler) Compile(expression string) (Program, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	program, err := c.compile(expression)
	if err != nil {
		return nil, wrapFilterError("expr", StageCompile, expression, err)
	}
	return &exprProgram{program: program}, nil
}

func (c *exprCompiler) Validate(expression string) error {
	if expression == "" {
		return ErrEmptyExpression
	}
	if _, err := c.compile(expression); err != nil {
		return wrapFilterError("expr", StageCompile, expression, err)
	}
	return nil
}

func (c *exprCompiler) compile(expression string) (*exprvm.Program, error) {
	options := []exprlang.Option{
		exprlang.Env(exprEnv{}),
		exprlang.AsBool(),
	}
	for _, name := range c.registryNames() {
		options = append(options, exprlang.Function(name, c.registryFunction(name)))
	}
	return exprlang.Compile(expression, options...)
}

func (c *exprCompiler) registryNames() []string {
	if c == nil || c.registry == nil {
		return nil
	}
	return c.registry.Names()
}

func (c *exprCompiler) registryFunction(name string) func(...any) (any, error) {
	return func(arguments ...any) (any, error) {
		return c.registry.Call(name, arguments...)
	}
}

type exprProgram struct {
	program *exprvm.Program
}

// Run reports raw engine errors; the evaluator owns fault formatting.
func (p *exprProgram) Run(vars VariableProvider) (bool, error) {
	env := exprEnv{
		MachineName: vars.MachineName(),
		ProcessID:   vars.ProcessID(),
		ProcessName: vars.ProcessName(),
		ThreadID:    vars.ThreadID(),
		ThreadName:  vars.ThreadName(),
	}
	out, err := exprlang.Run(p.program, env)
	if err != nil {
		return false, err
	}
	result, ok := out.(bool)
	if !ok {
		return false, errNotBoolean
	}
	return result, nil
}
