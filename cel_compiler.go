package breakfilter

import (
	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELCompilerOption configures the CEL backend.
type CELCompilerOption func(*celCompiler)

// CELWithFunctions exposes registry helpers through the call(...) builtin.
func CELWithFunctions(registry *FunctionRegistry) CELCompilerOption {
	return func(c *celCompiler) {
		if registry == nil {
			return
		}
		c.registry = registry.Clone()
	}
}

// celCompiler compiles filter expressions with github.com/google/cel-go.
type celCompiler struct {
	registry *FunctionRegistry
}

// NewCELCompiler constructs a Compiler backed by cel-go.
func NewCELCompiler(opts ...CELCompilerOption) Compiler {
	c := &celCompiler{}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *celCompiler) Engine() string { return "cel" }

func (c *celCompiler) Compile(expression string) (Program, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	env, checked, err := c.check(expression)
	if err != nil {
		return nil, wrapFilterError("cel", StageCompile, expression, err)
	}
	prg, err := env.Program(checked)
	if err != nil {
		// Compilation succeeded but no runnable program could be bound.
		return nil, wrapFilterError("cel", StageBind, expression, err)
	}
	return &celProgram{program: prg}, nil
}

func (c *celCompiler) Validate(expression string) error {
	if expression == "" {
		return ErrEmptyExpression
	}
	if _, _, err := c.check(expression); err != nil {
		return wrapFilterError("cel", StageCompile, expression, err)
	}
	return nil
}

func (c *celCompiler) check(expression string) (*celgo.Env, *celgo.Ast, error) {
	env, err := c.buildEnv()
	if err != nil {
		return nil, nil, err
	}
	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, nil, issues.Err()
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, nil, issues.Err()
	}
	if !checked.OutputType().IsExactType(celgo.BoolType) {
		return nil, nil, errNotBoolean
	}
	return env, checked, nil
}

func (c *celCompiler) buildEnv() (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("MachineName", celgo.StringType),
		celgo.Variable("ProcessId", celgo.IntType),
		celgo.Variable("ProcessName", celgo.StringType),
		celgo.Variable("ThreadId", celgo.IntType),
		celgo.Variable("ThreadName", celgo.StringType),
	}
	if c.registry != nil {
		opts = append(opts, celgo.Function("call", celgo.Overload(
			"call_string_dyn",
			[]*celgo.Type{celgo.StringType, celgo.DynType},
			celgo.DynType,
			celgo.BinaryBinding(c.callBinding()),
		)))
	}
	return celgo.NewEnv(opts...)
}

func (c *celCompiler) callBinding() func(ref.Val, ref.Val) ref.Val {
	return func(nameVal, argVal ref.Val) ref.Val {
		if c.registry == nil {
			return types.NewErr("breakfilter: function registry not configured")
		}
		name, ok := nameVal.Value().(string)
		if !ok {
			return types.NewErr("breakfilter: call name must be string")
		}
		result, err := c.registry.Call(name, argVal.Value())
		if err != nil {
			// NewErr is printf-style; the message must not be the format.
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}

type celProgram struct {
	program celgo.Program
}

// Run reports raw engine errors; the evaluator owns fault formatting.
func (p *celProgram) Run(vars VariableProvider) (bool, error) {
	out, _, err := p.program.Eval(map[string]any{
		"MachineName": vars.MachineName(),
		"ProcessId":   vars.ProcessID(),
		"ProcessName": vars.ProcessName(),
		"ThreadId":    vars.ThreadID(),
		"ThreadName":  vars.ThreadName(),
	})
	if err != nil {
		return false, err
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, errNotBoolean
	}
	return result, nil
}
