//go:build js_eval

package breakfilter

import (
	"fmt"

	"github.com/dop251/goja"
)

// jsCompiler compiles filter expressions with github.com/dop251/goja.
type jsCompiler struct {
	registry *FunctionRegistry
}

// NewJSCompiler constructs a Compiler backed by goja.
func NewJSCompiler(opts ...JSCompilerOption) Compiler {
	cfg := applyJSCompilerOptions(opts)
	return &jsCompiler{registry: cfg.registry}
}

func (c *jsCompiler) Engine() string { return "js" }

func (c *jsCompiler) Compile(expression string) (Program, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	program, err := goja.Compile("", wrapJSExpression(expression), false)
	if err != nil {
		return nil, wrapFilterError("js", StageCompile, expression, err)
	}
	return &jsProgram{
		compiler: c,
		program:  program,
	}, nil
}

func (c *jsCompiler) Validate(expression string) error {
	if expression == "" {
		return ErrEmptyExpression
	}
	if _, err := goja.Compile("", wrapJSExpression(expression), false); err != nil {
		return wrapFilterError("js", StageCompile, expression, err)
	}
	return nil
}

func wrapJSExpression(expression string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", expression)
}

type jsProgram struct {
	compiler *jsCompiler
	program  *goja.Program
}

// Run executes in a fresh runtime per call; goja runtimes are not safe for
// concurrent reuse.
func (p *jsProgram) Run(vars VariableProvider) (bool, error) {
	vm := goja.New()
	vm.Set("MachineName", vars.MachineName())
	vm.Set("ProcessId", vars.ProcessID())
	vm.Set("ProcessName", vars.ProcessName())
	vm.Set("ThreadId", vars.ThreadID())
	vm.Set("ThreadName", vars.ThreadName())
	if registry := p.compiler.registry; registry != nil {
		for _, name := range registry.Names() {
			fn := name
			vm.Set(fn, func(arguments ...any) (any, error) {
				return registry.Call(fn, arguments...)
			})
		}
	}
	value, err := vm.RunProgram(p.program)
	if err != nil {
		return false, err
	}
	result, ok := value.Export().(bool)
	if !ok {
		return false, errNotBoolean
	}
	return result, nil
}

func jsCompilerAvailable() bool {
	return true
}
