//go:build !js_eval

package breakfilter

// NewJSCompiler is unavailable without the js_eval build tag.
func NewJSCompiler(opts ...JSCompilerOption) Compiler {
	_ = applyJSCompilerOptions(opts)
	return nil
}

func jsCompilerAvailable() bool {
	return false
}
