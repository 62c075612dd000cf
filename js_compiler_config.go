package breakfilter

type jsCompilerConfig struct {
	registry *FunctionRegistry
}

// JSCompilerOption configures the JS backend.
type JSCompilerOption func(*jsCompilerConfig)

// JSWithFunctions exposes registry helpers as globals inside the JS runtime.
func JSWithFunctions(registry *FunctionRegistry) JSCompilerOption {
	return func(cfg *jsCompilerConfig) {
		if registry == nil {
			return
		}
		cfg.registry = registry.Clone()
	}
}

func applyJSCompilerOptions(opts []JSCompilerOption) jsCompilerConfig {
	cfg := jsCompilerConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
