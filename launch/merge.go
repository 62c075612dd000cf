package launch

// Merge composes option layers ordered from strongest to weakest, keeping
// explicit settings from stronger layers while filling missing fields from
// weaker ones. Typical layering: CLI overrides, profile configuration,
// workspace defaults.
func Merge(layers ...Options) Options {
	var merged Options
	for i := len(layers) - 1; i >= 0; i-- {
		layer := layers[i]
		if layer.Host != nil {
			merged.Host = cloneString(layer.Host)
		}
		if layer.HostArguments != nil {
			merged.HostArguments = cloneString(layer.HostArguments)
		}
	}
	return merged
}
