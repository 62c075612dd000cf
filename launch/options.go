// Package launch carries the optional host override used when starting a
// debuggee under the managed runtime host.
package launch

// Options overrides how the debuggee's host process is started. Nil fields
// mean "use the launcher default"; set values are handed to the external
// launcher verbatim, with no validation here.
type Options struct {
	Host          *string `json:"host,omitempty" yaml:"host,omitempty"`
	HostArguments *string `json:"hostArguments,omitempty" yaml:"hostArguments,omitempty"`
}

// String returns a pointer to s, for building Options literals.
func String(s string) *string {
	return &s
}

// Clone returns a deep copy.
func (o Options) Clone() Options {
	return Options{
		Host:          cloneString(o.Host),
		HostArguments: cloneString(o.HostArguments),
	}
}

// HostOrDefault returns the host override, or def when unset.
func (o Options) HostOrDefault(def string) string {
	if o.Host == nil {
		return def
	}
	return *o.Host
}

// HostArgumentsOrDefault returns the argument override, or def when unset.
func (o Options) HostArgumentsOrDefault(def string) string {
	if o.HostArguments == nil {
		return def
	}
	return *o.HostArguments
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
