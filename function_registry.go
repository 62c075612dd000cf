package breakfilter

import (
	"fmt"
	"sort"
	"sync"
)

// Function is a host helper callable from filter expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry stores helper functions keyed by name. Names are
// case-sensitive to match expression identifier rules.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// Register stores fn under name, rejecting duplicates.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return fmt.Errorf("breakfilter: function %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("breakfilter: function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	if _, exists := r.functions[name]; exists {
		return fmt.Errorf("breakfilter: function %q already registered", name)
	}
	r.functions[name] = fn
	return nil
}

// Call invokes the named function.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("breakfilter: function registry not configured")
	}
	r.mu.RLock()
	fn, ok := r.functions[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("breakfilter: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns the registered names in sorted order.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a shallow copy so each compiler backend snapshots the
// registry it was built with.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{
		functions: make(map[string]Function, len(r.functions)),
	}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}
