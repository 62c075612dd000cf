// Package filters keeps named breakpoint filter definitions for hosts that
// let users manage a reusable filter list.
package filters

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("filters: not found")

// Filter is one named breakpoint filter definition.
type Filter struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
	Note       string `json:"note,omitempty"`
	Enabled    bool   `json:"enabled"`
}

// Meta is storage-owned metadata.
type Meta struct {
	Revision  int       `json:"revision"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validator checks a filter expression before it is stored. Wire the
// evaluator's IsValidExpression here so the store never holds an expression
// that cannot compile.
type Validator func(expression string) error

// Store loads and saves filter definitions keyed by name.
type Store interface {
	Load(ctx context.Context, name string) (Filter, Meta, bool, error)
	Save(ctx context.Context, filter Filter) (Meta, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]Filter, error)
}
