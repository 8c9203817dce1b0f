package operation

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotImplemented is returned when no executor is registered for a kind.
var ErrNotImplemented = errors.New("operation not implemented")

// Executor carries out a submitted operation.
type Executor interface {
	Execute(ctx context.Context, kind Kind, values FormState) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, kind Kind, values FormState) error

func (f ExecutorFunc) Execute(ctx context.Context, kind Kind, values FormState) error {
	return f(ctx, kind, values)
}

// Unimplemented is the default executor for every kind.
type Unimplemented struct{}

func (Unimplemented) Execute(_ context.Context, kind Kind, _ FormState) error {
	return fmt.Errorf("%w: %s", ErrNotImplemented, kind)
}

// Registry maps kinds to executors. The zero value answers every kind with
// Unimplemented.
type Registry struct {
	executors map[Kind]Executor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{executors: make(map[Kind]Executor)}
}

// Register installs ex for kind, replacing any previous executor.
func (r *Registry) Register(kind Kind, ex Executor) {
	if r.executors == nil {
		r.executors = make(map[Kind]Executor)
	}
	r.executors[kind] = ex
}

// Lookup returns the executor for kind.
func (r *Registry) Lookup(kind Kind) Executor {
	if r != nil {
		if ex, ok := r.executors[kind]; ok && ex != nil {
			return ex
		}
	}
	return Unimplemented{}
}

// Execute runs the executor registered for kind.
func (r *Registry) Execute(ctx context.Context, kind Kind, values FormState) error {
	return r.Lookup(kind).Execute(ctx, kind, values)
}
