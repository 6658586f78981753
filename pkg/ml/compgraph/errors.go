// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package compgraph

import (
	"fmt"

	"github.com/gomlx/compgraph/pkg/ml/vertex"
	"github.com/pkg/errors"
)

// Sentinel errors returned (wrapped) by Config.Validate and by the operations that validate the
// graph first. Check for them with errors.Is.
var (
	// ErrArity is returned when a vertex has a number of inputs outside its accepted range.
	// The error is an *ArityError.
	ErrArity = errors.New("invalid number of inputs")

	// ErrUnknownInput is returned when a vertex or an output refers to an undefined name.
	ErrUnknownInput = errors.New("unknown input")

	// ErrDuplicateName is returned when a name is used by more than one input or vertex.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrCycle is returned when the vertices don't form a directed acyclic graph.
	ErrCycle = errors.New("graph has a cycle")

	// ErrNoInputs is returned when the graph has no inputs.
	ErrNoInputs = errors.New("graph has no inputs")

	// ErrNoOutputs is returned when the graph has no outputs.
	ErrNoOutputs = errors.New("graph has no outputs")
)

// ArityError reports a vertex connected to a number of inputs outside its accepted range.
type ArityError struct {
	Vertex    string
	Kind      string
	NumInputs int
	Min, Max  int
}

// Error implements error.
func (e *ArityError) Error() string {
	accepted := fmt.Sprintf("[%d, %d]", e.Min, e.Max)
	if e.Max == vertex.UnboundedInputs {
		accepted = fmt.Sprintf("at least %d", e.Min)
	}
	return fmt.Sprintf("%s: vertex %q (%s) has %d inputs, accepted %s", ErrArity, e.Vertex, e.Kind, e.NumInputs, accepted)
}

// Unwrap returns ErrArity.
func (e *ArityError) Unwrap() error { return ErrArity }
