// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package inputtype

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ErrInvalidInputType is matched (with errors.Is) by every error reporting input types that are
// structurally incompatible with a vertex or layer.
var ErrInvalidInputType = errors.New("invalid input type")

// InvalidInputTypeError reports input types that a vertex (or layer, or preprocessor) can't handle.
// It unwraps to ErrInvalidInputType.
type InvalidInputTypeError struct {
	// Vertex is the kind of the vertex (or layer) that rejected its inputs.
	Vertex string

	// LayerIndex of the vertex in its graph, -1 if not known.
	LayerIndex int

	Msg string
}

func (e *InvalidInputTypeError) Error() string {
	if e == nil {
		return ""
	}
	if e.LayerIndex >= 0 {
		return fmt.Sprintf("%s: %s (layer index %d): %s", ErrInvalidInputType, e.Vertex, e.LayerIndex, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInputType, e.Vertex, e.Msg)
}

func (e *InvalidInputTypeError) Unwrap() error { return ErrInvalidInputType }

// Invalidf returns an *InvalidInputTypeError (with a stack trace attached) for the given vertex kind.
func Invalidf(vertex string, layerIndex int, format string, args ...any) error {
	return pkgerrors.WithStack(&InvalidInputTypeError{
		Vertex:     vertex,
		LayerIndex: layerIndex,
		Msg:        fmt.Sprintf(format, args...),
	})
}
