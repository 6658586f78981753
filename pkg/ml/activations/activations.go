// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package activations implements several common activations over tensors, and includes a generic
// Apply method to apply an activation by its type.
//
// There is also FromName to convert an activation name (string) to its type.
package activations

import (
	"math"

	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Type is an enum for the supported activation functions.
//
// It is converted to snake-format strings (e.g.: TypeLeakyRelu -> "leaky_relu"), and can be converted
// from string by using TypeString or FromName.
type Type int

const (
	TypeNone Type = iota
	TypeRelu
	TypeSigmoid
	TypeLeakyRelu
	TypeSelu
	TypeSwish
	TypeHardSwish

	// TypeSilu is an alias to TypeSwish
	TypeSilu

	TypeTanh

	TypeGelu
	TypeGeluApprox

	// TypeSoftmax normalizes over the feature axis (axis 1).
	TypeSoftmax

	// TypeIdentity is an alias to TypeNone.
	TypeIdentity
)

//go:generate go tool enumer -type=Type -trimprefix=Type -transform=snake -values -text -json -output=gen_type_enumer.go activations.go

const (
	LeakyReluAlpha = 0.3
	SeluAlpha      = 1.67326324
	SeluScale      = 1.05070098
)

// Apply the given activation type, returning a new tensor: x is not modified.
// TypeNone (and TypeIdentity) return a copy of x.
//
// See TypeValues for valid values.
func Apply(activation Type, x *tensors.Tensor) *tensors.Tensor {
	y := x.Clone()
	flat := y.Flat()
	switch activation {
	case TypeNone, TypeIdentity:
	case TypeSoftmax:
		softmax(y)
	default:
		fn := elementwise(activation)
		for ii, v := range flat {
			flat[ii] = fn(v)
		}
	}
	return y
}

func elementwise(activation Type) func(float64) float64 {
	switch activation {
	case TypeRelu:
		return Relu
	case TypeSigmoid:
		return Sigmoid
	case TypeLeakyRelu:
		return func(x float64) float64 { return LeakyReluWithAlpha(x, LeakyReluAlpha) }
	case TypeSelu:
		return Selu
	case TypeSwish, TypeSilu:
		return Swish
	case TypeHardSwish:
		return HardSwish
	case TypeTanh:
		return math.Tanh
	case TypeGelu:
		return Gelu
	case TypeGeluApprox:
		return GeluApproximate
	default:
		exceptions.Panicf("Apply got invalid activation value %q: options are %v", activation, TypeValues())
	}
	return nil
}

// FromName converts the name of an activation to its type.
// It panics with a helpful message if name is invalid.
//
// An empty string is converted to TypeNone.
func FromName(activationName string) Type {
	activation, err := Parse(activationName)
	if err != nil {
		panic(err)
	}
	return activation
}

// Parse is like FromName, but returns an error for invalid names.
func Parse(activationName string) (Type, error) {
	if activationName == "" {
		return TypeNone, nil
	}
	activation, err := TypeString(activationName)
	if err != nil {
		return TypeNone, errors.Errorf("invalid activation name %q: options are %v", activationName, TypeValues())
	}
	return activation, nil
}

// Relu returns max(x, 0).
func Relu(x float64) float64 { return max(x, 0) }

// Sigmoid returns 1/(1+e^-x).
func Sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// LeakyReluWithAlpha returns `x if x >= 0; alpha*x if x < 0`.
func LeakyReluWithAlpha(x, alpha float64) float64 {
	if x >= 0 {
		return x
	}
	return alpha * x
}

// Selu stands for Scaled Exponential Linear Unit.
func Selu(x float64) float64 {
	if x > 0 {
		return SeluScale * x
	}
	return SeluScale * SeluAlpha * (math.Exp(x) - 1)
}

// Swish activation (or SiLU) returns `x * Sigmoid(x)`.
func Swish(x float64) float64 { return x * Sigmoid(x) }

// HardSwish returns x·ReLU6(x+3)/6.
func HardSwish(x float64) float64 { return x * min(max(x/6+0.5, 0), 1) }

// Gelu is the exact Gaussian Error Linear Unit, x·Φ(x).
func Gelu(x float64) float64 { return 0.5 * x * (1 + math.Erf(x/math.Sqrt2)) }

// GeluApproximate is the tanh approximation of Gelu.
func GeluApproximate(x float64) float64 {
	return 0.5 * x * (1 + math.Tanh(math.Sqrt(2/math.Pi)*(x+0.044715*x*x*x)))
}

// softmax normalizes in place over axis 1, for each index of the other axes.
func softmax(y *tensors.Tensor) {
	if y.Rank() < 2 {
		exceptions.Panicf("softmax requires a rank >= 2 tensor (batch and features), got shape %s", y.Shape())
	}
	flat := y.Flat()
	dims := y.Dimensions()
	features := dims[1]
	inner := y.Size() / (dims[0] * features)
	for b := range dims[0] {
		for ii := range inner {
			base := b*features*inner + ii
			maxV := math.Inf(-1)
			for f := range features {
				maxV = max(maxV, flat[base+f*inner])
			}
			var sum float64
			for f := range features {
				idx := base + f*inner
				flat[idx] = math.Exp(flat[idx] - maxV)
				sum += flat[idx]
			}
			for f := range features {
				flat[base+f*inner] /= sum
			}
		}
	}
}
