// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package memory

import (
	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/gopjrt/dtypes"
)

// NetworkReport is the memory estimate of a network: the reports of its layers, in execution order.
type NetworkReport struct {
	NetworkName string                         `json:"network_name"`
	InputNames  []string                       `json:"input_names"`
	InputTypes  map[string]inputtype.InputType `json:"input_types"`
	Layers      []*LayerReport                 `json:"layers"`
}

var _ Report = (*NetworkReport)(nil)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (r *NetworkReport) JSONTags() (typeName, interfaceName string) { return "network", Interface }

// Name implements Report.
func (r *NetworkReport) Name() string { return r.NetworkName }

// Layer returns the report of the named layer, or nil if not found.
func (r *NetworkReport) Layer(name string) *LayerReport {
	for _, layer := range r.Layers {
		if layer.LayerName == name {
			return layer
		}
	}
	return nil
}

// NumParams returns the total number of parameters of the network.
func (r *NetworkReport) NumParams() int64 {
	var total int64
	for _, layer := range r.Layers {
		total += layer.ParameterSize
	}
	return total
}

// Elements implements Report: it is the sum over all layers.
func (r *NetworkReport) Elements(t Type, minibatch int, useCase UseCase, cacheMode CacheMode) int64 {
	var total int64
	for _, layer := range r.Layers {
		total += layer.Elements(t, minibatch, useCase, cacheMode)
	}
	return total
}

// Bytes implements Report.
func (r *NetworkReport) Bytes(t Type, minibatch int, useCase UseCase, cacheMode CacheMode, dtype dtypes.DType) int64 {
	return bytesOf(r.Elements(t, minibatch, useCase, cacheMode), dtype)
}

// TotalBytes implements Report.
func (r *NetworkReport) TotalBytes(minibatch int, useCase UseCase, cacheMode CacheMode, dtype dtypes.DType) int64 {
	return totalBytes(r, minibatch, useCase, cacheMode, dtype)
}

// BytesByType implements Report.
func (r *NetworkReport) BytesByType(minibatch int, useCase UseCase, cacheMode CacheMode, dtype dtypes.DType) map[Type]int64 {
	return bytesByType(r, minibatch, useCase, cacheMode, dtype)
}
