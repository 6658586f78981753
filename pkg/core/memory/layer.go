// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package memory

import (
	"maps"
	"slices"

	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/gopjrt/dtypes"
)

// LayerReport is the memory estimate of one layer (or vertex) of a network.
//
// All sizes are in number of array elements: they are converted to bytes for a given dtype
// on evaluation. Use NewLayerReport to build one.
type LayerReport struct {
	LayerName string `json:"layer_name"`

	// LayerKind is the type tag of the vertex or layer.
	LayerKind string `json:"layer_kind"`

	InputTypes []inputtype.InputType `json:"input_types"`
	OutputType inputtype.InputType   `json:"output_type"`

	ParameterSize    int64 `json:"parameter_size"`
	UpdaterStateSize int64 `json:"updater_state_size"`

	WorkingMemoryFixedInference    int64               `json:"working_memory_fixed_inference"`
	WorkingMemoryVariableInference int64               `json:"working_memory_variable_inference"`
	WorkingMemoryFixedTrain        map[CacheMode]int64 `json:"working_memory_fixed_train"`
	WorkingMemoryVariableTrain     map[CacheMode]int64 `json:"working_memory_variable_train"`

	CacheMemoryFixed              map[CacheMode]int64 `json:"cache_memory_fixed"`
	CacheMemoryVariablePerExample map[CacheMode]int64 `json:"cache_memory_variable_per_example"`
}

var _ Report = (*LayerReport)(nil)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (r *LayerReport) JSONTags() (typeName, interfaceName string) { return "layer", Interface }

// Name implements Report.
func (r *LayerReport) Name() string { return r.LayerName }

// Elements implements Report.
func (r *LayerReport) Elements(t Type, minibatch int, useCase UseCase, cacheMode CacheMode) int64 {
	batch := int64(minibatch)
	inference := useCase == UseCaseInference
	if inference && !t.IsInference() {
		return 0
	}
	switch t {
	case TypeParameters, TypeParameterGradients:
		return r.ParameterSize
	case TypeActivations:
		if !r.OutputType.Ok() {
			return 0
		}
		return batch * int64(r.OutputType.ElementsPerExample())
	case TypeActivationGradients:
		var perExample int64
		for _, in := range r.InputTypes {
			perExample += int64(in.ElementsPerExample())
		}
		return batch * perExample
	case TypeUpdaterState:
		return r.UpdaterStateSize
	case TypeWorkingMemoryFixed:
		if inference {
			return r.WorkingMemoryFixedInference
		}
		return r.WorkingMemoryFixedTrain[cacheMode]
	case TypeWorkingMemoryVariable:
		if inference {
			return batch * r.WorkingMemoryVariableInference
		}
		return batch * r.WorkingMemoryVariableTrain[cacheMode]
	case TypeCachedMemoryFixed:
		return r.CacheMemoryFixed[cacheMode]
	case TypeCachedMemoryVariable:
		return batch * r.CacheMemoryVariablePerExample[cacheMode]
	default:
		return 0
	}
}

// Bytes implements Report.
func (r *LayerReport) Bytes(t Type, minibatch int, useCase UseCase, cacheMode CacheMode, dtype dtypes.DType) int64 {
	return bytesOf(r.Elements(t, minibatch, useCase, cacheMode), dtype)
}

// TotalBytes implements Report.
func (r *LayerReport) TotalBytes(minibatch int, useCase UseCase, cacheMode CacheMode, dtype dtypes.DType) int64 {
	return totalBytes(r, minibatch, useCase, cacheMode, dtype)
}

// BytesByType implements Report.
func (r *LayerReport) BytesByType(minibatch int, useCase UseCase, cacheMode CacheMode, dtype dtypes.DType) map[Type]int64 {
	return bytesByType(r, minibatch, useCase, cacheMode, dtype)
}

// Clone returns a deep copy of the report.
func (r *LayerReport) Clone() *LayerReport {
	r2 := *r
	r2.InputTypes = slices.Clone(r.InputTypes)
	r2.WorkingMemoryFixedTrain = maps.Clone(r.WorkingMemoryFixedTrain)
	r2.WorkingMemoryVariableTrain = maps.Clone(r.WorkingMemoryVariableTrain)
	r2.CacheMemoryFixed = maps.Clone(r.CacheMemoryFixed)
	r2.CacheMemoryVariablePerExample = maps.Clone(r.CacheMemoryVariablePerExample)
	return &r2
}

// WithName returns a copy of the report renamed to name.
func (r *LayerReport) WithName(name string) *LayerReport {
	r2 := r.Clone()
	r2.LayerName = name
	return r2
}

// LayerReportBuilder builds a LayerReport. Categories not set default to 0.
type LayerReportBuilder struct {
	report *LayerReport
}

// NewLayerReport starts building the report of a layer (or vertex) with the given name, kind,
// input types and output type.
func NewLayerReport(name, kind string, inputs []inputtype.InputType, output inputtype.InputType) *LayerReportBuilder {
	return &LayerReportBuilder{report: &LayerReport{
		LayerName:  name,
		LayerKind:  kind,
		InputTypes: slices.Clone(inputs),
		OutputType: output,
	}}
}

func perCacheMode(value int64, none int64) map[CacheMode]int64 {
	m := make(map[CacheMode]int64, len(CacheModeValues()))
	for _, mode := range CacheModeValues() {
		m[mode] = value
	}
	m[CacheModeNone] = none
	return m
}

// StandardMemory sets the number of parameters and the size of the updater state.
func (b *LayerReportBuilder) StandardMemory(parameterSize, updaterStateSize int64) *LayerReportBuilder {
	b.report.ParameterSize = parameterSize
	b.report.UpdaterStateSize = updaterStateSize
	return b
}

// WorkingMemory sets the working memory, the same for every cache mode.
// The variable values are per example.
func (b *LayerReportBuilder) WorkingMemory(fixedInference, variableInference, fixedTrain, variableTrain int64) *LayerReportBuilder {
	b.report.WorkingMemoryFixedInference = fixedInference
	b.report.WorkingMemoryVariableInference = variableInference
	b.report.WorkingMemoryFixedTrain = perCacheMode(fixedTrain, fixedTrain)
	b.report.WorkingMemoryVariableTrain = perCacheMode(variableTrain, variableTrain)
	return b
}

// CacheMemory sets the memory cached for the backward pass, per example for the variable part.
// With CacheModeNone nothing is cached.
func (b *LayerReportBuilder) CacheMemory(fixed, variablePerExample int64) *LayerReportBuilder {
	b.report.CacheMemoryFixed = perCacheMode(fixed, 0)
	b.report.CacheMemoryVariablePerExample = perCacheMode(variablePerExample, 0)
	return b
}

// Done returns the built report.
func (b *LayerReportBuilder) Done() *LayerReport {
	r := b.report
	if r.WorkingMemoryFixedTrain == nil {
		r.WorkingMemoryFixedTrain = perCacheMode(0, 0)
	}
	if r.WorkingMemoryVariableTrain == nil {
		r.WorkingMemoryVariableTrain = perCacheMode(0, 0)
	}
	if r.CacheMemoryFixed == nil {
		r.CacheMemoryFixed = perCacheMode(0, 0)
	}
	if r.CacheMemoryVariablePerExample == nil {
		r.CacheMemoryVariablePerExample = perCacheMode(0, 0)
	}
	return r
}
