// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"encoding/json"

	"github.com/gomlx/compgraph/internal/hashing"
	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/gomlx/compgraph/pkg/ml/layers"
	"github.com/gomlx/compgraph/pkg/ml/preprocessors"
	"github.com/pkg/errors"
)

// LayerVertex wraps a layer, optionally preceded by a preprocessor of its input.
//
// It is the only vertex with parameters: they are the parameters of the layer.
type LayerVertex struct {
	Layer layers.Config

	// Preprocessor is optional.
	Preprocessor preprocessors.Preprocessor
}

var _ Vertex = (*LayerVertex)(nil)

// NewLayerVertex returns a LayerVertex for the layer, with an optional preprocessor (nil for none).
func NewLayerVertex(layer layers.Config, preprocessor preprocessors.Preprocessor) *LayerVertex {
	return &LayerVertex{Layer: layer, Preprocessor: preprocessor}
}

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (v *LayerVertex) JSONTags() (typeName, interfaceName string) { return "LayerVertex", Interface }

type layerVertexJSON struct {
	Layer        layers.Wrapper         `json:"layer"`
	Preprocessor *preprocessors.Wrapper `json:"preprocessor,omitempty"`
}

func wrapPreprocessor(p preprocessors.Preprocessor) *preprocessors.Wrapper {
	if p == nil {
		return nil
	}
	return &preprocessors.Wrapper{Value: p}
}

func unwrapPreprocessor(w *preprocessors.Wrapper) preprocessors.Preprocessor {
	if w == nil {
		return nil
	}
	return w.Value
}

// MarshalJSON implements json.Marshaler.
func (v *LayerVertex) MarshalJSON() ([]byte, error) {
	return json.Marshal(layerVertexJSON{
		Layer:        layers.Wrapper{Value: v.Layer},
		Preprocessor: wrapPreprocessor(v.Preprocessor),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *LayerVertex) UnmarshalJSON(data []byte) error {
	var aux layerVertexJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return errors.Wrap(err, "LayerVertex")
	}
	if aux.Layer.Value == nil {
		return errors.New("LayerVertex: missing layer")
	}
	v.Layer = aux.Layer.Value
	v.Preprocessor = unwrapPreprocessor(aux.Preprocessor)
	return nil
}

// Validate implements Validator: the layer is required.
func (v *LayerVertex) Validate() error {
	if v.Layer == nil {
		return errors.Wrap(ErrIncomplete, "LayerVertex: missing layer")
	}
	return nil
}

// Clone implements Vertex.
func (v *LayerVertex) Clone() Vertex {
	v2 := &LayerVertex{}
	if v.Layer != nil {
		v2.Layer = v.Layer.Clone()
	}
	if v.Preprocessor != nil {
		v2.Preprocessor = v.Preprocessor.Clone()
	}
	return v2
}

// Equal implements Vertex.
func (v *LayerVertex) Equal(other Vertex) bool {
	o, ok := other.(*LayerVertex)
	if !ok {
		return false
	}
	if v.Layer == nil || o.Layer == nil {
		if v.Layer != nil || o.Layer != nil {
			return false
		}
	} else if !v.Layer.Equal(o.Layer) {
		return false
	}
	if v.Preprocessor == nil || o.Preprocessor == nil {
		return v.Preprocessor == nil && o.Preprocessor == nil
	}
	return v.Preprocessor.Equal(o.Preprocessor)
}

// Hash implements Vertex.
func (v *LayerVertex) Hash() uint64 {
	h := hashing.New("LayerVertex")
	if v.Layer != nil {
		h.Uint64(v.Layer.Hash())
	}
	if v.Preprocessor != nil {
		h.Uint64(v.Preprocessor.Hash())
	}
	return h.Sum()
}

// NumParams implements Vertex.
func (v *LayerVertex) NumParams(training bool) int {
	if v.Layer == nil {
		return 0
	}
	return v.Layer.NumParams(training)
}

// MinInputs implements Vertex.
func (v *LayerVertex) MinInputs() int { return 1 }

// MaxInputs implements Vertex.
func (v *LayerVertex) MaxInputs() int { return 1 }

// layerInput returns the type of the input of the layer, after the preprocessor.
func (v *LayerVertex) layerInput(layerIndex int, input inputtype.InputType) (inputtype.InputType, error) {
	if v.Preprocessor == nil {
		return input, nil
	}
	return v.Preprocessor.OutputType(layerIndex, input)
}

// WithInputType returns a copy of the vertex with the input size of its layer inferred from
// the input type, if the layer supports it (layers.NInSetter) and its size was not set.
// Otherwise it returns the vertex itself.
func (v *LayerVertex) WithInputType(input inputtype.InputType) (*LayerVertex, error) {
	setter, ok := v.Layer.(layers.NInSetter)
	if !ok {
		return v, nil
	}
	layerInput, err := v.layerInput(-1, input)
	if err != nil {
		return nil, err
	}
	layer := setter.WithNIn(layerInput)
	if layer == v.Layer {
		return v, nil
	}
	return &LayerVertex{Layer: layer, Preprocessor: v.Preprocessor}, nil
}

// OutputType implements Vertex.
func (v *LayerVertex) OutputType(layerIndex int, inputs ...inputtype.InputType) ([]inputtype.InputType, error) {
	if err := checkNumInputs(v, layerIndex, inputs); err != nil {
		return nil, err
	}
	layerInput, err := v.layerInput(layerIndex, inputs[0])
	if err != nil {
		return nil, err
	}
	output, err := v.Layer.OutputType(layerIndex, layerInput)
	if err != nil {
		return nil, err
	}
	return []inputtype.InputType{output}, nil
}

// MemoryReport implements Vertex: it is the report of the layer.
func (v *LayerVertex) MemoryReport(inputs ...inputtype.InputType) (*memory.LayerReport, error) {
	if err := checkNumInputs(v, -1, inputs); err != nil {
		return nil, err
	}
	layerInput, err := v.layerInput(-1, inputs[0])
	if err != nil {
		return nil, err
	}
	return v.Layer.MemoryReport(layers.Kind(v.Layer), layerInput)
}

// Instantiate implements Vertex.
func (v *LayerVertex) Instantiate(args InstantiateArgs) (Node, error) {
	checkInstantiate(v, args)
	layer, err := v.Layer.Instantiate(args.NetConf, args.Name, args.Params, args.InitializeParams)
	if err != nil {
		return nil, errors.WithMessagef(err, "LayerVertex %q", args.Name)
	}
	preprocessor := v.Preprocessor
	return newNode(v, args, func(env Env, inputs []*tensors.Tensor) (*tensors.Tensor, error) {
		x := inputs[0]
		if preprocessor != nil {
			var err error
			x, err = preprocessor.Preprocess(x, env.BatchSize())
			if err != nil {
				return nil, err
			}
		}
		return layer.Forward(x, env.Training())
	}), nil
}

// PreprocessorVertex applies a preprocessor to its input.
type PreprocessorVertex struct {
	Preprocessor preprocessors.Preprocessor
}

var _ Vertex = (*PreprocessorVertex)(nil)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (v *PreprocessorVertex) JSONTags() (typeName, interfaceName string) {
	return "PreprocessorVertex", Interface
}

type preprocessorVertexJSON struct {
	Preprocessor preprocessors.Wrapper `json:"preprocessor"`
}

// MarshalJSON implements json.Marshaler.
func (v *PreprocessorVertex) MarshalJSON() ([]byte, error) {
	return json.Marshal(preprocessorVertexJSON{Preprocessor: preprocessors.Wrapper{Value: v.Preprocessor}})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *PreprocessorVertex) UnmarshalJSON(data []byte) error {
	var aux preprocessorVertexJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return errors.Wrap(err, "PreprocessorVertex")
	}
	if aux.Preprocessor.Value == nil {
		return errors.New("PreprocessorVertex: missing preprocessor")
	}
	v.Preprocessor = aux.Preprocessor.Value
	return nil
}

// Validate implements Validator: the preprocessor is required.
func (v *PreprocessorVertex) Validate() error {
	if v.Preprocessor == nil {
		return errors.Wrap(ErrIncomplete, "PreprocessorVertex: missing preprocessor")
	}
	return nil
}

// Clone implements Vertex.
func (v *PreprocessorVertex) Clone() Vertex {
	if v.Preprocessor == nil {
		return &PreprocessorVertex{}
	}
	return &PreprocessorVertex{Preprocessor: v.Preprocessor.Clone()}
}

// Equal implements Vertex.
func (v *PreprocessorVertex) Equal(other Vertex) bool {
	o, ok := other.(*PreprocessorVertex)
	if !ok {
		return false
	}
	if v.Preprocessor == nil || o.Preprocessor == nil {
		return v.Preprocessor == nil && o.Preprocessor == nil
	}
	return v.Preprocessor.Equal(o.Preprocessor)
}

// Hash implements Vertex.
func (v *PreprocessorVertex) Hash() uint64 {
	h := hashing.New("PreprocessorVertex")
	if v.Preprocessor != nil {
		h.Uint64(v.Preprocessor.Hash())
	}
	return h.Sum()
}

// NumParams implements Vertex.
func (v *PreprocessorVertex) NumParams(bool) int { return 0 }

// MinInputs implements Vertex.
func (v *PreprocessorVertex) MinInputs() int { return 1 }

// MaxInputs implements Vertex.
func (v *PreprocessorVertex) MaxInputs() int { return 1 }

// OutputType implements Vertex.
func (v *PreprocessorVertex) OutputType(layerIndex int, inputs ...inputtype.InputType) ([]inputtype.InputType, error) {
	if err := checkNumInputs(v, layerIndex, inputs); err != nil {
		return nil, err
	}
	output, err := v.Preprocessor.OutputType(layerIndex, inputs[0])
	if err != nil {
		return nil, err
	}
	return []inputtype.InputType{output}, nil
}

// MemoryReport implements Vertex.
func (v *PreprocessorVertex) MemoryReport(inputs ...inputtype.InputType) (*memory.LayerReport, error) {
	return singleOutputReport(v, inputs, func(output inputtype.InputType) *memory.LayerReport {
		return activationsReport(v, inputs, output)
	})
}

// Instantiate implements Vertex.
func (v *PreprocessorVertex) Instantiate(args InstantiateArgs) (Node, error) {
	preprocessor := v.Preprocessor
	return newNode(v, args, func(env Env, inputs []*tensors.Tensor) (*tensors.Tensor, error) {
		return preprocessor.Preprocess(inputs[0], env.BatchSize())
	}), nil
}
