// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"math"
	"testing"

	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/gomlx/compgraph/pkg/ml/activations"
	"github.com/gomlx/compgraph/pkg/ml/layers"
	"github.com/gomlx/compgraph/pkg/ml/netconf"
	"github.com/gomlx/compgraph/pkg/ml/preprocessors"
	"github.com/stretchr/testify/require"
)

// forward instantiates v without parameters and runs it once.
func forward(t *testing.T, v Vertex, env *testEnv, inputs ...*tensors.Tensor) (*tensors.Tensor, error) {
	t.Helper()
	node, err := v.Instantiate(InstantiateArgs{NetConf: netconf.New(), Name: Kind(v), NumInputs: len(inputs)})
	require.NoError(t, err)
	if env == nil {
		env = &testEnv{batchSize: inputs[0].BatchSize()}
	}
	return node.Forward(env, inputs...)
}

func outputType(t *testing.T, v Vertex, inputs ...inputtype.InputType) inputtype.InputType {
	t.Helper()
	outputs, err := v.OutputType(0, inputs...)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	return outputs[0]
}

func requireInvalid(t *testing.T, v Vertex, inputs ...inputtype.InputType) {
	t.Helper()
	_, err := v.OutputType(0, inputs...)
	require.ErrorIs(t, err, inputtype.ErrInvalidInputType, "%s with inputs %v", Kind(v), inputs)
}

func TestElementWise(t *testing.T) {
	ff := inputtype.FeedForward(2)
	require.Equal(t, inputtype.Recurrent(2, 4),
		outputType(t, &ElementWiseVertex{Op: OpAdd}, inputtype.Recurrent(2), inputtype.Recurrent(2, 4), inputtype.Recurrent(2)))
	requireInvalid(t, &ElementWiseVertex{Op: OpAdd}, ff, inputtype.Recurrent(2))
	requireInvalid(t, &ElementWiseVertex{Op: OpAdd}, ff, ff, inputtype.InputType{})

	a := tensors.FromValue([][]float64{{1, 4}})
	b := tensors.FromValue([][]float64{{3, 2}})
	c := tensors.FromValue([][]float64{{2, 0}})
	for op, want := range map[ElementWiseOp][][]float64{
		OpAdd:     {{6, 6}},
		OpProduct: {{6, 0}},
		OpAverage: {{2, 2}},
		OpMax:     {{3, 4}},
	} {
		out, err := forward(t, &ElementWiseVertex{Op: op}, nil, a, b, c)
		require.NoError(t, err)
		require.Equal(t, want, out.Value(), "op %s", op)
	}
	require.Equal(t, [][]float64{{1, 4}}, a.Value(), "inputs must not change")

	_, err := forward(t, &ElementWiseVertex{Op: OpAdd}, nil, a, tensors.FromValue([][]float64{{1, 2, 3}}))
	require.Error(t, err)
}

func TestMerge(t *testing.T) {
	v := &MergeVertex{}
	require.Equal(t, inputtype.FeedForward(5), outputType(t, v, inputtype.FeedForward(2), inputtype.FeedForward(3)))
	require.Equal(t, inputtype.FeedForward(3), outputType(t, v, inputtype.ConvolutionalFlat(1, 1, 2), inputtype.FeedForward(1)))
	require.Equal(t, inputtype.Convolutional(2, 2, 4), outputType(t, v, inputtype.Convolutional(2, 2, 1), inputtype.Convolutional(2, 2, 3)))
	require.Equal(t, inputtype.Convolutional3D(1, 2, 2, 3),
		outputType(t, v, inputtype.Convolutional3D(1, 2, 2, 1), inputtype.Convolutional3D(1, 2, 2, 2)))
	requireInvalid(t, v, inputtype.Convolutional(2, 2, 1), inputtype.Convolutional(3, 2, 1))
	requireInvalid(t, v, inputtype.FeedForward(2), inputtype.Recurrent(2))
	requireInvalid(t, v, inputtype.Recurrent(2, 4), inputtype.Recurrent(1, 5))
	requireInvalid(t, v, inputtype.FeedForward(2))

	out, err := forward(t, v, nil, tensors.FromValue([][]float64{{1, 2}, {3, 4}}), tensors.FromValue([][]float64{{5}, {6}}))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 2, 5}, {3, 4, 6}}, out.Value())
}

func TestSubset(t *testing.T) {
	v := &SubsetVertex{From: 1, To: 2}
	require.Equal(t, inputtype.FeedForward(2), outputType(t, v, inputtype.FeedForward(4)))
	require.Equal(t, inputtype.FeedForward(2), outputType(t, v, inputtype.ConvolutionalFlat(2, 2, 1)))
	require.Equal(t, inputtype.Recurrent(2, 3), outputType(t, v, inputtype.Recurrent(4, 3)))
	require.Equal(t, inputtype.Convolutional(2, 2, 2), outputType(t, v, inputtype.Convolutional(2, 2, 4)))
	requireInvalid(t, v, inputtype.FeedForward(2))
	requireInvalid(t, &SubsetVertex{From: 2, To: 1}, inputtype.FeedForward(4))

	out, err := forward(t, v, nil, tensors.FromValue([][]float64{{0, 1, 2, 3}}))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 2}}, out.Value())
}

func TestLastTimeStep(t *testing.T) {
	v := &LastTimeStepVertex{MaskInput: "in"}
	require.Equal(t, inputtype.FeedForward(1), outputType(t, v, inputtype.Recurrent(1, 3)))
	requireInvalid(t, v, inputtype.FeedForward(1))

	x := tensors.FromValue([][][]float64{{{1, 2, 3}}, {{4, 5, 6}}})
	out, err := forward(t, v, nil, x)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{3}, {6}}, out.Value())

	env := &testEnv{batchSize: 2, masks: map[string]*tensors.Tensor{
		"in": tensors.FromValue([][]float64{{1, 1, 0}, {0, 0, 0}}),
	}}
	out, err = forward(t, v, env, x)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{2}, {0}}, out.Value())

	env.masks["in"] = tensors.FromValue([][]float64{{1, 1}})
	_, err = forward(t, v, env, x)
	require.Error(t, err)
}

func TestDuplicateToTimeSeries(t *testing.T) {
	v := &DuplicateToTimeSeriesVertex{Input: "series"}
	require.Equal(t, inputtype.Recurrent(2), outputType(t, v, inputtype.FeedForward(2)))
	requireInvalid(t, v, inputtype.Recurrent(2))

	env := &testEnv{batchSize: 1, activations: map[string]*tensors.Tensor{"series": tensors.Zeros(1, 5, 3)}}
	out, err := forward(t, v, env, tensors.FromValue([][]float64{{7, 8}}))
	require.NoError(t, err)
	require.Equal(t, [][][]float64{{{7, 7, 7}, {8, 8, 8}}}, out.Value())

	_, err = forward(t, v, &testEnv{batchSize: 1}, tensors.FromValue([][]float64{{7, 8}}))
	require.ErrorContains(t, err, "series")
}

func TestStackUnstack(t *testing.T) {
	stack := &StackVertex{}
	require.Equal(t, inputtype.FeedForward(2), outputType(t, stack, inputtype.FeedForward(2), inputtype.FeedForward(2)))
	requireInvalid(t, stack, inputtype.FeedForward(2), inputtype.FeedForward(3))

	stacked, err := forward(t, stack, nil, tensors.FromValue([][]float64{{1, 2}}), tensors.FromValue([][]float64{{3, 4}}))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 2}, {3, 4}}, stacked.Value())

	unstack := &UnstackVertex{From: 1, StackSize: 2}
	require.Equal(t, inputtype.FeedForward(2), outputType(t, unstack, inputtype.FeedForward(2)))
	out, err := forward(t, unstack, nil, stacked)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{3, 4}}, out.Value())

	_, err = forward(t, unstack, nil, tensors.FromValue([][]float64{{1}, {2}, {3}}))
	require.Error(t, err)
	_, err = (&UnstackVertex{From: 2, StackSize: 2}).OutputType(0, inputtype.FeedForward(2))
	require.Error(t, err)
}

func TestL2(t *testing.T) {
	v := &L2Vertex{}
	require.Equal(t, inputtype.FeedForward(1), outputType(t, v, inputtype.FeedForward(2), inputtype.FeedForward(2)))
	requireInvalid(t, v, inputtype.FeedForward(2), inputtype.FeedForward(3))

	out, err := forward(t, v, nil, tensors.FromValue([][]float64{{3, 4}, {1, 1}}), tensors.FromValue([][]float64{{0, 0}, {1, 1}}))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{5}, {0}}, out.Value())

	out, err = forward(t, &L2Vertex{Eps: 0.25}, nil, tensors.FromValue([][]float64{{1}}), tensors.FromValue([][]float64{{1}}))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{0.5}}, out.Value())
}

func TestL2Normalize(t *testing.T) {
	v := &L2NormalizeVertex{}
	require.Equal(t, inputtype.Recurrent(2, 2), outputType(t, v, inputtype.Recurrent(2, 2)))
	requireInvalid(t, &L2NormalizeVertex{Axes: []int{2}}, inputtype.FeedForward(2))
	requireInvalid(t, &L2NormalizeVertex{Axes: []int{0}}, inputtype.FeedForward(2))

	out, err := forward(t, v, nil, tensors.FromValue([][]float64{{3, 4}, {0, 0}}))
	require.NoError(t, err)
	require.True(t, out.InDelta(tensors.FromValue([][]float64{{0.6, 0.8}, {0, 0}}), 1e-12), "got %s", out)

	x := tensors.FromValue([][][]float64{{{3, 1}, {4, 1}}})
	out, err = forward(t, &L2NormalizeVertex{Axes: []int{1}}, nil, x)
	require.NoError(t, err)
	want := tensors.FromValue([][][]float64{{{0.6, 1 / math.Sqrt2}, {0.8, 1 / math.Sqrt2}}})
	require.True(t, out.InDelta(want, 1e-12), "got %s", out)
}

func TestScaleShift(t *testing.T) {
	require.Equal(t, inputtype.Convolutional(1, 2, 3), outputType(t, &ShiftVertex{}, inputtype.Convolutional(1, 2, 3)))
	out, err := forward(t, &ShiftVertex{ShiftFactor: 0.5}, nil, tensors.FromValue([][]float64{{1, -1}}))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1.5, -0.5}}, out.Value())
}

func TestReshape(t *testing.T) {
	ff6 := inputtype.FeedForward(6)
	require.Equal(t, inputtype.FeedForward(6), outputType(t, &ReshapeVertex{Shape: []int{6}}, ff6))
	require.Equal(t, inputtype.Recurrent(2, 3), outputType(t, &ReshapeVertex{Shape: []int{2, 3}}, ff6))
	require.Equal(t, inputtype.Convolutional(2, 3, 1), outputType(t, &ReshapeVertex{Shape: []int{1, 2, 3}}, ff6))
	require.Equal(t, inputtype.FeedForward(6), outputType(t, &ReshapeVertex{Shape: []int{6}}, inputtype.Recurrent(2, 3)))
	requireInvalid(t, &ReshapeVertex{Shape: []int{4}}, ff6)
	requireInvalid(t, &ReshapeVertex{Shape: []int{2}}, inputtype.Recurrent(2))
	_, err := (&ReshapeVertex{}).OutputType(0, ff6)
	require.Error(t, err)

	out, err := forward(t, &ReshapeVertex{Shape: []int{2, 3}}, nil, tensors.FromValue([][]float64{{1, 2, 3, 4, 5, 6}}))
	require.NoError(t, err)
	require.Equal(t, [][][]float64{{{1, 2, 3}, {4, 5, 6}}}, out.Value())
}

func TestPreprocessorVertex(t *testing.T) {
	v := &PreprocessorVertex{Preprocessor: &preprocessors.FeedForwardToCnn{Height: 1, Width: 2, Channels: 1}}
	require.Equal(t, inputtype.Convolutional(1, 2, 1), outputType(t, v, inputtype.FeedForward(2)))
	requireInvalid(t, v, inputtype.FeedForward(3))
	out, err := forward(t, v, nil, tensors.FromValue([][]float64{{1, 2}}))
	require.NoError(t, err)
	require.Equal(t, []int{1, 1, 1, 2}, out.Dimensions())
}

func TestLayerVertex(t *testing.T) {
	v := NewLayerVertex(&layers.Dense{NIn: 3, NOut: 2, Activation: activations.TypeIdentity}, &preprocessors.RnnToFeedForward{})
	require.Equal(t, inputtype.FeedForward(2), outputType(t, v, inputtype.Recurrent(3, 2)))
	requireInvalid(t, v, inputtype.FeedForward(3))
	requireInvalid(t, v, inputtype.Recurrent(4, 2))

	params := []float64{
		1, 0,
		0, 1,
		1, 1,
		0, 10,
	}
	node, err := v.Instantiate(InstantiateArgs{NetConf: netconf.New(), Name: "dense", NumInputs: 1, Params: params})
	require.NoError(t, err)
	x := tensors.FromValue([][][]float64{{{1, 2}, {3, 4}, {5, 6}}}) // [batch=1, size=3, T=2]
	out, err := node.Forward(&testEnv{batchSize: 1}, x)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{6, 18}, {8, 20}}, out.Value())
}

func TestLayerVertexWithInputType(t *testing.T) {
	v := NewLayerVertex(&layers.Dense{NOut: 2}, &preprocessors.CnnToFeedForward{Height: 2, Width: 2, Channels: 1})
	_, err := v.OutputType(0, inputtype.Convolutional(2, 2, 1))
	require.Error(t, err)

	inferred, err := v.WithInputType(inputtype.Convolutional(2, 2, 1))
	require.NoError(t, err)
	require.Equal(t, 4, inferred.Layer.(*layers.Dense).NIn)
	require.Zero(t, v.Layer.(*layers.Dense).NIn)
	require.Equal(t, inputtype.FeedForward(2), outputType(t, inferred, inputtype.Convolutional(2, 2, 1)))

	same, err := inferred.WithInputType(inputtype.Convolutional(2, 2, 1))
	require.NoError(t, err)
	require.Same(t, inferred, same)

	activation := NewLayerVertex(&layers.Activation{}, nil)
	same, err = activation.WithInputType(inputtype.FeedForward(3))
	require.NoError(t, err)
	require.Same(t, activation, same)
}

func TestMemoryReports(t *testing.T) {
	ff := inputtype.FeedForward(3)
	const batch = 2

	report, err := (&ElementWiseVertex{Op: OpProduct}).MemoryReport(ff, ff)
	require.NoError(t, err)
	require.Equal(t, "ElementWiseVertex", report.LayerKind)
	require.Zero(t, report.ParameterSize)
	require.Equal(t, int64(batch*3), report.Elements(memory.TypeActivations, batch, memory.UseCaseInference, memory.CacheModeNone))
	require.Equal(t, int64(batch*6), report.Elements(memory.TypeCachedMemoryVariable, batch, memory.UseCaseTraining, memory.CacheModeDevice))
	require.Zero(t, report.Elements(memory.TypeCachedMemoryVariable, batch, memory.UseCaseTraining, memory.CacheModeNone))

	report, err = (&ElementWiseVertex{Op: OpAdd}).MemoryReport(ff, ff)
	require.NoError(t, err)
	require.Zero(t, report.Elements(memory.TypeCachedMemoryVariable, batch, memory.UseCaseTraining, memory.CacheModeDevice))

	report, err = (&L2Vertex{}).MemoryReport(ff, ff)
	require.NoError(t, err)
	require.Equal(t, int64(batch), report.Elements(memory.TypeActivations, batch, memory.UseCaseInference, memory.CacheModeNone))
	require.Equal(t, int64(batch*3), report.Elements(memory.TypeWorkingMemoryVariable, batch, memory.UseCaseInference, memory.CacheModeNone))

	report, err = NewLayerVertex(&layers.Dense{NIn: 3, NOut: 4}, nil).MemoryReport(ff)
	require.NoError(t, err)
	require.Equal(t, "Dense", report.LayerKind)
	require.Equal(t, int64(16), report.ParameterSize)

	_, err = (&MergeVertex{}).MemoryReport(ff, inputtype.Recurrent(3))
	require.ErrorIs(t, err, inputtype.ErrInvalidInputType)
	_, err = NewLayerVertex(&layers.Dense{NIn: 3, NOut: 4}, nil).MemoryReport(ff, ff)
	require.ErrorIs(t, err, inputtype.ErrInvalidInputType)
}
