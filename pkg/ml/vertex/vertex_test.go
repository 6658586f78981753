// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package vertex

import (
	"encoding/json"
	"reflect"
	"slices"
	"testing"

	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/gomlx/compgraph/pkg/ml/activations"
	"github.com/gomlx/compgraph/pkg/ml/layers"
	"github.com/gomlx/compgraph/pkg/ml/listeners"
	"github.com/gomlx/compgraph/pkg/ml/netconf"
	"github.com/gomlx/compgraph/pkg/ml/preprocessors"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"
)

// testEnv implements Env for tests.
type testEnv struct {
	training    bool
	batchSize   int
	activations map[string]*tensors.Tensor
	masks       map[string]*tensors.Tensor
}

func (e *testEnv) Training() bool { return e.training }
func (e *testEnv) BatchSize() int { return e.batchSize }

func (e *testEnv) Activation(name string) (*tensors.Tensor, bool) {
	t, found := e.activations[name]
	return t, found
}

func (e *testEnv) Mask(inputName string) (*tensors.Tensor, bool) {
	t, found := e.masks[inputName]
	return t, found
}

// sampleVertices returns one or more configurations of every variant.
func sampleVertices() []Vertex {
	return []Vertex{
		&ElementWiseVertex{Op: OpAdd},
		&ElementWiseVertex{Op: OpSubtract},
		&ElementWiseVertex{Op: OpMax},
		&MergeVertex{},
		&SubsetVertex{From: 1, To: 3},
		NewLayerVertex(&layers.Dense{NIn: 4, NOut: 2, Activation: activations.TypeTanh}, nil),
		NewLayerVertex(&layers.Dense{NIn: 3, NOut: 2}, &preprocessors.RnnToFeedForward{}),
		NewLayerVertex(&layers.AutoEncoder{NIn: 4, NOut: 3}, nil),
		&LastTimeStepVertex{},
		&LastTimeStepVertex{MaskInput: "in"},
		&DuplicateToTimeSeriesVertex{Input: "series"},
		&PreprocessorVertex{Preprocessor: &preprocessors.CnnToFeedForward{Height: 2, Width: 2, Channels: 1}},
		&StackVertex{},
		&UnstackVertex{From: 1, StackSize: 3},
		&L2Vertex{Eps: 1e-8},
		&ScaleVertex{ScaleFactor: 2},
		&ShiftVertex{ShiftFactor: -1},
		&L2NormalizeVertex{},
		&L2NormalizeVertex{Axes: []int{1}, Eps: 1e-6},
		&ReshapeVertex{Shape: []int{2, 3}},
	}
}

func TestAllKindsSampled(t *testing.T) {
	var sampled []string
	for _, v := range sampleVertices() {
		if !slices.Contains(sampled, Kind(v)) {
			sampled = append(sampled, Kind(v))
		}
	}
	slices.Sort(sampled)
	require.Equal(t, Kinds(), sampled)
	require.Len(t, Kinds(), 14)

	for _, kind := range Kinds() {
		v, err := New(kind)
		require.NoError(t, err)
		require.Equal(t, kind, Kind(v))
	}
	_, err := New("NoSuchVertex")
	require.Error(t, err)
}

func TestCloneEqualHash(t *testing.T) {
	samples := sampleVertices()
	for ii, v := range samples {
		clone := v.Clone()
		require.True(t, v.Equal(clone), "%s: clone must be equal", Kind(v))
		require.True(t, clone.Equal(v), "%s: equal must be symmetric", Kind(v))
		require.True(t, v.Equal(v))
		if reflect.TypeOf(v).Elem().Size() > 0 {
			// Pointers to distinct zero-sized values may compare equal.
			require.NotSame(t, v, clone, "%s: clone must be a distinct value", Kind(v))
		}
		require.Equal(t, v.Hash(), clone.Hash(), "%s: equal values must have equal hashes", Kind(v))
		for jj, other := range samples {
			if ii != jj {
				require.False(t, v.Equal(other), "%v should not be equal to %v", v, other)
			}
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	v := &L2NormalizeVertex{Axes: []int{1, 2}}
	clone := v.Clone().(*L2NormalizeVertex)
	clone.Axes[0] = 3
	require.Equal(t, []int{1, 2}, v.Axes)

	lv := NewLayerVertex(&layers.Dense{NIn: 2, NOut: 2}, &preprocessors.FeedForwardToCnn{Height: 1, Width: 1, Channels: 2})
	lvClone := lv.Clone().(*LayerVertex)
	lvClone.Layer.(*layers.Dense).NOut = 7
	lvClone.Preprocessor.(*preprocessors.FeedForwardToCnn).Channels = 7
	require.Equal(t, 2, lv.Layer.(*layers.Dense).NOut)
	require.Equal(t, 2, lv.Preprocessor.(*preprocessors.FeedForwardToCnn).Channels)
	require.False(t, lv.Equal(lvClone))
}

func TestIncomplete(t *testing.T) {
	require.ErrorIs(t, Check(nil), ErrIncomplete)
	require.NoError(t, Check(&ScaleVertex{ScaleFactor: 2}))
	require.NoError(t, Check(NewLayerVertex(&layers.Dense{NIn: 2, NOut: 2}, nil)))

	for _, v := range []Vertex{&LayerVertex{}, &PreprocessorVertex{}} {
		require.ErrorIs(t, Check(v), ErrIncomplete, Kind(v))
		require.NotPanics(t, func() {
			clone := v.Clone()
			require.True(t, v.Equal(clone))
			require.Equal(t, v.Hash(), clone.Hash())
			require.Zero(t, v.NumParams(true))
		}, Kind(v))
	}
	require.False(t, (&LayerVertex{}).Equal(NewLayerVertex(&layers.Dense{NIn: 2, NOut: 2}, nil)))
	require.False(t, NewLayerVertex(&layers.Dense{NIn: 2, NOut: 2}, nil).Equal(&LayerVertex{}))
	require.False(t, (&PreprocessorVertex{}).Equal(&PreprocessorVertex{Preprocessor: &preprocessors.CnnToFeedForward{}}))
}

func TestArity(t *testing.T) {
	for _, v := range sampleVertices() {
		require.GreaterOrEqual(t, v.MinInputs(), 0)
		require.LessOrEqual(t, v.MinInputs(), v.MaxInputs(), Kind(v))
	}
	for _, v := range []Vertex{&SubsetVertex{}, &LastTimeStepVertex{}, &ScaleVertex{}, &ReshapeVertex{}, &L2Vertex{}} {
		require.Equal(t, v.MinInputs(), v.MaxInputs(), Kind(v))
	}
	require.Equal(t, UnboundedInputs, (&MergeVertex{}).MaxInputs())
	require.Equal(t, 2, (&ElementWiseVertex{Op: OpSubtract}).MaxInputs())
	require.Equal(t, UnboundedInputs, (&ElementWiseVertex{Op: OpProduct}).MaxInputs())
}

func TestNumParams(t *testing.T) {
	for _, v := range sampleVertices() {
		require.GreaterOrEqual(t, v.NumParams(false), 0)
		require.GreaterOrEqual(t, v.NumParams(true), v.NumParams(false), Kind(v))
		if _, isLayer := v.(*LayerVertex); !isLayer {
			require.Zero(t, v.NumParams(true), Kind(v))
		}
	}
	ae := NewLayerVertex(&layers.AutoEncoder{NIn: 4, NOut: 3}, nil)
	require.Equal(t, 4*3+3+4, ae.NumParams(true))
	require.Equal(t, 4*3+3, ae.NumParams(false))
	require.Greater(t, ae.NumParams(true), ae.NumParams(false))
}

func TestJSON(t *testing.T) {
	for _, v := range sampleVertices() {
		data, err := json.Marshal(Wrapper{Value: v})
		require.NoError(t, err)
		var loaded Wrapper
		require.NoError(t, json.Unmarshal(data, &loaded), "json: %s", data)
		require.True(t, v.Equal(loaded.Value), "round trip of %s", data)
		require.Equal(t, v.Hash(), loaded.Value.Hash())
	}

	data := must.M1(json.Marshal(Wrapper{Value: &ElementWiseVertex{Op: OpSubtract}}))
	require.JSONEq(t, `{"json_type":"ElementWiseVertex","interface_name":"Vertex","op":"subtract"}`, string(data))

	var loaded Wrapper
	err := json.Unmarshal([]byte(`{"json_type":"FancyVertex","interface_name":"Vertex"}`), &loaded)
	require.ErrorContains(t, err, "FancyVertex")
	err = json.Unmarshal([]byte(`{"json_type":"LayerVertex","interface_name":"Vertex"}`), &loaded)
	require.ErrorContains(t, err, "missing layer")
}

func TestOutputTypeIsPure(t *testing.T) {
	v := &MergeVertex{}
	inputs := []inputtype.InputType{inputtype.Recurrent(2), inputtype.Recurrent(3, 5)}
	saved := slices.Clone(inputs)
	out1, err := v.OutputType(0, inputs...)
	require.NoError(t, err)
	out2, err := v.OutputType(0, inputs...)
	require.NoError(t, err)
	require.Equal(t, out1, out2)
	require.Equal(t, saved, inputs)
	require.True(t, v.Equal(&MergeVertex{}))
	require.Equal(t, []inputtype.InputType{inputtype.Recurrent(5, 5)}, out1)
}

// TestElementWiseSubtract follows a subtract vertex from arity checking to forward computation.
func TestElementWiseSubtract(t *testing.T) {
	v := &ElementWiseVertex{Op: OpSubtract}
	require.Equal(t, 2, v.MinInputs())
	require.Equal(t, 2, v.MaxInputs())

	// A container rejects 1 input before asking for the output type.
	require.False(t, InRange(v, 1))
	require.True(t, InRange(v, 2))
	require.False(t, InRange(v, 3))

	ff := inputtype.FeedForward(3)
	outputs, err := v.OutputType(0, ff, ff)
	require.NoError(t, err)
	require.Equal(t, []inputtype.InputType{ff}, outputs)

	_, err = v.OutputType(0, ff, inputtype.FeedForward(4))
	require.ErrorIs(t, err, inputtype.ErrInvalidInputType)
	_, err = v.OutputType(0, ff)
	require.ErrorIs(t, err, inputtype.ErrInvalidInputType)

	node, err := v.Instantiate(InstantiateArgs{NetConf: netconf.New(), Name: "diff", LayerIndex: 2, NumInputs: 2})
	require.NoError(t, err)
	require.Equal(t, "diff", node.Name())
	require.Equal(t, 2, node.Index())
	require.Equal(t, "ElementWiseVertex", node.Kind())
	require.Zero(t, node.NumParams())
	out, err := node.Forward(&testEnv{batchSize: 1},
		tensors.FromValue([][]float64{{5, 7, 9}}), tensors.FromValue([][]float64{{1, 2, 3}}))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{4, 5, 6}}, out.Value())

	require.Panics(t, func() {
		_, _ = v.Instantiate(InstantiateArgs{NetConf: netconf.New(), Name: "bad", NumInputs: 1})
	})
}

func TestInstantiateParams(t *testing.T) {
	conf := netconf.New()
	conf.Seed = 7
	v := NewLayerVertex(&layers.Dense{NIn: 3, NOut: 2}, nil)
	n := v.NumParams(true)

	// initialize=false leaves the view untouched.
	params := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	saved := slices.Clone(params)
	node, err := v.Instantiate(InstantiateArgs{NetConf: conf, Name: "dense", NumInputs: 1, Params: params})
	require.NoError(t, err)
	require.Equal(t, saved, params)
	require.Equal(t, n, node.NumParams())
	require.Equal(t, params, node.Params())

	// initialize=true writes every element, deterministically.
	buffer := make([]float64, n+2)
	for ii := range buffer {
		buffer[ii] = -100
	}
	view := buffer[1 : n+1]
	_, err = v.Instantiate(InstantiateArgs{NetConf: conf, Name: "dense", NumInputs: 1, Params: view, InitializeParams: true})
	require.NoError(t, err)
	require.Equal(t, -100.0, buffer[0])
	require.Equal(t, -100.0, buffer[n+1])
	for _, value := range view[:6] {
		require.NotEqual(t, -100.0, value)
	}
	again := make([]float64, n)
	node, err = v.Instantiate(InstantiateArgs{NetConf: conf, Name: "dense", NumInputs: 1, Params: again, InitializeParams: true})
	require.NoError(t, err)
	require.Equal(t, view, again)

	// Forward is deterministic.
	env := &testEnv{batchSize: 2}
	x := tensors.FromValue([][]float64{{1, 2, 3}, {-1, 0, 1}})
	y1 := must.M1(node.Forward(env, x))
	y2 := must.M1(node.Forward(env, x))
	require.True(t, y1.Equal(y2))

	// Wrong view size is a programming error.
	require.Panics(t, func() {
		_, _ = v.Instantiate(InstantiateArgs{NetConf: conf, Name: "dense", NumInputs: 1, Params: make([]float64, n-1)})
	})
}

func TestListeners(t *testing.T) {
	recorder := &listeners.Recorder{}
	v := &ScaleVertex{ScaleFactor: 3}
	node, err := v.Instantiate(InstantiateArgs{
		NetConf: netconf.New(), Listeners: []listeners.Listener{recorder}, Name: "scale", LayerIndex: 4, NumInputs: 1,
	})
	require.NoError(t, err)
	require.Equal(t, []listeners.Event{{Kind: "instantiate", Name: "scale", Index: 4}}, recorder.Events(""))

	out, err := node.Forward(&testEnv{batchSize: 1}, tensors.FromValue([][]float64{{1, -2}}))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{3, -6}}, out.Value())
	require.Len(t, recorder.Events("forward"), 1)

	_, err = node.Forward(&testEnv{batchSize: 1})
	require.Error(t, err)
	require.Len(t, recorder.Events("forward"), 1)
}
