// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package layers

import (
	"math"

	"github.com/gomlx/compgraph/internal/hashing"
	"github.com/gomlx/compgraph/pkg/core/inputtype"
	"github.com/gomlx/compgraph/pkg/core/memory"
	"github.com/gomlx/compgraph/pkg/core/tensors"
	"github.com/gomlx/compgraph/pkg/ml/netconf"
	"github.com/pkg/errors"
)

// DefaultBatchNormEpsilon is used when BatchNormalization.Epsilon is not set.
const DefaultBatchNormEpsilon = 1e-5

// BatchNormalization normalizes each feature (axis 1: features or channels) with the batch
// statistics in training, and with the running statistics in inference.
//
// Parameters are gamma, beta, and the running mean and variance, each of size NOut.
// The running statistics are updated in training with the network parameter
// netconf.ParamBatchNormMomentum.
type BatchNormalization struct {
	NOut    int     `json:"n_out"`
	Epsilon float64 `json:"epsilon,omitempty"`
}

var (
	_ Config    = (*BatchNormalization)(nil)
	_ NInSetter = (*BatchNormalization)(nil)
)

// JSONTags implements polymorphicjson.JSONIdentifiable.
func (bn *BatchNormalization) JSONTags() (typeName, interfaceName string) {
	return "BatchNormalization", Interface
}

// Clone implements Config.
func (bn *BatchNormalization) Clone() Config {
	bn2 := *bn
	return &bn2
}

// Equal implements Config.
func (bn *BatchNormalization) Equal(other Config) bool {
	o, ok := other.(*BatchNormalization)
	return ok && *bn == *o
}

// Hash implements Config.
func (bn *BatchNormalization) Hash() uint64 {
	return hashing.New("BatchNormalization").Int(bn.NOut).Float(bn.Epsilon).Sum()
}

// ParamSpecs implements Config.
func (bn *BatchNormalization) ParamSpecs(bool) []ParamSpec {
	return []ParamSpec{
		{Name: "gamma", Dims: []int{bn.NOut}, Init: InitOne},
		{Name: "beta", Dims: []int{bn.NOut}, Init: InitZero},
		{Name: "mean", Dims: []int{bn.NOut}, Init: InitZero},
		{Name: "var", Dims: []int{bn.NOut}, Init: InitOne},
	}
}

// NumParams implements Config.
func (bn *BatchNormalization) NumParams(training bool) int { return numParams(bn.ParamSpecs(training)) }

// WithNIn implements NInSetter: it sets NOut to the feature dimension of the input.
func (bn *BatchNormalization) WithNIn(input inputtype.InputType) Config {
	if bn.NOut != 0 {
		return bn
	}
	bn2 := *bn
	bn2.NOut = input.FeatureDim()
	return &bn2
}

// OutputType implements Config: the output type is the input type.
func (bn *BatchNormalization) OutputType(layerIndex int, input inputtype.InputType) (inputtype.InputType, error) {
	if bn.NOut <= 0 {
		return inputtype.InputType{}, errors.Errorf("BatchNormalization: invalid configuration n_out=%d", bn.NOut)
	}
	if !input.Ok() {
		return inputtype.InputType{}, inputtype.Invalidf("BatchNormalization", layerIndex, "invalid input %s", input)
	}
	if input.FeatureDim() != bn.NOut {
		return inputtype.InputType{}, inputtype.Invalidf("BatchNormalization", layerIndex,
			"expected %d features (or channels), got %s", bn.NOut, input)
	}
	return input, nil
}

// MemoryReport implements Config. Training caches the normalized input for the backward pass.
func (bn *BatchNormalization) MemoryReport(name string, input inputtype.InputType) (*memory.LayerReport, error) {
	output, err := bn.OutputType(-1, input)
	if err != nil {
		return nil, err
	}
	elements := int64(output.ElementsPerExample())
	return memory.NewLayerReport(name, "BatchNormalization", []inputtype.InputType{input}, output).
		StandardMemory(int64(bn.NumParams(true)), 0).
		WorkingMemory(0, elements, int64(2*bn.NOut), elements).
		CacheMemory(int64(2*bn.NOut), elements).
		Done(), nil
}

func (bn *BatchNormalization) epsilon() float64 {
	if bn.Epsilon <= 0 {
		return DefaultBatchNormEpsilon
	}
	return bn.Epsilon
}

// Instantiate implements Config.
func (bn *BatchNormalization) Instantiate(conf *netconf.Config, name string, params []float64, initialize bool) (Layer, error) {
	views := bind(bn, conf, name, params, initialize)
	return &batchNormLayer{
		cfg:      *bn,
		momentum: netconf.GetParam(conf, netconf.ParamBatchNormMomentum, 0.9),
		gamma:    views[0],
		beta:     views[1],
		mean:     views[2],
		variance: views[3],
	}, nil
}

type batchNormLayer struct {
	cfg                         BatchNormalization
	momentum                    float64
	gamma, beta, mean, variance []float64
}

// Forward normalizes x, shaped [batch, features, ...]. In training the running statistics
// are updated in place, in the parameter buffer.
func (l *batchNormLayer) Forward(x *tensors.Tensor, training bool) (*tensors.Tensor, error) {
	dims := x.Dimensions()
	if x.Rank() < 2 || dims[1] != l.cfg.NOut {
		return nil, errors.Errorf("BatchNormalization: expected input of shape [batch, %d, ...], got %s",
			l.cfg.NOut, x.Shape())
	}
	batch, features := dims[0], dims[1]
	inner := x.Size() / (batch * features)
	flat := x.Flat()

	mean, variance := l.mean, l.variance
	if training {
		mean = make([]float64, features)
		variance = make([]float64, features)
		count := float64(batch * inner)
		for f := range features {
			var sum, sumSq float64
			for b := range batch {
				base := (b*features + f) * inner
				for _, v := range flat[base : base+inner] {
					sum += v
					sumSq += v * v
				}
			}
			mean[f] = sum / count
			variance[f] = max(sumSq/count-mean[f]*mean[f], 0)
			l.mean[f] = l.momentum*l.mean[f] + (1-l.momentum)*mean[f]
			l.variance[f] = l.momentum*l.variance[f] + (1-l.momentum)*variance[f]
		}
	}

	out := tensors.Zeros(dims...)
	outFlat := out.Flat()
	eps := l.cfg.epsilon()
	for b := range batch {
		for f := range features {
			scale := l.gamma[f] / math.Sqrt(variance[f]+eps)
			base := (b*features + f) * inner
			for ii := base; ii < base+inner; ii++ {
				outFlat[ii] = (flat[ii]-mean[f])*scale + l.beta[f]
			}
		}
	}
	return out, nil
}
