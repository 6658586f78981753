// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package netconf holds the network-wide configuration shared by every vertex of a graph:
// random seed, dtype, initialization, updater and a free-form map of hyperparameters.
//
// Hyperparameters are read with GetParam, and can be set from the command line with
// ParseSettings (see CreateSettingsFlag).
package netconf

import (
	"bytes"
	"encoding/json"
	"maps"
	"reflect"
	"strings"

	"github.com/gomlx/compgraph/pkg/ml/initializers"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Updater is the parameter update rule used in training. It only matters for memory planning,
// since it defines the size of the updater state.
type Updater int

const (
	UpdaterSgd Updater = iota
	UpdaterMomentum
	UpdaterNesterovs
	UpdaterAdam
)

//go:generate go tool enumer -type=Updater -trimprefix=Updater -transform=snake -values -text -json -output=gen_updater_enumer.go netconf.go

// StateSize returns the number of elements of the updater state for the given number of parameters.
func (u Updater) StateSize(numParams int64) int64 {
	switch u {
	case UpdaterMomentum, UpdaterNesterovs:
		return numParams
	case UpdaterAdam:
		return 2 * numParams
	default:
		return 0
	}
}

// Config is the network-wide configuration.
//
// It is read-only once a graph is instantiated: nodes hold a pointer to it.
type Config struct {
	// Seed for the parameter initialization. Each vertex derives its own generator from the seed and its name.
	Seed int64

	// DType used to size memory reports.
	DType dtypes.DType

	// WeightInit is the initialization of weight matrices.
	WeightInit initializers.Type

	// BiasInit is the constant value biases are initialized with.
	BiasInit float64

	// Updater used in training.
	Updater Updater

	// Params holds free-form hyperparameters, keyed by name.
	// See GetParam.
	Params map[string]any
}

// ParamBatchNormMomentum is the decay of the running statistics of batch normalization layers,
// updated on every training forward pass.
const ParamBatchNormMomentum = "batch_norm_momentum"

// New returns a Config with the default values.
func New() *Config {
	return &Config{
		Seed:       0,
		DType:      dtypes.Float32,
		WeightInit: initializers.TypeXavier,
		BiasInit:   0,
		Updater:    UpdaterSgd,
		Params: map[string]any{
			ParamBatchNormMomentum: 0.9,
		},
	}
}

// Clone returns a copy of the configuration. The Params map is copied, its values are not.
func (c *Config) Clone() *Config {
	c2 := *c
	c2.Params = maps.Clone(c.Params)
	return &c2
}

// Equal compares all fields of the configurations.
func (c *Config) Equal(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Seed == other.Seed && c.DType == other.DType && c.WeightInit == other.WeightInit &&
		c.BiasInit == other.BiasInit && c.Updater == other.Updater &&
		(len(c.Params) == 0 && len(other.Params) == 0 || reflect.DeepEqual(c.Params, other.Params))
}

// SetParam sets a hyperparameter.
func (c *Config) SetParam(key string, value any) {
	if c.Params == nil {
		c.Params = make(map[string]any)
	}
	c.Params[key] = value
}

// GetParam returns the hyperparameter key from conf cast to T. If the parameter is not set,
// or if it cannot be converted to T, it returns defaultValue.
func GetParam[T any](conf *Config, key string, defaultValue T) T {
	if conf == nil {
		return defaultValue
	}
	valueAny, found := conf.Params[key]
	if !found || valueAny == nil {
		return defaultValue
	}
	if value, ok := valueAny.(T); ok {
		return value
	}

	// Try converting, for instance, an int could be converted to float64.
	v := reflect.ValueOf(valueAny)
	typeOfT := reflect.TypeOf(defaultValue)
	if typeOfT == nil || !v.CanConvert(typeOfT) {
		klog.Warningf("Tried to read hyperparameter %q as %T, but failed because it was type %s.",
			key, defaultValue, v.Type())
		return defaultValue
	}
	return v.Convert(typeOfT).Interface().(T)
}

type configJSON struct {
	Seed       int64             `json:"seed"`
	DType      string            `json:"dtype"`
	WeightInit initializers.Type `json:"weight_init"`
	BiasInit   float64           `json:"bias_init"`
	Updater    Updater           `json:"updater"`
	Params     map[string]any    `json:"params,omitempty"`
}

// MarshalJSON implements json.Marshaler. The DType is encoded by name.
func (c *Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(configJSON{
		Seed:       c.Seed,
		DType:      c.DType.String(),
		WeightInit: c.WeightInit,
		BiasInit:   c.BiasInit,
		Updater:    c.Updater,
		Params:     c.Params,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Integer hyperparameters are decoded as int, other
// numbers as float64.
func (c *Config) UnmarshalJSON(data []byte) error {
	decoded := configJSON{DType: dtypes.Float32.String()}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&decoded); err != nil {
		return errors.Wrap(err, "failed to decode network configuration")
	}
	dtype, err := ParseDType(decoded.DType)
	if err != nil {
		return err
	}
	*c = Config{
		Seed:       decoded.Seed,
		DType:      dtype,
		WeightInit: decoded.WeightInit,
		BiasInit:   decoded.BiasInit,
		Updater:    decoded.Updater,
		Params:     make(map[string]any, len(decoded.Params)),
	}
	for key, value := range decoded.Params {
		c.Params[key] = fromJSONValue(value)
	}
	return nil
}

func fromJSONValue(value any) any {
	switch v := value.(type) {
	case json.Number:
		if asInt, err := v.Int64(); err == nil && !strings.ContainsAny(v.String(), ".eE") {
			return int(asInt)
		}
		asFloat, _ := v.Float64()
		return asFloat
	case []any:
		values := make([]any, len(v))
		for ii, e := range v {
			values[ii] = fromJSONValue(e)
		}
		return values
	default:
		return value
	}
}

// ParseDType converts a dtype name (case-insensitive, e.g. "float32" or "Float32") to a DType.
func ParseDType(name string) (dtypes.DType, error) {
	dtype, err := dtypes.DTypeString(name)
	if err != nil || dtype == dtypes.InvalidDType {
		return dtypes.InvalidDType, errors.Errorf("unknown dtype %q", name)
	}
	return dtype, nil
}
