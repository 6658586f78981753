package polymorphicjson_test

import (
	"encoding/json"
	"testing"

	. "github.com/gomlx/compgraph/pkg/support/polymorphicjson"
	"github.com/stretchr/testify/require"
)

type OptimizerIface interface {
	JSONIdentifiable
	Rate() float64
}

type Optimizer = Wrapper[OptimizerIface]

type SchedulerIface interface {
	JSONIdentifiable
	Steps() int
}

type Scheduler = Wrapper[SchedulerIface]

type MyOptimizer struct {
	LearningRate float64 `json:"learning_rate"`
}

func (o *MyOptimizer) Rate() float64 { return o.LearningRate }

func (o *MyOptimizer) JSONTags() (typeName string, interfaceName string) {
	return "my", "OptimizerIface"
}

// MyScheduler uses the same type name as MyOptimizer, but for a different interface.
type MyScheduler struct {
	WarmupSteps int `json:"warmup_steps"`
}

func (s *MyScheduler) Steps() int { return s.WarmupSteps }

func (s *MyScheduler) JSONTags() (typeName string, interfaceName string) {
	return "my", "SchedulerIface"
}

type notAnObject []int

func (notAnObject) JSONTags() (string, string) { return "list", "OptimizerIface" }
func (notAnObject) Rate() float64              { return 0 }

func init() {
	Register(func() OptimizerIface { return &MyOptimizer{} })
	Register(func() SchedulerIface { return &MyScheduler{} })
}

type TestModel struct {
	OptCfg   Optimizer `json:"optimizer_config"`
	SchedCfg Scheduler `json:"scheduler_config"`
}

func TestPolymorphicSameJSONTypeResolution(t *testing.T) {
	originalModel := TestModel{
		OptCfg:   Wrap[OptimizerIface](&MyOptimizer{LearningRate: 0.005}),
		SchedCfg: Wrap[SchedulerIface](&MyScheduler{WarmupSteps: 500}),
	}
	jsonData, err := json.MarshalIndent(originalModel, "", "  ")
	require.NoError(t, err)

	expectedJSON := `{
  "optimizer_config": {
    "interface_name": "OptimizerIface",
    "json_type": "my",
    "learning_rate": 0.005
  },
  "scheduler_config": {
    "interface_name": "SchedulerIface",
    "json_type": "my",
    "warmup_steps": 500
  }
}`
	require.Equal(t, expectedJSON, string(jsonData))

	var loadedModel TestModel
	require.NoError(t, json.Unmarshal(jsonData, &loadedModel))
	require.IsType(t, &MyOptimizer{}, loadedModel.OptCfg.Value)
	require.IsType(t, &MyScheduler{}, loadedModel.SchedCfg.Value)
	require.Equal(t, 0.005, loadedModel.OptCfg.Get().Rate())
	require.Equal(t, 500, loadedModel.SchedCfg.Get().Steps())
}

func TestNil(t *testing.T) {
	var model TestModel
	jsonData, err := json.Marshal(model)
	require.NoError(t, err)
	require.Equal(t, `{"optimizer_config":null,"scheduler_config":null}`, string(jsonData))

	var loaded TestModel
	require.NoError(t, json.Unmarshal(jsonData, &loaded))
	require.Nil(t, loaded.OptCfg.Value)
}

func TestUnknownTypes(t *testing.T) {
	var opt Optimizer
	err := json.Unmarshal([]byte(`{"json_type":"adagrad","interface_name":"OptimizerIface"}`), &opt)
	require.ErrorContains(t, err, `unknown concrete type "adagrad"`)

	err = json.Unmarshal([]byte(`{"json_type":"my","interface_name":"Missing"}`), &opt)
	require.ErrorContains(t, err, `interface "Missing" not registered`)

	err = json.Unmarshal([]byte(`{"learning_rate":1}`), &opt)
	require.ErrorContains(t, err, "missing")

	// Known type, but for an interface that is not the one requested.
	err = json.Unmarshal([]byte(`{"json_type":"my","interface_name":"SchedulerIface"}`), &opt)
	require.ErrorContains(t, err, "does not implement")
}

func TestMarshalRequiresObject(t *testing.T) {
	_, err := MarshalPolymorphic[OptimizerIface](notAnObject{1, 2})
	require.Error(t, err)
}

func TestRegisteredTypes(t *testing.T) {
	require.Equal(t, []string{"my"}, RegisteredTypes("OptimizerIface"))
	require.Empty(t, RegisteredTypes("Unknown"))
	require.Panics(t, func() { Register(func() OptimizerIface { return &MyOptimizer{} }) })
}
