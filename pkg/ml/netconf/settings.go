// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package netconf

import (
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/gomlx/compgraph/pkg/ml/initializers"
	"github.com/gomlx/compgraph/pkg/support/fsutil"
	"github.com/gomlx/compgraph/pkg/support/xslices"
	"github.com/pkg/errors"
)

// Names of the fixed fields of Config, as accepted by ParseSettings.
const (
	SettingSeed       = "seed"
	SettingDType      = "dtype"
	SettingWeightInit = "weight_init"
	SettingBiasInit   = "bias_init"
	SettingUpdater    = "updater"
)

// ParseSettings from settings -- typically the contents of a flag set by the user.
// The settings are a list separated by ";": e.g.: "seed=3;weight_init=relu;batch_norm_momentum=0.99".
//
// The keys are either the fixed fields of the configuration (SettingSeed, SettingDType, ...)
// or hyperparameters already set in conf.Params: their current values define the type to which
// the string values are parsed.
//
// An entry "file:<path>" reads settings from a file, one or more per line; lines starting
// with "#" are comments.
//
// For integer types, "_" is removed: it allows one to enter large numbers using it as a separator, like
// in Go. E.g.: 1_000_000 = 1000000.
//
// It returns the list of keys set, or an error if a key is unknown or a value fails to parse.
func ParseSettings(conf *Config, settings string) (keysSet []string, err error) {
	for _, setting := range strings.Split(settings, ";") {
		keysSet, err = parseSetting(conf, strings.TrimSpace(setting), keysSet)
		if err != nil {
			return
		}
	}
	return
}

func parseSetting(conf *Config, setting string, keysSet []string) ([]string, error) {
	if setting == "" {
		return keysSet, nil
	}
	if filePath, found := strings.CutPrefix(setting, "file:"); found {
		lines, err := fsutil.ReadLines(filePath)
		if err != nil {
			return keysSet, errors.WithMessage(err, "failed to read settings")
		}
		for _, line := range lines {
			lineKeys, err := ParseSettings(conf, line)
			keysSet = append(keysSet, lineKeys...)
			if err != nil {
				return keysSet, err
			}
		}
		return keysSet, nil
	}

	key, valueStr, found := strings.Cut(setting, "=")
	if !found || key == "" {
		return keysSet, errors.Errorf("can't parse setting %q: each setting requires the format \"<key>=<value>\"", setting)
	}
	key, valueStr = strings.TrimSpace(key), strings.TrimSpace(valueStr)
	var err error
	switch key {
	case SettingSeed:
		err = json.Unmarshal([]byte(strings.ReplaceAll(valueStr, "_", "")), &conf.Seed)
	case SettingDType:
		conf.DType, err = ParseDType(valueStr)
	case SettingWeightInit:
		conf.WeightInit, err = initializers.TypeString(valueStr)
	case SettingBiasInit:
		err = json.Unmarshal([]byte(valueStr), &conf.BiasInit)
	case SettingUpdater:
		conf.Updater, err = UpdaterString(valueStr)
	default:
		current, known := conf.Params[key]
		if !known {
			return keysSet, errors.Errorf("can't set %q: it is not a field of the configuration nor a known hyperparameter (known: %v)",
				key, xslices.SortedKeys(conf.Params))
		}
		var value any
		value, err = parseValue(current, valueStr)
		if err == nil {
			conf.Params[key] = value
		}
	}
	if err != nil {
		return keysSet, errors.Wrapf(err, "failed to parse value %q for setting %q", valueStr, key)
	}
	return append(keysSet, key), nil
}

// parseValue parses valueStr to the same type as current.
func parseValue(current any, valueStr string) (value any, err error) {
	switch current.(type) {
	case int:
		var v int
		err = json.Unmarshal([]byte(strings.ReplaceAll(valueStr, "_", "")), &v)
		value = v
	case int64:
		var v int64
		err = json.Unmarshal([]byte(strings.ReplaceAll(valueStr, "_", "")), &v)
		value = v
	case float64:
		var v float64
		err = json.Unmarshal([]byte(valueStr), &v)
		value = v
	case bool:
		var v bool
		err = json.Unmarshal([]byte(valueStr), &v)
		value = v
	case string:
		value = valueStr
	case []string:
		value = strings.Split(valueStr, ",")
	case []int:
		value = xslices.Map(strings.Split(valueStr, ","), func(str string) int {
			var asInt int
			if newErr := json.Unmarshal([]byte(strings.ReplaceAll(str, "_", "")), &asInt); newErr != nil {
				err = newErr
			}
			return asInt
		})
	case []float64:
		value = xslices.Map(strings.Split(valueStr, ","), func(str string) float64 {
			var asNum float64
			if newErr := json.Unmarshal([]byte(str), &asNum); newErr != nil {
				err = newErr
			}
			return asNum
		})
	default:
		err = errors.Errorf("don't know how to parse type %T", current)
	}
	return
}

// CreateSettingsFlag creates a string flag with the given flagName (if empty it will be named
// "set") and with a description of the settings accepted for conf.
//
// The flag should be created before the call to `flag.Parse()`, and its value given to ParseSettings.
//
// Example usage:
//
//	func main() {
//		conf := netconf.New()
//		settings := netconf.CreateSettingsFlag(conf, "")
//		flag.Parse()
//		_, err := netconf.ParseSettings(conf, *settings)
//		if err != nil { klog.Fatalf("%+v", err) }
//		...
//	}
func CreateSettingsFlag(conf *Config, flagName string) *string {
	if flagName == "" {
		flagName = "set"
	}
	var settings string
	flag.StringVar(&settings, flagName, "", SettingsUsage(conf))
	return &settings
}

// SettingsUsage describes the settings accepted by ParseSettings for conf.
func SettingsUsage(conf *Config) string {
	parts := []string{
		`Set network configuration values. ` +
			`It should be a list of elements "key=value" separated by ";". ` +
			`It can also be given an entry like: "file:settings_file.txt", in ` +
			`which case the file will be read and the settings will be parsed, ` +
			`with new-lines working as ";" to separate settings and lines starting with "#" are considered comments. ` +
			`Current available keys:`,
		fmt.Sprintf("%q: default value is %d", SettingSeed, conf.Seed),
		fmt.Sprintf("%q: default value is %s", SettingDType, conf.DType),
		fmt.Sprintf("%q: default value is %s, options are %v", SettingWeightInit, conf.WeightInit, initializers.TypeStrings()),
		fmt.Sprintf("%q: default value is %g", SettingBiasInit, conf.BiasInit),
		fmt.Sprintf("%q: default value is %s, options are %v", SettingUpdater, conf.Updater, UpdaterStrings()),
	}
	for _, key := range xslices.SortedKeys(conf.Params) {
		parts = append(parts, fmt.Sprintf("%q: default value is %v", key, conf.Params[key]))
	}
	return strings.Join(parts, "\n")
}

// SprintSettings pretty-prints the configuration values, one per line.
func SprintSettings(conf *Config) string {
	parts := []string{
		fmt.Sprintf("\t%q: %d", SettingSeed, conf.Seed),
		fmt.Sprintf("\t%q: %s", SettingDType, conf.DType),
		fmt.Sprintf("\t%q: %s", SettingWeightInit, conf.WeightInit),
		fmt.Sprintf("\t%q: %g", SettingBiasInit, conf.BiasInit),
		fmt.Sprintf("\t%q: %s", SettingUpdater, conf.Updater),
	}
	for _, key := range xslices.SortedKeys(conf.Params) {
		value := conf.Params[key]
		parts = append(parts, fmt.Sprintf("\t%q: (%T) %v", key, value, value))
	}
	return strings.Join(parts, "\n")
}
