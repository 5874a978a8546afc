package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// layer is one config file in the merge order.
type layer struct {
	name     string
	path     string
	required bool
}

// layers lists the config files LoadConfig merges, lowest precedence first.
// The per-user file is skipped when no home or XDG directory can be found.
func layers(v *viper.Viper) []layer {
	var ls []layer
	if path, err := GlobalPath(); err == nil {
		ls = append(ls, layer{name: "global", path: path})
	}
	ls = append(ls, layer{name: "project", path: ProjectPath()})
	if explicit := v.GetString("config"); explicit != "" {
		ls = append(ls, layer{name: "explicit", path: explicit, required: true})
	}
	return ls
}

// LoadConfig builds the effective Config. Defaults are seeded into v, then the
// per-user file, the project file and the --config file are merged over them
// in that order. Anything v resolves above merged config (values set with
// v.Set, bound flags, TOMATO_* environment variables when AutomaticEnv is on)
// wins over all files.
//
// Only the --config file has to exist. Flag overrides that depend on whether
// a flag was changed are left to the caller.
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := Default()

	defaults, err := toSettings(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	if err := v.MergeConfigMap(defaults); err != nil {
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	for _, l := range layers(v) {
		if err := mergeFile(v, l); err != nil {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg, decodeHooks()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile reads one YAML layer and merges it into v. A missing optional
// layer is skipped.
func mergeFile(v *viper.Viper, l layer) error {
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) && !l.required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s config: %w", l.name, err)
	}
	defer func() { _ = f.Close() }()

	// A separate instance keeps the file's keys from shadowing env and flag
	// lookups on v.
	fv := viper.New()
	fv.SetConfigType("yaml")
	if err := fv.ReadConfig(f); err != nil {
		return fmt.Errorf("parse %s config %s: %w", l.name, l.path, err)
	}
	if err := v.MergeConfigMap(fv.AllSettings()); err != nil {
		return fmt.Errorf("merge %s config: %w", l.name, err)
	}
	return nil
}

// decodeHooks parses "90s"-style strings into time.Duration fields.
func decodeHooks() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))
}

// toSettings flattens cfg into the nested map form viper merges. Durations
// become strings so they decode the same way as values read from YAML.
func toSettings(cfg *Config) (map[string]any, error) {
	settings := make(map[string]any)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "mapstructure",
		Result:     &settings,
		DecodeHook: durationString,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	return settings, nil
}

func durationString(from, _ reflect.Type, data any) (any, error) {
	if from == reflect.TypeOf(time.Duration(0)) {
		return data.(time.Duration).String(), nil
	}
	return data, nil
}
