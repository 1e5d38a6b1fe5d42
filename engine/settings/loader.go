package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mochibot/mochibot/pkg/logger"
	"github.com/mochibot/mochibot/pkg/schema"
)

// EnvPrefix scopes the environment variables the loader reads.
const EnvPrefix = "MOCHIBOT_"

// Load builds the validated settings from TOML files and the environment.
// Precedence, lowest first: declared defaults, files in argument order,
// MOCHIBOT_* environment variables. Every load passes through the schema
// gate, so misconfiguration fails here, at startup.
func Load(ctx context.Context, paths ...string) (*Settings, *schema.Record, error) {
	log := logger.FromContext(ctx)

	defaults, err := Default()
	if err != nil {
		return nil, nil, err
	}
	merged := defaults.ToMap()

	for _, path := range paths {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		if err := mergo.Merge(&merged, k.Raw(), mergo.WithOverride); err != nil {
			return nil, nil, fmt.Errorf("merging config file %s: %w", path, err)
		}
		log.Debug("loaded configuration file", "path", path)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(merged, "."), nil); err != nil {
		return nil, nil, fmt.Errorf("assembling configuration: %w", err)
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnvKey,
	}), nil); err != nil {
		return nil, nil, fmt.Errorf("loading environment overrides: %w", err)
	}

	rec, err := RootModel.Build(schema.Values(k.Raw()))
	if err != nil {
		return nil, nil, err
	}
	typed, err := FromRecord(rec)
	if err != nil {
		return nil, nil, err
	}
	log.Info("configuration loaded", "files", len(paths))
	return typed, rec, nil
}

// transformEnvKey converts environment variable names to config paths and
// coerces scalar values, MOCHIBOT_CHAT_TALK_VALUE=0.5 -> chat.talk_value.
// The first underscore separates the section; the rest stays a field name.
// Keys that resolve to no declared field are skipped instead of landing as
// bogus entries that would fail the schema gate.
func transformEnvKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, rest, _ := strings.Cut(key, "_")
	f, ok := RootModel.FieldByName(section)
	if !ok {
		return "", nil
	}
	if rest == "" {
		return section, coerceEnvValue(value)
	}
	// Only model-typed sections expose addressable fields; list and dict
	// sections cannot be targeted from the environment.
	if f.Type.Kind() != schema.KindModel {
		return "", nil
	}
	if _, ok := f.Type.ModelRef().FieldByName(rest); !ok {
		return "", nil
	}
	return section + "." + rest, coerceEnvValue(value)
}

// coerceEnvValue parses booleans and numbers; the schema gate rejects
// strings where a typed value is declared, so env overrides must arrive
// typed.
func coerceEnvValue(value string) any {
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return int(i)
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}
