package settings

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/mochibot/mochibot/pkg/schema"
)

// FromRecord decodes a validated root record into the typed Settings view.
func FromRecord(rec *schema.Record) (*Settings, error) {
	var out Settings
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &out,
		TagName:    "koanf",
		DecodeHook: secretDecodeHook,
	})
	if err != nil {
		return nil, fmt.Errorf("building settings decoder: %w", err)
	}
	if err := decoder.Decode(rec.ToMap()); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return &out, nil
}

// secretDecodeHook converts plain strings into Secret values so keys read
// from files or the environment stay redacted from then on.
func secretDecodeHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(Secret("")) {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return Secret(v), nil
	case []byte:
		return Secret(v), nil
	default:
		return data, nil
	}
}
