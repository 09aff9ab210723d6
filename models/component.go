package models

import (
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// ComponentType identifies a query component.
type ComponentType string

const ComponentFacetSet ComponentType = "facetset"

// Options is the raw configuration a component is constructed from.
type Options map[string]interface{}

// component is the option bag shared by query components. Options are copied
// on configure so the caller's map is never written to.
type component struct {
	kind    ComponentType
	options Options
}

func (c *component) configure(kind ComponentType, opts Options) {
	c.kind = kind
	c.options = make(Options, len(opts))
	for name, value := range opts {
		c.options[name] = value
	}
}

// Type returns the component type.
func (c *component) Type() ComponentType {
	return c.kind
}

// Options returns a copy of the current options.
func (c *component) Options() Options {
	out := make(Options, len(c.options))
	for name, value := range c.options {
		out[name] = value
	}
	return out
}

func (c *component) option(name string) (interface{}, bool) {
	value, ok := c.options[name]
	return value, ok
}

func (c *component) setOption(name string, value interface{}) {
	if c.options == nil {
		c.options = Options{}
	}
	c.options[name] = value
}

func (c *component) unsetOption(name string) {
	delete(c.options, name)
}

// optionValue reads a typed option. The bool is false when the option is unset.
func optionValue[T any](c *component, name string) (T, bool) {
	var zero T
	raw, ok := c.option(name)
	if !ok {
		return zero, false
	}
	value, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return value, true
}

// storeOptional writes value when it is non-nil and drops the option otherwise.
func storeOptional[T any](c *component, name string, value *T) {
	if value == nil {
		c.unsetOption(name)
		return
	}
	c.setOption(name, *value)
}

// decodeConfig decodes loosely typed config (TOML, JSON, Go literals) into out.
// Strings are split on commas when the target is a slice, and floats only
// decode into integers when they have no fractional part.
func decodeConfig(input interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
			integralFloatHook,
		),
	})
	if err != nil {
		return fmt.Errorf("error creating config decoder: %w", err)
	}
	return dec.Decode(input)
}

func integralFloatHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}

	var f float64
	switch v := data.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		return data, nil
	}
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not an integer", data)
	}
	return data, nil
}
