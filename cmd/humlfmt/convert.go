package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"

	"huml.sh/huml"
)

// sourceFormat names an input format [runConvert] can decode from.
type sourceFormat string

const (
	formatYAML sourceFormat = "yaml"
	formatTOML sourceFormat = "toml"
	formatJSON sourceFormat = "json"
)

// decodeGeneric parses src in the given format into a generic Go value tree
// (maps, slices, and scalars), the common intermediate every converter
// builds a [huml.Value] from.
func decodeGeneric(format sourceFormat, src []byte) (any, error) {
	var v any
	var err error
	switch format {
	case formatYAML:
		err = yaml.Unmarshal(src, &v)
	case formatTOML:
		err = toml.Unmarshal(src, &v)
	case formatJSON:
		err = json.Unmarshal(src, &v)
	default:
		return nil, fmt.Errorf("unsupported source format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	return v, nil
}

// genericToValue converts a decoded YAML/TOML/JSON tree into a [huml.Value].
// Map keys are sorted, since none of the three source formats preserve
// insertion order through a generic decode into interface{}.
func genericToValue(v any) (huml.Value, error) {
	switch x := v.(type) {
	case nil:
		return huml.Null(), nil
	case bool:
		return huml.Bool(x), nil
	case string:
		return huml.String(x), nil
	case int:
		return huml.Int(int64(x)), nil
	case int64:
		return huml.Int(x), nil
	case float64:
		// encoding/json decodes every JSON number as float64, so an integer
		// literal like "1" would otherwise round-trip as the float "1.0".
		if i := int64(x); float64(i) == x {
			return huml.Int(i), nil
		}
		return huml.Float(x), nil
	case time.Time:
		return huml.String(x.Format(time.RFC3339)), nil
	case []any:
		items := make([]huml.Value, len(x))
		for i, e := range x {
			ev, err := genericToValue(e)
			if err != nil {
				return huml.Value{}, err
			}
			items[i] = ev
		}
		return huml.NewList(items), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := huml.NewDict()
		for _, k := range keys {
			ev, err := genericToValue(x[k])
			if err != nil {
				return huml.Value{}, err
			}
			if err := d.Append(k, ev); err != nil {
				return huml.Value{}, err
			}
		}
		return huml.DictValue(d), nil
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[fmt.Sprint(k)] = val
		}
		return genericToValue(m)
	default:
		return huml.Value{}, fmt.Errorf("unsupported value of type %T", v)
	}
}

// valueToGeneric converts a [huml.Value] back into a generic Go value tree
// suitable for encoding/json, go-toml, or go.yaml.in/yaml.
func valueToGeneric(v huml.Value) any {
	switch v.Kind() {
	case huml.KindNull:
		return nil
	case huml.KindBool:
		return v.BoolVal()
	case huml.KindInt:
		return v.IntVal()
	case huml.KindFloat:
		return v.FloatVal()
	case huml.KindString:
		return v.StringVal()
	case huml.KindList:
		items := v.ListVal()
		out := make([]any, len(items))
		for i, e := range items {
			out[i] = valueToGeneric(e)
		}
		return out
	case huml.KindDict:
		out := make(map[string]any, v.DictVal().Len())
		for k, e := range v.DictVal().Iter() {
			out[k] = valueToGeneric(e)
		}
		return out
	default:
		return nil
	}
}
