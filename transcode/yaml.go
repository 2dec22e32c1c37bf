package transcode

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a single YAML document. Mappings must have string keys.
func ParseYAML(data []byte, opts ...Opt) (any, error) {
	var node any
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, inputError(FormatYAML, err)
	}
	v, err := yamlNormalizeValue(node)
	if err != nil {
		return nil, inputError(FormatYAML, err)
	}
	if err := checkDepth(v, lastOpt(opts).MaxDepth); err != nil {
		return nil, err
	}
	return v, nil
}

// MarshalYAML encodes a value tree as YAML. Byte arrays become sequences
// of numbers.
func MarshalYAML(v any) ([]byte, error) {
	return yaml.Marshal(bytesAsNumbers(v))
}

// yamlNormalizeValue converts YAML-decoded values (which may contain
// map[any]any) into JSON-like trees recursively.
func yamlNormalizeValue(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			nv, err := yamlNormalizeValue(vv)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("mapping key %v is not a string", k)
			}
			nv, err := yamlNormalizeValue(vv)
			if err != nil {
				return nil, err
			}
			out[ks] = nv
		}
		return out, nil
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			nv, err := yamlNormalizeValue(t[i])
			if err != nil {
				return nil, err
			}
			arr[i] = nv
		}
		return arr, nil
	}
	return v, nil
}
