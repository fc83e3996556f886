package prefabs

import "gopkg.in/yaml.v3"

// Overlay decodes raw (a generic YAML value) over a copy of base. Keys missing
// from raw keep base's values.
func Overlay[T any](base T, raw any) (T, error) {
	if raw == nil {
		return base, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return base, err
	}
	out := base
	if err := yaml.Unmarshal(b, &out); err != nil {
		return base, err
	}
	return out, nil
}
