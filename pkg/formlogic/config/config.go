package config

// Properties wraps a map[string]any for type-safe value extraction.
// Survey definitions decoded from YAML or JSON carry loosely-typed
// property maps (trigger entries, extensions); the accessor methods
// handle missing keys and type mismatches by returning default values.
type Properties struct {
	data map[string]any
}

// New creates a Properties bag from the given map.
// If data is nil, an empty bag is returned.
func New(data map[string]any) Properties {
	if data == nil {
		data = make(map[string]any)
	}
	return Properties{data: data}
}

// String returns the string value for key, or defaultVal if missing or not a string.
func (p Properties) String(key, defaultVal string) string {
	v, ok := p.data[key]
	if !ok {
		return defaultVal
	}
	if s, ok := v.(string); ok {
		return s
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal if missing or not a bool.
func (p Properties) Bool(key string, defaultVal bool) bool {
	v, ok := p.data[key]
	if !ok {
		return defaultVal
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultVal
}

// Int returns the integer value for key, or defaultVal if missing or not convertible.
//
// Accepts:
//   - int: used directly
//   - int64: converted to int
//   - float64: converted to int (only if no fractional part)
func (p Properties) Int(key string, defaultVal int) int {
	v, ok := p.data[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		if val == float64(int(val)) {
			return int(val)
		}
	}
	return defaultVal
}

// Float returns the float64 value for key, or defaultVal if missing or not convertible.
//
// Accepts:
//   - float64: used directly
//   - int: converted to float64
//   - int64: converted to float64
func (p Properties) Float(key string, defaultVal float64) float64 {
	v, ok := p.data[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	}
	return defaultVal
}

// StringSlice returns the string slice for key, or defaultVal if missing or not convertible.
//
// Accepts:
//   - []string: used directly
//   - []any: each element converted to string if possible
func (p Properties) StringSlice(key string, defaultVal []string) []string {
	v, ok := p.data[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		result := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				// Mixed-type lists fall back whole.
				return defaultVal
			}
			result = append(result, s)
		}
		return result
	}
	return defaultVal
}

// Any returns the raw value for key, or defaultVal if missing.
func (p Properties) Any(key string, defaultVal any) any {
	v, ok := p.data[key]
	if !ok {
		return defaultVal
	}
	return v
}

// Has returns true if the key exists.
func (p Properties) Has(key string) bool {
	_, ok := p.data[key]
	return ok
}

// Raw returns the underlying map.
// The returned map should not be modified.
func (p Properties) Raw() map[string]any {
	return p.data
}
