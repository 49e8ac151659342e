package schema

import (
	"fmt"
	"sort"
)

// Field declares one entry field.
type Field struct {
	Type     Type
	Optional bool
}

// Schema is a map of field names to their expected types.
type Schema map[string]Field

// Validate checks if data conforms to the schema. Fields missing from the
// schema are rejected. Keys of reported errors are prefixed with path.
func Validate(schema Schema, path string, data map[string]any) error {
	var errs []error

	for _, fieldName := range sortedKeys(schema) {
		field := schema[fieldName]
		value, exists := data[fieldName]
		if !exists {
			if !field.Optional {
				errs = append(errs, &ValidationError{
					Key:    join(path, fieldName),
					Reason: "required",
				})
			}
			continue
		}

		if err := field.Type.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    join(path, fieldName),
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	for _, key := range sortedKeys(data) {
		if _, known := schema[key]; !known {
			errs = append(errs, &ValidationError{
				Key:    join(path, key),
				Reason: "unknown field",
				Value:  data[key],
			})
		}
	}

	return aggregate(errs)
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return fmt.Sprintf("%s.%s", path, key)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
