package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// Type defines the contract for field validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "int").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	_, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// IntType validates integer values.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	case float64:
		// JSON numbers decode as float64
		if v == float64(int64(v)) {
			return nil
		}
		return fmt.Errorf("expected int, got float (not a whole number)")
	case json.Number:
		// Strict loam repositories keep numbers as json.Number
		if _, err := v.Int64(); err != nil {
			return fmt.Errorf("expected int, got %s", v)
		}
		return nil
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
}

// NumberType validates integer or floating-point values.
type NumberType struct{}

func (t *NumberType) Name() string { return "number" }

func (t *NumberType) Validate(value any) error {
	switch v := value.(type) {
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	case json.Number:
		if _, err := v.Float64(); err != nil {
			return fmt.Errorf("expected number, got %s", v)
		}
		return nil
	default:
		return fmt.Errorf("expected number, got %T", value)
	}
}

// SliceType validates slices of a specific element type.
type SliceType struct {
	elemType Type
	length   int // -1 for any length
}

func (t *SliceType) Name() string {
	if t.length >= 0 {
		return fmt.Sprintf("[%s;%d]", t.elemType.Name(), t.length)
	}
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return fmt.Errorf("expected slice, got %T", value)
	}
	if t.length >= 0 && rv.Len() != t.length {
		return fmt.Errorf("expected %d elements, got %d", t.length, rv.Len())
	}

	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if err := t.elemType.Validate(elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// String creates a string type validator.
func String() Type { return &StringType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Number creates a numeric type validator.
func Number() Type { return &NumberType{} }

// Slice creates a slice type validator for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType, length: -1}
}

// Tuple creates a slice type validator requiring exactly n elements.
func Tuple(n int, elemType Type) Type {
	return &SliceType{elemType: elemType, length: n}
}

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// ParseType converts a type name to a Type: "string", "int", "number",
// "[int]" and fixed-length "[int;2]".
func ParseType(typeStr string) (Type, error) {
	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		inner := typeStr[1 : len(typeStr)-1]
		if elem, n, ok := cutLength(inner); ok {
			length, err := strconv.Atoi(n)
			if err != nil || length < 0 {
				return nil, fmt.Errorf("invalid tuple length: %s", typeStr)
			}
			elemType, err := ParseType(elem)
			if err != nil {
				return nil, err
			}
			return Tuple(length, elemType), nil
		}
		elemType, err := ParseType(inner)
		if err != nil {
			return nil, err
		}
		return Slice(elemType), nil
	}

	switch typeStr {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "number":
		return Number(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// cutLength splits "elem;n" at the last ';' outside nested brackets.
func cutLength(inner string) (elem, n string, ok bool) {
	depth := 0
	for i := len(inner) - 1; i >= 0; i-- {
		switch inner[i] {
		case ']':
			depth++
		case '[':
			depth--
		case ';':
			if depth == 0 {
				return inner[:i], inner[i+1:], true
			}
		}
	}
	return inner, "", false
}

// mustType is ParseType for the built-in field tables.
func mustType(typeStr string) Type {
	t, err := ParseType(typeStr)
	if err != nil {
		panic(err)
	}
	return t
}
