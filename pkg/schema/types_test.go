package schema

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestStringType(t *testing.T) {
	typ := String()

	if typ.Name() != "string" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "string")
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{"lowpass", false},
		{"", false},
		{42, true},
		{3.14, true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestIntType(t *testing.T) {
	typ := Int()

	if typ.Name() != "int" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "int")
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{42, false},
		{int64(-3), false},
		{uint8(7), false},
		{float64(42), false},  // whole number
		{float64(42.5), true}, // not whole
		{json.Number("7"), false},
		{json.Number("7.5"), true},
		{"42", true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestNumberType(t *testing.T) {
	typ := Number()

	tests := []struct {
		value   any
		wantErr bool
	}{
		{0.5, false},
		{float32(0.5), false},
		{2, false},
		{json.Number("0.25"), false},
		{"0.5", true},
		{true, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestSliceType(t *testing.T) {
	typ := Slice(String())

	if typ.Name() != "[string]" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "[string]")
	}

	if err := typ.Validate([]any{"a", "b"}); err != nil {
		t.Errorf("Validate([a b]) error = %v", err)
	}
	if err := typ.Validate([]string{}); err != nil {
		t.Errorf("Validate([]) error = %v", err)
	}
	if err := typ.Validate([]any{"a", 1}); err == nil {
		t.Error("Validate([a 1]) should fail on element 1")
	}
	if err := typ.Validate("a"); err == nil {
		t.Error("Validate(a) should fail for non-slice")
	}
	if err := typ.Validate(nil); err == nil {
		t.Error("Validate(nil) should fail")
	}
}

func TestTupleType(t *testing.T) {
	typ := Tuple(2, Int())

	if typ.Name() != "[int;2]" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "[int;2]")
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{[]any{1, 2}, false},
		{[]int{1, 2}, false},
		{[]any{1}, true},
		{[]any{1, 2, 3}, true},
		{[]any{1, "2"}, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestCustomType(t *testing.T) {
	errOdd := errors.New("must be even")
	even := Custom("even", func(v any) error {
		i, ok := v.(int)
		if !ok || i%2 != 0 {
			return errOdd
		}
		return nil
	})

	if even.Name() != "even" {
		t.Errorf("Name() = %q, want even", even.Name())
	}
	if err := even.Validate(4); err != nil {
		t.Errorf("Validate(4) error = %v", err)
	}
	if err := even.Validate(3); !errors.Is(err, errOdd) {
		t.Errorf("Validate(3) error = %v, want %v", err, errOdd)
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"string", "string", false},
		{"int", "int", false},
		{"number", "number", false},
		{"[string]", "[string]", false},
		{"[int;2]", "[int;2]", false},
		{"[[int;2]]", "[[int;2]]", false},
		{"[[int;2];3]", "[[int;2];3]", false},
		{"[[string]]", "[[string]]", false},
		{"[int;x]", "", true},
		{"bool", "", true},
		{"", "", true},
		{"[[int;2]", "", true},
	}

	for _, tt := range tests {
		typ, err := ParseType(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && typ.Name() != tt.want {
			t.Errorf("ParseType(%q).Name() = %q, want %q", tt.input, typ.Name(), tt.want)
		}
	}
}
