package config

import (
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the payload of a Value
type Kind int

const (
	Invalid Kind = iota
	Int
	Float
	FloatVector
	String
	Bool
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case FloatVector:
		return "float-vector"
	case String:
		return "string"
	case Bool:
		return "bool"
	default:
		return "invalid"
	}
}

// Value is a tagged union over the property kinds. The zero Value is Invalid.
type Value struct {
	kind Kind
	i    int64
	f    float64
	vec  []float64
	s    string
	b    bool
}

func IntValue(v int64) Value { return Value{kind: Int, i: v} }

func FloatValue(v float64) Value { return Value{kind: Float, f: v} }

func StringValue(v string) Value { return Value{kind: String, s: v} }

func BoolValue(v bool) Value { return Value{kind: Bool, b: v} }

// VectorValue copies v
func VectorValue(v ...float64) Value {
	return Value{kind: FloatVector, vec: append([]float64(nil), v...)}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsValid() bool { return v.kind != Invalid }

func (v Value) mismatch(want Kind) error {
	return &TypeMismatchError{Want: want, Got: v.kind}
}

// Int returns the integer payload
func (v Value) Int() (int64, error) {
	if v.kind != Int {
		return 0, v.mismatch(Int)
	}
	return v.i, nil
}

// Float returns the float payload. Int values widen losslessly.
func (v Value) Float() (float64, error) {
	switch v.kind {
	case Float:
		return v.f, nil
	case Int:
		return float64(v.i), nil
	default:
		return 0, v.mismatch(Float)
	}
}

// Vector returns a copy of the vector payload. Scalar numbers read as one-element vectors.
func (v Value) Vector() ([]float64, error) {
	switch v.kind {
	case FloatVector:
		return append([]float64(nil), v.vec...), nil
	case Float:
		return []float64{v.f}, nil
	case Int:
		return []float64{float64(v.i)}, nil
	default:
		return nil, v.mismatch(FloatVector)
	}
}

// Str returns the string payload
func (v Value) Str() (string, error) {
	if v.kind != String {
		return "", v.mismatch(String)
	}
	return v.s, nil
}

func (v Value) Bool() (bool, error) {
	if v.kind != Bool {
		return false, v.mismatch(Bool)
	}
	return v.b, nil
}

// Equal compares kind and payload
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Int:
		return v.i == o.i
	case Float:
		return v.f == o.f
	case String:
		return v.s == o.s
	case Bool:
		return v.b == o.b
	case FloatVector:
		if len(v.vec) != len(o.vec) {
			return false
		}
		for i := range v.vec {
			if v.vec[i] != o.vec[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders the value in property-file syntax, so that parsing it back yields an equal Value
func (v Value) String() string {
	switch v.kind {
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return formatFloat(v.f)
	case FloatVector:
		parts := make([]string, len(v.vec))
		for i, f := range v.vec {
			parts[i] = formatFloat(f)
		}
		return strings.Join(parts, " ")
	case String:
		return strconv.Quote(v.s)
	case Bool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// formatFloat always emits a decimal point or exponent so the literal parses back as a float.
// Non-finite values are written with an explicit sign: +Inf, -Inf, +NaN.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "+NaN"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
