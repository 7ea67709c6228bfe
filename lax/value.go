package lax

import (
	"fmt"
	"math"
	"strconv"
)

type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindNumber
	KindString
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a runtime value and the literal payload of a token.
type Value struct {
	kind ValueKind
	data any
}

func NewNil() Value             { return Value{kind: KindNil} }
func NewBool(b bool) Value      { return Value{kind: KindBool, data: b} }
func NewNumber(f float64) Value { return Value{kind: KindNumber, data: f} }
func NewString(s string) Value  { return Value{kind: KindString, data: s} }
func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNil() bool     { return v.kind == KindNil }

func (v Value) Bool() bool {
	if v.kind != KindBool {
		return false
	}
	return v.data.(bool)
}

func (v Value) Number() float64 {
	if v.kind != KindNumber {
		return 0
	}
	return v.data.(float64)
}

// String returns the textual form written by print. Strings are unquoted.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.data.(string)
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.data.(float64))
	default:
		return "nil"
	}
}

// Inspect is like String but quotes strings, for diagnostics and the printer.
func (v Value) Inspect() string {
	if v.kind == KindString {
		return `"` + v.data.(string) + `"`
	}
	return v.String()
}

// Truthy reports how the value behaves under logical negation. The empty
// string is the only truthy string.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.Bool()
	case KindString:
		return v.data.(string) == ""
	default:
		return true
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
