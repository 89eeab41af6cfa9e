package catalog

import (
	"strconv"
	"strings"
)

type Kind int

const (
	KindBlank Kind = iota
	KindString
	KindNumber
	KindBool
)

// Value is a single spreadsheet cell: blank, text, number or boolean.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

func NumberValue(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

func (v Value) Kind() Kind {
	return v.kind
}

// IsBlank reports whether the cell is empty or whitespace only.
func (v Value) IsBlank() bool {
	switch v.kind {
	case KindBlank:
		return true
	case KindString:
		return strings.TrimSpace(v.str) == ""
	default:
		return false
	}
}

// Text returns the trimmed textual form of the cell.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return strings.TrimSpace(v.str)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Interface returns the underlying Go value, nil for blanks.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	default:
		return nil
	}
}
