package mapview

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the type held by a Value.
type Kind uint8

// Value kinds.
const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindNumber:
		return "Number"
	case KindBool:
		return "Bool"
	default:
		return "Null"
	}
}

// Value is a single attribute value: null, string, number or bool.
// The zero Value is null.
type Value struct {
	kind Kind
	s    string
	n    float64
	b    bool
}

// NullValue returns the null Value.
func NullValue() Value { return Value{} }

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// NumberValue returns a numeric Value.
func NumberValue(f float64) Value { return Value{kind: KindNumber, n: f} }

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string held by v.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Num returns the number held by v.
func (v Value) Num() (float64, bool) { return v.n, v.kind == KindNumber }

// Boolean returns the bool held by v.
func (v Value) Boolean() (bool, bool) { return v.b, v.kind == KindBool }

// Equal reports whether v and o hold the same kind and value.
// Null is never equal to anything, including another null.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindNumber:
		return v.n == o.n
	case KindBool:
		return v.b == o.b
	default:
		return false
	}
}

// Interface returns v as a plain Go value (nil, string, float64 or bool).
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.s
	case KindNumber:
		return v.n
	case KindBool:
		return v.b
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.s)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "null"
	}
}

// MarshalJSON encodes v as its plain JSON counterpart.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// ValueOf converts a decoded property value to a Value. Integers and floats
// become numbers; nested objects and arrays are kept as their JSON text.
func ValueOf(x interface{}) Value {
	switch val := x.(type) {
	case nil:
		return NullValue()
	case Value:
		return val
	case string:
		return StringValue(val)
	case []byte:
		return StringValue(string(val))
	case bool:
		return BoolValue(val)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return NumberValue(f)
		}
		return StringValue(val.String())
	}

	if f, ok := toFloat64(x); ok {
		if math.IsNaN(f) {
			return NullValue()
		}
		return NumberValue(f)
	}

	b, err := json.Marshal(x)
	if err != nil {
		return StringValue(fmt.Sprint(x))
	}
	return StringValue(string(b))
}

// Attributes maps attribute names to values. A name that is absent is
// different from a name mapped to null only in that Has reports it.
type Attributes map[string]Value

// AttributesOf converts a decoded property map.
func AttributesOf(props map[string]interface{}) Attributes {
	if props == nil {
		return Attributes{}
	}
	attrs := make(Attributes, len(props))
	for k, x := range props {
		attrs[k] = ValueOf(x)
	}
	return attrs
}

// Get returns the value for key and whether it is present.
func (a Attributes) Get(key string) (Value, bool) {
	v, ok := a[key]
	return v, ok
}

// Has reports whether key is present.
func (a Attributes) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Clone returns a shallow copy of a.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Map returns the attributes as plain Go values.
func (a Attributes) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(a))
	for k, v := range a {
		out[k] = v.Interface()
	}
	return out
}

func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f, true
		}
	}
	return 0, false
}
