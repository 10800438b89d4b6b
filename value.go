package schemaprep

import (
	"math/big"
	"slices"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind enumerates the JSON value kinds.
type Kind int

const (
	KindInvalid Kind = iota // Zero Value: absent.
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is a JSON value. Objects keep the insertion order of their keys and
// numbers keep their literal text, so a decoded document re-encodes the way
// it was written.
//
// Values share their backing storage when copied; use Clone before mutating
// anything reachable from a value handed out by this package.
type Value struct {
	kind Kind
	b    bool
	s    string // string contents or number literal
	arr  []Value
	obj  *orderedmap.OrderedMap[string, Value]
}

// Member is a single object entry.
type Member struct {
	Key   string
	Value Value
}

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a JSON boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a JSON number from its literal text. The literal is not
// validated; use Parse for untrusted input.
func Number(literal string) Value { return Value{kind: KindNumber, s: literal} }

// Int returns a JSON number holding i.
func Int(i int64) Value { return Number(strconv.FormatInt(i, 10)) }

// String returns a JSON string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns a JSON array holding items in order.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// Object returns a JSON object. A repeated key overwrites the earlier value
// in place.
func Object(members ...Member) Value {
	v := newObject()
	for _, m := range members {
		v.obj.Set(m.Key, m.Value)
	}
	return v
}

func newObject() Value {
	return Value{kind: KindObject, obj: orderedmap.New[string, Value]()}
}

// Kind reports the value kind.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds a JSON value.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// NumberText returns the literal text of a number.
func (v Value) NumberText() (string, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return v.s, true
}

// Len returns the number of array elements or object members.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return v.obj.Len()
	default:
		return 0
	}
}

// Items returns the array elements. The returned slice is a copy.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return slices.Clone(v.arr)
}

// Index returns the i-th array element.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i], true
}

// Get returns the member stored under key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	return v.obj.Get(key)
}

// Has reports whether the object has key.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Keys returns the object keys in insertion order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, v.obj.Len())
	for p := v.obj.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Members returns the object members in insertion order.
func (v Value) Members() []Member {
	if v.kind != KindObject {
		return nil
	}
	out := make([]Member, 0, v.obj.Len())
	for p := v.obj.Oldest(); p != nil; p = p.Next() {
		out = append(out, Member{Key: p.Key, Value: p.Value})
	}
	return out
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		out := make([]Value, len(v.arr))
		for i, it := range v.arr {
			out[i] = it.Clone()
		}
		return Value{kind: KindArray, arr: out}
	case KindObject:
		out := newObject()
		for p := v.obj.Oldest(); p != nil; p = p.Next() {
			out.obj.Set(p.Key, p.Value.Clone())
		}
		return out
	default:
		return v
	}
}

// Equal reports structural equality. Object key order is ignored; numbers
// are equal when their literals match or denote the same value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInvalid, KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindNumber:
		return numbersEqual(v.s, o.s)
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.obj.Len() != o.obj.Len() {
			return false
		}
		for p := v.obj.Oldest(); p != nil; p = p.Next() {
			ov, ok := o.obj.Get(p.Key)
			if !ok || !p.Value.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

func numbersEqual(a, b string) bool {
	if a == b {
		return true
	}
	fa, _, errA := big.ParseFloat(a, 10, 256, big.ToNearestEven)
	fb, _, errB := big.ParseFloat(b, 10, 256, big.ToNearestEven)
	if errA != nil || errB != nil {
		return false
	}
	return fa.Cmp(fb) == 0
}

// String renders v in canonical form. Invalid values render as an empty
// string.
func (v Value) String() string {
	if !v.IsValid() {
		return ""
	}
	b, err := Canonical(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// member reads key and reports whether it holds an object.
func (v Value) member(key string) (Value, bool) {
	m, ok := v.Get(key)
	if !ok || m.kind != KindObject {
		return Value{}, false
	}
	return m, true
}

// typeName returns the "type" keyword when it is a single string.
func (v Value) typeName() string {
	t, _ := v.Get("type")
	s, _ := t.AsString()
	return s
}

// set stores key on an object value in place.
func (v Value) set(key string, val Value) {
	v.obj.Set(key, val)
}
