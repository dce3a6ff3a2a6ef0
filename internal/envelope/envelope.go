// Package envelope models the schema-less JSON metadata blob embedded in a
// document's content field. The blob has no fixed schema, so it is represented
// as a small sum type (String | Number | Bool | Array | Object | Null) instead
// of raw interface{} values; the recursive matcher in the search engine walks
// this type without reflection.
package envelope

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

// Value is a single node of a parsed metadata envelope.
// The zero Value is Null.
type Value struct {
	kind Kind
	str  string
	num  json.Number
	b    bool
	arr  []Value
	obj  map[string]Value
}

// Parse decodes raw JSON into a Value. An empty input parses to Null.
func Parse(raw []byte) (Value, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Value{}, nil
	}
	var any interface{}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&any); err != nil {
		return Value{}, fmt.Errorf("parse envelope: %w", err)
	}
	return fromInterface(any), nil
}

func fromInterface(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return Value{}
	case string:
		return String(t)
	case bool:
		return Value{kind: KindBool, b: t}
	case json.Number:
		// Kept as its source text so re-serialization does not round large
		// integers through float64.
		return Value{kind: KindNumber, num: t}
	case float64:
		return Number(t)
	case []interface{}:
		arr := make([]Value, 0, len(t))
		for _, e := range t {
			arr = append(arr, fromInterface(e))
		}
		return Value{kind: KindArray, arr: arr}
	case map[string]interface{}:
		obj := make(map[string]Value, len(t))
		for k, e := range t {
			obj[k] = fromInterface(e)
		}
		return Value{kind: KindObject, obj: obj}
	default:
		return Value{}
	}
}

// String constructs a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number constructs a numeric Value.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: json.Number(strconv.FormatFloat(n, 'f', -1, 64))}
}

// Object constructs an object Value from the given fields.
func Object(fields map[string]Value) Value { return Value{kind: KindObject, obj: fields} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Field looks up a key on an object Value.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	f, ok := v.obj[key]
	return f, ok
}

// FieldString resolves a dotted path (e.g. "fileInfo.mimeType") to a string
// leaf. Missing segments or non-string leaves return ("", false).
func (v Value) FieldString(path string) (string, bool) {
	cur := v
	for _, seg := range strings.Split(path, ".") {
		next, ok := cur.Field(seg)
		if !ok {
			return "", false
		}
		cur = next
	}
	return cur.Str()
}

// SetField sets key on an object Value in place. It is a no-op on non-objects.
func (v *Value) SetField(key string, f Value) {
	if v.kind != KindObject {
		return
	}
	if v.obj == nil {
		v.obj = map[string]Value{}
	}
	v.obj[key] = f
}

// WalkStrings visits every string leaf in v (objects recurse into all values,
// arrays into all elements; other primitives are skipped). The walk stops
// early when fn returns true, and reports whether it did.
func (v Value) WalkStrings(fn func(s string) bool) bool {
	switch v.kind {
	case KindString:
		return fn(v.str)
	case KindArray:
		for _, e := range v.arr {
			if e.WalkStrings(fn) {
				return true
			}
		}
	case KindObject:
		for _, e := range v.obj {
			if e.WalkStrings(fn) {
				return true
			}
		}
	}
	return false
}

// Strings collects every string leaf in v in walk order.
func (v Value) Strings() []string {
	var out []string
	v.WalkStrings(func(s string) bool {
		out = append(out, s)
		return false
	})
	return out
}

// DeclaredMime returns the file-type family the envelope declares for its
// binary, checking the conventional field names in order. Empty when the
// envelope carries no file placement data.
func DeclaredMime(v Value) string {
	for _, path := range []string{"fileType", "mimeType", "fileInfo.mimeType"} {
		if mt, ok := v.FieldString(path); ok && mt != "" {
			return mt
		}
	}
	return ""
}

// MarshalJSON renders the Value back to JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.toInterface())
}

func (v Value) toInterface() interface{} {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindArray:
		out := make([]interface{}, 0, len(v.arr))
		for _, e := range v.arr {
			out = append(out, e.toInterface())
		}
		return out
	case KindObject:
		out := make(map[string]interface{}, len(v.obj))
		for k, e := range v.obj {
			out[k] = e.toInterface()
		}
		return out
	default:
		return nil
	}
}
