package frontmatter

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindArray
	KindMap
)

// Value is a decoded front matter tree. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	bln  bool
	arr  []Value
	obj  map[string]Value
}

func Null() Value { return Value{} }
func String(s string) Value { return Value{kind: KindString, str: s} }
func Int(i int64) Value { return Value{kind: KindInt, num: i} }
func Float(f float64) Value { return Value{kind: KindFloat, flt: f} }
func Bool(b bool) Value { return Value{kind: KindBool, bln: b} }
func Array(items ...Value) Value { return Value{kind: KindArray, arr: items} }

// Map wraps fields; the map is not copied.
func Map(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: KindMap, obj: fields}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) Items() []Value { return v.arr }

// Fields returns the map entries, or nil if v is not a map.
func (v Value) Fields() map[string]Value { return v.obj }

// Keys returns map keys in sorted order.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }
func (v Value) AsBool() (bool, bool) { return v.bln, v.kind == KindBool }

// AsInt accepts integers and integral floats.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.num, true
	case KindFloat:
		if v.flt == float64(int64(v.flt)) {
			return int64(v.flt), true
		}
	}
	return 0, false
}

func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.flt, true
	case KindInt:
		return float64(v.num), true
	}
	return 0, false
}

// Lookup walks a dotted path such as "taxonomies.tags" through nested maps.
func (v Value) Lookup(path string) (Value, bool) {
	cur := v
	for _, part := range strings.Split(path, ".") {
		if cur.kind != KindMap {
			return Value{}, false
		}
		next, ok := cur.obj[part]
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// String returns the string at path.
func (v Value) String(path string) (string, bool) {
	x, ok := v.Lookup(path)
	if !ok {
		return "", false
	}
	return x.AsString()
}

// StringOr returns the string at path or def.
func (v Value) StringOr(path, def string) string {
	if s, ok := v.String(path); ok {
		return s
	}
	return def
}

// Int returns the integer at path.
func (v Value) Int(path string) (int64, bool) {
	x, ok := v.Lookup(path)
	if !ok {
		return 0, false
	}
	return x.AsInt()
}

// Bool reports whether path holds boolean true.
func (v Value) Bool(path string) bool {
	x, ok := v.Lookup(path)
	if !ok {
		return false
	}
	b, _ := x.AsBool()
	return b
}

// Strings returns the string items of the array at path; non-string items are skipped.
func (v Value) Strings(path string) []string {
	x, ok := v.Lookup(path)
	if !ok || x.kind != KindArray {
		return nil
	}
	out := make([]string, 0, len(x.arr))
	for _, item := range x.arr {
		if s, ok := item.AsString(); ok {
			out = append(out, s)
		}
	}
	return out
}

// Has reports whether path resolves.
func (v Value) Has(path string) bool {
	_, ok := v.Lookup(path)
	return ok
}

// With returns a copy of a map value with key set. Non-map values become a
// single-entry map.
func (v Value) With(key string, val Value) Value {
	fields := make(map[string]Value, len(v.obj)+1)
	for k, x := range v.obj {
		fields[k] = x
	}
	fields[key] = val
	return Map(fields)
}

// Interface converts v into plain Go values (map[string]any, []any, string,
// int64, float64, bool, nil) for templates and JSON encoding.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	case KindBool:
		return v.bln
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.obj))
		for k, item := range v.obj {
			out[k] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// FromAny converts decoder output into a Value.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case int32:
		return Int(int64(t))
	case uint64:
		return Int(int64(t))
	case uint:
		return Int(int64(t))
	case float64:
		return Float(t)
	case float32:
		return Float(float64(t))
	case time.Time:
		// Local times without a date have year zero.
		if t.Year() == 0 {
			return String(t.Format(time.TimeOnly))
		}
		return String(t.Format(time.DateOnly))
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return Array(items...)
	case []map[string]any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return Array(items...)
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, item := range t {
			fields[k] = FromAny(item)
		}
		return Map(fields)
	case map[any]any:
		fields := make(map[string]Value, len(t))
		for k, item := range t {
			fields[fmt.Sprint(k)] = FromAny(item)
		}
		return Map(fields)
	default:
		return String(fmt.Sprint(t))
	}
}
