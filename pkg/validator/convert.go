package validator

import (
	"fmt"
	"reflect"
)

// FromAny converts plain Go data into a Value.
//
// Maps with string keys become map values, slices and arrays become lists,
// pointers and interfaces are dereferenced. Values with no tree shape (structs,
// channels, functions) are kept as their fmt string form.
func FromAny(data any) Value {
	switch v := data.(type) {
	case nil:
		return Null()
	case Value:
		return v
	case bool:
		return Bool(v)
	case string:
		return String(v)
	case int:
		return Int(int64(v))
	case int8:
		return Int(int64(v))
	case int16:
		return Int(int64(v))
	case int32:
		return Int(int64(v))
	case int64:
		return Int(v)
	case uint8:
		return Int(int64(v))
	case uint16:
		return Int(int64(v))
	case uint32:
		return Int(int64(v))
	case float32:
		return Float(float64(v))
	case float64:
		return Float(v)
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = FromAny(item)
		}
		return List(items...)
	case map[string]any:
		m := make(map[string]Value, len(v))
		for k, item := range v {
			m[k] = FromAny(item)
		}
		return Map(m)
	case []string:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = String(item)
		}
		return List(items...)
	case map[string]string:
		m := make(map[string]Value, len(v))
		for k, item := range v {
			m[k] = String(item)
		}
		return Map(m)
	}
	return fromReflect(reflect.ValueOf(data))
}

func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Invalid:
		return Null()
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > 1<<63-1 {
			return Float(float64(u))
		}
		return Int(int64(u))
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	case reflect.String:
		return String(rv.String())
	case reflect.Slice:
		if rv.IsNil() {
			return Null()
		}
		fallthrough
	case reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = FromAny(rv.Index(i).Interface())
		}
		return List(items...)
	case reflect.Map:
		if rv.IsNil() {
			return Null()
		}
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		m := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = FromAny(iter.Value().Interface())
		}
		return Map(m)
	}
	return String(fmt.Sprint(rv.Interface()))
}
