/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package core

import (
	"math"
	"math/rand"
	"reflect"
)

// alphabet is used by Gensym.
var alphabet = []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

// Gensym makes a random string of the given length.
func Gensym(n int) string {
	bs := make([]byte, n)
	for i := 0; i < len(bs); i++ {
		bs[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(bs)
}

// Attributer is implemented by values that resolve named attributes
// themselves.
type Attributer interface {
	Attr(name string) (interface{}, bool)
}

// Attribute returns the named attribute of x.
//
// An Attributer is asked directly.  A map with string keys is
// searched by key.  Otherwise the name is looked up as a method and
// then as an exported struct field.
func Attribute(x interface{}, name string) (interface{}, error) {
	if x == nil {
		return nil, &AttributeError{Name: name, Target: x}
	}
	if a, is := x.(Attributer); is {
		if v, have := a.Attr(name); have {
			return v, nil
		}
		return nil, &AttributeError{Name: name, Target: x}
	}
	if m, is := x.(map[string]interface{}); is {
		if v, have := m[name]; have {
			return v, nil
		}
		return nil, &AttributeError{Name: name, Target: x}
	}

	v := reflect.ValueOf(x)
	if m := v.MethodByName(name); m.IsValid() {
		return m.Interface(), nil
	}
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, &AttributeError{Name: name, Target: x}
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		if f, have := v.Type().FieldByName(name); have && f.IsExported() {
			return v.FieldByIndex(f.Index).Interface(), nil
		}
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String {
			k := reflect.ValueOf(name).Convert(v.Type().Key())
			if e := v.MapIndex(k); e.IsValid() {
				return e.Interface(), nil
			}
		}
	}
	return nil, &AttributeError{Name: name, Target: x}
}

// Index returns x[key] for slices, arrays, and maps.
//
// Out-of-range indexes give an IndexError, missing map keys give a
// KeyError, and anything else gives a TypeError.
func Index(x interface{}, key interface{}) (interface{}, error) {
	switch vv := x.(type) {
	case []interface{}:
		i, ok := asInt(key)
		if !ok {
			return nil, &TypeError{Op: "non-integer index", Value: x}
		}
		if i < 0 || len(vv) <= i {
			return nil, &IndexError{Index: i, Len: len(vv)}
		}
		return vv[i], nil
	case map[string]interface{}:
		s, is := key.(string)
		if !is {
			return nil, &KeyError{Key: key}
		}
		v, have := vv[s]
		if !have {
			return nil, &KeyError{Key: key}
		}
		return v, nil
	case nil:
		return nil, &TypeError{Op: "indexing", Value: x}
	}

	v := reflect.ValueOf(x)
	for v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		i, ok := asInt(key)
		if !ok {
			return nil, &TypeError{Op: "non-integer index", Value: x}
		}
		if i < 0 || v.Len() <= i {
			return nil, &IndexError{Index: i, Len: v.Len()}
		}
		return v.Index(i).Interface(), nil
	case reflect.Map:
		k, err := convertArg(key, v.Type().Key())
		if err != nil {
			return nil, &KeyError{Key: key}
		}
		e := v.MapIndex(k)
		if !e.IsValid() {
			return nil, &KeyError{Key: key}
		}
		return e.Interface(), nil
	}
	return nil, &TypeError{Op: "indexing", Value: x}
}

// Items returns the elements of a slice or array.
func Items(x interface{}) ([]interface{}, error) {
	if xs, is := x.([]interface{}); is {
		return xs, nil
	}
	if x == nil {
		return nil, &TypeError{Op: "iteration", Value: x}
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		acc := make([]interface{}, v.Len())
		for i := range acc {
			acc[i] = v.Index(i).Interface()
		}
		return acc, nil
	}
	return nil, &TypeError{Op: "iteration", Value: x}
}

// Pair returns the two elements of x, which must have length two.
func Pair(x interface{}) (interface{}, interface{}, error) {
	xs, err := Items(x)
	if err != nil || len(xs) != 2 {
		return nil, nil, ErrNotPair
	}
	return xs[0], xs[1], nil
}

// NormalizeKey makes numeric keys comparable: whole numbers become
// ints.  Other values are returned as is.
func NormalizeKey(x interface{}) interface{} {
	if i, ok := asInt(x); ok {
		return i
	}
	return x
}

// Equal reports whether a and b are deeply equal, treating whole
// numbers of different types as equal.
func Equal(a, b interface{}) bool {
	return reflect.DeepEqual(NormalizeKey(a), NormalizeKey(b))
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// asInt converts whole numbers of any numeric type to an int.
// Numbers outside the range of int are not converted.
func asInt(x interface{}) (int, bool) {
	if x == nil {
		return 0, false
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := v.Int()
		if n < math.MinInt || math.MaxInt < n {
			return 0, false
		}
		return int(n), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := v.Uint()
		if uint64(math.MaxInt) < n {
			return 0, false
		}
		return int(n), true
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		// -MinInt is a power of two, so it's exact as a float.
		lo := float64(math.MinInt)
		if f == math.Trunc(f) && lo <= f && f < -lo {
			return int(f), true
		}
	}
	return 0, false
}

// Invoke calls f with the given arguments.  A Neuron takes exactly
// one argument and is called with the Warehouse.  A function is
// called via reflection, converting numeric arguments as needed.  A
// trailing error result is returned as the error.
func Invoke(f interface{}, args []interface{}, w Warehouse) (interface{}, error) {
	if n, is := f.(Neuron); is {
		if len(args) != 1 {
			return nil, &ArityError{What: "neuron arguments", Want: 1, Got: len(args)}
		}
		return n.Call(args[0], w)
	}
	if f == nil {
		return nil, &TypeError{Op: "calling", Value: f}
	}
	v := reflect.ValueOf(f)
	if v.Kind() != reflect.Func {
		return nil, &TypeError{Op: "calling", Value: f}
	}
	t := v.Type()
	n := t.NumIn()
	if t.IsVariadic() {
		if len(args) < n-1 {
			return nil, &ArityError{What: "function arguments", Want: n - 1, Got: len(args)}
		}
	} else if len(args) != n {
		return nil, &ArityError{What: "function arguments", Want: n, Got: len(args)}
	}
	in := make([]reflect.Value, len(args))
	for i, x := range args {
		var pt reflect.Type
		if t.IsVariadic() && n-1 <= i {
			pt = t.In(n - 1).Elem()
		} else {
			pt = t.In(i)
		}
		a, err := convertArg(x, pt)
		if err != nil {
			return nil, err
		}
		in[i] = a
	}
	out := v.Call(in)
	if len(out) == 0 {
		return nil, nil
	}
	last := out[len(out)-1]
	if t.Out(len(out)-1) == errorType {
		if !last.IsNil() {
			return nil, last.Interface().(error)
		}
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}
