/* Copyright 2021 Comcast Cable Communications Management, LLC
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
	"errors"
	"math"
	"testing"
)

type point struct {
	X, Y   int
	hidden int
}

func (p *point) Sum() int {
	return p.X + p.Y
}

type attrs map[string]interface{}

func (a attrs) Attr(name string) (interface{}, bool) {
	v, have := a[name]
	return v, have
}

func TestAttribute(t *testing.T) {
	p := &point{X: 1, Y: 2}

	tests := []struct {
		description string
		target      interface{}
		name        string
		want        interface{}
		wantErr     bool
	}{
		{"field", p, "X", 1, false},
		{"field by value", *p, "Y", 2, false},
		{"unexported", p, "hidden", nil, true},
		{"missing", p, "Z", nil, true},
		{"map", map[string]interface{}{"a": 1}, "a", 1, false},
		{"map missing", map[string]interface{}{"a": 1}, "b", nil, true},
		{"typed map", map[string]int{"a": 3}, "a", 3, false},
		{"attributer", attrs{"q": "r"}, "q", "r", false},
		{"attributer missing", attrs{}, "q", nil, true},
		{"nil", nil, "x", nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			got, err := Attribute(tc.target, tc.name)
			if tc.wantErr {
				var ae *AttributeError
				if !errors.As(err, &ae) {
					t.Fatalf("expected AttributeError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !Equal(got, tc.want) {
				t.Fatalf("%v != %v", got, tc.want)
			}
		})
	}

	t.Run("method", func(t *testing.T) {
		m, err := Attribute(p, "Sum")
		if err != nil {
			t.Fatal(err)
		}
		f, is := m.(func() int)
		if !is {
			t.Fatalf("%T", m)
		}
		if f() != 3 {
			t.Fatal(f())
		}
	})
}

func TestIndex(t *testing.T) {
	tests := []struct {
		description string
		target      interface{}
		key         interface{}
		want        interface{}
		err         interface{}
	}{
		{"slice", []interface{}{"a", "b"}, 1, "b", nil},
		{"float index", []interface{}{"a", "b"}, 1.0, "b", nil},
		{"typed slice", []int{4, 5}, 0, 4, nil},
		{"array", [2]string{"x", "y"}, 1, "y", nil},
		{"out of range", []interface{}{"a"}, 1, nil, &IndexError{}},
		{"bad key", []interface{}{"a"}, "0", nil, &TypeError{}},
		{"map", map[string]interface{}{"a": 1}, "a", 1, nil},
		{"map missing", map[string]interface{}{"a": 1}, "b", nil, &KeyError{}},
		{"int map", map[int]string{2: "two"}, 2, "two", nil},
		{"int map missing", map[int]string{2: "two"}, 3, nil, &KeyError{}},
		{"scalar", 3, 0, nil, &TypeError{}},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			got, err := Index(tc.target, tc.key)
			switch tc.err.(type) {
			case *IndexError:
				var e *IndexError
				if !errors.As(err, &e) {
					t.Fatalf("expected IndexError, got %v", err)
				}
				return
			case *TypeError:
				var e *TypeError
				if !errors.As(err, &e) {
					t.Fatalf("expected TypeError, got %v", err)
				}
				return
			case *KeyError:
				var e *KeyError
				if !errors.As(err, &e) {
					t.Fatalf("expected KeyError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !Equal(got, tc.want) {
				t.Fatalf("%v != %v", got, tc.want)
			}
		})
	}
}

func TestPair(t *testing.T) {
	a, b, err := Pair([]int{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if a != 1 || b != 2 {
		t.Fatal(a, b)
	}
	if _, _, err = Pair([]interface{}{1}); err != ErrNotPair {
		t.Fatal(err)
	}
	if _, _, err = Pair("no"); err != ErrNotPair {
		t.Fatal(err)
	}
}

func TestInvoke(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		description string
		f           interface{}
		args        []interface{}
		want        interface{}
		wantErr     bool
	}{
		{"plain", func(a, b int) int { return a - b }, []interface{}{5, 3}, 2, false},
		{"converted", func(a int) int { return a * 2 }, []interface{}{2.0}, 4, false},
		{"variadic", func(xs ...int) int { return len(xs) }, []interface{}{1, 2, 3}, 3, false},
		{"error", func() (int, error) { return 0, boom }, nil, nil, true},
		{"only error", func() error { return nil }, nil, nil, false},
		{"arity", func(a int) int { return a }, nil, nil, true},
		{"neuron", MustNeuron(add(1)), []interface{}{1}, 2, false},
		{"not callable", 3, nil, nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			got, err := Invoke(tc.f, tc.args, nil)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !Equal(got, tc.want) {
				t.Fatalf("%v != %v", got, tc.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b interface{}
		want bool
	}{
		{"whole float", 3.0, int8(3), true},
		{"uint", uint16(7), 7, true},
		{"fraction", 2.5, 2, false},
		{"huge floats", 1e19, 2e19, false},
		{"huge uint", uint64(math.MaxUint64), -1, false},
		{"float at the edge", float64(math.MaxInt64), int64(math.MinInt64), false},
		{"strings", "a", "a", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Equal(tc.a, tc.b); got != tc.want {
				t.Fatalf("Equal(%v, %v) = %v", tc.a, tc.b, got)
			}
		})
	}

	if k := NormalizeKey(1e19); k != 1e19 {
		t.Fatalf("%T %v", k, k)
	}
}
