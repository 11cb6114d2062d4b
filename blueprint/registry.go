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

package blueprint

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/Comcast/tako"
	"github.com/Comcast/tako/core"
)

// UnknownOp occurs when a Step names a factory that isn't registered.
type UnknownOp struct {
	Name string
}

func (e *UnknownOp) Error() string {
	return fmt.Sprintf("unknown op '%s'", e.Name)
}

// UnknownClass occurs when a Blueprint extends a Class that isn't
// registered.
type UnknownClass struct {
	Name string
}

func (e *UnknownClass) Error() string {
	return fmt.Sprintf("unknown class '%s'", e.Name)
}

// Registry holds the factories that Steps can name and the Classes
// that Blueprints can extend.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]core.Factory
	classes   map[string]*tako.Class
}

// NewRegistry makes an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]core.Factory),
		classes:   make(map[string]*tako.Class),
	}
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, f core.Factory) {
	r.mu.Lock()
	r.factories[name] = f
	r.mu.Unlock()
}

// Factory finds a factory.
func (r *Registry) Factory(name string) (core.Factory, error) {
	r.mu.RLock()
	f, have := r.factories[name]
	r.mu.RUnlock()
	if !have {
		return nil, &UnknownOp{Name: name}
	}
	return f, nil
}

// Ops returns the names of the registered factories, sorted.
func (r *Registry) Ops() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc := make([]string, 0, len(r.factories))
	for name := range r.factories {
		acc = append(acc, name)
	}
	sort.Strings(acc)
	return acc
}

// AddClass adds or replaces a Class by name.
func (r *Registry) AddClass(c *tako.Class) {
	r.mu.Lock()
	r.classes[c.Name()] = c
	r.mu.Unlock()
}

// Class finds a Class.
func (r *Registry) Class(name string) (*tako.Class, error) {
	r.mu.RLock()
	c, have := r.classes[name]
	r.mu.RUnlock()
	if !have {
		return nil, &UnknownClass{Name: name}
	}
	return c, nil
}

// Standard returns a Registry with some generally useful ops:
//
//	add(n), mul(n): arithmetic with a constant
//	neg: negation
//	sum: sum of a list
//	const(v): output v regardless of input
//	format(f): fmt.Sprintf(f, x)
//	upper, lower: string case
//	eq(v): whether the input equals v
//	pair(v): the pair (v, x)
//	lt(n): the pair (x < n, x), for repeat bodies
func Standard() *Registry {
	r := NewRegistry()

	r.Register("add", binary("add", func(a, b float64) float64 { return a + b }))
	r.Register("mul", binary("mul", func(a, b float64) float64 { return a * b }))

	r.Register("neg", func(args []interface{}, _ map[string]interface{}) (interface{}, error) {
		return func(x interface{}) (interface{}, error) {
			f, isInt, err := number(x)
			if err != nil {
				return nil, err
			}
			return numeric(-f, isInt), nil
		}, nil
	})

	r.Register("sum", func(args []interface{}, _ map[string]interface{}) (interface{}, error) {
		return func(x interface{}) (interface{}, error) {
			xs, err := core.Items(x)
			if err != nil {
				return nil, err
			}
			acc, allInts := 0.0, true
			for _, x := range xs {
				f, isInt, err := number(x)
				if err != nil {
					return nil, err
				}
				acc += f
				allInts = allInts && isInt
			}
			return numeric(acc, allInts), nil
		}, nil
	})

	r.Register("const", func(args []interface{}, _ map[string]interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, &core.ArityError{What: "const args", Want: 1, Got: len(args)}
		}
		v := args[0]
		return func(interface{}) interface{} { return v }, nil
	})

	r.Register("format", func(args []interface{}, _ map[string]interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, &core.ArityError{What: "format args", Want: 1, Got: len(args)}
		}
		f, is := args[0].(string)
		if !is {
			return nil, &core.TypeError{Op: "format string", Value: args[0]}
		}
		return func(x interface{}) interface{} { return fmt.Sprintf(f, x) }, nil
	})

	r.Register("upper", str("upper", strings.ToUpper))
	r.Register("lower", str("lower", strings.ToLower))

	r.Register("eq", func(args []interface{}, _ map[string]interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, &core.ArityError{What: "eq args", Want: 1, Got: len(args)}
		}
		v := args[0]
		return func(x interface{}) interface{} { return core.Equal(x, v) }, nil
	})

	r.Register("pair", func(args []interface{}, _ map[string]interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, &core.ArityError{What: "pair args", Want: 1, Got: len(args)}
		}
		v := args[0]
		return func(x interface{}) interface{} { return []interface{}{v, x} }, nil
	})

	r.Register("lt", func(args []interface{}, _ map[string]interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, &core.ArityError{What: "lt args", Want: 1, Got: len(args)}
		}
		n, _, err := number(args[0])
		if err != nil {
			return nil, err
		}
		return func(x interface{}) (interface{}, error) {
			f, _, err := number(x)
			if err != nil {
				return nil, err
			}
			return []interface{}{f < n, x}, nil
		}, nil
	})

	return r
}

// number returns x as a float64 and whether it's a whole number of
// an integer type.
func number(x interface{}) (float64, bool, error) {
	switch vv := x.(type) {
	case int:
		return float64(vv), true, nil
	case int64:
		return float64(vv), true, nil
	case int32:
		return float64(vv), true, nil
	case float64:
		return vv, false, nil
	case float32:
		return float64(vv), false, nil
	}
	return 0, false, &core.TypeError{Op: "arithmetic", Value: x}
}

// numeric gives an int if the operands were ints.
func numeric(f float64, isInt bool) interface{} {
	if isInt && f == math.Trunc(f) {
		return int(f)
	}
	return f
}

func binary(name string, op func(a, b float64) float64) core.Factory {
	return func(args []interface{}, _ map[string]interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, &core.ArityError{What: name + " args", Want: 1, Got: len(args)}
		}
		n, nInt, err := number(args[0])
		if err != nil {
			return nil, err
		}
		return func(x interface{}) (interface{}, error) {
			f, xInt, err := number(x)
			if err != nil {
				return nil, err
			}
			return numeric(op(f, n), nInt && xInt), nil
		}, nil
	}
}

func str(name string, op func(string) string) core.Factory {
	return func(args []interface{}, _ map[string]interface{}) (interface{}, error) {
		return func(x interface{}) (interface{}, error) {
			s, is := x.(string)
			if !is {
				return nil, &core.TypeError{Op: name, Value: x}
			}
			return op(s), nil
		}, nil
	}
}
