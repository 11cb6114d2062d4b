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

package tools

import (
	"fmt"
	"sort"

	"github.com/Comcast/tako"
	"github.com/Comcast/tako/core"
	"github.com/Comcast/tako/ref"
)

// ClassAnalysis reports what a Class (with its ancestors) is made of
// and which My and Super references can't be satisfied.
type ClassAnalysis struct {
	Errors       []string
	Arms         int
	Neurons      int
	Declarations int
	Scripts      int
	Interpreters []string

	// Refs are the My and Super references, as "class.arm: ref".
	Refs []string

	// MissingRefs are Refs whose first attribute isn't an Arm or
	// field that's visible from the referring Class.
	MissingRefs []string
}

// has reports whether c or an ancestor has an Arm or field named
// name.
func has(c *tako.Class, name string) bool {
	for _, k := range c.Lineage() {
		if _, have := k.Template(name); have {
			return true
		}
		for _, f := range k.FieldNames() {
			if f == name {
				return true
			}
		}
	}
	return false
}

// firstAttr returns the name in the Ref's first step if it's an
// Attr.
func firstAttr(r ref.Ref) (string, bool) {
	path := r.Path()
	if len(path) == 0 {
		return "", false
	}
	a, is := path[0].(*ref.Attr)
	if !is {
		return "", false
	}
	return a.Name, true
}

// Analyze examines the Class and its ancestors.
func Analyze(c *tako.Class) (*ClassAnalysis, error) {
	a := ClassAnalysis{
		Errors: make([]string, 0, 8),
	}
	interpreters := make(map[string]bool)
	refs := make(map[string]bool)
	missing := make(map[string]bool)

	check := func(k *tako.Class, where string, n core.Neuron) {
		if nr, is := n.(*ref.NeuronRef); is {
			n = nr.Ref()
		}
		r, is := n.(ref.Ref)
		if !is {
			return
		}
		var scope *tako.Class
		switch r.(type) {
		case *ref.MyRef:
			scope = c
		case *ref.SuperRef:
			scope = k.Parent()
		default:
			return
		}
		desc := fmt.Sprintf("%s: %v", where, r)
		refs[desc] = true
		name, ok := firstAttr(r)
		if !ok {
			return
		}
		if scope == nil || !has(scope, name) {
			missing[desc] = true
		}
	}

	for _, k := range c.Lineage() {
		for _, name := range k.ArmNames() {
			a.Arms++
			arm, _ := k.Template(name)
			where := k.Name() + "." + name
			t := core.Trace(arm.Strand())
			for _, n := range t.Visited {
				switch vv := n.(type) {
				case *core.In, *core.Out, *core.Nil:
					continue
				case *core.Script:
					a.Scripts++
					interpreters[vv.Source().Interpreter] = true
				case *core.Declaration:
					a.Declarations++
				}
				a.Neurons++
				check(k, where, n)
			}
		}
	}

	a.Interpreters = keysToStringSlice(interpreters)
	a.Refs = keysToStringSlice(refs)
	a.MissingRefs = keysToStringSlice(missing)
	for _, m := range a.MissingRefs {
		a.Errors = append(a.Errors, "missing reference "+m)
	}

	return &a, nil
}

// keysToStringSlice returns the keys of m, sorted.
func keysToStringSlice(m map[string]bool) []string {
	list := make([]string, 0, len(m))
	for key := range m {
		list = append(list, key)
	}
	sort.Strings(list)
	return list
}
