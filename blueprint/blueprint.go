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

// Package blueprint defines Classes in YAML (or JSON).
//
// A Blueprint names a Class, its fields, and its Arms.  Each Arm is a
// list of Steps.  A Step is one of
//
//	op: name         a Neuron from a Registry factory, with args and kwargs
//	decl: name       the same, but built lazily (a core.Declaration)
//	script: {...}    code run by an interpreter (see core.ScriptSource)
//	call: my.f       run the Arm (or anything Neuron-like) at a ref path
//	ref: emission.0  output the value at a ref path
//	sub: 0           index into the input
//	emit: value      output a constant
//	delay: n         a flow.Delay
//	noop: true       pass the input through
//	multi, diverge, onto, repeat, inform, probe, store
//	                 the flow combinators, with nested Steps
//
// String arguments like "$n" refer to parameters, which come from the
// Blueprint's Params and can be overridden at compile time.
//
// A Blueprint can extend a Class that's already in the Registry.
package blueprint

import (
	"context"
	"fmt"
	"sort"

	"github.com/Comcast/tako"
	"github.com/Comcast/tako/core"

	"github.com/jsccast/yaml"
)

// Blueprint is the source for a tako.Class.
type Blueprint struct {
	Name string `json:"name" yaml:"name"`

	// Version is optional and not interpreted.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Doc is general documentation (Markdown).
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Extends names a parent Class in the Registry.
	Extends string `json:"extends,omitempty" yaml:"extends,omitempty"`

	// Params are default values for "$name" arguments.
	Params map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty"`

	Fields map[string]interface{} `json:"fields,omitempty" yaml:"fields,omitempty"`

	Arms map[string][]*Step `json:"arms,omitempty" yaml:"arms,omitempty"`
}

// Parse reads a Blueprint from YAML, which includes JSON.
func Parse(bs []byte) (*Blueprint, error) {
	var b Blueprint
	if err := yaml.Unmarshal(bs, &b); err != nil {
		return nil, err
	}
	if b.Name == "" {
		return nil, fmt.Errorf("blueprint has no name")
	}
	return &b, nil
}

// ArmNames returns the Arm names in sorted order.
func (b *Blueprint) ArmNames() []string {
	acc := make([]string, 0, len(b.Arms))
	for name := range b.Arms {
		acc = append(acc, name)
	}
	sort.Strings(acc)
	return acc
}

// Compile makes a Class using the Blueprint's default Params.
func (b *Blueprint) Compile(ctx context.Context, r *Registry, interpreters core.InterpretersMap) (*tako.Class, error) {
	return b.CompileWith(ctx, r, interpreters, nil)
}

// CompileWith makes a Class and adds it to the Registry.  The given
// params override the Blueprint's Params.
//
// Interpreters default to core.DefaultInterpreters.
func (b *Blueprint) CompileWith(ctx context.Context, r *Registry, interpreters core.InterpretersMap, params map[string]interface{}) (*tako.Class, error) {
	var parent *tako.Class
	if b.Extends != "" {
		var err error
		if parent, err = r.Class(b.Extends); err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name, err)
		}
	}

	kwargs := make(map[string]interface{}, len(b.Params)+len(params))
	for k, v := range b.Params {
		kwargs[k] = v
	}
	for k, v := range params {
		kwargs[k] = v
	}

	c := &compiler{
		ctx:          ctx,
		registry:     r,
		interpreters: interpreters,
		kwargs:       kwargs,
	}

	class := tako.NewClass(b.Name, parent)
	class.Doc = b.Doc

	fields := make([]string, 0, len(b.Fields))
	for name := range b.Fields {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	for _, name := range fields {
		v, err := c.arg(b.Fields[name])
		if err != nil {
			return nil, fmt.Errorf("%s field %s: %w", b.Name, name, err)
		}
		class.Field(name, v)
	}

	for _, name := range b.ArmNames() {
		s, err := c.strand(b.Arms[name])
		if err != nil {
			return nil, fmt.Errorf("%s arm %s: %w", b.Name, name, err)
		}

		// Declarations still hold Args.
		u := core.CallUpdateArgs(nil, kwargs)
		s.BotForward(u)
		if err = u.Err(); err != nil {
			return nil, fmt.Errorf("%s arm %s: %w", b.Name, name, err)
		}

		if err = class.Arm(name, s); err != nil {
			return nil, err
		}
	}

	r.AddClass(class)

	return class, nil
}
