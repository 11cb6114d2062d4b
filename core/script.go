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
	"context"
	"fmt"
	"time"
)

// DefaultInterpreters is used by ScriptSource.Compile when given nil
// interpreters.  Interpreter packages register themselves here.
var DefaultInterpreters = make(InterpretersMap)

// Interpreter can compile and execute code that serves as the body of
// a Neuron.
type Interpreter interface {
	// Compile can make something that helps when Exec()ing the
	// code later.
	Compile(ctx context.Context, code interface{}) (interface{}, error)

	// Exec executes the code with input x.  The result of a
	// previous Compile() might be provided.  The result of the
	// code is the output.
	Exec(ctx context.Context, x interface{}, w Warehouse, props map[string]interface{}, code interface{}, compiled interface{}) (interface{}, error)
}

// InterpretersMap maps interpreter names to Interpreters.
type InterpretersMap map[string]Interpreter

// NewInterpretersMap makes an empty map.
func NewInterpretersMap() InterpretersMap {
	return make(InterpretersMap)
}

// Find returns the named Interpreter.
func (m InterpretersMap) Find(name string) (Interpreter, error) {
	i, have := m[name]
	if !have {
		return nil, &InterpreterNotFound{Name: name}
	}
	return i, nil
}

// ScriptSource can be compiled to a Script.
type ScriptSource struct {
	Interpreter string                 `json:"interpreter" yaml:"interpreter"`
	Source      interface{}            `json:"source" yaml:"source"`
	Props       map[string]interface{} `json:"props,omitempty" yaml:",omitempty"`
}

// Compile makes a Script using the given interpreters, which default
// to DefaultInterpreters.
func (s *ScriptSource) Compile(ctx context.Context, interpreters InterpretersMap) (*Script, error) {
	if interpreters == nil {
		interpreters = DefaultInterpreters
	}
	i, err := interpreters.Find(s.Interpreter)
	if err != nil {
		return nil, err
	}
	compiled, err := i.Compile(ctx, s.Source)
	if err != nil {
		return nil, fmt.Errorf("%s script: %w", s.Interpreter, err)
	}
	return &Script{
		source:      *s,
		interpreter: i,
		compiled:    compiled,
	}, nil
}

// Script is a Neuron whose body is code run by an Interpreter.
type Script struct {
	Links
	source      ScriptSource
	interpreter Interpreter
	compiled    interface{}

	// Timeout, if positive, limits each execution.
	Timeout time.Duration
}

// Source returns the ScriptSource the Script was compiled from.
func (s *Script) Source() ScriptSource {
	return s.source
}

func (s *Script) Call(x interface{}, w Warehouse) (interface{}, error) {
	ctx := context.Background()
	if 0 < s.Timeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	return s.interpreter.Exec(ctx, x, w, s.source.Props, s.source.Source, s.compiled)
}

// Spawn shares the compiled code, which isn't modified by execution.
func (s *Script) Spawn() Neuron {
	return &Script{
		source:      s.source,
		interpreter: s.interpreter,
		compiled:    s.compiled,
		Timeout:     s.Timeout,
	}
}
