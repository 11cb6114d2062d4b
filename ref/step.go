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

package ref

import (
	"fmt"
	"strings"

	"github.com/Comcast/tako/core"
)

// Step is one hop along a Ref's path.
type Step interface {
	// Apply computes the next value from the current one.  x is
	// the Ref's input.
	Apply(v, x interface{}, w core.Warehouse) (interface{}, error)

	// Spawn returns an unbound copy.
	Spawn() Step

	String() string
}

// Attr looks up a named attribute (see core.Attribute).
type Attr struct {
	Name string
}

func (s *Attr) Apply(v, x interface{}, w core.Warehouse) (interface{}, error) {
	return core.Attribute(v, s.Name)
}

func (s *Attr) Spawn() Step {
	return &Attr{Name: s.Name}
}

func (s *Attr) String() string {
	return "." + s.Name
}

// Idx indexes the current value (see core.Index).
type Idx struct {
	Key interface{}
}

func (s *Idx) Apply(v, x interface{}, w core.Warehouse) (interface{}, error) {
	return core.Index(v, s.Key)
}

func (s *Idx) Spawn() Step {
	return &Idx{Key: s.Key}
}

func (s *Idx) String() string {
	return fmt.Sprintf("[%v]", s.Key)
}

// InCall calls the current value.  Arguments that are Refs are
// resolved against the input first.
type InCall struct {
	args  []interface{}
	owner interface{}
	super interface{}
}

// NewInCall makes an InCall.  Placeholder arguments become Refs.
func NewInCall(args ...interface{}) *InCall {
	acc := make([]interface{}, len(args))
	for i, a := range args {
		if p, is := a.(*Placeholder); is {
			acc[i] = p.ref()
		} else {
			acc[i] = a
		}
	}
	return &InCall{args: acc}
}

// Args resolves the arguments for input x.
func (s *InCall) Args(x interface{}, w core.Warehouse) ([]interface{}, error) {
	acc := make([]interface{}, len(s.args))
	for i, a := range s.args {
		if r, is := a.(Ref); is {
			v, err := r.Call(x, w)
			if err != nil {
				return nil, err
			}
			acc[i] = v
		} else {
			acc[i] = a
		}
	}
	return acc, nil
}

func (s *InCall) Apply(v, x interface{}, w core.Warehouse) (interface{}, error) {
	args, err := s.Args(x, w)
	if err != nil {
		return nil, err
	}
	return core.Invoke(v, args, w)
}

// SetOwner binds the owner of Ref arguments.
func (s *InCall) SetOwner(owner interface{}) bool {
	if s.owner != nil {
		return false
	}
	s.owner = owner
	for _, a := range s.args {
		if o, is := a.(core.Owned); is {
			o.SetOwner(owner)
		}
	}
	return true
}

// SetSuper binds the super of Ref arguments.
func (s *InCall) SetSuper(super interface{}) bool {
	if s.super != nil {
		return false
	}
	s.super = super
	for _, a := range s.args {
		if c, is := a.(core.Child); is {
			c.SetSuper(super)
		}
	}
	return true
}

func (s *InCall) Spawn() Step {
	args := make([]interface{}, len(s.args))
	for i, a := range s.args {
		if r, is := a.(Ref); is {
			args[i] = r.Spawn()
		} else {
			args[i] = a
		}
	}
	return &InCall{args: args}
}

func (s *InCall) String() string {
	acc := make([]string, len(s.args))
	for i, a := range s.args {
		if st, is := a.(fmt.Stringer); is {
			acc[i] = st.String()
		} else {
			acc[i] = fmt.Sprintf("%v", a)
		}
	}
	return "(" + strings.Join(acc, ", ") + ")"
}

func spawnPath(path []Step) []Step {
	acc := make([]Step, len(path))
	for i, s := range path {
		acc[i] = s.Spawn()
	}
	return acc
}

func pathString(path []Step) string {
	var b strings.Builder
	for _, s := range path {
		b.WriteString(s.String())
	}
	return b.String()
}
