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
	"github.com/Comcast/tako/core"
)

type base int

const (
	baseEmission base = iota
	baseMy
	baseSuper
	baseVal
)

// Placeholder builds a Ref.  Attr, Idx, and Call add a step and
// return the same Placeholder.  Each conversion to a Neuron makes a
// new Ref.
type Placeholder struct {
	base base
	val  interface{}
	path []Step
}

// Emission starts a path from the input.
func Emission() *Placeholder {
	return &Placeholder{base: baseEmission}
}

// My starts a path from the owner.
func My() *Placeholder {
	return &Placeholder{base: baseMy}
}

// Super starts a path from the owner's parent level.
func Super() *Placeholder {
	return &Placeholder{base: baseSuper}
}

// Val starts a path from the given value.
func Val(v interface{}) *Placeholder {
	return &Placeholder{base: baseVal, val: v}
}

// Attr adds an Attr step.
func (p *Placeholder) Attr(name string) *Placeholder {
	p.path = append(p.path, &Attr{Name: name})
	return p
}

// Idx adds an Idx step.
func (p *Placeholder) Idx(key interface{}) *Placeholder {
	p.path = append(p.path, &Idx{Key: key})
	return p
}

// Call adds an InCall step.
func (p *Placeholder) Call(args ...interface{}) *Placeholder {
	p.path = append(p.path, NewInCall(args...))
	return p
}

func (p *Placeholder) ref() Ref {
	path := spawnPath(p.path)
	switch p.base {
	case baseMy:
		return NewMyRef(path...)
	case baseSuper:
		return NewSuperRef(path...)
	case baseVal:
		return NewValRef(p.val, path...)
	default:
		return NewEmissionRef(path...)
	}
}

// AsNeuron makes the Ref.
func (p *Placeholder) AsNeuron() (core.Neuron, error) {
	return p.ref(), nil
}

func (p *Placeholder) String() string {
	return p.ref().(interface{ String() string }).String()
}
