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

	"github.com/Comcast/tako/core"
)

// Ref is a Neuron whose output is found by walking a path.
type Ref interface {
	core.Neuron
	Path() []Step
}

// refBase holds the path and the one-time bindings shared by all
// Refs.  Bindings are passed on to InCall steps so that their Ref
// arguments are bound too.
type refBase struct {
	core.Links
	path  []Step
	owner interface{}
	super interface{}
}

func (r *refBase) Path() []Step {
	return r.path
}

func (r *refBase) walk(v, x interface{}, w core.Warehouse) (interface{}, error) {
	for _, s := range r.path {
		next, err := s.Apply(v, x, w)
		if err != nil {
			return nil, err
		}
		v = next
	}
	return v, nil
}

// SetOwner binds the owner.  Only the first binding counts.
func (r *refBase) SetOwner(owner interface{}) bool {
	if r.owner != nil || owner == nil {
		return false
	}
	r.owner = owner
	for _, s := range r.path {
		if o, is := s.(core.Owned); is {
			o.SetOwner(owner)
		}
	}
	return true
}

// SetSuper binds the super.  Only the first binding counts.
func (r *refBase) SetSuper(super interface{}) bool {
	if r.super != nil || super == nil {
		return false
	}
	r.super = super
	for _, s := range r.path {
		if c, is := s.(core.Child); is {
			c.SetSuper(super)
		}
	}
	return true
}

// EmissionRef walks its path from its input.
type EmissionRef struct {
	refBase
}

// NewEmissionRef makes an EmissionRef.
func NewEmissionRef(path ...Step) *EmissionRef {
	return &EmissionRef{refBase{path: path}}
}

func (r *EmissionRef) Call(x interface{}, w core.Warehouse) (interface{}, error) {
	return r.walk(x, x, w)
}

func (r *EmissionRef) Spawn() core.Neuron {
	return NewEmissionRef(spawnPath(r.path)...)
}

func (r *EmissionRef) String() string {
	return "emission" + pathString(r.path)
}

// MyRef walks its path from its owner.
type MyRef struct {
	refBase
}

// NewMyRef makes an unbound MyRef.
func NewMyRef(path ...Step) *MyRef {
	return &MyRef{refBase{path: path}}
}

// Owner returns the bound owner, if any.
func (r *MyRef) Owner() interface{} {
	return r.owner
}

func (r *MyRef) Call(x interface{}, w core.Warehouse) (interface{}, error) {
	return r.walk(r.owner, x, w)
}

func (r *MyRef) Spawn() core.Neuron {
	return NewMyRef(spawnPath(r.path)...)
}

func (r *MyRef) String() string {
	return "my" + pathString(r.path)
}

// SuperRef walks its path from its owner's parent level.
type SuperRef struct {
	refBase
}

// NewSuperRef makes an unbound SuperRef.
func NewSuperRef(path ...Step) *SuperRef {
	return &SuperRef{refBase{path: path}}
}

// Super returns the bound super, if any.
func (r *SuperRef) Super() interface{} {
	return r.super
}

func (r *SuperRef) Call(x interface{}, w core.Warehouse) (interface{}, error) {
	return r.walk(r.super, x, w)
}

func (r *SuperRef) Spawn() core.Neuron {
	return NewSuperRef(spawnPath(r.path)...)
}

func (r *SuperRef) String() string {
	return "super" + pathString(r.path)
}

// ValRef walks its path from a fixed value.
type ValRef struct {
	refBase
	val interface{}
}

// NewValRef makes a ValRef.
func NewValRef(val interface{}, path ...Step) *ValRef {
	return &ValRef{refBase: refBase{path: path}, val: val}
}

func (r *ValRef) Call(x interface{}, w core.Warehouse) (interface{}, error) {
	return r.walk(r.val, x, w)
}

func (r *ValRef) Spawn() core.Neuron {
	return NewValRef(r.val, spawnPath(r.path)...)
}

func (r *ValRef) String() string {
	return "val" + pathString(r.path)
}

// NeuronRef resolves a Ref to something Neuron-like and then calls
// that with its input.
//
// For example, R(My().Attr("encoder")) runs the owner's encoder arm.
type NeuronRef struct {
	core.Links
	ref   core.Neuron
	owner interface{}
	super interface{}
}

// R makes a NeuronRef from a Placeholder or a Ref.
func R(x interface{}) (*NeuronRef, error) {
	switch vv := x.(type) {
	case *Placeholder:
		return &NeuronRef{ref: vv.ref()}, nil
	case core.Neuron:
		return &NeuronRef{ref: vv}, nil
	}
	return nil, &core.TypeError{Op: "neuron reference", Value: x}
}

// MustR is R that panics on error.
func MustR(x interface{}) *NeuronRef {
	r, err := R(x)
	if err != nil {
		panic(err)
	}
	return r
}

// Ref returns the underlying Ref.
func (r *NeuronRef) Ref() core.Neuron {
	return r.ref
}

func (r *NeuronRef) String() string {
	return fmt.Sprintf("R(%v)", r.ref)
}

// Target resolves the reference for input x.
func (r *NeuronRef) Target(x interface{}, w core.Warehouse) (core.Neuron, error) {
	v, err := r.ref.Call(x, w)
	if err != nil {
		return nil, err
	}
	return core.ToNeuron(v)
}

// TargetKey returns the key of the Neuron the reference resolves to
// (with a nil input).
func (r *NeuronRef) TargetKey(w core.Warehouse) (string, error) {
	n, err := r.Target(nil, w)
	if err != nil {
		return "", err
	}
	return core.KeyOf(n), nil
}

func (r *NeuronRef) Call(x interface{}, w core.Warehouse) (interface{}, error) {
	n, err := r.Target(x, w)
	if err != nil {
		return nil, err
	}
	return n.Call(x, w)
}

func (r *NeuronRef) SetOwner(owner interface{}) bool {
	if r.owner != nil || owner == nil {
		return false
	}
	r.owner = owner
	if o, is := r.ref.(core.Owned); is {
		o.SetOwner(owner)
	}
	return true
}

func (r *NeuronRef) SetSuper(super interface{}) bool {
	if r.super != nil || super == nil {
		return false
	}
	r.super = super
	if c, is := r.ref.(core.Child); is {
		c.SetSuper(super)
	}
	return true
}

func (r *NeuronRef) Spawn() core.Neuron {
	return &NeuronRef{ref: r.ref.Spawn()}
}

// ApplyRef calls a fixed function with arguments resolved from its
// input.
type ApplyRef struct {
	core.Links
	f    interface{}
	call *InCall
}

// Apply makes an ApplyRef.  Placeholder arguments become Refs.
func Apply(f interface{}, args ...interface{}) *ApplyRef {
	return &ApplyRef{f: f, call: NewInCall(args...)}
}

func (r *ApplyRef) Call(x interface{}, w core.Warehouse) (interface{}, error) {
	return r.call.Apply(r.f, x, w)
}

func (r *ApplyRef) SetOwner(owner interface{}) bool {
	return r.call.SetOwner(owner)
}

func (r *ApplyRef) SetSuper(super interface{}) bool {
	return r.call.SetSuper(super)
}

func (r *ApplyRef) Spawn() core.Neuron {
	return &ApplyRef{f: r.f, call: r.call.Spawn().(*InCall)}
}
