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
	"fmt"
)

// Arg is a placeholder for an argument that is supplied later, either
// by position or by keyword.
type Arg struct {
	pos  int
	name string
}

// ArgAt refers to the ith positional argument.
func ArgAt(i int) *Arg {
	return &Arg{pos: i}
}

// ArgNamed refers to a keyword argument.
func ArgNamed(name string) *Arg {
	return &Arg{pos: -1, name: name}
}

func (a *Arg) String() string {
	if a.pos < 0 {
		return a.name
	}
	return fmt.Sprintf("#%d", a.pos)
}

// Resolve finds the Arg's value in the given arguments.
func (a *Arg) Resolve(args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if a.pos < 0 {
		v, have := kwargs[a.name]
		if !have {
			return nil, &ArgNotFound{Arg: a}
		}
		return v, nil
	}
	if len(args) <= a.pos {
		return nil, &ArgNotFound{Arg: a}
	}
	return args[a.pos], nil
}

// ResolveArg resolves x if it is an Arg and otherwise returns x.
func ResolveArg(x interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if a, is := x.(*Arg); is {
		return a.Resolve(args, kwargs)
	}
	return x, nil
}

func resolveArgs(xs []interface{}, kxs map[string]interface{}, args []interface{}, kwargs map[string]interface{}) ([]interface{}, map[string]interface{}, error) {
	acc := make([]interface{}, len(xs))
	for i, x := range xs {
		v, err := ResolveArg(x, args, kwargs)
		if err != nil {
			return nil, nil, err
		}
		acc[i] = v
	}
	kacc := make(map[string]interface{}, len(kxs))
	for k, x := range kxs {
		v, err := ResolveArg(x, args, kwargs)
		if err != nil {
			return nil, nil, err
		}
		kacc[k] = v
	}
	return acc, kacc, nil
}

// Factory builds something ToNeuron accepts.
type Factory func(args []interface{}, kwargs map[string]interface{}) (interface{}, error)

// Declaration defers building a Neuron until a value arrives.
//
// A static Declaration is defined on its first call.  The defined
// Neuron takes the Declaration's place in the chain, and later calls
// go straight to it.  A dynamic Declaration builds a new Neuron for
// every call and stays in the chain.
type Declaration struct {
	Links
	factory Factory
	args    []interface{}
	kwargs  map[string]interface{}
	dynamic bool

	// defined is nil while pending.
	defined Neuron

	// Bindings to pass on to defined Neurons.
	owner, super interface{}
}

// NewDeclaration makes a pending Declaration.
func NewDeclaration(f Factory, args []interface{}, kwargs map[string]interface{}, dynamic bool) *Declaration {
	return &Declaration{
		factory: f,
		args:    args,
		kwargs:  kwargs,
		dynamic: dynamic,
	}
}

// Declare makes a static Declaration with positional arguments.
func Declare(f Factory, args ...interface{}) *Declaration {
	return NewDeclaration(f, args, nil, false)
}

// Dynamic reports whether the Declaration redefines on every call.
func (d *Declaration) Dynamic() bool {
	return d.dynamic
}

// Defined returns the defined Neuron, or nil if the Declaration is
// still pending.
func (d *Declaration) Defined() Neuron {
	return d.defined
}

// Args returns the current positional arguments.
func (d *Declaration) Args() []interface{} {
	return d.args
}

// Kwargs returns the current keyword arguments.
func (d *Declaration) Kwargs() map[string]interface{} {
	return d.kwargs
}

func (d *Declaration) resolved() Neuron {
	if d.dynamic {
		return nil
	}
	return d.defined
}

// Define builds a new Neuron from the factory.  It doesn't change the
// Declaration.
func (d *Declaration) Define() (Neuron, error) {
	args := make([]interface{}, len(d.args))
	for i, x := range d.args {
		if a, is := x.(*Arg); is {
			return nil, &UnresolvedArg{Arg: a}
		}
		args[i] = x
	}
	kwargs := make(map[string]interface{}, len(d.kwargs))
	for k, x := range d.kwargs {
		if a, is := x.(*Arg); is {
			return nil, &UnresolvedArg{Arg: a}
		}
		kwargs[k] = x
	}
	v, err := d.factory(args, kwargs)
	if err != nil {
		return nil, err
	}
	n, err := ToNeuron(v)
	if err != nil {
		return nil, err
	}
	d.bind(n)
	return n, nil
}

// bind passes the Declaration's owner and super on to n.
func (d *Declaration) bind(n Neuron) {
	if d.owner != nil {
		botVisit(n, CallSetOwner(d.owner))
	}
	if d.super != nil {
		botVisit(n, CallSetSuper(d.super))
	}
}

// SetOwner records the owner for Neurons defined later.
func (d *Declaration) SetOwner(owner interface{}) bool {
	if d.owner != nil {
		return false
	}
	d.owner = owner
	if d.defined != nil {
		botVisit(d.defined, CallSetOwner(owner))
	}
	return true
}

// SetSuper records the super for Neurons defined later.
func (d *Declaration) SetSuper(super interface{}) bool {
	if d.super != nil {
		return false
	}
	d.super = super
	if d.defined != nil {
		botVisit(d.defined, CallSetSuper(super))
	}
	return true
}

// splice puts n in the Declaration's place.  The Declaration keeps
// its own links so that a Forward in progress can continue.
func (d *Declaration) splice(n Neuron) error {
	nl := n.Linkage()
	if nl.incoming != nil || nl.outgoing != nil {
		return &LinkAlreadySet{From: d, To: n, Side: "defined"}
	}
	if d.incoming != nil {
		d.incoming.Linkage().outgoing = n
		nl.incoming = d.incoming
	}
	if d.outgoing != nil {
		d.outgoing.Linkage().incoming = n
		nl.outgoing = d.outgoing
	}
	return nil
}

func (d *Declaration) Call(x interface{}, w Warehouse) (interface{}, error) {
	if d.dynamic {
		n, err := d.Define()
		if err != nil {
			return nil, err
		}
		return n.Call(x, w)
	}
	if d.defined == nil {
		n, err := d.Define()
		if err != nil {
			return nil, err
		}
		if err = d.splice(n); err != nil {
			return nil, err
		}
		d.defined = n
	}
	return d.defined.Call(x, w)
}

// UpdateArgs replaces the Declaration's Args with values from the
// given arguments.
func (d *Declaration) UpdateArgs(args []interface{}, kwargs map[string]interface{}) error {
	xs, kxs, err := resolveArgs(d.args, d.kwargs, args, kwargs)
	if err != nil {
		return err
	}
	d.args, d.kwargs = xs, kxs
	return nil
}

// Spawn returns a pending copy.
func (d *Declaration) Spawn() Neuron {
	args := make([]interface{}, len(d.args))
	copy(args, d.args)
	kwargs := make(map[string]interface{}, len(d.kwargs))
	for k, v := range d.kwargs {
		kwargs[k] = v
	}
	return NewDeclaration(d.factory, args, kwargs, d.dynamic)
}

// Reversible is implemented by Neurons that know how to build their
// mirror image (for example, a decoder for an encoder).
type Reversible interface {
	Reverse() (Neuron, error)
}

// Reverse declares the reverse of n.  When defined, a Reversible is
// asked for its reverse and anything else is spawned.  If n is a
// pending Declaration, a fresh definition of it is reversed.
func Reverse(n Neuron, dynamic bool) *Declaration {
	f := func(_ []interface{}, _ map[string]interface{}) (interface{}, error) {
		target := Resolve(n)
		if d, is := target.(*Declaration); is {
			defined, err := d.Define()
			if err != nil {
				return nil, err
			}
			target = defined
		}
		if r, is := target.(Reversible); is {
			return r.Reverse()
		}
		return target.Spawn(), nil
	}
	return NewDeclaration(f, nil, nil, dynamic)
}

// Stem builds Neurons from a Factory and an argument template that
// can contain Args.
type Stem struct {
	factory Factory
	args    []interface{}
	kwargs  map[string]interface{}
}

// NewStem makes a Stem.
func NewStem(f Factory, args []interface{}, kwargs map[string]interface{}) *Stem {
	return &Stem{
		factory: f,
		args:    args,
		kwargs:  kwargs,
	}
}

// TemplateStem makes a Stem that builds Arms from copies of the
// given Strand.  Args in Declarations inside the template are
// resolved by Make.
func TemplateStem(template *Strand) *Stem {
	f := func(_ []interface{}, _ map[string]interface{}) (interface{}, error) {
		return NewArm(template.Spawn())
	}
	return NewStem(f, nil, nil)
}

// Make resolves the Stem's top-level Args, builds the Neuron, and then
// sends an UpdateArgs Bot through it so that nested Declarations get
// their arguments too.
func (s *Stem) Make(args []interface{}, kwargs map[string]interface{}) (Neuron, error) {
	xs, kxs, err := resolveArgs(s.args, s.kwargs, args, kwargs)
	if err != nil {
		return nil, err
	}
	v, err := s.factory(xs, kxs)
	if err != nil {
		return nil, err
	}
	n, err := ToNeuron(v)
	if err != nil {
		return nil, err
	}
	b := CallUpdateArgs(args, kwargs)
	BotForward(n, b)
	if err = b.Err(); err != nil {
		return nil, err
	}
	return n, nil
}
