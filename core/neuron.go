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
	"reflect"
)

// Links holds a Neuron's connections.  Embed Links in a Neuron
// implementation to get Linkage().
type Links struct {
	incoming Neuron
	outgoing Neuron
}

// Linkage returns the Links itself.
func (l *Links) Linkage() *Links {
	return l
}

// Incoming returns the predecessor, if any.
func (l *Links) Incoming() Neuron {
	return l.incoming
}

// Outgoing returns the successor, if any.
func (l *Links) Outgoing() Neuron {
	return l.outgoing
}

// Neuron is a node in a linear chain.
type Neuron interface {
	// Linkage gives access to the Neuron's links.
	Linkage() *Links

	// Call runs this Neuron (and only this Neuron) on the given
	// input.  The Warehouse can be nil.
	Call(x interface{}, w Warehouse) (interface{}, error)

	// Spawn returns a fresh, unlinked Neuron that behaves like
	// this one.  Composites spawn their sub-strands.
	Spawn() Neuron
}

// Neuroner can convert itself to a Neuron.
type Neuroner interface {
	AsNeuron() (Neuron, error)
}

// Sentinel is implemented by Neurons that restrict their links.
type Sentinel interface {
	AcceptsIncoming() bool
	AcceptsOutgoing() bool
}

// BotDowner is implemented by composite Neurons, which send a Bot
// into every sub-strand they hold.
type BotDowner interface {
	BotDown(b Bot)
}

// Keyed is implemented by Neurons that provide their own Warehouse
// key.
type Keyed interface {
	Key() string
}

// KeyOf returns the identity key for the Neuron.
func KeyOf(n Neuron) string {
	if k, is := n.(Keyed); is {
		return k.Key()
	}
	return fmt.Sprintf("%p", n)
}

// Connect links from to to.
func Connect(from, to Neuron) error {
	from, to = Resolve(from), Resolve(to)
	if s, is := from.(Sentinel); is && !s.AcceptsOutgoing() {
		return &SentinelViolation{Sentinel: from, Side: "outgoing"}
	}
	if s, is := to.(Sentinel); is && !s.AcceptsIncoming() {
		return &SentinelViolation{Sentinel: to, Side: "incoming"}
	}
	fl, tl := from.Linkage(), to.Linkage()
	if fl.outgoing != nil {
		return &LinkAlreadySet{From: from, To: to, Side: "outgoing"}
	}
	if tl.incoming != nil {
		return &LinkAlreadySet{From: from, To: to, Side: "incoming"}
	}
	fl.outgoing = to
	tl.incoming = from
	return nil
}

// Resolve returns the Neuron that currently stands in for n.  For a
// static Declaration that has been defined, that's the defined
// Neuron.  Otherwise it's n itself.
func Resolve(n Neuron) Neuron {
	if d, is := n.(*Declaration); is {
		if r := d.resolved(); r != nil {
			return r
		}
	}
	return n
}

// Forward calls n with x and then pushes the result along the chain.
// The output of the last Neuron is returned.
func Forward(n Neuron, x interface{}, w Warehouse) (interface{}, error) {
	for n != nil {
		y, err := n.Call(x, w)
		if err != nil {
			return nil, err
		}
		x = y
		// Read the link after the call, which might have spliced
		// a Declaration out of the chain.
		n = n.Linkage().outgoing
	}
	return x, nil
}

// BotForward sends the Bot along the chain starting at n.  Each
// Neuron is offered to the Bot, and composite Neurons send the Bot
// into their sub-strands.  The walk ends at the tail or when the Bot
// declines to continue.
func BotForward(n Neuron, b Bot) {
	for ; n != nil; n = n.Linkage().outgoing {
		if !botVisit(n, b) {
			return
		}
	}
}

// botVisit offers n (but not its successors) to the Bot.
func botVisit(n Neuron, b Bot) bool {
	if !b.Visit(n) {
		return false
	}
	if c, is := n.(BotDowner); is {
		c.BotDown(b)
	}
	return true
}

// ToNeuron makes a Neuron from x.
//
// A Neuron is returned as is.  A Neuroner converts itself.  nil
// becomes a Noop.  A function of one argument becomes an Op.
func ToNeuron(x interface{}) (Neuron, error) {
	switch vv := x.(type) {
	case Neuron:
		return vv, nil
	case Neuroner:
		return vv.AsNeuron()
	case nil:
		return &Noop{}, nil
	case func(interface{}) interface{}:
		return NewOp(func(x interface{}) (interface{}, error) {
			return vv(x), nil
		}), nil
	case func(interface{}) (interface{}, error):
		return NewOp(vv), nil
	}
	if f, err := reflectOp(x); err == nil {
		return NewOp(f), nil
	}
	return nil, &NotNeuronable{Value: x}
}

// MustNeuron is ToNeuron that panics on error.  Only use it for
// package-level definitions.
func MustNeuron(x interface{}) Neuron {
	n, err := ToNeuron(x)
	if err != nil {
		panic(err)
	}
	return n
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// reflectOp adapts functions like func(int) int or
// func(string) (string, error).
func reflectOp(x interface{}) (func(interface{}) (interface{}, error), error) {
	v := reflect.ValueOf(x)
	if v.Kind() != reflect.Func {
		return nil, &NotNeuronable{Value: x}
	}
	t := v.Type()
	if t.NumIn() != 1 || t.IsVariadic() {
		return nil, &NotNeuronable{Value: x}
	}
	withErr := false
	switch t.NumOut() {
	case 1:
	case 2:
		if t.Out(1) != errorType {
			return nil, &NotNeuronable{Value: x}
		}
		withErr = true
	default:
		return nil, &NotNeuronable{Value: x}
	}
	in := t.In(0)
	return func(x interface{}) (interface{}, error) {
		arg, err := convertArg(x, in)
		if err != nil {
			return nil, err
		}
		out := v.Call([]reflect.Value{arg})
		if withErr && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}, nil
}

// convertArg makes a reflect.Value of type t from x.
func convertArg(x interface{}, t reflect.Type) (reflect.Value, error) {
	if x == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(x)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if v.Type().ConvertibleTo(t) && isNumber(v.Kind()) == isNumber(t.Kind()) {
		return v.Convert(t), nil
	}
	return reflect.Value{}, &TypeError{Op: "argument of type " + t.String(), Value: x}
}
