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

// In marks the head of a chain.  It can't have an incoming link and
// passes its input through.
type In struct {
	Links
}

func (n *In) Call(x interface{}, w Warehouse) (interface{}, error) {
	return x, nil
}

func (n *In) Spawn() Neuron {
	return &In{}
}

func (n *In) AcceptsIncoming() bool { return false }
func (n *In) AcceptsOutgoing() bool { return true }

// Out marks the tail of a chain.  It can't have an outgoing link and
// passes its input through.
type Out struct {
	Links
}

func (n *Out) Call(x interface{}, w Warehouse) (interface{}, error) {
	return x, nil
}

func (n *Out) Spawn() Neuron {
	return &Out{}
}

func (n *Out) AcceptsIncoming() bool { return true }
func (n *Out) AcceptsOutgoing() bool { return false }

// Nil is an In for chains that take no input, such as chains that
// start with an Emit.  Its input must be nil.
type Nil struct {
	Links
}

func (n *Nil) Call(x interface{}, w Warehouse) (interface{}, error) {
	if x != nil {
		return nil, ErrNilInput
	}
	return nil, nil
}

func (n *Nil) Spawn() Neuron {
	return &Nil{}
}

func (n *Nil) AcceptsIncoming() bool { return false }
func (n *Nil) AcceptsOutgoing() bool { return true }

// IsHead reports whether n is an In or a Nil.
func IsHead(n Neuron) bool {
	switch Resolve(n).(type) {
	case *In, *Nil:
		return true
	}
	return false
}

// IsTail reports whether n is an Out.
func IsTail(n Neuron) bool {
	_, is := Resolve(n).(*Out)
	return is
}

// InChain makes a Strand that starts with an In.
func InChain(xs ...interface{}) (*Strand, error) {
	return NewStrand(append([]interface{}{&In{}}, xs...)...)
}

// NilChain makes a Strand that starts with a Nil.
func NilChain(xs ...interface{}) (*Strand, error) {
	return NewStrand(append([]interface{}{&Nil{}}, xs...)...)
}
