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

// Strand is a chain of Neurons with a head (lhs) and a tail (rhs).
type Strand struct {
	lhs, rhs Neuron
}

// NewStrand makes a Strand by converting each value with ToNeuron
// and connecting the results in order.
func NewStrand(xs ...interface{}) (*Strand, error) {
	if len(xs) == 0 {
		return nil, ErrEmptyStrand
	}
	var s *Strand
	for _, x := range xs {
		n, err := ToNeuron(x)
		if err != nil {
			return nil, err
		}
		if s == nil {
			s = &Strand{lhs: n, rhs: n}
			continue
		}
		if err = Connect(s.rhs, n); err != nil {
			return nil, err
		}
		s.rhs = n
	}
	return s, nil
}

// MustStrand is NewStrand that panics on error.  Only use it for
// package-level definitions and tests.
func MustStrand(xs ...interface{}) *Strand {
	s, err := NewStrand(xs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Chain joins a and b.  If a is already a Strand, b is appended to it
// and a is returned.  Otherwise a new two-Neuron Strand is made.
func Chain(a, b interface{}) (*Strand, error) {
	if s, is := a.(*Strand); is {
		if err := s.Append(b); err != nil {
			return nil, err
		}
		return s, nil
	}
	return NewStrand(a, b)
}

// Head returns the first Neuron.
func (s *Strand) Head() Neuron {
	return Resolve(s.lhs)
}

// Tail returns the last Neuron.
func (s *Strand) Tail() Neuron {
	return Resolve(s.rhs)
}

// Append converts x to a Neuron and adds it to the tail.
func (s *Strand) Append(x interface{}) error {
	n, err := ToNeuron(x)
	if err != nil {
		return err
	}
	if err = Connect(s.Tail(), n); err != nil {
		return err
	}
	s.rhs = n
	return nil
}

// Prepend converts x to a Neuron and adds it at the head.
func (s *Strand) Prepend(x interface{}) error {
	n, err := ToNeuron(x)
	if err != nil {
		return err
	}
	if err = Connect(n, s.Head()); err != nil {
		return err
	}
	s.lhs = n
	return nil
}

// Encapsulate makes sure the Strand starts with an In (or a Nil if
// leftNil) and ends with an Out.  Sentinels already in place are
// kept.
func (s *Strand) Encapsulate(leftNil bool) (*Strand, error) {
	if !IsTail(s.rhs) {
		if err := s.Append(&Out{}); err != nil {
			return nil, err
		}
	}
	if !IsHead(s.lhs) {
		var head Neuron = &In{}
		if leftNil {
			head = &Nil{}
		}
		if err := s.Prepend(head); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Neurons returns the Neurons from head to tail.
func (s *Strand) Neurons() []Neuron {
	var acc []Neuron
	tail := s.Tail()
	for n := s.Head(); n != nil; n = n.Linkage().outgoing {
		acc = append(acc, n)
		if n == tail {
			break
		}
	}
	return acc
}

// Len returns the number of Neurons in the Strand.
func (s *Strand) Len() int {
	return len(s.Neurons())
}

// Index returns the ith Neuron counting from the head.
func (s *Strand) Index(i int) (Neuron, error) {
	ns := s.Neurons()
	if i < 0 || len(ns) <= i {
		return nil, &IndexError{Index: i, Len: len(ns)}
	}
	return ns[i], nil
}

// Spawn makes an independent copy of the Strand by spawning every
// Neuron and connecting the copies.
func (s *Strand) Spawn() *Strand {
	var acc *Strand
	for _, n := range s.Neurons() {
		c := n.Spawn()
		if acc == nil {
			acc = &Strand{lhs: c, rhs: c}
			continue
		}
		// The original chain was valid, so the links are too.
		acc.rhs.Linkage().outgoing = c
		c.Linkage().incoming = acc.rhs
		acc.rhs = c
	}
	return acc
}

// Call forwards x from the head and returns the tail's output.
func (s *Strand) Call(x interface{}, w Warehouse) (interface{}, error) {
	return Forward(s.Head(), x, w)
}

// BotForward sends the Bot through the Strand.
func (s *Strand) BotForward(b Bot) {
	BotForward(s.Head(), b)
}

// AsNeuron wraps the Strand in an Arm.
func (s *Strand) AsNeuron() (Neuron, error) {
	return NewArm(s)
}

// Arm wraps a Strand so that it can be used as a single Neuron.
type Arm struct {
	Links
	strand *Strand
}

// NewArm encapsulates the Strand and wraps it.
func NewArm(s *Strand) (*Arm, error) {
	if _, err := s.Encapsulate(false); err != nil {
		return nil, err
	}
	return &Arm{strand: s}, nil
}

// ArmOf makes an Arm holding just the given Neuron (between
// sentinels).
func ArmOf(n Neuron) (*Arm, error) {
	s, err := NewStrand(n)
	if err != nil {
		return nil, err
	}
	return NewArm(s)
}

// ToArm makes an Arm from an Arm, a Strand, or anything ToNeuron
// accepts.
func ToArm(x interface{}) (*Arm, error) {
	switch vv := x.(type) {
	case *Arm:
		return vv, nil
	case *Strand:
		return NewArm(vv)
	}
	n, err := ToNeuron(x)
	if err != nil {
		return nil, err
	}
	return ArmOf(n)
}

// IsArmable reports whether x is an Arm or a Strand.
func IsArmable(x interface{}) bool {
	switch x.(type) {
	case *Arm, *Strand:
		return true
	}
	return false
}

// Strand returns the wrapped Strand.
func (a *Arm) Strand() *Strand {
	return a.strand
}

func (a *Arm) Call(x interface{}, w Warehouse) (interface{}, error) {
	return a.strand.Call(x, w)
}

func (a *Arm) BotDown(b Bot) {
	a.strand.BotForward(b)
}

func (a *Arm) Spawn() Neuron {
	return &Arm{strand: a.strand.Spawn()}
}
