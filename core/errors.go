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

// These errors are user errors: something about the graph or its
// inputs isn't right.

import (
	"errors"
	"fmt"
)

// LinkAlreadySet occurs when Connect would overwrite an existing
// link.  A Neuron has at most one incoming and one outgoing link.
type LinkAlreadySet struct {
	From, To Neuron

	// Side is "outgoing" if From already had a successor or
	// "incoming" if To already had a predecessor.
	Side string
}

func (e *LinkAlreadySet) Error() string {
	return fmt.Sprintf("%s link already set connecting %T to %T", e.Side, e.From, e.To)
}

// SentinelViolation occurs when a sentinel is asked to accept a link
// it forbids (for example, an incoming link to In).
type SentinelViolation struct {
	Sentinel Neuron
	Side     string
}

func (e *SentinelViolation) Error() string {
	return fmt.Sprintf("%T cannot have an %s link", e.Sentinel, e.Side)
}

// NotNeuronable occurs when ToNeuron doesn't know how to make a
// Neuron from the given value.
type NotNeuronable struct {
	Value interface{}
}

func (e *NotNeuronable) Error() string {
	return fmt.Sprintf("can't make a neuron from %T", e.Value)
}

// IndexError occurs when an index is out of range.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range (length %d)", e.Index, e.Len)
}

// KeyError occurs when a key isn't present.
type KeyError struct {
	Key interface{}
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("key %#v not found", e.Key)
}

// AttributeError occurs when a named attribute can't be found.
type AttributeError struct {
	Name   string
	Target interface{}
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf(`attribute "%s" not found on %T`, e.Name, e.Target)
}

// TypeError occurs when an operation is applied to a value that
// doesn't support it.
type TypeError struct {
	Op    string
	Value interface{}
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s not supported by %T", e.Op, e.Value)
}

// ArgNotFound occurs when an Arg refers to a position or keyword that
// wasn't supplied.
type ArgNotFound struct {
	Arg *Arg
}

func (e *ArgNotFound) Error() string {
	return fmt.Sprintf("argument %s not supplied", e.Arg)
}

// UnresolvedArg occurs when a Declaration is defined while one of its
// arguments is still an Arg.
type UnresolvedArg struct {
	Arg *Arg
}

func (e *UnresolvedArg) Error() string {
	return fmt.Sprintf("argument %s not resolved before definition", e.Arg)
}

// ArityError occurs when a composite is given the wrong number of
// sub-strands or inputs.
type ArityError struct {
	What      string
	Want, Got int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: want %d, got %d", e.What, e.Want, e.Got)
}

var (
	// ErrNilInput occurs when a Nil sentinel receives a non-nil
	// value.
	ErrNilInput = errors.New("input to a Nil neuron must be nil")

	// ErrEmitInput occurs when an Emit neuron receives a non-nil
	// value.
	ErrEmitInput = errors.New("emit neurons must not take an input")

	// ErrEmptyStrand occurs when a Strand is made from nothing.
	ErrEmptyStrand = errors.New("a strand needs at least one neuron")

	// ErrStopAlreadySet occurs when a Bot's stop neuron is set
	// twice in one run.
	ErrStopAlreadySet = errors.New("bot stop neuron already set")

	// ErrNotPair occurs when a neuron expecting a two-element
	// input gets something else.
	ErrNotPair = errors.New("input must be a pair")

	// ErrNoWarehouse occurs when a neuron that needs a Warehouse
	// is called without one.
	ErrNoWarehouse = errors.New("no warehouse")
)

// InterpreterNotFound occurs when compiling a ScriptSource that names
// an interpreter that isn't available.
type InterpreterNotFound struct {
	Name string
}

func (e *InterpreterNotFound) Error() string {
	return fmt.Sprintf("interpreter %q not found", e.Name)
}
