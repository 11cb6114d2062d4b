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

// Package core provides the gear for building linear graphs of
// processing nodes.
//
// The primary type is Neuron.  A Neuron has at most one incoming and
// at most one outgoing link, so Neurons connect into chains.  A
// Strand is such a chain with a head and a tail.  An Arm wraps a
// Strand so that the whole chain can act as a single Neuron inside
// another chain.  Branching is done by composite Neurons that hold
// separate sub-strands (see package flow).
//
// A value moves through a chain via Forward (or Strand.Call).  A Bot
// instead walks a chain with BotForward and does something at each
// Neuron it visits.  A Warehouse is a Bot that also provides a keyed
// scratch store, which is passed along with each value so that Neurons
// can communicate during a single pass.
//
// A Declaration is a Neuron that defers building its real Neuron
// until the first value arrives.  After that, the chain holds the
// real Neuron and the Declaration is out of the picture.  A Stem
// builds Neurons from templates whose arguments (Args) are supplied
// later.
//
// Ordinary values become Neurons via ToNeuron: a Neuron is used as
// is, a Neuroner is asked to convert itself, nil becomes a Noop, and
// a function becomes an Op.
package core
