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
	"errors"
)

// Bot walks a chain (see BotForward) and does something at each
// Neuron.
type Bot interface {
	// Visit offers the Neuron to the Bot.  The return value
	// reports whether the walk should continue past n.
	Visit(n Neuron) bool

	// Reset clears the Bot's state for another run.
	Reset()
}

// BaseBot provides the visited set and the optional stop Neuron.
// Other Bots embed it.
//
// A BaseBot by itself visits without doing anything.
//
// Once the stop Neuron is reached, every later Neuron is refused
// until Reset or ResetVisits, including Neurons that follow a
// composite holding the stop Neuron.
type BaseBot struct {
	stopOn  Neuron
	stopped bool
	visited map[Neuron]bool
}

// StopOn sets the Neuron at which walks stop.  It can be set only
// once per run.
func (b *BaseBot) StopOn(n Neuron) error {
	if b.stopOn != nil {
		return ErrStopAlreadySet
	}
	b.stopOn = n
	return nil
}

// Stops reports whether the walk must not go on to n: either n is
// the stop Neuron or the stop Neuron was already reached.  Reaching
// the stop Neuron is recorded.
func (b *BaseBot) Stops(n Neuron) bool {
	if b.stopped {
		return true
	}
	if b.stopOn != nil && b.stopOn == n {
		b.stopped = true
	}
	return b.stopped
}

// Stopped reports whether the stop Neuron has been reached.
func (b *BaseBot) Stopped() bool {
	return b.stopped
}

// HasVisited reports whether n has been visited in this run.
func (b *BaseBot) HasVisited(n Neuron) bool {
	return b.visited[n]
}

// ToVisit reports whether n hasn't been visited and the walk hasn't
// reached the stop Neuron.
func (b *BaseBot) ToVisit(n Neuron) bool {
	return !b.Stops(n) && !b.HasVisited(n)
}

// MarkVisited records that n was visited.
func (b *BaseBot) MarkVisited(n Neuron) {
	if b.visited == nil {
		b.visited = make(map[Neuron]bool)
	}
	b.visited[n] = true
}

func (b *BaseBot) Visit(n Neuron) bool {
	if b.Stops(n) {
		return false
	}
	b.MarkVisited(n)
	return true
}

// Reset forgets visited Neurons and the stop Neuron.
func (b *BaseBot) Reset() {
	b.ResetVisits()
	b.stopOn = nil
}

// ResetVisits forgets visited Neurons and whether the stop Neuron was
// reached.  The stop Neuron itself is kept.
func (b *BaseBot) ResetVisits() {
	b.visited = nil
	b.stopped = false
}

// VisitResetter is implemented by Bots (such as Warehouses) that can
// clear their visit state without losing anything else.
type VisitResetter interface {
	ResetVisits()
}

// Capabilities that a Call Bot can invoke.

// Owned is implemented by Neurons that need to know the object that
// owns them.  SetOwner only succeeds once.
type Owned interface {
	SetOwner(owner interface{}) bool
}

// Child is implemented by Neurons that need to know their owner's
// parent level.  SetSuper only succeeds once.
type Child interface {
	SetSuper(super interface{}) bool
}

// ArgUpdater is implemented by Neurons whose construction arguments
// include Args.
type ArgUpdater interface {
	UpdateArgs(args []interface{}, kwargs map[string]interface{}) error
}

// Resetter is implemented by Neurons with state that can be reset.
type Resetter interface {
	Reset()
}

// Call is a Bot that invokes an operation on every visited Neuron
// that supports it.  Neurons that don't are skipped silently.
type Call struct {
	BaseBot

	// Name is just for error messages.
	Name string

	// Cond decides whether the operation applies to the Neuron.
	Cond func(Neuron) bool

	// Do performs the operation.
	Do func(Neuron) (interface{}, error)

	// Process handles each result.  By default results are
	// gathered for Report.
	Process func(n Neuron, result interface{})

	results map[Neuron]interface{}
	errs    []error
}

// CallOn makes a Call Bot that applies do to every Neuron that
// implements T.
func CallOn[T any](name string, do func(T) (interface{}, error)) *Call {
	return &Call{
		Name: name,
		Cond: func(n Neuron) bool {
			_, is := n.(T)
			return is
		},
		Do: func(n Neuron) (interface{}, error) {
			return do(n.(T))
		},
	}
}

// CallSetOwner makes a Bot that calls SetOwner on Owned Neurons.
func CallSetOwner(owner interface{}) *Call {
	return CallOn("SetOwner", func(n Owned) (interface{}, error) {
		return n.SetOwner(owner), nil
	})
}

// CallSetSuper makes a Bot that calls SetSuper on Child Neurons.
func CallSetSuper(super interface{}) *Call {
	return CallOn("SetSuper", func(n Child) (interface{}, error) {
		return n.SetSuper(super), nil
	})
}

// CallUpdateArgs makes a Bot that calls UpdateArgs on ArgUpdater
// Neurons.
func CallUpdateArgs(args []interface{}, kwargs map[string]interface{}) *Call {
	return CallOn("UpdateArgs", func(n ArgUpdater) (interface{}, error) {
		return nil, n.UpdateArgs(args, kwargs)
	})
}

// CallReset makes a Bot that calls Reset on Resetter Neurons.
func CallReset() *Call {
	return CallOn("Reset", func(n Resetter) (interface{}, error) {
		n.Reset()
		return nil, nil
	})
}

func (c *Call) Visit(n Neuron) bool {
	if c.Stops(n) {
		return false
	}
	if c.HasVisited(n) {
		return true
	}
	c.MarkVisited(n)
	if c.Cond != nil && !c.Cond(n) {
		return true
	}
	if c.Do == nil {
		return true
	}
	result, err := c.Do(n)
	if err != nil {
		c.errs = append(c.errs, err)
	}
	if c.Process != nil {
		c.Process(n, result)
	} else {
		if c.results == nil {
			c.results = make(map[Neuron]interface{})
		}
		c.results[n] = result
	}
	return true
}

// Report returns the gathered results, keyed by Neuron.
func (c *Call) Report() map[Neuron]interface{} {
	return c.results
}

// Err returns the errors returned by Do during this run, if any.
func (c *Call) Err() error {
	return errors.Join(c.errs...)
}

// Reset prepares the Bot for another run.
func (c *Call) Reset() {
	c.BaseBot.Reset()
	c.results = nil
	c.errs = nil
}
