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

// Tracer is a Bot that records the Neurons it visits, in order.
type Tracer struct {
	BaseBot
	Visited []Neuron
}

// NewTracer makes a Tracer.
func NewTracer() *Tracer {
	return &Tracer{}
}

func (t *Tracer) Visit(n Neuron) bool {
	if t.Stops(n) {
		return false
	}
	if !t.HasVisited(n) {
		t.MarkVisited(n)
		t.Visited = append(t.Visited, n)
	}
	return true
}

// Reset forgets the trace.
func (t *Tracer) Reset() {
	t.BaseBot.Reset()
	t.Visited = nil
}

// Kinds returns the Go type of each visited Neuron.
func (t *Tracer) Kinds() []string {
	acc := make([]string, len(t.Visited))
	for i, n := range t.Visited {
		acc[i] = fmt.Sprintf("%T", n)
	}
	return acc
}

// Trace sends a fresh Tracer through the Strand and returns it.
func Trace(s *Strand) *Tracer {
	t := NewTracer()
	s.BotForward(t)
	return t
}
