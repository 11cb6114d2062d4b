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

package flow

import (
	"github.com/Comcast/tako/core"
)

// Repeat calls its sub-strand with the same input until the flag in
// the sub-strand's (flag, value) output equals BreakOn.  The output is
// the last value, or every value if OutputAll.
//
// By default there is no limit on iterations.  Set MaxIterations to
// get a RepeatExceeded error instead of looping forever.
type Repeat struct {
	core.Links
	strand        *core.Strand
	BreakOn       interface{}
	OutputAll     bool
	MaxIterations int
}

// NewRepeat makes a Repeat.
func NewRepeat(x interface{}, breakOn interface{}, outputAll bool) (*Repeat, error) {
	s, err := toStrand(x)
	if err != nil {
		return nil, err
	}
	return &Repeat{strand: s, BreakOn: breakOn, OutputAll: outputAll}, nil
}

func (r *Repeat) Call(x interface{}, w core.Warehouse) (interface{}, error) {
	var (
		all  []interface{}
		last interface{}
	)
	for i := 1; ; i++ {
		y, err := r.strand.Call(x, w)
		if err != nil {
			return nil, err
		}
		flag, v, err := core.Pair(y)
		if err != nil {
			return nil, err
		}
		last = v
		if r.OutputAll {
			all = append(all, v)
		}
		if core.Equal(flag, r.BreakOn) {
			break
		}
		if 0 < r.MaxIterations && r.MaxIterations <= i {
			return nil, &RepeatExceeded{Max: r.MaxIterations}
		}
	}
	if r.OutputAll {
		return all, nil
	}
	return last, nil
}

func (r *Repeat) BotDown(b core.Bot) {
	botDown(b, r.strand)
}

func (r *Repeat) Spawn() core.Neuron {
	return &Repeat{
		strand:        r.strand.Spawn(),
		BreakOn:       r.BreakOn,
		OutputAll:     r.OutputAll,
		MaxIterations: r.MaxIterations,
	}
}
