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

// Delay is a delay line.  Each call stores its input and returns the
// input from Count calls ago, or Default until that many calls have
// happened.
type Delay struct {
	core.Links
	count   int
	Default interface{}
	vals    []interface{}
}

// NewDelay makes a Delay.
func NewDelay(count int, def interface{}) (*Delay, error) {
	if count < 1 {
		return nil, ErrBadDelay
	}
	d := &Delay{
		count:   count,
		Default: def,
	}
	d.Reset()
	return d, nil
}

// Count returns the length of the delay.
func (d *Delay) Count() int {
	return d.count
}

// Reset fills the buffer with the default.
func (d *Delay) Reset() {
	d.vals = make([]interface{}, d.count)
	for i := range d.vals {
		d.vals[i] = d.Default
	}
}

func (d *Delay) Call(x interface{}, w core.Warehouse) (interface{}, error) {
	cur := d.vals[0]
	copy(d.vals, d.vals[1:])
	d.vals[len(d.vals)-1] = x
	return cur, nil
}

func (d *Delay) Spawn() core.Neuron {
	c, _ := NewDelay(d.count, d.Default)
	return c
}
