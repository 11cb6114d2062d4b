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

// Noop passes its input through.
type Noop struct {
	Links
}

func (n *Noop) Call(x interface{}, w Warehouse) (interface{}, error) {
	return x, nil
}

func (n *Noop) Spawn() Neuron {
	return &Noop{}
}

// OpFunc is the body of an Op.
type OpFunc func(x interface{}) (interface{}, error)

// Op calls a function of its input.
type Op struct {
	Links
	F OpFunc
}

// NewOp makes an Op.
func NewOp(f OpFunc) *Op {
	return &Op{F: f}
}

func (n *Op) Call(x interface{}, w Warehouse) (interface{}, error) {
	return n.F(x)
}

func (n *Op) Spawn() Neuron {
	return &Op{F: n.F}
}

// Sub outputs an item of its input (see Index).
type Sub struct {
	Links
	Key interface{}
}

// NewSub makes a Sub.
func NewSub(key interface{}) *Sub {
	return &Sub{Key: key}
}

func (n *Sub) Call(x interface{}, w Warehouse) (interface{}, error) {
	return Index(x, n.Key)
}

func (n *Sub) Spawn() Neuron {
	return &Sub{Key: n.Key}
}

// Emit outputs a constant.  Its input must be nil.
type Emit struct {
	Links
	Value interface{}
}

// NewEmit makes an Emit.
func NewEmit(v interface{}) *Emit {
	return &Emit{Value: v}
}

func (n *Emit) Call(x interface{}, w Warehouse) (interface{}, error) {
	if x != nil {
		return nil, ErrEmitInput
	}
	return n.Value, nil
}

func (n *Emit) Spawn() Neuron {
	return &Emit{Value: n.Value}
}
