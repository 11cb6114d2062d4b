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

// merge holds sub-strands that run without input.
type merge struct {
	core.Links
	strands []*core.Strand
}

func newMerge(xs []interface{}) (merge, error) {
	ss, err := toStrands(xs)
	return merge{strands: ss}, err
}

func (m *merge) outputs(w core.Warehouse) ([]interface{}, error) {
	acc := make([]interface{}, len(m.strands))
	for i, s := range m.strands {
		y, err := s.Call(nil, w)
		if err != nil {
			return nil, err
		}
		acc[i] = y
	}
	return acc, nil
}

func (m *merge) BotDown(b core.Bot) {
	botDown(b, m.strands...)
}

// Onto outputs its input followed by the outputs of its sub-strands,
// which are called with nil.
type Onto struct {
	merge
}

// NewOnto makes an Onto.
func NewOnto(xs ...interface{}) (*Onto, error) {
	m, err := newMerge(xs)
	if err != nil {
		return nil, err
	}
	return &Onto{m}, nil
}

func (o *Onto) Call(x interface{}, w core.Warehouse) (interface{}, error) {
	ys, err := o.outputs(w)
	if err != nil {
		return nil, err
	}
	return append([]interface{}{x}, ys...), nil
}

func (o *Onto) Spawn() core.Neuron {
	return &Onto{merge{strands: spawnStrands(o.strands)}}
}

// Under outputs the outputs of its sub-strands, which are called with
// nil, followed by its input.
type Under struct {
	merge
}

// NewUnder makes an Under.
func NewUnder(xs ...interface{}) (*Under, error) {
	m, err := newMerge(xs)
	if err != nil {
		return nil, err
	}
	return &Under{m}, nil
}

func (u *Under) Call(x interface{}, w core.Warehouse) (interface{}, error) {
	ys, err := u.outputs(w)
	if err != nil {
		return nil, err
	}
	return append(ys, x), nil
}

func (u *Under) Spawn() core.Neuron {
	return &Under{merge{strands: spawnStrands(u.strands)}}
}
