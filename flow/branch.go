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
	"reflect"

	"github.com/Comcast/tako/core"
)

// Diverge sends the ith element of its input through the ith
// sub-strand.
type Diverge struct {
	core.Links
	strands []*core.Strand
}

// NewDiverge makes a Diverge with n slots.  If n is zero, there's
// one slot per given sub-strand.  Slots without a sub-strand pass
// their element through.
func NewDiverge(n int, xs ...interface{}) (*Diverge, error) {
	ss, err := padded("diverge streams", n, xs)
	if err != nil {
		return nil, err
	}
	return &Diverge{strands: ss}, nil
}

func (d *Diverge) Call(x interface{}, w core.Warehouse) (interface{}, error) {
	xs, err := core.Items(x)
	if err != nil {
		return nil, err
	}
	if len(xs) != len(d.strands) {
		return nil, &core.ArityError{What: "diverge input", Want: len(d.strands), Got: len(xs)}
	}
	acc := make([]interface{}, len(xs))
	for i, s := range d.strands {
		if acc[i], err = s.Call(xs[i], w); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (d *Diverge) BotDown(b core.Bot) {
	botDown(b, d.strands...)
}

func (d *Diverge) Spawn() core.Neuron {
	return &Diverge{strands: spawnStrands(d.strands)}
}

// Multi sends its input through every sub-strand.
type Multi struct {
	core.Links
	strands []*core.Strand
}

// NewMulti makes a Multi with n sub-strands.  If n is zero, there's
// one per given sub-strand.  Missing sub-strands pass the input
// through.
func NewMulti(n int, xs ...interface{}) (*Multi, error) {
	ss, err := padded("multi streams", n, xs)
	if err != nil {
		return nil, err
	}
	return &Multi{strands: ss}, nil
}

func (m *Multi) Call(x interface{}, w core.Warehouse) (interface{}, error) {
	acc := make([]interface{}, len(m.strands))
	for i, s := range m.strands {
		y, err := s.Call(x, w)
		if err != nil {
			return nil, err
		}
		acc[i] = y
	}
	return acc, nil
}

func (m *Multi) BotDown(b core.Bot) {
	botDown(b, m.strands...)
}

func (m *Multi) Spawn() core.Neuron {
	return &Multi{strands: spawnStrands(m.strands)}
}

// Gate takes a pair (condition input, value).  If the condition
// sub-strand's output equals PassOn, the value goes through the
// neuron sub-strand and the output is (true, result).  Otherwise it's
// (false, nil).
type Gate struct {
	core.Links
	cond, neuron *core.Strand
	PassOn       interface{}
}

// NewGate makes a Gate.
func NewGate(cond, neuron interface{}, passOn interface{}) (*Gate, error) {
	c, err := toStrand(cond)
	if err != nil {
		return nil, err
	}
	n, err := toStrand(neuron)
	if err != nil {
		return nil, err
	}
	return &Gate{cond: c, neuron: n, PassOn: passOn}, nil
}

func (g *Gate) Call(x interface{}, w core.Warehouse) (interface{}, error) {
	c, v, err := core.Pair(x)
	if err != nil {
		return nil, err
	}
	r, err := g.cond.Call(c, w)
	if err != nil {
		return nil, err
	}
	if !core.Equal(r, g.PassOn) {
		return []interface{}{false, nil}, nil
	}
	y, err := g.neuron.Call(v, w)
	if err != nil {
		return nil, err
	}
	return []interface{}{true, y}, nil
}

func (g *Gate) BotDown(b core.Bot) {
	botDown(b, g.cond, g.neuron)
}

func (g *Gate) Spawn() core.Neuron {
	return &Gate{cond: g.cond.Spawn(), neuron: g.neuron.Spawn(), PassOn: g.PassOn}
}

// Switch takes a pair (route key, value) and sends the value through
// the sub-strand for that key.  The output is (key, result).
//
// If a router is given, the route key is the router's output for the
// first element.  Without a route for the key, the default sub-strand
// is used, and without a default the value passes through.
type Switch struct {
	core.Links
	router *core.Strand
	routes map[interface{}]*core.Strand
	keys   []interface{}
	deflt  *core.Strand
}

// NewSwitch makes a Switch whose routes are keyed by position.  The
// router can be nil.
func NewSwitch(router interface{}, routes ...interface{}) (*Switch, error) {
	s := &Switch{
		routes: make(map[interface{}]*core.Strand),
	}
	if router != nil {
		r, err := toStrand(router)
		if err != nil {
			return nil, err
		}
		s.router = r
	}
	for i, x := range routes {
		if err := s.SetRoute(i, x); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SetRoute adds or replaces the route for key.
func (s *Switch) SetRoute(key interface{}, x interface{}) error {
	key = core.NormalizeKey(key)
	if !hashable(key) {
		return &core.TypeError{Op: "route key", Value: key}
	}
	st, err := toStrand(x)
	if err != nil {
		return err
	}
	if _, have := s.routes[key]; !have {
		s.keys = append(s.keys, key)
	}
	s.routes[key] = st
	return nil
}

// SetDefault sets the sub-strand for keys without a route.
func (s *Switch) SetDefault(x interface{}) error {
	st, err := toStrand(x)
	if err != nil {
		return err
	}
	s.deflt = st
	return nil
}

func hashable(x interface{}) bool {
	return x == nil || reflect.TypeOf(x).Comparable()
}

func (s *Switch) Call(x interface{}, w core.Warehouse) (interface{}, error) {
	k, v, err := core.Pair(x)
	if err != nil {
		return nil, err
	}
	if s.router != nil {
		if k, err = s.router.Call(k, w); err != nil {
			return nil, err
		}
	}
	st := s.deflt
	if key := core.NormalizeKey(k); hashable(key) {
		if r, have := s.routes[key]; have {
			st = r
		}
	}
	if st == nil {
		return []interface{}{k, v}, nil
	}
	y, err := st.Call(v, w)
	if err != nil {
		return nil, err
	}
	return []interface{}{k, y}, nil
}

func (s *Switch) BotDown(b core.Bot) {
	botDown(b, s.router)
	for _, k := range s.keys {
		botDown(b, s.routes[k])
	}
	botDown(b, s.deflt)
}

func (s *Switch) Spawn() core.Neuron {
	c := &Switch{
		routes: make(map[interface{}]*core.Strand, len(s.routes)),
		keys:   append([]interface{}(nil), s.keys...),
	}
	if s.router != nil {
		c.router = s.router.Spawn()
	}
	for k, r := range s.routes {
		c.routes[k] = r.Spawn()
	}
	if s.deflt != nil {
		c.deflt = s.deflt.Spawn()
	}
	return c
}

// Path labels a Cases output that didn't come from a numbered case.
type Path string

const (
	// DefaultPath labels output from the default sub-strand.
	DefaultPath Path = "default"

	// NoPath labels the output when nothing matched and there's
	// no default.  The value is nil.
	NoPath Path = "none"
)

// Cases tries Gate-like sub-strands in order.  The first whose flag
// equals PassOn gives the output (index, result).  If none does, the
// default sub-strand gets the second element of the input and the
// output is (DefaultPath, result), or (NoPath, nil) if there's no
// default.
type Cases struct {
	core.Links
	cases  []*core.Strand
	deflt  *core.Strand
	PassOn interface{}
}

// NewCases makes a Cases that passes on true.  The default can be
// nil.
func NewCases(deflt interface{}, cases ...interface{}) (*Cases, error) {
	ss, err := toStrands(cases)
	if err != nil {
		return nil, err
	}
	c := &Cases{cases: ss, PassOn: true}
	if deflt != nil {
		if c.deflt, err = toStrand(deflt); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Cases) Call(x interface{}, w core.Warehouse) (interface{}, error) {
	for i, s := range c.cases {
		r, err := s.Call(x, w)
		if err != nil {
			return nil, err
		}
		flag, y, err := core.Pair(r)
		if err != nil {
			return nil, err
		}
		if core.Equal(flag, c.PassOn) {
			return []interface{}{i, y}, nil
		}
	}
	if c.deflt == nil {
		return []interface{}{NoPath, nil}, nil
	}
	_, v, err := core.Pair(x)
	if err != nil {
		return nil, err
	}
	y, err := c.deflt.Call(v, w)
	if err != nil {
		return nil, err
	}
	return []interface{}{DefaultPath, y}, nil
}

func (c *Cases) BotDown(b core.Bot) {
	botDown(b, c.cases...)
	botDown(b, c.deflt)
}

func (c *Cases) Spawn() core.Neuron {
	s := &Cases{cases: spawnStrands(c.cases), PassOn: c.PassOn}
	if c.deflt != nil {
		s.deflt = c.deflt.Spawn()
	}
	return s
}
