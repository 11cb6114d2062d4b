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
	"fmt"

	"github.com/Comcast/tako/core"
	"github.com/Comcast/tako/ref"
)

// BotInform runs its sub-strand and stores the result in the
// Warehouse.
//
// Unless AutoReset, a value already in the Warehouse is returned
// without running the sub-strand again, so the sub-strand runs at
// most once per Warehouse.
type BotInform struct {
	core.Links
	strand *core.Strand

	// Name is the key, or its prefix if UseNeuronKey.
	Name string

	// UseNeuronKey adds this Neuron's identity to the key.
	UseNeuronKey bool

	AutoReset bool
}

// NewBotInform makes a BotInform keyed by name and identity that
// recomputes on every call.
func NewBotInform(x interface{}, name string) (*BotInform, error) {
	s, err := toStrand(x)
	if err != nil {
		return nil, err
	}
	return &BotInform{
		strand:       s,
		Name:         name,
		UseNeuronKey: true,
		AutoReset:    true,
	}, nil
}

// Key returns the Warehouse key.
func (b *BotInform) Key() string {
	if b.UseNeuronKey {
		return fmt.Sprintf("%s%p", b.Name, b)
	}
	return b.Name
}

func (b *BotInform) Call(x interface{}, w core.Warehouse) (interface{}, error) {
	if w == nil {
		return nil, core.ErrNoWarehouse
	}
	key := b.Key()
	if !b.AutoReset {
		y, found, err := w.Probe(key, nil)
		if err != nil {
			return nil, err
		}
		if found {
			return y, nil
		}
	}
	y, err := b.strand.Call(x, w)
	if err != nil {
		return nil, err
	}
	if err = w.Inform(key, y); err != nil {
		return nil, err
	}
	return y, nil
}

func (b *BotInform) BotDown(bot core.Bot) {
	botDown(bot, b.strand)
}

func (b *BotInform) Spawn() core.Neuron {
	return &BotInform{
		strand:       b.strand.Spawn(),
		Name:         b.Name,
		UseNeuronKey: b.UseNeuronKey,
		AutoReset:    b.AutoReset,
	}
}

// BotProbe reads a value from the Warehouse.  The key is Name,
// followed by the key of the target Neuron if there is one.  A Ref
// target is resolved first.
//
// Its input must be nil.  If the key was never informed, Default is
// returned.
type BotProbe struct {
	core.Links
	target  core.Neuron
	Name    string
	Default interface{}
}

// NewBotProbe makes a BotProbe.  The target can be nil, a Neuron, or
// a ref.Placeholder.
func NewBotProbe(name string, target interface{}, def interface{}) (*BotProbe, error) {
	p := &BotProbe{Name: name, Default: def}
	if target != nil {
		n, err := core.ToNeuron(target)
		if err != nil {
			return nil, err
		}
		p.target = n
	}
	return p, nil
}

// ProbeKey computes the Warehouse key.
func (p *BotProbe) ProbeKey(w core.Warehouse) (string, error) {
	if p.target == nil {
		return p.Name, nil
	}
	switch vv := p.target.(type) {
	case *ref.NeuronRef:
		k, err := vv.TargetKey(w)
		if err != nil {
			return "", err
		}
		return p.Name + k, nil
	case ref.Ref:
		v, err := vv.Call(nil, w)
		if err != nil {
			return "", err
		}
		n, err := core.ToNeuron(v)
		if err != nil {
			return "", err
		}
		return p.Name + core.KeyOf(n), nil
	}
	return p.Name + core.KeyOf(p.target), nil
}

func (p *BotProbe) Call(x interface{}, w core.Warehouse) (interface{}, error) {
	if x != nil {
		return nil, ErrProbeInput
	}
	if w == nil {
		return nil, core.ErrNoWarehouse
	}
	key, err := p.ProbeKey(w)
	if err != nil {
		return nil, err
	}
	y, _, err := w.Probe(key, p.Default)
	return y, err
}

// SetOwner binds a Ref target.
func (p *BotProbe) SetOwner(owner interface{}) bool {
	if o, is := p.target.(core.Owned); is {
		return o.SetOwner(owner)
	}
	return false
}

// SetSuper binds a Ref target.
func (p *BotProbe) SetSuper(super interface{}) bool {
	if c, is := p.target.(core.Child); is {
		return c.SetSuper(super)
	}
	return false
}

func (p *BotProbe) Spawn() core.Neuron {
	c := &BotProbe{Name: p.Name, Default: p.Default}
	if p.target != nil {
		switch p.target.(type) {
		case ref.Ref, *ref.NeuronRef:
			c.target = p.target.Spawn()
		default:
			// Identity matters for plain targets.
			c.target = p.target
		}
	}
	return c
}

// Store runs its sub-strand and also keeps the last result in
// Output.  Reset restores Default.
type Store struct {
	core.Links
	strand  *core.Strand
	Default interface{}
	Output  interface{}
}

// NewStore makes a Store.
func NewStore(x interface{}, def interface{}) (*Store, error) {
	s, err := toStrand(x)
	if err != nil {
		return nil, err
	}
	return &Store{strand: s, Default: def, Output: def}, nil
}

func (s *Store) Reset() {
	s.Output = s.Default
}

func (s *Store) Call(x interface{}, w core.Warehouse) (interface{}, error) {
	y, err := s.strand.Call(x, w)
	if err != nil {
		return nil, err
	}
	s.Output = y
	return y, nil
}

func (s *Store) BotDown(b core.Bot) {
	botDown(b, s.strand)
}

func (s *Store) Spawn() core.Neuron {
	return &Store{strand: s.strand.Spawn(), Default: s.Default, Output: s.Default}
}
