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

package blueprint

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Comcast/tako/core"
	"github.com/Comcast/tako/flow"
	"github.com/Comcast/tako/ref"
)

// Step is the source for one Neuron in an Arm.  Exactly one kind of
// Step must be given.
type Step struct {
	// Doc is optional documentation (Markdown).
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	Op      string `json:"op,omitempty" yaml:"op,omitempty"`
	Decl    string `json:"decl,omitempty" yaml:"decl,omitempty"`
	Dynamic bool   `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`

	// Args and Kwargs go to the factory for Op or Decl.
	Args   []interface{}          `json:"args,omitempty" yaml:"args,omitempty"`
	Kwargs map[string]interface{} `json:"kwargs,omitempty" yaml:"kwargs,omitempty"`

	Script *core.ScriptSource `json:"script,omitempty" yaml:"script,omitempty"`

	// Timeout (like "100ms") limits each Script execution.
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	Call string      `json:"call,omitempty" yaml:"call,omitempty"`
	Ref  string      `json:"ref,omitempty" yaml:"ref,omitempty"`
	Sub  interface{} `json:"sub,omitempty" yaml:"sub,omitempty"`
	Emit interface{} `json:"emit,omitempty" yaml:"emit,omitempty"`

	Delay int `json:"delay,omitempty" yaml:"delay,omitempty"`

	// Default is the initial output of a Delay or Store or the
	// default value of a Probe.
	Default interface{} `json:"default,omitempty" yaml:"default,omitempty"`

	Noop bool `json:"noop,omitempty" yaml:"noop,omitempty"`

	Multi   [][]*Step `json:"multi,omitempty" yaml:"multi,omitempty"`
	Diverge [][]*Step `json:"diverge,omitempty" yaml:"diverge,omitempty"`
	Onto    [][]*Step `json:"onto,omitempty" yaml:"onto,omitempty"`
	Store   []*Step   `json:"store,omitempty" yaml:"store,omitempty"`

	Repeat *RepeatStep `json:"repeat,omitempty" yaml:"repeat,omitempty"`
	Inform *InformStep `json:"inform,omitempty" yaml:"inform,omitempty"`
	Probe  *ProbeStep  `json:"probe,omitempty" yaml:"probe,omitempty"`
}

// RepeatStep is the source for a flow.Repeat.
type RepeatStep struct {
	Body      []*Step     `json:"body" yaml:"body"`
	BreakOn   interface{} `json:"breakOn,omitempty" yaml:"breakOn,omitempty"`
	OutputAll bool        `json:"outputAll,omitempty" yaml:"outputAll,omitempty"`
	Max       int         `json:"max,omitempty" yaml:"max,omitempty"`
}

// InformStep is the source for a flow.BotInform.  The Warehouse key
// is the Name.
type InformStep struct {
	Name string  `json:"name" yaml:"name"`
	Body []*Step `json:"body,omitempty" yaml:"body,omitempty"`

	// Memoize keeps the first value in the Warehouse.
	Memoize bool `json:"memoize,omitempty" yaml:"memoize,omitempty"`
}

// ProbeStep is the source for a flow.BotProbe that reads what an
// InformStep with the same Name stored.
type ProbeStep struct {
	Name string `json:"name" yaml:"name"`
}

// Kind returns the kind of Step or an error if there isn't exactly
// one.
func (s *Step) Kind() (string, error) {
	var kinds []string
	add := func(set bool, kind string) {
		if set {
			kinds = append(kinds, kind)
		}
	}
	add(s.Op != "", "op")
	add(s.Decl != "", "decl")
	add(s.Script != nil, "script")
	add(s.Call != "", "call")
	add(s.Ref != "", "ref")
	add(s.Sub != nil, "sub")
	add(s.Emit != nil, "emit")
	add(s.Delay != 0, "delay")
	add(s.Noop, "noop")
	add(s.Multi != nil, "multi")
	add(s.Diverge != nil, "diverge")
	add(s.Onto != nil, "onto")
	add(s.Store != nil, "store")
	add(s.Repeat != nil, "repeat")
	add(s.Inform != nil, "inform")
	add(s.Probe != nil, "probe")

	switch len(kinds) {
	case 0:
		return "", fmt.Errorf("empty step")
	case 1:
		return kinds[0], nil
	}
	return "", fmt.Errorf("ambiguous step: %s", strings.Join(kinds, ", "))
}

// ParseRef parses a path like "my.encoder", "super.f", or
// "emission.0" into a Placeholder.  Numeric segments are indexes.
func ParseRef(path string) (*ref.Placeholder, error) {
	parts := strings.Split(path, ".")
	var p *ref.Placeholder
	switch parts[0] {
	case "my":
		p = ref.My()
	case "super":
		p = ref.Super()
	case "emission":
		p = ref.Emission()
	default:
		return nil, fmt.Errorf("bad ref base '%s' in '%s'", parts[0], path)
	}
	for _, part := range parts[1:] {
		if part == "" {
			return nil, fmt.Errorf("empty ref segment in '%s'", path)
		}
		if i, err := strconv.Atoi(part); err == nil {
			p = p.Idx(i)
		} else {
			p = p.Attr(part)
		}
	}
	return p, nil
}

// compiler builds Neurons from Steps.
type compiler struct {
	ctx          context.Context
	registry     *Registry
	interpreters core.InterpretersMap
	kwargs       map[string]interface{}
}

// param returns the Arg for strings like "$n".
func param(x interface{}) (*core.Arg, bool) {
	s, is := x.(string)
	if !is || len(s) < 2 || s[0] != '$' {
		return nil, false
	}
	return core.ArgNamed(s[1:]), true
}

// arg resolves a "$name" parameter now.
func (c *compiler) arg(x interface{}) (interface{}, error) {
	if a, is := param(x); is {
		return a.Resolve(nil, c.kwargs)
	}
	return x, nil
}

func (c *compiler) args(s *Step) ([]interface{}, map[string]interface{}, error) {
	args := make([]interface{}, len(s.Args))
	for i, x := range s.Args {
		v, err := c.arg(x)
		if err != nil {
			return nil, nil, err
		}
		args[i] = v
	}
	kwargs := make(map[string]interface{}, len(s.Kwargs))
	for k, x := range s.Kwargs {
		v, err := c.arg(x)
		if err != nil {
			return nil, nil, err
		}
		kwargs[k] = v
	}
	return args, kwargs, nil
}

// lazyArgs turns "$name" parameters into Args for a Declaration.
func lazyArgs(s *Step) ([]interface{}, map[string]interface{}) {
	args := make([]interface{}, len(s.Args))
	for i, x := range s.Args {
		if a, is := param(x); is {
			args[i] = a
		} else {
			args[i] = x
		}
	}
	kwargs := make(map[string]interface{}, len(s.Kwargs))
	for k, x := range s.Kwargs {
		if a, is := param(x); is {
			kwargs[k] = a
		} else {
			kwargs[k] = x
		}
	}
	return args, kwargs
}

func (c *compiler) strand(steps []*Step) (*core.Strand, error) {
	if len(steps) == 0 {
		return core.NewStrand(nil)
	}
	xs := make([]interface{}, len(steps))
	for i, s := range steps {
		n, err := c.neuron(s)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		xs[i] = n
	}
	return core.NewStrand(xs...)
}

func (c *compiler) strands(stepss [][]*Step) ([]interface{}, error) {
	acc := make([]interface{}, len(stepss))
	for i, steps := range stepss {
		s, err := c.strand(steps)
		if err != nil {
			return nil, fmt.Errorf("branch %d: %w", i, err)
		}
		acc[i] = s
	}
	return acc, nil
}

func (c *compiler) neuron(s *Step) (core.Neuron, error) {
	kind, err := s.Kind()
	if err != nil {
		return nil, err
	}

	switch kind {
	case "op":
		f, err := c.registry.Factory(s.Op)
		if err != nil {
			return nil, err
		}
		args, kwargs, err := c.args(s)
		if err != nil {
			return nil, err
		}
		v, err := f(args, kwargs)
		if err != nil {
			return nil, fmt.Errorf("op %s: %w", s.Op, err)
		}
		return core.ToNeuron(v)

	case "decl":
		f, err := c.registry.Factory(s.Decl)
		if err != nil {
			return nil, err
		}
		args, kwargs := lazyArgs(s)
		return core.NewDeclaration(f, args, kwargs, s.Dynamic), nil

	case "script":
		script, err := s.Script.Compile(c.ctx, c.interpreters)
		if err != nil {
			return nil, err
		}
		if s.Timeout != "" {
			if script.Timeout, err = time.ParseDuration(s.Timeout); err != nil {
				return nil, err
			}
		}
		return script, nil

	case "call":
		p, err := ParseRef(s.Call)
		if err != nil {
			return nil, err
		}
		return ref.R(p)

	case "ref":
		p, err := ParseRef(s.Ref)
		if err != nil {
			return nil, err
		}
		return p.AsNeuron()

	case "sub":
		return core.NewSub(s.Sub), nil

	case "emit":
		v, err := c.arg(s.Emit)
		if err != nil {
			return nil, err
		}
		return core.NewEmit(v), nil

	case "delay":
		return flow.NewDelay(s.Delay, s.Default)

	case "noop":
		return &core.Noop{}, nil

	case "multi":
		xs, err := c.strands(s.Multi)
		if err != nil {
			return nil, err
		}
		return flow.NewMulti(0, xs...)

	case "diverge":
		xs, err := c.strands(s.Diverge)
		if err != nil {
			return nil, err
		}
		return flow.NewDiverge(0, xs...)

	case "onto":
		xs, err := c.strands(s.Onto)
		if err != nil {
			return nil, err
		}
		return flow.NewOnto(xs...)

	case "store":
		st, err := c.strand(s.Store)
		if err != nil {
			return nil, err
		}
		return flow.NewStore(st, s.Default)

	case "repeat":
		body, err := c.strand(s.Repeat.Body)
		if err != nil {
			return nil, err
		}
		breakOn := s.Repeat.BreakOn
		if breakOn == nil {
			breakOn = true
		}
		r, err := flow.NewRepeat(body, breakOn, s.Repeat.OutputAll)
		if err != nil {
			return nil, err
		}
		r.MaxIterations = s.Repeat.Max
		return r, nil

	case "inform":
		body, err := c.strand(s.Inform.Body)
		if err != nil {
			return nil, err
		}
		b, err := flow.NewBotInform(body, s.Inform.Name)
		if err != nil {
			return nil, err
		}
		b.UseNeuronKey = false
		b.AutoReset = !s.Inform.Memoize
		return b, nil

	case "probe":
		return flow.NewBotProbe(s.Probe.Name, nil, s.Default)
	}

	return nil, fmt.Errorf("unknown step kind %s", kind)
}
