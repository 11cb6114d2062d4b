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

// Package tools renders and analyzes Classes and Blueprints.
package tools

import (
	"fmt"
	"strings"

	"github.com/Comcast/tako/core"
	"github.com/Comcast/tako/flow"
)

// Node describes one Neuron in a Strand.  A composite Neuron has the
// Strands it holds.
type Node struct {
	Kind    string    `json:"kind" yaml:"kind"`
	Label   string    `json:"label,omitempty" yaml:"label,omitempty"`
	Strands [][]*Node `json:"strands,omitempty" yaml:"strands,omitempty"`
}

// Kind returns the Neuron's type name without the pointer.
func Kind(n core.Neuron) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*")
}

// Label returns a short description of the Neuron.
func Label(n core.Neuron) string {
	switch vv := n.(type) {
	case *core.In:
		return "in"
	case *core.Out:
		return "out"
	case *core.Nil:
		return "nil"
	case *core.Noop:
		return "noop"
	case *core.Op:
		return "op"
	case *core.Emit:
		return fmt.Sprintf("emit %v", vv.Value)
	case *core.Sub:
		return fmt.Sprintf("sub %v", vv.Key)
	case *core.Script:
		return "script " + vv.Source().Interpreter
	case *core.Declaration:
		if vv.Dynamic() {
			return "dynamic decl"
		}
		if vv.Defined() != nil {
			return "decl: " + Label(vv.Defined())
		}
		return "decl"
	case *core.Arm:
		return "arm"
	case *flow.Delay:
		return fmt.Sprintf("delay %d", vv.Count())
	case *flow.BotInform:
		return "inform " + vv.Name
	case *flow.BotProbe:
		return "probe " + vv.Name
	case fmt.Stringer:
		return vv.String()
	}
	return strings.ToLower(Kind(n))
}

// treeBot builds Nodes as it walks.  Every head sentinel starts a
// Strand, which belongs to the most recent Node of the enclosing
// Strand, and every tail sentinel ends one.
type treeBot struct {
	root   []*Node
	frames []frame
}

type frame struct {
	// owner is nil for the root Strand.
	owner *Node
	i     int
}

func (b *treeBot) add(n *Node) {
	if len(b.frames) == 0 {
		b.frames = append(b.frames, frame{})
	}
	f := b.frames[len(b.frames)-1]
	if f.owner == nil {
		b.root = append(b.root, n)
	} else {
		f.owner.Strands[f.i] = append(f.owner.Strands[f.i], n)
	}
}

func (b *treeBot) last() *Node {
	if len(b.frames) == 0 {
		return nil
	}
	f := b.frames[len(b.frames)-1]
	var s []*Node
	if f.owner == nil {
		s = b.root
	} else {
		s = f.owner.Strands[f.i]
	}
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

func (b *treeBot) Visit(n core.Neuron) bool {
	node := &Node{
		Kind:  Kind(n),
		Label: Label(n),
	}
	switch {
	case core.IsHead(n):
		if owner := b.last(); owner != nil {
			owner.Strands = append(owner.Strands, nil)
			b.frames = append(b.frames, frame{owner: owner, i: len(owner.Strands) - 1})
		} else if len(b.frames) == 0 {
			b.frames = append(b.frames, frame{})
		}
		b.add(node)
	case core.IsTail(n):
		b.add(node)
		if 0 < len(b.frames) {
			b.frames = b.frames[:len(b.frames)-1]
		}
	default:
		b.add(node)
	}
	return true
}

func (b *treeBot) Reset() {
	b.root = nil
	b.frames = nil
}

// Structure describes the Strand and everything it holds.
func Structure(s *core.Strand) []*Node {
	b := &treeBot{}
	s.BotForward(b)
	return b.root
}

// ArmStructure describes the Arm's Strand.
func ArmStructure(a *core.Arm) []*Node {
	return Structure(a.Strand())
}
