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

package tools

import (
	"fmt"
	"io"
	"strings"

	"github.com/Comcast/tako"
)

// MermaidOpts controls Mermaid.
type MermaidOpts struct {
	// Inherited includes the Arms of ancestor Classes.
	Inherited bool `json:"inherited,omitempty"`

	// ScriptFill is the fill color for Script Neurons.
	ScriptFill string `json:"scriptFill,omitempty"`

	// HideSentinels leaves out In, Out, and Nil.
	HideSentinels bool `json:"hideSentinels,omitempty"`
}

// Mermaid makes a Mermaid (https://mermaidjs.github.io/) flowchart
// for the given Class with one subgraph per Arm.
func Mermaid(c *tako.Class, w io.Writer, opts *MermaidOpts) error {
	if opts == nil {
		opts = &MermaidOpts{
			ScriptFill:    "#bcf2db",
			HideSentinels: true,
		}
	}

	classes := []*tako.Class{c}
	if opts.Inherited {
		classes = c.Lineage()
	}

	var err error
	p := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	p("graph LR\n")

	num := 0
	var strand func(nodes []*Node) string
	strand = func(nodes []*Node) string {
		var first, prev string
		for _, n := range nodes {
			switch n.Kind {
			case "core.In", "core.Out", "core.Nil":
				if opts.HideSentinels {
					continue
				}
			}
			num++
			nid := fmt.Sprintf("n%d", num)
			p("  %s[\"%s\"]\n", nid, strings.Replace(n.Label, `"`, "#quot;", -1))
			if n.Kind == "core.Script" && opts.ScriptFill != "" {
				p("  style %s fill:%s\n", nid, opts.ScriptFill)
			}
			if prev != "" {
				p("  %s --> %s\n", prev, nid)
			}
			for _, sub := range n.Strands {
				if head := strand(sub); head != "" {
					p("  %s -.-> %s\n", nid, head)
				}
			}
			if first == "" {
				first = nid
			}
			prev = nid
		}
		return first
	}

	for _, k := range classes {
		for _, name := range k.ArmNames() {
			a, _ := k.Template(name)
			num++
			p("  subgraph s%d [\"%s.%s\"]\n", num, k.Name(), name)
			strand(ArmStructure(a))
			p("  end\n")
		}
	}

	return err
}
