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

// dot -Tpng g.dot > g.png

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/Comcast/tako"
)

// DotOpts controls Dot.
type DotOpts struct {
	// Inherited includes the Arms of ancestor Classes.
	Inherited bool

	// Highlight names an Arm to draw in red.
	Highlight string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Dot makes a Graphviz dot file for the given Class.  Each Arm is a
// cluster, and each Strand held by a composite Neuron is a nested
// cluster.
func Dot(c *tako.Class, w io.Writer, opts *DotOpts) error {
	if opts == nil {
		opts = &DotOpts{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
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

	p("digraph G {\n")
	p(`  graph [ordering=out,rankdir=LR,nodesep=0.3,ranksep=0.3,label="%s"]
  node [shape="record" style="rounded,filled" fillcolor="#99ddc8"]
  edge [fontsize="10"]
`, escape(c.Name()))

	num := 0
	var strand func(indent string, nodes []*Node) (first, last string)
	strand = func(indent string, nodes []*Node) (string, string) {
		var first, prev string
		for _, n := range nodes {
			num++
			id := fmt.Sprintf("n%d", num)
			shape := "record"
			fill := "#99ddc8"
			switch n.Kind {
			case "core.In", "core.Out", "core.Nil":
				shape = "point"
			case "core.Script":
				shape = "note"
				fill = "#bcf2db"
			case "core.Declaration":
				fill = "#f2e3bc"
			}
			p("%s%s [shape=\"%s\", fillcolor=\"%s\", label=\"%s\"]\n",
				indent, id, shape, fill, escbraces(escape(n.Label)))
			if prev != "" {
				p("%s%s -> %s\n", indent, prev, id)
			}
			for i, sub := range n.Strands {
				num++
				p("%ssubgraph cluster_%d {\n", indent, num)
				p("%s  label=\"%s %d\"; style=dashed;\n", indent, escape(n.Label), i)
				head, _ := strand(indent+"  ", sub)
				p("%s}\n", indent)
				if head != "" {
					p("%s%s -> %s [style=dotted]\n", indent, id, head)
				}
			}
			if first == "" {
				first = id
			}
			prev = id
		}
		return first, prev
	}

	for _, k := range classes {
		for _, name := range k.ArmNames() {
			a, _ := k.Template(name)
			logger.Debug("dot arm", "class", k.Name(), "arm", name)
			num++
			color := "black"
			if name == opts.Highlight {
				color = "red"
			}
			p("  subgraph cluster_%d {\n", num)
			p("    label=\"%s.%s\"; color=\"%s\";\n", escape(k.Name()), escape(name), color)
			strand("    ", ArmStructure(a))
			p("  }\n")
		}
	}

	p("}\n")
	return err
}

// PNG generates a PNG image based on output from Dot.
//
// This function writes two files: basename.dot and basename.png.
func PNG(c *tako.Class, basename string, opts *DotOpts) (string, error) {
	dotname := basename + ".dot"
	pngname := basename + ".png"

	dotfile, err := os.Create(dotname)
	if err != nil {
		return pngname, err
	}
	if err = Dot(c, dotfile, opts); err != nil {
		dotfile.Close()
		return pngname, err
	}
	if err = dotfile.Close(); err != nil {
		return pngname, err
	}
	if err = exec.Command("dot", "-Tpng", "-o", pngname, dotname).Run(); err != nil {
		return pngname, err
	}
	return pngname, nil
}

func escape(s string) string {
	return strings.Replace(s, `"`, `\"`, -1)
}

func escbraces(s string) string {
	s = strings.Replace(s, "{", "\\{", -1)
	s = strings.Replace(s, "}", "\\}", -1)
	return s
}
