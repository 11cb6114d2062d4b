/* Copyright 2021 Comcast Cable Communications Management, LLC
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
	"bytes"
	"strings"
	"testing"

	"github.com/Comcast/tako"
	"github.com/Comcast/tako/blueprint"
	"github.com/Comcast/tako/core"
	"github.com/Comcast/tako/flow"
	"github.com/Comcast/tako/ref"
)

func double(x interface{}) (interface{}, error) {
	return x.(int) * 2, nil
}

func testClasses(t *testing.T) (base, kid *tako.Class) {
	t.Helper()
	d, err := flow.NewDiverge(2, core.NewOp(double))
	if err != nil {
		t.Fatal(err)
	}
	base = tako.NewClass("base", nil).
		MustArm("f", core.NewOp(double)).
		MustArm("split", core.MustStrand(d)).
		MustArm("lost", ref.MustR(ref.Super().Attr("f"))).
		Field("scale", 3)
	kid = tako.NewClass("kid", base).
		MustArm("g", core.MustStrand(ref.MustR(ref.My().Attr("f")))).
		MustArm("h", ref.MustR(ref.My().Attr("nope"))).
		MustArm("s", ref.MustR(ref.Super().Attr("scale")))
	return base, kid
}

func TestStructure(t *testing.T) {
	base, _ := testClasses(t)
	a, _ := base.Template("split")
	nodes := ArmStructure(a)

	if len(nodes) != 3 {
		t.Fatalf("wanted in, diverge, out; got %d nodes", len(nodes))
	}
	if nodes[0].Label != "in" || nodes[2].Label != "out" {
		t.Fatal(nodes[0].Label, nodes[2].Label)
	}
	d := nodes[1]
	if d.Kind != "flow.Diverge" {
		t.Fatal(d.Kind)
	}
	if len(d.Strands) != 2 {
		t.Fatalf("got %d strands", len(d.Strands))
	}
	for i, s := range d.Strands {
		if len(s) != 3 {
			t.Fatalf("strand %d has %d nodes", i, len(s))
		}
	}
	if got := d.Strands[0][1].Label; got != "op" {
		t.Fatal(got)
	}
	if got := d.Strands[1][1].Label; got != "noop" {
		t.Fatal(got)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		n    core.Neuron
		want string
	}{
		{core.NewEmit(1), "emit 1"},
		{&core.Sub{Key: "a"}, "sub a"},
		{&core.Noop{}, "noop"},
		{ref.NewMyRef(&ref.Attr{Name: "x"}), "my.x"},
	}
	for _, test := range tests {
		if got := Label(test.n); got != test.want {
			t.Errorf("%T: %q != %q", test.n, got, test.want)
		}
	}
}

func TestDot(t *testing.T) {
	_, kid := testClasses(t)

	var buf bytes.Buffer
	if err := Dot(kid, &buf, &DotOpts{Highlight: "g"}); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	for _, want := range []string{"digraph G {", `label="kid.g"; color="red"`, `label="kid.h"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("no %q in\n%s", want, s)
		}
	}
	if strings.Contains(s, "base.split") {
		t.Fatal("inherited arm without Inherited")
	}

	buf.Reset()
	if err := Dot(kid, &buf, &DotOpts{Inherited: true}); err != nil {
		t.Fatal(err)
	}
	s = buf.String()
	if !strings.Contains(s, `label="base.split"`) {
		t.Fatal(s)
	}
	if !strings.Contains(s, "style=dashed") {
		t.Fatal("no sub-strand cluster")
	}
}

func TestMermaid(t *testing.T) {
	base, _ := testClasses(t)

	var buf bytes.Buffer
	if err := Mermaid(base, &buf, nil); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	if !strings.HasPrefix(s, "graph LR\n") {
		t.Fatal(s)
	}
	if !strings.Contains(s, `["base.split"]`) {
		t.Fatal(s)
	}
	if !strings.Contains(s, "-.->") {
		t.Fatal("no sub-strand edge")
	}
	if strings.Contains(s, `["in"]`) {
		t.Fatal("sentinels not hidden")
	}
}

func TestDescribeYAML(t *testing.T) {
	_, kid := testClasses(t)

	bs, err := DescribeYAML(kid)
	if err != nil {
		t.Fatal(err)
	}
	s := string(bs)
	for _, want := range []string{"name: kid", "parent: base", "name: base", "---", "scale"} {
		if !strings.Contains(s, want) {
			t.Fatalf("no %q in\n%s", want, s)
		}
	}
}

func TestAnalyze(t *testing.T) {
	_, kid := testClasses(t)

	a, err := Analyze(kid)
	if err != nil {
		t.Fatal(err)
	}
	if a.Arms != 6 {
		t.Fatal(a.Arms)
	}
	if len(a.Refs) != 4 {
		t.Fatal(a.Refs)
	}
	if len(a.MissingRefs) != 2 {
		t.Fatal(a.MissingRefs)
	}
	if !strings.Contains(a.MissingRefs[0], "base.lost") {
		t.Fatal(a.MissingRefs[0])
	}
	if !strings.Contains(a.MissingRefs[1], "kid.h") {
		t.Fatal(a.MissingRefs[1])
	}
	if len(a.Errors) != 2 {
		t.Fatal(a.Errors)
	}
}

func TestRenderBlueprintHTML(t *testing.T) {
	b, err := blueprint.Parse([]byte(`
name: doubler
doc: A **bold** doubler.
params:
  factor: 2
arms:
  run:
  - doc: Multiplies.
    op: mul
    args: [$factor]
  - script:
      interpreter: goja
      source: return _.x + 1;
`))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err = RenderBlueprintPage(b, &buf, nil); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	for _, want := range []string{"<title>doubler</title>", "<strong>bold</strong>", `id="run"`, "_.x + 1", "$factor"} {
		if !strings.Contains(s, want) {
			t.Fatalf("no %q in\n%s", want, s)
		}
	}
}
