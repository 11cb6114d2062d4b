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

package tako

import (
	"errors"
	"testing"

	"github.com/Comcast/tako/core"
	"github.com/Comcast/tako/flow"
	"github.com/Comcast/tako/ref"
	"github.com/google/go-cmp/cmp"
)

func call(t *testing.T, i *Instance, name string, x interface{}) interface{} {
	t.Helper()
	y, err := i.Call(name, x, nil)
	if err != nil {
		t.Fatal(err)
	}
	return y
}

func mustNew(t *testing.T, c *Class) *Instance {
	t.Helper()
	i, err := c.New()
	if err != nil {
		t.Fatal(err)
	}
	return i
}

func base() *Class {
	return NewClass("base", nil).
		MustArm("f", func(x int) int { return x + 1 }).
		MustArm("g", func(x int) int { return x - 1 }).
		Field("scale", 3)
}

func TestInstancesAreIsolated(t *testing.T) {
	d, err := flow.NewDelay(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	c := NewClass("delayed", nil).MustArm("delay", d)

	a := mustNew(t, c)
	b := mustNew(t, c)

	if y := call(t, a, "delay", 5); y != 0 {
		t.Fatal(y)
	}
	if y := call(t, b, "delay", 6); y != 0 {
		t.Fatal("instances share state:", y)
	}
	if y := call(t, a, "delay", 7); y != 5 {
		t.Fatal(y)
	}

	// The template itself is untouched.
	if y, _ := d.Call(8, nil); y != 0 {
		t.Fatal(y)
	}
}

func TestInheritance(t *testing.T) {
	sub := NewClass("sub", base()).
		MustArm("f", func(x int) int { return x * 10 }).
		MustArm("h", ref.MustR(ref.Super().Attr("f"))).
		MustArm("twice", core.MustStrand(
			ref.MustR(ref.My().Attr("f")),
			ref.MustR(ref.My().Attr("f")),
		))

	i := mustNew(t, sub)

	tests := []struct {
		arm  string
		in   interface{}
		want interface{}
	}{
		{"f", 2, 20},
		{"g", 2, 1},
		{"h", 2, 3},
		{"twice", 2, 200},
	}
	for _, tc := range tests {
		t.Run(tc.arm, func(t *testing.T) {
			if y := call(t, i, tc.arm, tc.in); y != tc.want {
				t.Fatalf("got %v, want %v", y, tc.want)
			}
		})
	}

	t.Run("super lookup", func(t *testing.T) {
		a, err := i.Super(sub, "f")
		if err != nil {
			t.Fatal(err)
		}
		if y, _ := a.Call(2, nil); y != 3 {
			t.Fatal(y)
		}
		if _, err = i.Super(sub.Parent(), "f"); err == nil {
			t.Fatal("base has no parent")
		}
	})
}

func TestFields(t *testing.T) {
	c := base().MustArm("scaled", ref.Apply(
		func(s, x int) int { return s * x },
		ref.My().Attr("scale"),
		ref.Emission(),
	))
	i := mustNew(t, c)

	if y := call(t, i, "scaled", 4); y != 12 {
		t.Fatal(y)
	}

	if err := i.Set("scale", 5); err != nil {
		t.Fatal(err)
	}
	if y := call(t, i, "scaled", 4); y != 20 {
		t.Fatal(y)
	}

	if v, have := i.Attr("scale"); !have || v != 5 {
		t.Fatal(v, have)
	}
	if _, have := i.Attr("nope"); have {
		t.Fatal("nope")
	}
}

func TestSetArm(t *testing.T) {
	c := base().MustArm("viaG", ref.MustR(ref.My().Attr("g")))
	i := mustNew(t, c)

	// Instance arms override class arms, and refs see the override.
	s := core.MustStrand(ref.MustR(ref.Super().Attr("g")), func(x int) int { return x * 100 })
	if err := i.Set("g", s); err != nil {
		t.Fatal(err)
	}
	if y := call(t, i, "g", 3); y != 200 {
		t.Fatal(y)
	}
	if y := call(t, i, "viaG", 3); y != 200 {
		t.Fatal(y)
	}

	// A plain value with the same name replaces the arm.
	if err := i.Set("g", 1); err != nil {
		t.Fatal(err)
	}
	if y := call(t, i, "g", 3); y != 2 {
		t.Fatal("expected the class arm, got", y)
	}
}

func TestMissingArm(t *testing.T) {
	i := mustNew(t, base())
	_, err := i.Arm("nope")
	var ae *core.AttributeError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AttributeError, got %v", err)
	}
	if ae.Name != "nope" {
		t.Fatal(ae.Name)
	}
}

func TestReset(t *testing.T) {
	s, err := flow.NewStore(func(x int) int { return x * 2 }, -1)
	if err != nil {
		t.Fatal(err)
	}
	i := mustNew(t, NewClass("stored", nil).MustArm("s", s))
	call(t, i, "s", 4)

	a, _ := i.Arm("s")
	tr := core.NewTracer()
	a.BotDown(tr)
	var store *flow.Store
	for _, n := range tr.Visited {
		if st, is := n.(*flow.Store); is {
			store = st
		}
	}
	if store == nil || store.Output != 8 {
		t.Fatal(store)
	}
	if err := i.Reset(); err != nil {
		t.Fatal(err)
	}
	if store.Output != -1 {
		t.Fatal(store.Output)
	}
}

func TestLineage(t *testing.T) {
	b := base()
	sub := NewClass("sub", b)
	var names []string
	for _, k := range sub.Lineage() {
		names = append(names, k.Name())
	}
	if diff := cmp.Diff([]string{"sub", "base"}, names); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff([]string{"f", "g"}, b.ArmNames()); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff([]string{"scale"}, b.FieldNames()); diff != "" {
		t.Fatal(diff)
	}
	if err := b.Arm("", nil); err == nil {
		t.Fatal("empty name")
	}
}

func TestFieldShadowsInheritedArm(t *testing.T) {
	sub := NewClass("sub", base().MustArm("speed", func(x int) int { return x + 1 })).
		Field("speed", 7)
	kid := NewClass("kid", sub).
		MustArm("fast", ref.Apply(
			func(s, x int) int { return s * x },
			ref.Super().Attr("speed"),
			ref.Emission(),
		))
	i := mustNew(t, kid)

	if v, have := i.Attr("speed"); !have || v != 7 {
		t.Fatal(v, have)
	}
	if y := call(t, i, "fast", 2); y != 14 {
		t.Fatal(y)
	}
}
