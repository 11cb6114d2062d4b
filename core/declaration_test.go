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

package core

import (
	"errors"
	"testing"
)

// adderFactory counts how many times it builds.
func adderFactory(built *int) Factory {
	return func(args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
		*built++
		n, _ := asInt(args[0])
		return add(n), nil
	}
}

func TestDeclarationMaterializesOnce(t *testing.T) {
	built := 0
	d := Declare(adderFactory(&built), 5)
	s := MustStrand(&In{}, d, &Out{})

	for i, x := range []int{1, 2} {
		y, err := s.Call(x, nil)
		if err != nil {
			t.Fatal(err)
		}
		if y != x+5 {
			t.Fatal(i, y)
		}
	}
	if built != 1 {
		t.Fatal(built)
	}

	n, err := s.Index(1)
	if err != nil {
		t.Fatal(err)
	}
	if _, is := n.(*Declaration); is {
		t.Fatal("declaration still in the chain")
	}
	if n != d.Defined() {
		t.Fatal("chain doesn't hold the defined neuron")
	}
	if s.Head().Linkage().Outgoing() != n || s.Tail().Linkage().Incoming() != n {
		t.Fatal("neighbors not rewired")
	}
}

func TestDeclarationAtHead(t *testing.T) {
	built := 0
	d := Declare(adderFactory(&built), 1)
	s := MustStrand(d, add(10))
	for i := 0; i < 2; i++ {
		y, err := s.Call(0, nil)
		if err != nil {
			t.Fatal(err)
		}
		if y != 11 {
			t.Fatal(y)
		}
	}
	if built != 1 {
		t.Fatal(built)
	}
	if s.Head() != d.Defined() {
		t.Fatalf("%T", s.Head())
	}
}

func TestDeclarationDynamic(t *testing.T) {
	built := 0
	d := NewDeclaration(adderFactory(&built), []interface{}{2}, nil, true)
	s := MustStrand(&In{}, d, &Out{})
	for i := 0; i < 3; i++ {
		if _, err := s.Call(0, nil); err != nil {
			t.Fatal(err)
		}
	}
	if built != 3 {
		t.Fatal(built)
	}
	if n, _ := s.Index(1); n != d {
		t.Fatal("dynamic declaration was spliced out")
	}
}

func TestDeclarationArgs(t *testing.T) {
	built := 0

	t.Run("unresolved", func(t *testing.T) {
		d := Declare(adderFactory(&built), ArgAt(0))
		_, err := d.Call(1, nil)
		var ua *UnresolvedArg
		if !errors.As(err, &ua) {
			t.Fatalf("expected UnresolvedArg, got %v", err)
		}
	})

	t.Run("positional", func(t *testing.T) {
		d := Declare(adderFactory(&built), ArgAt(1))
		if err := d.UpdateArgs([]interface{}{100, 3}, nil); err != nil {
			t.Fatal(err)
		}
		y, err := d.Call(1, nil)
		if err != nil {
			t.Fatal(err)
		}
		if y != 4 {
			t.Fatal(y)
		}
	})

	t.Run("keyword missing", func(t *testing.T) {
		d := NewDeclaration(adderFactory(&built), nil, map[string]interface{}{
			"n": ArgNamed("n"),
		}, false)
		err := d.UpdateArgs(nil, map[string]interface{}{"m": 1})
		var anf *ArgNotFound
		if !errors.As(err, &anf) {
			t.Fatalf("expected ArgNotFound, got %v", err)
		}
	})

	t.Run("index missing", func(t *testing.T) {
		_, err := ArgAt(2).Resolve([]interface{}{1}, nil)
		var anf *ArgNotFound
		if !errors.As(err, &anf) {
			t.Fatalf("expected ArgNotFound, got %v", err)
		}
	})
}

func TestStem(t *testing.T) {
	built := 0

	t.Run("top level", func(t *testing.T) {
		stem := NewStem(adderFactory(&built), []interface{}{ArgAt(0)}, nil)
		n, err := stem.Make([]interface{}{7}, nil)
		if err != nil {
			t.Fatal(err)
		}
		y, err := n.Call(1, nil)
		if err != nil {
			t.Fatal(err)
		}
		if y != 8 {
			t.Fatal(y)
		}
	})

	t.Run("template", func(t *testing.T) {
		template := MustStrand(
			Declare(adderFactory(&built), ArgNamed("a")),
			Declare(adderFactory(&built), ArgNamed("b")),
		)
		stem := TemplateStem(template)

		n1, err := stem.Make(nil, map[string]interface{}{"a": 1, "b": 2})
		if err != nil {
			t.Fatal(err)
		}
		n2, err := stem.Make(nil, map[string]interface{}{"a": 10, "b": 20})
		if err != nil {
			t.Fatal(err)
		}
		y1, err := n1.Call(0, nil)
		if err != nil {
			t.Fatal(err)
		}
		y2, err := n2.Call(0, nil)
		if err != nil {
			t.Fatal(err)
		}
		if y1 != 3 || y2 != 30 {
			t.Fatal(y1, y2)
		}

		// The template itself still has its Args.
		d := template.Head().(*Declaration)
		if _, is := d.Args()[0].(*Arg); !is {
			t.Fatal("template was modified")
		}
	})

	t.Run("missing", func(t *testing.T) {
		stem := TemplateStem(MustStrand(Declare(adderFactory(&built), ArgNamed("a"))))
		if _, err := stem.Make(nil, nil); err == nil {
			t.Fatal("expected an error")
		}
	})
}

type mirrored struct {
	Noop
}

func (m *mirrored) Reverse() (Neuron, error) {
	return NewEmit("mirror"), nil
}

func TestReverse(t *testing.T) {
	t.Run("spawn", func(t *testing.T) {
		n := MustNeuron(add(3))
		y, err := Reverse(n, false).Call(1, nil)
		if err != nil {
			t.Fatal(err)
		}
		if y != 4 {
			t.Fatal(y)
		}
	})

	t.Run("reversible", func(t *testing.T) {
		y, err := Reverse(&mirrored{}, false).Call(nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if y != "mirror" {
			t.Fatal(y)
		}
	})

	t.Run("declaration", func(t *testing.T) {
		built := 0
		d := Declare(adderFactory(&built), 2)
		y, err := Reverse(d, false).Call(1, nil)
		if err != nil {
			t.Fatal(err)
		}
		if y != 3 || built != 1 {
			t.Fatal(y, built)
		}
		if d.Defined() != nil {
			t.Fatal("reversing defined the original declaration")
		}
	})
}

type ownedNoop struct {
	Noop
	owner interface{}
}

func (n *ownedNoop) SetOwner(owner interface{}) bool {
	if n.owner != nil {
		return false
	}
	n.owner = owner
	return true
}

func TestDeclarationPassesOwner(t *testing.T) {
	var made *ownedNoop
	d := Declare(func(_ []interface{}, _ map[string]interface{}) (interface{}, error) {
		made = &ownedNoop{}
		return made, nil
	})
	s := MustStrand(&In{}, d, &Out{})
	s.BotForward(CallSetOwner("me"))
	if _, err := s.Call(1, nil); err != nil {
		t.Fatal(err)
	}
	if made.owner != "me" {
		t.Fatal(made.owner)
	}
}
