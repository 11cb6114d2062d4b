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

func add(n int) func(int) int {
	return func(x int) int {
		return x + n
	}
}

func TestConnectExclusive(t *testing.T) {
	a, b, c := &Noop{}, &Noop{}, &Noop{}
	if err := Connect(a, b); err != nil {
		t.Fatal(err)
	}

	t.Run("incoming", func(t *testing.T) {
		err := Connect(c, b)
		var las *LinkAlreadySet
		if !errors.As(err, &las) {
			t.Fatalf("expected LinkAlreadySet, got %v", err)
		}
		if las.Side != "incoming" {
			t.Fatal(las.Side)
		}
	})

	t.Run("outgoing", func(t *testing.T) {
		err := Connect(a, c)
		var las *LinkAlreadySet
		if !errors.As(err, &las) {
			t.Fatalf("expected LinkAlreadySet, got %v", err)
		}
		if las.Side != "outgoing" {
			t.Fatal(las.Side)
		}
	})

	if a.Outgoing() != b || b.Incoming() != a {
		t.Fatal("links changed")
	}
}

func TestConnectSentinels(t *testing.T) {
	tests := []struct {
		description string
		from, to    Neuron
		wantErr     bool
	}{
		{"in to noop", &In{}, &Noop{}, false},
		{"noop to in", &Noop{}, &In{}, true},
		{"noop to nil", &Noop{}, &Nil{}, true},
		{"out to noop", &Out{}, &Noop{}, true},
		{"noop to out", &Noop{}, &Out{}, false},
		{"in to out", &In{}, &Out{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			err := Connect(tc.from, tc.to)
			if tc.wantErr {
				var sv *SentinelViolation
				if !errors.As(err, &sv) {
					t.Fatalf("expected SentinelViolation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestToNeuron(t *testing.T) {
	t.Run("neuron", func(t *testing.T) {
		n := &Noop{}
		got, err := ToNeuron(n)
		if err != nil {
			t.Fatal(err)
		}
		if got != n {
			t.Fatal("expected the same neuron")
		}
	})

	t.Run("nil", func(t *testing.T) {
		got, err := ToNeuron(nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, is := got.(*Noop); !is {
			t.Fatalf("%T", got)
		}
	})

	t.Run("strand", func(t *testing.T) {
		got, err := ToNeuron(MustStrand(add(1)))
		if err != nil {
			t.Fatal(err)
		}
		if _, is := got.(*Arm); !is {
			t.Fatalf("%T", got)
		}
	})

	t.Run("typed func", func(t *testing.T) {
		n, err := ToNeuron(add(2))
		if err != nil {
			t.Fatal(err)
		}
		y, err := n.Call(float64(3), nil)
		if err != nil {
			t.Fatal(err)
		}
		if y != 5 {
			t.Fatal(y)
		}
	})

	t.Run("func with error", func(t *testing.T) {
		boom := errors.New("boom")
		n, err := ToNeuron(func(s string) (string, error) {
			return "", boom
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, err = n.Call("x", nil); err != boom {
			t.Fatal(err)
		}
	})

	t.Run("bad arg", func(t *testing.T) {
		n := MustNeuron(add(2))
		_, err := n.Call("three", nil)
		var te *TypeError
		if !errors.As(err, &te) {
			t.Fatalf("expected TypeError, got %v", err)
		}
	})

	t.Run("not neuronable", func(t *testing.T) {
		_, err := ToNeuron(42)
		var nn *NotNeuronable
		if !errors.As(err, &nn) {
			t.Fatalf("expected NotNeuronable, got %v", err)
		}
	})
}

func TestSentinelInputs(t *testing.T) {
	if _, err := (&Nil{}).Call(1, nil); err != ErrNilInput {
		t.Fatal(err)
	}
	if _, err := NewEmit(1).Call(1, nil); err != ErrEmitInput {
		t.Fatal(err)
	}
	s, err := NilChain(NewEmit(7))
	if err != nil {
		t.Fatal(err)
	}
	y, err := s.Call(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if y != 7 {
		t.Fatal(y)
	}
}

func TestSub(t *testing.T) {
	s := MustStrand(&In{}, NewSub(1))
	y, err := s.Call([]interface{}{"a", "b"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if y != "b" {
		t.Fatal(y)
	}
	if _, err = s.Call([]interface{}{"a"}, nil); err == nil {
		t.Fatal("expected an IndexError")
	}
}

func TestKeyOf(t *testing.T) {
	a, b := &Noop{}, &Noop{}
	if KeyOf(a) == KeyOf(b) {
		t.Fatal("distinct neurons share a key")
	}
	if KeyOf(a) != KeyOf(a) {
		t.Fatal("unstable key")
	}
}
