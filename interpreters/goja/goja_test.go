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

package goja

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Comcast/tako/core"
	. "github.com/Comcast/tako/util/testutil"
	"github.com/google/go-cmp/cmp"
)

func exec(t *testing.T, i *Interpreter, code interface{}, x interface{}, w core.Warehouse, props map[string]interface{}) (interface{}, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	compiled, err := i.Compile(ctx, code)
	if err != nil {
		t.Fatal(err)
	}
	return i.Exec(ctx, x, w, props, code, compiled)
}

func TestScriptSimple(t *testing.T) {
	tests := []struct {
		name string
		code string
		x    interface{}
		want interface{}
	}{
		{"constant", `return {likes:"chips"};`, nil, Dwimjs(`{"likes":"chips"}`)},
		{"input", `return _.x * 2;`, 21, 42.0},
		{"pair", `return [_.x[1], _.x[0]];`, []interface{}{1, "a"}, Dwimjs(`["a",1]`)},
		{"undefined", `var y = 1;`, nil, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			y, err := exec(t, NewInterpreter(), tc.code, tc.x, nil, nil)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, y); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestScriptProps(t *testing.T) {
	props := map[string]interface{}{
		"mid": "simpsons",
	}
	y, err := exec(t, NewInterpreter(), `return {machineId:_.props.mid};`, nil, nil, props)
	if err != nil {
		t.Fatal(err)
	}
	if JS(y) != `{"machineId":"simpsons"}` {
		t.Fatal(JS(y))
	}
}

func TestScriptTimeout(t *testing.T) {
	code := `for (;;) { sleep(10); } null;`

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	i := NewInterpreter()
	i.Testing = true
	compiled, err := i.Compile(ctx, code)
	if err != nil {
		t.Fatal(err)
	}

	if _, err = i.Exec(ctx, nil, nil, nil, code, compiled); err == nil {
		t.Fatal("didn't timeout")
	}
	if err != Interrupted {
		t.Fatalf("surprised by \"%s\"", err)
	}
}

func TestScriptError(t *testing.T) {
	if _, err := exec(t, NewInterpreter(), `likes + tacos; null;`, nil, nil, nil); err == nil {
		t.Fatal("didn't protest")
	}
}

func TestScriptCronNext(t *testing.T) {
	good := fmt.Sprintf(`return _.cronNext("%s");`, "* 0 * * *")
	y, err := exec(t, NewInterpreter(), good, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	s, is := y.(string)
	if !is {
		t.Fatalf("%#v", y)
	}
	if _, err = time.Parse(time.RFC3339Nano, s); err != nil {
		t.Fatal(err)
	}

	bad := fmt.Sprintf(`return _.cronNext("%s");`, "bad")
	if _, err := exec(t, NewInterpreter(), bad, nil, nil, nil); err == nil {
		t.Fatal("didn't protest")
	}
}

func TestScriptWarehouse(t *testing.T) {
	w := core.NewWarehouse()
	code := `_.inform("seen", _.x); return _.probe("seen", 0) + _.probe("missing", 1);`
	y, err := exec(t, NewInterpreter(), code, 2, w, nil)
	if err != nil {
		t.Fatal(err)
	}
	if y != 3.0 {
		t.Fatal(y)
	}
	if v, found, _ := w.Probe("seen", nil); !found || v != 2.0 {
		t.Fatal(v, found)
	}

	if _, err = exec(t, NewInterpreter(), code, 2, nil, nil); err == nil {
		t.Fatal("expected an error without a Warehouse")
	}
}

func TestScriptRequires(t *testing.T) {
	i := NewInterpreter()
	i.LibraryProvider = MakeMapLibraryProvider(map[string]string{
		"double": `function double(x) { return 2*x; }`,
	})
	src := map[string]interface{}{
		"requires": []interface{}{"double"},
		"code":     `return double(_.x);`,
	}
	y, err := exec(t, i, src, 4, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if y != 8.0 {
		t.Fatal(y)
	}

	ctx := context.Background()
	if _, err = i.Compile(ctx, map[string]interface{}{"requires": "nope", "code": ""}); err == nil {
		t.Fatal("expected an undefined library")
	}
}

func TestScriptNeuron(t *testing.T) {
	src := core.ScriptSource{
		Interpreter: "goja",
		Source:      `return _.x + _.props.n;`,
		Props:       map[string]interface{}{"n": 1},
	}
	s, err := src.Compile(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	s.Timeout = time.Second

	st := core.MustStrand(s, s.Spawn())
	y, err := st.Call(1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if y != 3.0 {
		t.Fatal(y)
	}

	src.Interpreter = "cobol"
	_, err = src.Compile(context.Background(), nil)
	if _, is := err.(*core.InterpreterNotFound); !is {
		t.Fatalf("expected InterpreterNotFound, got %v", err)
	}
}
