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

package sio

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Comcast/tako"
	"github.com/Comcast/tako/core"
	"github.com/Comcast/tako/flow"
	"github.com/google/go-cmp/cmp"
)

func double(x interface{}) (interface{}, error) {
	f, is := x.(float64)
	if !is {
		return nil, errors.New("not a number")
	}
	return f * 2, nil
}

func testInstance(t *testing.T) *tako.Instance {
	t.Helper()
	memo, err := flow.NewBotInform(core.NewOp(double), "memo")
	if err != nil {
		t.Fatal(err)
	}
	memo.UseNeuronKey = false
	memo.AutoReset = false

	c := tako.NewClass("test", nil).
		MustArm("double", core.NewOp(double)).
		MustArm("twice", core.NewOp(func(x interface{}) (interface{}, error) {
			return []interface{}{x, x}, nil
		})).
		MustArm("nothing", core.NewOp(func(x interface{}) (interface{}, error) {
			return nil, nil
		})).
		MustArm("memo", memo)
	i, err := c.New()
	if err != nil {
		t.Fatal(err)
	}
	return i
}

// chanCouplings is a Couplings that just exposes its channels.
type chanCouplings struct {
	in   chan interface{}
	out  chan *Result
	done chan bool
}

func newChanCouplings() *chanCouplings {
	return &chanCouplings{
		in:   make(chan interface{}),
		out:  make(chan *Result),
		done: make(chan bool),
	}
}

func (c *chanCouplings) Start(ctx context.Context) error { return nil }
func (c *chanCouplings) Stop(ctx context.Context) error  { return nil }

func (c *chanCouplings) IO(ctx context.Context) (chan interface{}, chan *Result, chan bool, error) {
	return c.in, c.out, c.done, nil
}

func newRunner(t *testing.T, conf *Conf) (*Runner, *chanCouplings) {
	t.Helper()
	cc := newChanCouplings()
	r, err := NewRunner(context.Background(), conf, testInstance(t), cc)
	if err != nil {
		t.Fatal(err)
	}
	return r, cc
}

func TestProcessMsg(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		conf *Conf
		msg  interface{}
		want *Result
		err  bool
	}{
		{
			name: "named",
			msg:  map[string]interface{}{"arm": "double", "x": 3.0},
			want: &Result{Arm: "double", Emitted: []interface{}{6.0}},
		},
		{
			name: "default",
			conf: &Conf{Arm: "double"},
			msg:  4.0,
			want: &Result{Arm: "double", Emitted: []interface{}{8.0}},
		},
		{
			name: "unrouted",
			msg:  4.0,
			err:  true,
		},
		{
			name: "bad arm",
			msg:  map[string]interface{}{"arm": 1.0},
			err:  true,
		},
		{
			name: "arm error",
			msg:  map[string]interface{}{"arm": "double", "x": "hi"},
			want: &Result{Arm: "double", Err: "not a number"},
		},
		{
			name: "missing arm",
			msg:  map[string]interface{}{"arm": "triple", "x": 1.0},
			want: &Result{Arm: "triple", Err: (&core.AttributeError{Name: "triple", Target: (*tako.Instance)(nil)}).Error()},
		},
		{
			name: "nil output",
			msg:  map[string]interface{}{"arm": "nothing"},
			want: &Result{Arm: "nothing"},
		},
		{
			name: "unspread",
			msg:  map[string]interface{}{"arm": "twice", "x": 1.0},
			want: &Result{Arm: "twice", Emitted: []interface{}{[]interface{}{1.0, 1.0}}},
		},
		{
			name: "spread",
			conf: &Conf{Spread: true},
			msg:  map[string]interface{}{"arm": "twice", "x": 1.0},
			want: &Result{Arm: "twice", Emitted: []interface{}{1.0, 1.0}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r, _ := newRunner(t, test.conf)
			got, err := r.ProcessMsg(ctx, test.msg)
			if test.err {
				if err == nil {
					t.Fatalf("expected an error but got %s", JS(got))
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			test.want.Msg = test.msg
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestRunnerWarehouse(t *testing.T) {
	ctx := context.Background()
	r, _ := newRunner(t, &Conf{Arm: "memo"})

	emitted := func(x interface{}) interface{} {
		t.Helper()
		res, err := r.ProcessMsg(ctx, x)
		if err != nil {
			t.Fatal(err)
		}
		if res.Err != "" {
			t.Fatal(res.Err)
		}
		return res.Emitted[0]
	}

	// A new Warehouse per message.
	if got := emitted(1.0); got != 2.0 {
		t.Fatal(got)
	}
	if got := emitted(2.0); got != 4.0 {
		t.Fatal(got)
	}

	// One Warehouse for every message.
	r.Warehouse = core.NewWarehouse()
	if got := emitted(3.0); got != 6.0 {
		t.Fatal(got)
	}
	if got := emitted(4.0); got != 6.0 {
		t.Fatal(got)
	}
	if v, found, _ := r.Warehouse.Probe("memo", nil); !found || v != 6.0 {
		t.Fatal(v, found)
	}

	// A full Reset forgets the stored value.
	r.Warehouse.Reset()
	if got := emitted(5.0); got != 10.0 {
		t.Fatal(got)
	}
}

func TestRunnerReset(t *testing.T) {
	ctx := context.Background()
	r, _ := newRunner(t, nil)
	res, err := r.ProcessMsg(ctx, map[string]interface{}{"reset": true})
	if err != nil {
		t.Fatal(err)
	}
	if res != nil {
		t.Fatal(JS(res))
	}
}

func TestRunnerTimers(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r, cc := newRunner(t, nil)
	go r.Loop(ctx)

	later := map[string]interface{}{"arm": "double", "x": 21.0}
	cc.in <- map[string]interface{}{
		"timer": map[string]interface{}{"id": "t0", "in": "50ms", "msg": later},
	}
	cc.in <- map[string]interface{}{
		"timer": map[string]interface{}{"id": "t1", "in": "1h", "msg": later},
	}
	cc.in <- map[string]interface{}{"cancelTimer": "t1"}

	select {
	case <-ctx.Done():
		t.Fatal("timer didn't fire")
	case res := <-cc.out:
		if diff := cmp.Diff([]interface{}{42.0}, res.Emitted); diff != "" {
			t.Fatal(diff)
		}
	}

	if ids := r.Timers().Pending(); len(ids) != 0 {
		t.Fatal(ids)
	}
}

func TestTimersReplace(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan string, 2)
	ts := NewTimers(func(ctx context.Context, te *TimerEntry) {
		fired <- te.Msg.(string)
	})
	if err := ts.Add(ctx, "t", "first", time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := ts.Add(ctx, "t", "second", 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-fired:
		if got != "second" {
			t.Fatal(got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timer didn't fire")
	}
	if err := ts.Cancel(ctx, "t"); err == nil {
		t.Fatal("canceled a fired timer")
	}
}

func TestStdio(t *testing.T) {
	input := `# A comment.
{"arm":"double","x":10}

{"arm":"double","x":"ten"}
{"arm":"twice","x":1}
not json
quit
{"arm":"double","x":100}
`
	s := NewStdio(false)
	s.In = strings.NewReader(input)
	var out bytes.Buffer
	s.Out = &out
	s.Tags = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}

	r, err := NewRunner(ctx, &Conf{HaltOnInputEOF: true, Spread: true}, testInstance(t), s)
	if err != nil {
		t.Fatal(err)
	}

	if err = r.Loop(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()

	if err = s.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := `emit 20
error "not a number"
emit 1
emit 1
`
	if got := out.String(); got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}

	select {
	case <-s.InputEOF:
	default:
		t.Fatal("InputEOF not closed")
	}
}

func TestShellExpand(t *testing.T) {
	got, err := ShellExpand(context.Background(), `{"n":<<echo -n 42>>}`)
	if err != nil {
		t.Skip(err)
	}
	if got != `{"n":42}` {
		t.Fatal(got)
	}
}

func TestJShort(t *testing.T) {
	if got := JShort("abcdef", 3); got != `"ab...` {
		t.Fatal(got)
	}
	if got := JShort(1, 3); got != "1" {
		t.Fatal(got)
	}
	if got := JS(nil); got != "null" {
		t.Fatal(got)
	}
}
