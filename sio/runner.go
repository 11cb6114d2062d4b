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

// Package sio couples a stream of JSON messages to the Arms of a
// tako Instance.
//
// A message is routed by its properties:
//
//	{"arm":"double","x":3}                          calls Arm "double" with 3
//	{"reset":true}                                  resets the Instance
//	{"timer":{"id":"t0","in":"2s","msg":{...}}}     redelivers msg later
//	{"cancelTimer":"t0"}                            cancels a timer
//
// Any other message goes to Conf.Arm if that's set.
package sio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Comcast/tako"
	"github.com/Comcast/tako/core"
)

// ErrNoArm reports a message that doesn't say which Arm should get it.
var ErrNoArm = errors.New("message names no arm")

// Conf provides some basic Runner parameters.
type Conf struct {
	// Arm receives messages that don't name an Arm.
	Arm string `json:"arm,omitempty"`

	// HaltOnInputEOF stops Loop when the Couplings' input is
	// exhausted.
	HaltOnInputEOF bool `json:"haltOnInputEOF,omitempty"`

	// Spread emits each element of an array output as its own
	// message.
	Spread bool `json:"spread,omitempty"`
}

// Result is what processing one message produced.
type Result struct {
	Msg interface{} `json:"msg"`

	// Arm is the Arm that processed Msg (if any).
	Arm string `json:"arm,omitempty"`

	// Emitted is the Arm's output as zero or more messages.
	Emitted []interface{} `json:"emitted,omitempty"`

	// Err is the Arm's error.
	Err string `json:"err,omitempty"`
}

// Runner feeds messages from Couplings through an Instance.
type Runner struct {
	Instance *tako.Instance
	Conf     *Conf

	// Warehouse, if not nil, is shared by every pass, so stored
	// values carry over.  Only its visit state is cleared between
	// passes.  Otherwise each message gets its own MemWarehouse.
	Warehouse core.Warehouse

	Logger *slog.Logger

	timers *Timers

	in   chan interface{}
	out  chan *Result
	done chan bool

	sync.Mutex
}

// NewRunner makes a Runner with the given configuration and
// couplings.
//
// The coupling's IO() method is called to obtain the Runner's in/out
// channels.
func NewRunner(ctx context.Context, conf *Conf, inst *tako.Instance, couplings Couplings) (*Runner, error) {
	in, out, done, err := couplings.IO(ctx)
	if err != nil {
		return nil, err
	}
	if conf == nil {
		conf = &Conf{}
	}
	r := &Runner{
		Instance: inst,
		Conf:     conf,
		Logger:   slog.Default(),
		in:       in,
		out:      out,
		done:     done,
	}
	r.timers = NewTimers(func(ctx context.Context, te *TimerEntry) {
		select {
		case <-ctx.Done():
		case r.in <- te.Msg:
		}
	})
	return r, nil
}

// Timers returns the Runner's pending timers.
func (r *Runner) Timers() *Timers {
	return r.timers
}

func (r *Runner) warehouse() core.Warehouse {
	if r.Warehouse == nil {
		return core.NewWarehouse()
	}
	if vr, is := r.Warehouse.(core.VisitResetter); is {
		vr.ResetVisits()
	} else {
		r.Warehouse.Reset()
	}
	return r.Warehouse
}

// ProcessMsg handles one message.  An error from the Arm is reported
// in the Result.  A message that can't be routed is an error, and a
// control message returns a nil Result.
func (r *Runner) ProcessMsg(ctx context.Context, msg interface{}) (*Result, error) {
	r.Lock()
	defer r.Unlock()

	arm := r.Conf.Arm
	x := msg

	if m, is := msg.(map[string]interface{}); is {
		if reset, _ := m["reset"].(bool); reset {
			r.Logger.Info("resetting instance")
			return nil, r.Instance.Reset()
		}
		if t, have := m["timer"]; have {
			return nil, r.addTimer(ctx, t)
		}
		if id, have := m["cancelTimer"]; have {
			s, is := id.(string)
			if !is {
				return nil, fmt.Errorf("bad timer id %#v", id)
			}
			return nil, r.timers.Cancel(ctx, s)
		}
		if a, have := m["arm"]; have {
			s, is := a.(string)
			if !is {
				return nil, fmt.Errorf("bad arm %#v", a)
			}
			arm = s
			x = m["x"]
		}
	}

	if arm == "" {
		return nil, ErrNoArm
	}

	res := &Result{
		Msg: msg,
		Arm: arm,
	}

	r.Logger.Debug("processing", "arm", arm, "x", JShort(x, 70))

	y, err := r.Instance.Call(arm, x, r.warehouse())
	if err != nil {
		res.Err = err.Error()
		return res, nil
	}

	if y == nil {
		return res, nil
	}
	if xs, is := y.([]interface{}); is && r.Conf.Spread {
		res.Emitted = xs
	} else {
		res.Emitted = []interface{}{y}
	}

	return res, nil
}

func (r *Runner) addTimer(ctx context.Context, x interface{}) error {
	m, is := x.(map[string]interface{})
	if !is {
		return fmt.Errorf("bad timer %#v", x)
	}
	id, _ := m["id"].(string)
	if id == "" {
		return fmt.Errorf("timer has no id: %s", JS(x))
	}
	in, _ := m["in"].(string)
	d, err := time.ParseDuration(in)
	if err != nil {
		return err
	}
	msg, have := m["msg"]
	if !have {
		return fmt.Errorf("timer %s has no msg", id)
	}
	return r.timers.Add(ctx, id, msg, d)
}

// Loop processes messages until the context is done, the input
// channel gives a nil, or (with HaltOnInputEOF) input is exhausted.
func (r *Runner) Loop(ctx context.Context) error {
	r.Logger.Info("Runner.Loop starting")
LOOP:
	for {
		select {
		case <-r.done:
			if r.Conf.HaltOnInputEOF {
				r.Logger.Info("Runner.Loop shutting down (input done)")
				break LOOP
			}
			// Don't spin on a closed channel.
			r.done = nil
		case <-ctx.Done():
			r.Logger.Info("Runner.Loop shutting down (ctx.Done)")
			break LOOP
		case msg := <-r.in:
			if msg == nil {
				break LOOP
			}
			res, err := r.ProcessMsg(ctx, msg)
			if err != nil {
				r.Logger.Error("ProcessMsg", "err", err, "msg", JShort(msg, 70))
				continue
			}
			if res == nil {
				continue
			}
			select {
			case <-ctx.Done():
			case r.out <- res:
			}
		}
	}

	r.Logger.Info("Runner.Loop done")
	return nil
}
