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

package sio

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// TimerEntry represents a pending timer.
type TimerEntry struct {
	Id  string      `json:"id"`
	Msg interface{} `json:"msg"`
	At  time.Time   `json:"at"`

	ctl chan bool
}

// Timers represents pending timers.  When a timer fires, its message
// goes to the Emitter.
type Timers struct {
	Emitter func(context.Context, *TimerEntry)
	Logger  *slog.Logger

	mu      sync.Mutex
	entries map[string]*TimerEntry
}

// NewTimers creates a Timers with the given function that the
// TimerEntries will use to emit their messages.
func NewTimers(emitter func(context.Context, *TimerEntry)) *Timers {
	return &Timers{
		Emitter: emitter,
		Logger:  slog.Default(),
		entries: make(map[string]*TimerEntry, 8),
	}
}

// Add creates a new timer that will emit the given message later (if
// the timer isn't cancelled first).  An existing timer with the same
// id is cancelled.
func (ts *Timers) Add(ctx context.Context, id string, msg interface{}, d time.Duration) error {
	ts.Logger.Debug("Timers.Add", "id", id, "in", d)

	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, have := ts.entries[id]; have {
		if err := ts.cancel(id); err != nil {
			return err
		}
	}

	e := &TimerEntry{
		Id:  id,
		At:  time.Now().UTC().Add(d),
		Msg: msg,
		ctl: make(chan bool),
	}
	ts.entries[id] = e

	go ts.run(ctx, e)

	return nil
}

// run waits until the appointed time and then emits the entry's
// message if the entry isn't cancelled first.
func (ts *Timers) run(ctx context.Context, e *TimerEntry) {
	t := time.NewTimer(time.Until(e.At))
	defer t.Stop()
	select {
	case <-t.C:
		ts.mu.Lock()
		current := ts.entries[e.Id] == e
		if current {
			delete(ts.entries, e.Id)
		}
		ts.mu.Unlock()
		if current {
			ts.Logger.Debug("firing timer", "id", e.Id)
			ts.Emitter(ctx, e)
		}
	case <-e.ctl:
		ts.Logger.Debug("canceled timer", "id", e.Id)
	case <-ctx.Done():
	}
}

func (ts *Timers) cancel(id string) error {
	e, have := ts.entries[id]
	if !have {
		return fmt.Errorf("timer '%s' doesn't exist", id)
	}
	delete(ts.entries, id)
	close(e.ctl)
	return nil
}

// Cancel attempts to cancel the timer with the given id.
func (ts *Timers) Cancel(ctx context.Context, id string) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.cancel(id)
}

// Pending returns the ids of the timers that haven't fired.
func (ts *Timers) Pending() []string {
	ts.mu.Lock()
	acc := make([]string, 0, len(ts.entries))
	for id := range ts.entries {
		acc = append(acc, id)
	}
	ts.mu.Unlock()
	sort.Strings(acc)
	return acc
}
