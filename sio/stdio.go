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
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Stdio is a fairly simple Couplings that uses stdin for input and
// stdout for output.
type Stdio struct {
	// In is coupled to Runner input.
	In io.Reader

	// Out is coupled to Runner output.
	Out io.Writer

	// ShellExpand enables input to include inline shell commands
	// delimited by '<<' and '>>'.
	ShellExpand bool

	// Timestamps prepends a timestamp to each output line.
	Timestamps bool

	// EchoInput writes input lines (prepended with "input") to
	// the output.
	EchoInput bool

	// Tags prefixes tags indicating type of output ("input",
	// "emit", "error", "diag").
	Tags bool

	// PadTags adds some padding to tags.
	PadTags bool

	// PrintDiag writes each entire Result.
	PrintDiag bool

	// InputEOF will be closed on EOF from stdin.
	InputEOF chan bool

	Logger *slog.Logger

	wg sync.WaitGroup
}

// NewStdio creates a new Stdio.
//
// In and Out are initialized with os.Stdin and os.Stdout
// respectively.
func NewStdio(shellExpand bool) *Stdio {
	return &Stdio{
		In:          os.Stdin,
		Out:         os.Stdout,
		ShellExpand: shellExpand,
		InputEOF:    make(chan bool),
		Logger:      slog.Default(),
	}
}

// Start does nothing.
func (s *Stdio) Start(ctx context.Context) error {
	return nil
}

// Stop waits until IO is complete or was terminated via its context.
func (s *Stdio) Stop(ctx context.Context) error {
	s.wg.Wait()
	return nil
}

// IO returns channels for reading from stdin and writing to stdout.
//
// A line "quit" ends input.  Blank lines and lines starting with '#'
// are ignored.
func (s *Stdio) IO(ctx context.Context) (chan interface{}, chan *Result, chan bool, error) {
	in := make(chan interface{})
	done := make(chan bool)

	var mu sync.Mutex
	printf := func(tag, format string, args ...interface{}) {
		if s.PadTags {
			tag = fmt.Sprintf("% 10s", tag)
		}
		if s.Tags {
			format = tag + " " + format
		}
		if s.Timestamps {
			ts := fmt.Sprintf("%-31s", time.Now().UTC().Format(time.RFC3339Nano))
			format = ts + " " + format
		}
		mu.Lock()
		fmt.Fprintf(s.Out, format, args...)
		mu.Unlock()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.Logger.Debug("stdio input done")
		stdin := bufio.NewReader(s.In)
		for {
			line, err := stdin.ReadString('\n')
			if err == io.EOF || strings.TrimSpace(line) == "quit" {
				close(done)
				close(s.InputEOF)
				return
			}
			if err != nil {
				s.Logger.Error("stdin", "err", err)
				return
			}
			if s.EchoInput {
				printf("input", "%s", line)
			}
			if strings.HasPrefix(line, "#") || len(strings.TrimSpace(line)) == 0 {
				continue
			}
			if s.ShellExpand {
				if line, err = ShellExpand(ctx, line); err != nil {
					s.Logger.Error("stdin", "err", err)
					return
				}
			}

			var msg interface{}
			if err := json.Unmarshal([]byte(line), &msg); err != nil {
				s.Logger.Warn("bad input", "err", err)
				continue
			}

			select {
			case <-ctx.Done():
				return
			case in <- msg:
			}
		}
	}()

	out := make(chan *Result)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.Logger.Debug("stdio output done")
		for {
			select {
			case <-ctx.Done():
				return
			case r := <-out:
				if r == nil {
					return
				}
				for _, msg := range r.Emitted {
					printf("emit", "%s\n", JS(msg))
				}
				if r.Err != "" {
					printf("error", "%s\n", JS(r.Err))
				}
				if s.PrintDiag {
					printf("diag", "%s\n", JS(r))
				}
			}
		}
	}()

	return in, out, done, nil
}
