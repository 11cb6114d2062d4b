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

package flow

import (
	"errors"
	"fmt"
)

// RepeatExceeded occurs when a Repeat with MaxIterations set doesn't
// reach its break value in time.
type RepeatExceeded struct {
	Max int
}

func (e *RepeatExceeded) Error() string {
	return fmt.Sprintf("repeat exceeded %d iterations", e.Max)
}

var (
	// ErrBadDelay occurs when a Delay is made with a count less
	// than one.
	ErrBadDelay = errors.New("delay count must be at least 1")

	// ErrProbeInput occurs when a BotProbe gets a non-nil input.
	ErrProbeInput = errors.New("bot probe must not take an input")
)
