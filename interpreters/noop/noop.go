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

// Package noop provides a core.Interpreter that passes its input
// through.
package noop

import (
	"context"
	"log/slog"

	"github.com/Comcast/tako/core"
)

// Interpreter is a core.Interpreter whose scripts output their input
// without modification.
type Interpreter struct {
	// Silent suppresses warning log messages.
	Silent bool

	// Logger gets the warnings.  If nil, slog.Default() is used.
	Logger *slog.Logger
}

// NewInterpreter makes a new Interpreter.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

func (i *Interpreter) warn(msg string) {
	if i.Silent {
		return
	}
	l := i.Logger
	if l == nil {
		l = slog.Default()
	}
	l.Warn(msg)
}

func (i *Interpreter) Compile(ctx context.Context, code interface{}) (interface{}, error) {
	i.warn("using noop interpreter for compilation")
	return nil, nil
}

func (i *Interpreter) Exec(ctx context.Context, x interface{}, w core.Warehouse, props map[string]interface{}, code interface{}, compiled interface{}) (interface{}, error) {
	i.warn("using noop interpreter for execution")
	return x, nil
}
