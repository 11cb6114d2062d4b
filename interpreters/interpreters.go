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

// Package interpreters collects the standard script interpreters.
package interpreters

import (
	"github.com/Comcast/tako/core"
	"github.com/Comcast/tako/interpreters/goja"
	"github.com/Comcast/tako/interpreters/noop"
)

// Standard returns a map with the standard interpreters.
func Standard() core.InterpretersMap {
	is := core.NewInterpretersMap()

	js := goja.NewInterpreter()
	is["goja"] = js
	is["ecmascript"] = js
	is["ecmascript-5.1"] = js

	is["noop"] = noop.NewInterpreter()

	return is
}
