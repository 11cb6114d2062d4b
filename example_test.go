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

package tako

import (
	"fmt"

	"github.com/Comcast/tako/core"
	"github.com/Comcast/tako/ref"
)

// Example demonstrates inheritance with My and Super references.
func Example() {
	animal := NewClass("animal", nil).
		MustArm("noise", func(x interface{}) interface{} { return "..." }).
		MustArm("speak", core.MustStrand(ref.MustR(ref.My().Attr("noise"))))

	dog := NewClass("dog", animal).
		MustArm("noise", core.MustStrand(
			ref.MustR(ref.Super().Attr("noise")),
			func(s string) string { return s + "woof" },
		))

	i, err := dog.New()
	if err != nil {
		panic(err)
	}
	y, err := i.Call("speak", nil, core.NewWarehouse())
	if err != nil {
		panic(err)
	}
	fmt.Println(y)
	// Output: ...woof
}
