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

// Package testutil has JSON conveniences for tests and examples.
package testutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// JS renders its argument as JSON or, if that fails, as '%#v'.
func JS(x interface{}) string {
	bs, err := json.Marshal(&x)
	if err != nil {
		slog.Warn("testutil.JS", "err", err, "x", fmt.Sprintf("%#v", x))
		return fmt.Sprintf("%#v", x)
	}
	return string(bs)
}

// Dwimjs, when given a string or bytes that parse as JSON, returns
// the parsed value.  Anything else is returned as is.
//
// See https://en.wikipedia.org/wiki/DWIM.
func Dwimjs(x interface{}) interface{} {
	switch vv := x.(type) {
	case []byte:
		return Dwimjs(string(vv))
	case string:
		var v interface{}
		if err := json.Unmarshal([]byte(vv), &v); err != nil {
			return vv
		}
		return v
	default:
		return x
	}
}

// Canonical returns x after a trip through JSON, so numbers are
// float64s and structs are maps.
func Canonical(x interface{}) interface{} {
	bs, err := json.Marshal(&x)
	if err != nil {
		return x
	}
	var v interface{}
	if err = json.Unmarshal(bs, &v); err != nil {
		return x
	}
	return v
}

// Same fails the test if want and got differ after Canonical.
func Same(t testing.TB, want, got interface{}) {
	t.Helper()
	if diff := cmp.Diff(Canonical(want), Canonical(got)); diff != "" {
		t.Fatalf("(-want +got)\n%s", diff)
	}
}
