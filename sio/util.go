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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
)

// JS renders its argument as JSON or as '%#v'.
func JS(x interface{}) string {
	if x == nil {
		return "null"
	}
	js, err := json.Marshal(&x)
	if err != nil {
		return fmt.Sprintf("%#v", x)
	}
	return string(js)
}

// JShort renders its argument as JS() but only up to n characters
// (plus an ellipsis).
func JShort(x interface{}, n int) string {
	js := JS(x)
	if n < len(js) {
		return js[0:n] + "..."
	}
	return js
}

var shell = regexp.MustCompile(`<<(.*?)>>`)

// ShellExpand replaces each command delimited by '<<' and '>>' with
// that command's output.  Use at your own risk, of course!
func ShellExpand(ctx context.Context, msg string) (string, error) {
	literals := shell.Split(msg, -1)
	acc := literals[0]
	for i, s := range shell.FindAllStringSubmatch(msg, -1) {
		var out bytes.Buffer
		cmd := exec.CommandContext(ctx, "bash", "-c", s[1])
		cmd.Stdout = &out
		if err := cmd.Run(); err != nil {
			return "", fmt.Errorf("shell error %s on %s", err, s[1])
		}
		acc += out.String() + literals[i+1]
	}
	return acc, nil
}
