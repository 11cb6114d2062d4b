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

package blueprint

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/Comcast/tako"
	"github.com/Comcast/tako/core"
)

var inlinePattern = regexp.MustCompile(`(?s)(.*?)(%inline *\("([^"]*)"\))`)

// Inline replaces '%inline("NAME")' with f(NAME).  Blueprints use it
// to keep script sources in their own files.
func Inline(bs []byte, f func(string) ([]byte, error)) ([]byte, error) {
	i := 0
	acc := make([]byte, 0, len(bs))
	for {
		part := inlinePattern.FindSubmatch(bs[i:])
		if part == nil {
			acc = append(acc, bs[i:]...)
			break
		}
		i += len(part[0])
		acc = append(acc, part[1]...)
		replacement, err := f(string(part[3]))
		if err != nil {
			return nil, err
		}
		slog.Debug("inlining", "name", string(part[3]), "bytes", len(replacement))
		acc = append(acc, replacement...)
	}

	return acc, nil
}

// fileInliner reads names relative to dir.
func fileInliner(dir string) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, name))
	}
}

// ReadFileWithInlines is os.ReadFile followed by Inline, with names
// relative to the file's directory.
func ReadFileWithInlines(filename string) ([]byte, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Inline(bs, fileInliner(filepath.Dir(filename)))
}

// ReadAllWithInlines is io.ReadAll followed by Inline, with names
// relative to dir.
func ReadAllWithInlines(in io.Reader, dir string) ([]byte, error) {
	bs, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	return Inline(bs, fileInliner(dir))
}

// ParseFile reads a Blueprint file with inlining.
func ParseFile(filename string) (*Blueprint, error) {
	bs, err := ReadFileWithInlines(filename)
	if err != nil {
		return nil, err
	}
	return Parse(bs)
}

// LoadFiles parses and compiles the Blueprint files in order, so a
// file can extend a Class from an earlier one.  The last Class is
// returned.
func LoadFiles(ctx context.Context, r *Registry, interpreters core.InterpretersMap, params map[string]interface{}, filenames ...string) (*tako.Class, error) {
	if len(filenames) == 0 {
		return nil, errors.New("no blueprint files")
	}
	var c *tako.Class
	for _, filename := range filenames {
		b, err := ParseFile(filename)
		if err != nil {
			return nil, err
		}
		if c, err = b.CompileWith(ctx, r, interpreters, params); err != nil {
			return nil, err
		}
		slog.Debug("loaded blueprint", "filename", filename, "class", c.Name())
	}
	return c, nil
}
