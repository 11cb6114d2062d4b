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

package tools

import (
	"fmt"
	"io"

	"github.com/Comcast/tako/blueprint"
	. "github.com/Comcast/tako/util/testutil"

	md "github.com/russross/blackfriday/v2"
	"gopkg.in/yaml.v2"
)

// RenderBlueprintHTML writes an HTML fragment documenting the
// Blueprint.  Docs are Markdown.
func RenderBlueprintHTML(b *blueprint.Blueprint, out io.Writer) error {
	var err error
	f := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(out, format+"\n", args...)
		}
	}

	f(`<div class="blueprintDoc doc">%s</div>`, md.Run([]byte(b.Doc)))

	if b.Extends != "" {
		f(`<div class="extends">extends <code>%s</code></div>`, b.Extends)
	}

	if 0 < len(b.Params) {
		f(`<div class="params"><table>`)
		for k, v := range b.Params {
			f(`<tr><td><code>$%s</code></td><td><code>%s</code></td></tr>`, k, JS(v))
		}
		f(`</table></div>`)
	}

	f(`<div class="arms"><table>`)
	for _, name := range b.ArmNames() {
		f(`<tr class="arm"><td><span id="%s" class="armName">%s</span></td><td>`, name, name)
		f(`<table>`)
		for i, s := range b.Arms[name] {
			kind, _ := s.Kind()
			f(`<tr><td><div class="stepNum">%d</div></td><td class="stepKind">%s</td><td>`, i, kind)
			if s.Doc != "" {
				f(`<div class="stepDoc doc">%s</div>`, md.Run([]byte(s.Doc)))
			}
			if s.Script != nil {
				f(`<div class="code"><pre>%s</pre></div>`, s.Script.Source)
			} else {
				src, err := yaml.Marshal(s)
				if err != nil {
					return err
				}
				f(`<div class="step"><pre>%s</pre></div>`, src)
			}
			f(`</td></tr>`)
		}
		f(`</table>`)
		f(`</td></tr>`)
	}
	f(`</table></div>`)

	return err
}

// RenderBlueprintPage writes a complete HTML page.
func RenderBlueprintPage(b *blueprint.Blueprint, out io.Writer, cssFiles []string) error {
	if cssFiles == nil {
		cssFiles = []string{"/static/blueprint.css"}
	}

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, b.Name)

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, b.Name)

	if err := RenderBlueprintHTML(b, out); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, `
  </body>
</html>
`)
	return err
}

// ReadAndRenderBlueprintPage reads a Blueprint file (with inlining)
// and renders it.
func ReadAndRenderBlueprintPage(filename string, cssFiles []string, out io.Writer) error {
	b, err := blueprint.ParseFile(filename)
	if err != nil {
		return err
	}
	return RenderBlueprintPage(b, out, cssFiles)
}
