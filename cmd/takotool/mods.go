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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/Comcast/tako"
	"github.com/Comcast/tako/blueprint"
	"github.com/Comcast/tako/interpreters"
	"github.com/Comcast/tako/tools"
)

var Mods = map[string]Mod{
	"analyze":  &Analyzer{},
	"describe": &Describer{},
	"dot":      &Grapher{},
	"html":     &Renderer{},
	"mermaid":  &Mermaider{},
	"ops":      &Opser{},
}

var ErrNoFiles = errors.New("no blueprint files")

// Mod is a subcommand.  Its positional args are usually blueprint
// filenames.
type Mod interface {
	Run(out io.Writer, args []string) error
	Doc() string
	Flags() *flag.FlagSet
}

// classFlags are shared by Mods that compile blueprints.
type classFlags struct {
	ParamsJS string
}

func (c *classFlags) add(fs *flag.FlagSet) {
	fs.StringVar(&c.ParamsJS, "params", "{}", "blueprint parameters (JSON)")
}

// load compiles the blueprint files and returns the last Class.
func (c *classFlags) load(filenames []string) (*tako.Class, error) {
	if len(filenames) == 0 {
		return nil, ErrNoFiles
	}
	var params map[string]interface{}
	if err := json.Unmarshal([]byte(c.ParamsJS), &params); err != nil {
		return nil, fmt.Errorf("bad -params: %w", err)
	}
	return blueprint.LoadFiles(context.Background(), blueprint.Standard(), interpreters.Standard(), params, filenames...)
}

type Analyzer struct {
	classFlags
}

func (c *Analyzer) Doc() string {
	return "Counts a Class's Neurons and reports My and Super references that can't be satisfied."
}

func (c *Analyzer) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	c.add(fs)
	return fs
}

func (c *Analyzer) Run(out io.Writer, args []string) error {
	k, err := c.load(args)
	if err != nil {
		return err
	}
	a, err := tools.Analyze(k)
	if err != nil {
		return err
	}
	js, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintf(out, "%s\n", js); err != nil {
		return err
	}
	if 0 < len(a.Errors) {
		return fmt.Errorf("%d problems: %s", len(a.Errors), strings.Join(a.Errors, "; "))
	}
	return nil
}

type Describer struct {
	classFlags
}

func (c *Describer) Doc() string {
	return "Writes the structure of a Class and its ancestors as YAML."
}

func (c *Describer) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("describe", flag.ExitOnError)
	c.add(fs)
	return fs
}

func (c *Describer) Run(out io.Writer, args []string) error {
	k, err := c.load(args)
	if err != nil {
		return err
	}
	bs, err := tools.DescribeYAML(k)
	if err != nil {
		return err
	}
	_, err = out.Write(bs)
	return err
}

type Grapher struct {
	classFlags
	tools.DotOpts
	PNG string
}

func (c *Grapher) Doc() string {
	return "Writes a Graphviz dot graph of a Class (or, with -png, renders one)."
}

func (c *Grapher) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("dot", flag.ExitOnError)
	c.add(fs)
	fs.BoolVar(&c.Inherited, "inherited", false, "include ancestors' arms")
	fs.StringVar(&c.Highlight, "highlight", "", "arm to highlight")
	fs.StringVar(&c.PNG, "png", "", "basename for dot and png files")
	return fs
}

func (c *Grapher) Run(out io.Writer, args []string) error {
	k, err := c.load(args)
	if err != nil {
		return err
	}
	if c.PNG != "" {
		filename, err := tools.PNG(k, c.PNG, &c.DotOpts)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, filename)
		return err
	}
	return tools.Dot(k, out, &c.DotOpts)
}

type Mermaider struct {
	classFlags
	tools.MermaidOpts
}

func (c *Mermaider) Doc() string {
	return "Writes a Mermaid flowchart of a Class."
}

func (c *Mermaider) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("mermaid", flag.ExitOnError)
	c.add(fs)
	fs.BoolVar(&c.Inherited, "inherited", false, "include ancestors' arms")
	fs.StringVar(&c.ScriptFill, "script-fill", "#bcf2db", "fill color for scripts")
	fs.BoolVar(&c.HideSentinels, "hide-sentinels", true, "leave out in, out, and nil")
	return fs
}

func (c *Mermaider) Run(out io.Writer, args []string) error {
	k, err := c.load(args)
	if err != nil {
		return err
	}
	return tools.Mermaid(k, out, &c.MermaidOpts)
}

type Renderer struct {
	CSS string
}

func (c *Renderer) Doc() string {
	return "Renders a blueprint file as an HTML page."
}

func (c *Renderer) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("html", flag.ExitOnError)
	fs.StringVar(&c.CSS, "css", "/static/blueprint.css", "comma-separated stylesheet URLs")
	return fs
}

func (c *Renderer) Run(out io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("need exactly one blueprint file (not %d)", len(args))
	}
	return tools.ReadAndRenderBlueprintPage(args[0], strings.Split(c.CSS, ","), out)
}

type Opser struct{}

func (c *Opser) Doc() string {
	return "Lists the ops that blueprints can use."
}

func (c *Opser) Flags() *flag.FlagSet {
	return flag.NewFlagSet("ops", flag.ExitOnError)
}

func (c *Opser) Run(out io.Writer, args []string) error {
	for _, name := range blueprint.Standard().Ops() {
		if _, err := fmt.Fprintln(out, name); err != nil {
			return err
		}
	}
	return nil
}
