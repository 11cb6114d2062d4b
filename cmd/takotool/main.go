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

// Package main is a command-line tool for inspecting tako blueprints.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jsccast/yaml"
)

func main() {

	if len(os.Args) < 2 {
		Usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "yamltojson":
		pretty := false

		switch len(os.Args) {
		case 2:
		case 3:
			if os.Args[2] != "-p" {
				fail(fmt.Errorf("unsupported args: %v", os.Args[1:]))
			}
			pretty = true
		default:
			fail(fmt.Errorf("unsupported args: %v", os.Args[1:]))
		}

		bs, err := io.ReadAll(os.Stdin)
		if err != nil {
			fail(err)
		}
		if bs, err = YAMLToJSON(bs, pretty); err != nil {
			fail(err)
		}
		if _, err = os.Stdout.Write(bs); err != nil {
			fail(err)
		}

	case "jsontoyaml":
		bs, err := io.ReadAll(os.Stdin)
		if err != nil {
			fail(err)
		}
		if bs, err = JSONToYAML(bs); err != nil {
			fail(err)
		}
		if _, err = os.Stdout.Write(bs); err != nil {
			fail(err)
		}

	default:
		mod, have := Mods[os.Args[1]]
		if !have {
			fmt.Printf("Unknown subcommand \"%s\"\n", os.Args[1])
			Usage()
			os.Exit(1)
		}

		fs := mod.Flags()
		if err := fs.Parse(os.Args[2:]); err != nil {
			fail(err)
		}
		if err := mod.Run(os.Stdout, fs.Args()); err != nil {
			fail(err)
		}
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// YAMLToJSON converts a YAML document to JSON.
func YAMLToJSON(bs []byte, pretty bool) ([]byte, error) {
	var x interface{}
	if err := yaml.Unmarshal(bs, &x); err != nil {
		return nil, err
	}
	if pretty {
		return json.MarshalIndent(&x, "", "  ")
	}
	return json.Marshal(&x)
}

// JSONToYAML converts a JSON document to YAML.
func JSONToYAML(bs []byte) ([]byte, error) {
	var x interface{}
	if err := json.Unmarshal(bs, &x); err != nil {
		return nil, err
	}
	return yaml.Marshal(&x)
}

func Usage() {
	fmt.Printf("Subcommands:\n\n")
	names := make([]string, 0, len(Mods))
	for name := range Mods {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		mod := Mods[name]
		mod.Flags().Usage()
		fmt.Println("  " + mod.Doc())
		fmt.Println()
	}
	fmt.Println("Usage of yamltojson:")
	fmt.Printf("  -p    pretty-print\n\n")
	fmt.Printf("Usage of jsontoyaml: (no arguments)\n\n")
}
