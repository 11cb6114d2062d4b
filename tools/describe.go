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
	"github.com/Comcast/tako"

	"gopkg.in/yaml.v2"
)

// ClassDescription is a summary of a Class suitable for YAML or JSON.
type ClassDescription struct {
	Name   string                 `json:"name" yaml:"name"`
	Parent string                 `json:"parent,omitempty" yaml:"parent,omitempty"`
	Doc    string                 `json:"doc,omitempty" yaml:"doc,omitempty"`
	Fields []string               `json:"fields,omitempty" yaml:"fields,omitempty"`
	Arms   map[string][]*Node     `json:"arms,omitempty" yaml:"arms,omitempty"`
	Meta   map[string]interface{} `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Describe summarizes the Class's own fields and Arms.
func Describe(c *tako.Class) *ClassDescription {
	d := &ClassDescription{
		Name:   c.Name(),
		Doc:    c.Doc,
		Fields: c.FieldNames(),
		Arms:   make(map[string][]*Node),
	}
	if p := c.Parent(); p != nil {
		d.Parent = p.Name()
	}
	for _, name := range c.ArmNames() {
		a, _ := c.Template(name)
		d.Arms[name] = ArmStructure(a)
	}
	return d
}

// DescribeYAML renders Describe for the Class and each ancestor as a
// YAML stream.
func DescribeYAML(c *tako.Class) ([]byte, error) {
	var acc []byte
	for i, k := range c.Lineage() {
		bs, err := yaml.Marshal(Describe(k))
		if err != nil {
			return nil, err
		}
		if 0 < i {
			acc = append(acc, "---\n"...)
		}
		acc = append(acc, bs...)
	}
	return acc, nil
}
