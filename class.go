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

package tako

import (
	"fmt"

	"github.com/Comcast/tako/core"
)

// Class is a named collection of Arms and fields, optionally
// extending a parent Class.
type Class struct {
	name   string
	parent *Class

	// Doc is optional documentation, typically Markdown.
	Doc string

	arms     map[string]*core.Arm
	armNames []string

	fields     map[string]interface{}
	fieldNames []string
}

// NewClass makes an empty Class.  The parent can be nil.
func NewClass(name string, parent *Class) *Class {
	return &Class{
		name:   name,
		parent: parent,
		arms:   make(map[string]*core.Arm),
		fields: make(map[string]interface{}),
	}
}

// Name returns the Class's name.
func (c *Class) Name() string {
	return c.name
}

// Parent returns the parent Class, which might be nil.
func (c *Class) Parent() *Class {
	return c.parent
}

// Arm registers an Arm under the given name.  The value can be an
// Arm, a Strand, or anything core.ToNeuron accepts.  Registering an
// existing name replaces that Arm.
//
// The registered Arm is a template.  Instances get spawns of it.
func (c *Class) Arm(name string, x interface{}) error {
	if name == "" {
		return fmt.Errorf("class %s: empty arm name", c.name)
	}
	a, err := core.ToArm(x)
	if err != nil {
		return fmt.Errorf("class %s arm %s: %w", c.name, name, err)
	}
	if _, have := c.arms[name]; !have {
		c.armNames = append(c.armNames, name)
	}
	c.arms[name] = a
	return nil
}

// MustArm is Arm that panics on error.  Only use it for package-level
// definitions.
func (c *Class) MustArm(name string, x interface{}) *Class {
	if err := c.Arm(name, x); err != nil {
		panic(err)
	}
	return c
}

// Field registers a plain value that instances can see as an
// attribute.
func (c *Class) Field(name string, v interface{}) *Class {
	if _, have := c.fields[name]; !have {
		c.fieldNames = append(c.fieldNames, name)
	}
	c.fields[name] = v
	return c
}

// ArmNames returns the names of this Class's own Arms in registration
// order.
func (c *Class) ArmNames() []string {
	return append([]string(nil), c.armNames...)
}

// FieldNames returns the names of this Class's own fields in
// registration order.
func (c *Class) FieldNames() []string {
	return append([]string(nil), c.fieldNames...)
}

// Template returns this Class's own Arm (not a spawn).  Ancestors are
// not searched.
func (c *Class) Template(name string) (*core.Arm, bool) {
	a, have := c.arms[name]
	return a, have
}

// Lineage returns the Class followed by its ancestors.
func (c *Class) Lineage() []*Class {
	var acc []*Class
	for k := c; k != nil; k = k.parent {
		acc = append(acc, k)
	}
	return acc
}

// New makes an Instance.
func (c *Class) New() (*Instance, error) {
	return newInstance(c)
}
