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

// controller holds the Arms of one level of an Instance.  The
// instance level comes first, followed by one level per Class in the
// lineage.
type controller struct {
	class  *Class
	arms   map[string]*core.Arm
	names  []string
	parent *controller
}

func (c *controller) add(name string, a *core.Arm) {
	if _, have := c.arms[name]; !have {
		c.names = append(c.names, name)
	}
	c.arms[name] = a
}

func (c *controller) remove(name string) {
	if _, have := c.arms[name]; !have {
		return
	}
	delete(c.arms, name)
	for j, n := range c.names {
		if n == name {
			c.names = append(c.names[:j], c.names[j+1:]...)
			break
		}
	}
}

// arm looks for the Arm here and then at the levels above.
func (c *controller) arm(name string) (*core.Arm, bool) {
	for k := c; k != nil; k = k.parent {
		if a, have := k.arms[name]; have {
			return a, true
		}
	}
	return nil, false
}

// Attr makes a controller usable as the base of a SuperRef.  Each
// level's Arms and then its Class's fields are checked before moving
// up to the next level.
func (c *controller) Attr(name string) (interface{}, bool) {
	for k := c; k != nil; k = k.parent {
		if a, have := k.arms[name]; have {
			return a, true
		}
		if k.class == nil {
			continue
		}
		if v, have := k.class.fields[name]; have {
			return v, true
		}
	}
	return nil, false
}

func (c *controller) String() string {
	if c.class == nil {
		return "instance"
	}
	return c.class.name
}

// broadcast sends the Bot to every Arm at this level.
func (c *controller) broadcast(b *core.Call) error {
	for _, name := range c.names {
		core.BotForward(c.arms[name], b)
	}
	return b.Err()
}

// Instance is an object made from a Class.
type Instance struct {
	class  *Class
	top    *controller
	fields map[string]interface{}
}

func newInstance(c *Class) (*Instance, error) {
	inst := &Instance{
		class:  c,
		top:    &controller{arms: make(map[string]*core.Arm)},
		fields: make(map[string]interface{}),
	}

	prev := inst.top
	for _, k := range c.Lineage() {
		level := &controller{
			class: k,
			arms:  make(map[string]*core.Arm, len(k.arms)),
		}
		for _, name := range k.armNames {
			level.add(name, k.arms[name].Spawn().(*core.Arm))
		}
		prev.parent = level
		if err := prev.broadcast(core.CallSetSuper(level)); err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
		prev = level
	}

	for k := inst.top; k != nil; k = k.parent {
		if err := k.broadcast(core.CallSetOwner(inst)); err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
	}

	return inst, nil
}

// Class returns the Class the Instance was made from.
func (i *Instance) Class() *Class {
	return i.class
}

// Arm finds the named Arm, starting with Arms set on the Instance and
// then searching the Class and its ancestors.
func (i *Instance) Arm(name string) (*core.Arm, error) {
	if a, have := i.top.arm(name); have {
		return a, nil
	}
	return nil, &core.AttributeError{Name: name, Target: i}
}

// Super returns the named Arm as seen from the given Class's parent.
// The Class must be in the Instance's lineage.
func (i *Instance) Super(from *Class, name string) (*core.Arm, error) {
	for k := i.top.parent; k != nil; k = k.parent {
		if k.class == from {
			if k.parent != nil {
				if a, have := k.parent.arm(name); have {
					return a, nil
				}
			}
			break
		}
	}
	return nil, &core.AttributeError{Name: name, Target: from}
}

// Set gives the Instance its own Arm or field.  Arms and Strands
// become Arms, which are bound to the Instance like those made by
// New.  Anything else is a field.
func (i *Instance) Set(name string, v interface{}) error {
	if !core.IsArmable(v) {
		i.top.remove(name)
		i.fields[name] = v
		return nil
	}
	a, err := core.ToArm(v)
	if err != nil {
		return err
	}
	delete(i.fields, name)
	i.top.add(name, a)

	if i.top.parent != nil {
		b := core.CallSetSuper(i.top.parent)
		core.BotForward(a, b)
		if err := b.Err(); err != nil {
			return err
		}
	}
	b := core.CallSetOwner(i)
	core.BotForward(a, b)
	return b.Err()
}

// Attr looks up Arms and fields by name.  Instance Arms and fields
// come first, followed by each Class level's Arms and fields.
func (i *Instance) Attr(name string) (interface{}, bool) {
	if a, have := i.top.arms[name]; have {
		return a, true
	}
	if v, have := i.fields[name]; have {
		return v, true
	}
	if i.top.parent == nil {
		return nil, false
	}
	return i.top.parent.Attr(name)
}

// Call runs the named Arm.
func (i *Instance) Call(name string, x interface{}, w core.Warehouse) (interface{}, error) {
	a, err := i.Arm(name)
	if err != nil {
		return nil, err
	}
	return a.Call(x, w)
}

// Visit sends the Bot into every Arm at every level.
func (i *Instance) Visit(b core.Bot) {
	for k := i.top; k != nil; k = k.parent {
		for _, name := range k.names {
			core.BotForward(k.arms[name], b)
		}
	}
}

// Reset resets every Resetter in every Arm.
func (i *Instance) Reset() error {
	b := core.CallReset()
	i.Visit(b)
	return b.Err()
}

func (i *Instance) String() string {
	return fmt.Sprintf("%s instance", i.class.name)
}
