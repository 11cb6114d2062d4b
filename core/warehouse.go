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

package core

// Warehouse is a Bot that also keeps a keyed scratch store.  One
// Warehouse is passed along with a value through a single pass so
// that Neurons can exchange values.
//
// Probe only finds values that were given to Inform earlier on the
// same Warehouse.
type Warehouse interface {
	Bot

	// Inform stores v under key, replacing any previous value.
	Inform(key string, v interface{}) error

	// Probe returns the value for key and true, or def and false
	// if key was never informed.
	Probe(key string, def interface{}) (interface{}, bool, error)

	// Uninform removes key.  A KeyError is returned if key isn't
	// present.
	Uninform(key string) error

	// Clear removes everything.
	Clear() error
}

// MemWarehouse is an in-memory Warehouse.  It isn't safe for
// concurrent use; use one per pass.
type MemWarehouse struct {
	BaseBot
	informed map[string]interface{}
}

// NewWarehouse makes an empty MemWarehouse.
func NewWarehouse() *MemWarehouse {
	return &MemWarehouse{
		informed: make(map[string]interface{}),
	}
}

func (w *MemWarehouse) Inform(key string, v interface{}) error {
	if w.informed == nil {
		w.informed = make(map[string]interface{})
	}
	w.informed[key] = v
	return nil
}

func (w *MemWarehouse) Probe(key string, def interface{}) (interface{}, bool, error) {
	if v, have := w.informed[key]; have {
		return v, true, nil
	}
	return def, false, nil
}

func (w *MemWarehouse) Uninform(key string) error {
	if _, have := w.informed[key]; !have {
		return &KeyError{Key: key}
	}
	delete(w.informed, key)
	return nil
}

func (w *MemWarehouse) Clear() error {
	w.informed = make(map[string]interface{})
	return nil
}

// Len returns the number of keys.
func (w *MemWarehouse) Len() int {
	return len(w.informed)
}

// Reset clears the visited set and the store.
func (w *MemWarehouse) Reset() {
	w.BaseBot.Reset()
	w.Clear()
}
