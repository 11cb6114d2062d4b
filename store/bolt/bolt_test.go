/* Copyright 2021 Comcast Cable Communications Management, LLC
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

package bolt

import (
	"path/filepath"
	"testing"

	"github.com/Comcast/tako/core"
	"github.com/Comcast/tako/flow"
	"github.com/stretchr/testify/require"
)

func TestImpl(t *testing.T) {
	var _ core.Warehouse = &Warehouse{}
}

func open(t *testing.T, filename string) *Warehouse {
	t.Helper()
	w := NewWarehouse(filename, "")
	w.Debug = true
	require.NoError(t, w.Open())
	return w
}

func TestBasics(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "warehouse.db")
	w := open(t, filename)

	require.NoError(t, w.Inform("likes", map[string]interface{}{"food": "tacos"}))
	require.NoError(t, w.Inform("count", 3))

	v, found, err := w.Probe("likes", nil)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, map[string]interface{}{"food": "tacos"}, v)

	v, found, err = w.Probe("nope", "def")
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, "def", v)

	keys, err := w.Keys()
	require.NoError(t, err)
	require.Equal(t, []string{"count", "likes"}, keys)

	require.NoError(t, w.Uninform("count"))
	var ke *core.KeyError
	require.ErrorAs(t, w.Uninform("count"), &ke)

	// Values survive reopening.
	require.NoError(t, w.Close())
	w = open(t, filename)
	defer w.Close()

	_, found, err = w.Probe("likes", nil)
	require.NoError(t, err)
	require.True(t, found, "lost likes")

	require.NoError(t, w.Clear())
	keys, err = w.Keys()
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestBuckets(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "warehouse.db")

	a := NewWarehouse(filename, "a")
	require.NoError(t, a.Open())
	require.NoError(t, a.Inform("x", 1))
	require.NoError(t, a.Close())

	b := NewWarehouse(filename, "b")
	require.NoError(t, b.Open())
	defer b.Close()
	_, found, err := b.Probe("x", nil)
	require.NoError(t, err)
	require.False(t, found)
}

func TestAcrossPasses(t *testing.T) {
	w := open(t, filepath.Join(t.TempDir(), "warehouse.db"))
	defer w.Close()

	calls := 0
	inform, err := flow.NewBotInform(func(x interface{}) interface{} {
		calls++
		return x
	}, "first")
	require.NoError(t, err)
	inform.UseNeuronKey = false
	inform.AutoReset = false

	for _, x := range []string{"a", "b", "c"} {
		y, err := inform.Call(x, w)
		require.NoError(t, err)
		require.Equal(t, "a", y)
		w.Reset()
	}
	require.Equal(t, 1, calls)
}
