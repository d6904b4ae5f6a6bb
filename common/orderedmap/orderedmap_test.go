/*
 * Val - The value-oriented programming language
 *
 * Copyright Hylo Project Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package orderedmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedMapSetGetDelete(t *testing.T) {

	t.Parallel()

	om := &OrderedMap[string, int]{}

	_, present := om.Get("a")
	assert.False(t, present)

	oldValue, present := om.Set("a", 1)
	assert.False(t, present)
	assert.Equal(t, 0, oldValue)

	oldValue, present = om.Set("a", 2)
	assert.True(t, present)
	assert.Equal(t, 1, oldValue)

	value, present := om.Get("a")
	assert.True(t, present)
	assert.Equal(t, 2, value)

	oldValue, present = om.Delete("a")
	assert.True(t, present)
	assert.Equal(t, 2, oldValue)
	assert.Equal(t, 0, om.Len())
}

func TestOrderedMapIterationOrder(t *testing.T) {

	t.Parallel()

	om := &OrderedMap[string, int]{}
	om.Set("c", 3)
	om.Set("a", 1)
	om.Set("b", 2)

	var keys []string
	om.Foreach(func(key string, _ int) {
		keys = append(keys, key)
	})
	assert.Equal(t, []string{"c", "a", "b"}, keys)

	// updating a value keeps the insertion position
	om.Set("c", 30)
	keys = nil
	om.Foreach(func(key string, _ int) {
		keys = append(keys, key)
	})
	assert.Equal(t, []string{"c", "a", "b"}, keys)

	require.NotNil(t, om.Oldest())
	assert.Equal(t, "c", om.Oldest().Key)
	assert.Equal(t, "b", om.Newest().Key)
}

func TestOrderedMapKeySetIsDisjoint(t *testing.T) {

	t.Parallel()

	left := &OrderedMap[string, int]{}
	left.Set("a", 1)

	right := &OrderedMap[string, int]{}
	right.Set("b", 2)

	assert.True(t, left.KeySetIsDisjoint(right))

	right.Set("a", 3)
	assert.False(t, left.KeySetIsDisjoint(right))
}
