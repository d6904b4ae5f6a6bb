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

package intervalst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type offset int

func (o offset) Compare(other Position) int {
	otherOffset, ok := other.(offset)
	if !ok {
		// min position
		return 1
	}
	switch {
	case o < otherOffset:
		return -1
	case o > otherOffset:
		return 1
	default:
		return 0
	}
}

func TestIntervalSTPutAndSearch(t *testing.T) {

	t.Parallel()

	tree := &IntervalST[string]{}
	tree.Put(NewInterval(offset(1), offset(3)), "a")
	tree.Put(NewInterval(offset(5), offset(9)), "b")
	tree.Put(NewInterval(offset(7), offset(8)), "c")

	interval, value := tree.Search(offset(2))
	require.NotNil(t, interval)
	assert.Equal(t, "a", value)

	interval, _ = tree.Search(offset(4))
	assert.Nil(t, interval)

	entries := tree.SearchAll(offset(7))
	values := map[string]bool{}
	for _, entry := range entries {
		values[entry.Value] = true
	}
	assert.True(t, values["b"])
	assert.True(t, values["c"])
	assert.Len(t, entries, 2)
}

func TestIntervalSTGet(t *testing.T) {

	t.Parallel()

	tree := &IntervalST[int]{}
	interval := NewInterval(offset(1), offset(2))
	tree.Put(interval, 42)

	value, present := tree.Get(interval)
	assert.True(t, present)
	assert.Equal(t, 42, value)

	assert.True(t, tree.Contains(interval))
	assert.False(t, tree.Contains(NewInterval(offset(3), offset(4))))

	assert.Len(t, tree.Values(), 1)
}

func TestIntervalSearchInterval(t *testing.T) {

	t.Parallel()

	tree := &IntervalST[string]{}
	tree.Put(NewInterval(offset(10), offset(20)), "x")

	found, value := tree.SearchInterval(NewInterval(offset(15), offset(25)))
	require.NotNil(t, found)
	assert.Equal(t, "x", value)

	missing, _ := tree.SearchInterval(NewInterval(offset(30), offset(40)))
	assert.Nil(t, missing)
}

func TestIntervalValidity(t *testing.T) {

	t.Parallel()

	assert.Panics(t, func() {
		NewInterval(offset(2), offset(1))
	})

	interval := NewInterval(offset(1), offset(5))
	assert.True(t, interval.Contains(offset(1)))
	assert.True(t, interval.Contains(offset(5)))
	assert.False(t, interval.Contains(offset(6)))
}
