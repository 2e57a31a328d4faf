// File: internal/ambient/ambient_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ambient

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSwap_ScopedPerGoroutine(t *testing.T) {
	prev := Swap("outer")
	defer Swap(prev)

	require.Equal(t, "outer", Get())

	old := Swap("inner")
	require.Equal(t, "outer", old)
	require.Equal(t, "inner", Get())

	Swap(old)
	require.Equal(t, "outer", Get())
}

func TestSwap_NilDeletesBinding(t *testing.T) {
	Swap("value")
	Swap(nil)
	require.Nil(t, Get())
}

func TestGID_StablePerGoroutineDistinctAcross(t *testing.T) {
	require.Equal(t, GID(), GID())

	var other uint64
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		other = GID()
		wg.Done()
	}()
	wg.Wait()
	require.NotEqual(t, GID(), other)
	require.NotZero(t, other)
}

func TestBindings_Isolation(t *testing.T) {
	Swap("mine")
	defer Swap(nil)

	var wg sync.WaitGroup
	wg.Add(1)
	var seen any
	go func() {
		seen = Get()
		wg.Done()
	}()
	wg.Wait()
	require.Nil(t, seen)
	require.Equal(t, "mine", Get())
}
