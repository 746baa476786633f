package logbuffer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndSnapshot(t *testing.T) {
	b := New(3)
	b.Info("first")
	b.Warning("second")

	snap := b.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "first", snap[0].Message)
	assert.Equal(t, LevelInfo, snap[0].Level)
	assert.Equal(t, "second", snap[1].Message)
}

func TestOverflowDiscardsOldest(t *testing.T) {
	b := New(3)
	for i := 0; i < 5; i++ {
		b.Info(fmt.Sprintf("entry-%d", i))
	}

	snap := b.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "entry-2", snap[0].Message)
	assert.Equal(t, "entry-3", snap[1].Message)
	assert.Equal(t, "entry-4", snap[2].Message)
}

func TestClear(t *testing.T) {
	b := New(3)
	b.Info("one")
	b.Clear()
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Snapshot())
}

func TestErrorRecordsException(t *testing.T) {
	b := New(3)
	b.Error("boom", "nil pointer")
	snap := b.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, LevelError, snap[0].Level)
	assert.Equal(t, "nil pointer", snap[0].Exception)
}

func TestConcurrentWrites(t *testing.T) {
	b := New(100)
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(n int) {
			for j := 0; j < 20; j++ {
				b.Info(fmt.Sprintf("w%d-%d", n, j))
			}
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	assert.Equal(t, 100, b.Len())
}
