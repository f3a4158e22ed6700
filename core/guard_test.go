package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteGuardAcquireRelease(t *testing.T) {
	g := NewWriteGuard()

	assert.True(t, g.TryAcquire("u1"))
	assert.False(t, g.TryAcquire("u1"))
	assert.True(t, g.TryAcquire("u2"), "keys are independent")

	g.Release("u1")
	assert.True(t, g.TryAcquire("u1"))
}

func TestWriteGuardSingleWinner(t *testing.T) {
	g := NewWriteGuard()

	const attempts = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire("u1") {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	assert.Equal(t, 1, count, "exactly one concurrent acquire wins")
}
