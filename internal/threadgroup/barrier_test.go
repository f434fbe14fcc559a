package threadgroup

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCyclicBarrierReleasesAllPartiesAndCountsExactlyOneLast(t *testing.T) {
	const parties = 6
	b := newCyclicBarrier(parties)

	var lastCount int32
	var wg sync.WaitGroup
	wg.Add(parties)
	for i := 0; i < parties; i++ {
		go func() {
			defer wg.Done()
			if b.await() {
				atomic.AddInt32(&lastCount, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), lastCount)
}

func TestCyclicBarrierIsReusableAcrossRounds(t *testing.T) {
	const parties = 4
	b := newCyclicBarrier(parties)

	for round := 0; round < 3; round++ {
		var wg sync.WaitGroup
		wg.Add(parties)
		for i := 0; i < parties; i++ {
			go func() {
				defer wg.Done()
				b.await()
			}()
		}
		wg.Wait()
	}
}
