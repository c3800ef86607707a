package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLockSerializesSameQueue(t *testing.T) {
	locks := newQueueLocks()

	const workers = 64
	var counter int
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock(42)
			counter++
			unlock()
		}()
	}
	wg.Wait()

	require.Equal(t, workers, counter)
}

func TestLockReleasesEntryWhenUnused(t *testing.T) {
	locks := newQueueLocks()

	unlock := locks.lock(7)
	locks.mu.Lock()
	require.Len(t, locks.locks, 1)
	locks.mu.Unlock()

	unlock()

	locks.mu.Lock()
	require.Empty(t, locks.locks)
	locks.mu.Unlock()
}

func TestLockIndependentQueues(t *testing.T) {
	locks := newQueueLocks()

	unlockA := locks.lock(1)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locks.lock(2)
		unlockB()
		close(done)
	}()
	<-done
}
