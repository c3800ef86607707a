package queue

import "sync"

// queueLocks hands out one mutex per queue id so that the read-modify-write
// sequence in Join and Leave is serialized per queue. Entries are reference
// counted and dropped once nobody holds or waits on them.
type queueLocks struct {
	mu    sync.Mutex
	locks map[int]*queueLock
}

type queueLock struct {
	mu   sync.Mutex
	refs int
}

func newQueueLocks() *queueLocks {
	return &queueLocks{locks: make(map[int]*queueLock)}
}

// lock acquires the mutex for the queue id and returns its release func.
func (l *queueLocks) lock(queueID int) func() {
	l.mu.Lock()
	entry, ok := l.locks[queueID]
	if !ok {
		entry = &queueLock{}
		l.locks[queueID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, queueID)
		}
		l.mu.Unlock()
	}
}
