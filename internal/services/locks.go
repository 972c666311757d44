package services

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// accountLocks serializes ledger operations per account inside one process.
// Entries are dropped once no goroutine holds or waits for them.
type accountLocks struct {
	mu    sync.Mutex
	locks map[primitive.ObjectID]*accountLock
}

type accountLock struct {
	sync.Mutex
	refs int
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: map[primitive.ObjectID]*accountLock{}}
}

// Lock blocks until the account is free and returns the unlock func.
func (l *accountLocks) Lock(id primitive.ObjectID) func() {
	l.mu.Lock()
	lk, ok := l.locks[id]
	if !ok {
		lk = &accountLock{}
		l.locks[id] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.Lock()
	return func() {
		lk.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
