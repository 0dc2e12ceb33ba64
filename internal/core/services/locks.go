package services

import (
	"slices"
	"sync"
)

// ProductLocks is a per-product advisory lock. Scoring and deletion of the
// same product are serialised; different products proceed in parallel.
type ProductLocks struct {
	mu    sync.Mutex
	locks map[int64]*productLock
}

type productLock struct {
	mu   sync.Mutex
	refs int
}

// NewProductLocks creates an empty lock table.
func NewProductLocks() *ProductLocks {
	return &ProductLocks{locks: make(map[int64]*productLock)}
}

// Lock blocks until the product is free and returns the unlock func.
func (l *ProductLocks) Lock(id int64) func() {
	l.mu.Lock()
	pl, ok := l.locks[id]
	if !ok {
		pl = &productLock{}
		l.locks[id] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.mu.Lock()

	return func() {
		pl.mu.Unlock()

		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

// LockAll locks several products in ascending id order and returns a func
// releasing all of them.
func (l *ProductLocks) LockAll(ids []int64) func() {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	unlocks := make([]func(), 0, len(sorted))
	for _, id := range sorted {
		unlocks = append(unlocks, l.Lock(id))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

// held returns the number of products with a waiter or holder.
func (l *ProductLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
