// Package pool manages locks keyed by room id, so that the lifecycle of one
// room is serialized without blocking the others.
package pool

import (
	"context"
	"sync"
)

// roomLock is a single room's lock and the number of holders or waiters.
// The lock is held while sem is full.
type roomLock struct {
	sem  chan struct{}
	refs int
}

// Pool manages one lock per key. A lock is released from the pool when no one
// holds or waits for it.
type Pool struct {
	globalMutex sync.Mutex
	locks       map[string]*roomLock
}

// New initializes a new Pool.
func New() *Pool {
	return &Pool{
		locks: make(map[string]*roomLock),
	}
}

// acquire returns the lock of the key with its reference count incremented.
func (p *Pool) acquire(key string) *roomLock {
	p.globalMutex.Lock()
	defer p.globalMutex.Unlock()

	rl, exists := p.locks[key]
	if !exists {
		rl = &roomLock{sem: make(chan struct{}, 1)}
		p.locks[key] = rl
	}
	rl.refs++
	return rl
}

// release decrements the reference count and drops the lock when unused.
func (p *Pool) release(key string, rl *roomLock) {
	p.globalMutex.Lock()
	defer p.globalMutex.Unlock()

	rl.refs--
	if rl.refs == 0 {
		delete(p.locks, key)
	}
}

// Lock locks the key and returns the function that unlocks it.
func (p *Pool) Lock(key string) (unlock func()) {
	unlock, _ = p.LockContext(context.Background(), key)
	return unlock
}

// LockContext locks the key and returns the function that unlocks it. It
// gives up with the error of the context when the context is done first.
func (p *Pool) LockContext(ctx context.Context, key string) (unlock func(), err error) {
	rl := p.acquire(key)
	select {
	case rl.sem <- struct{}{}:
	case <-ctx.Done():
		p.release(key, rl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-rl.sem
			p.release(key, rl)
		})
	}, nil
}

// Len returns the number of keys currently locked or waited for.
func (p *Pool) Len() int {
	p.globalMutex.Lock()
	defer p.globalMutex.Unlock()
	return len(p.locks)
}
