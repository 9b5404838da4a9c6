package pool_test

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sfu/pool"
	"sync"
	"testing"
	"time"
)

func TestPoolLock(t *testing.T) {
	t.Run("given concurrent holders of one key when locked then critical sections never overlap", func(t *testing.T) {
		p := pool.New()
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			inside  int
			maxSeen int
		)
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := p.Lock("room")
				defer unlock()

				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, maxSeen)
		assert.Equal(t, 0, p.Len())
	})

	t.Run("given two keys when one is held then the other is not blocked", func(t *testing.T) {
		p := pool.New()
		unlockA := p.Lock("a")
		defer unlockA()

		done := make(chan struct{})
		go func() {
			unlock := p.Lock("b")
			unlock()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("lock of another key was blocked")
		}
		assert.Equal(t, 1, p.Len())
	})

	t.Run("given unlock called twice when released then pool stays consistent", func(t *testing.T) {
		p := pool.New()
		unlock := p.Lock("a")
		unlock()
		unlock()
		assert.Equal(t, 0, p.Len())
	})

	t.Run("given held key when waiting past the deadline then return the context error", func(t *testing.T) {
		p := pool.New()
		unlock := p.Lock("a")

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		waited, err := p.LockContext(ctx, "a")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Nil(t, waited)
		assert.Equal(t, 1, p.Len())

		unlock()
		assert.Equal(t, 0, p.Len())
		next, err := p.LockContext(context.Background(), "a")
		require.NoError(t, err)
		next()
	})
}
