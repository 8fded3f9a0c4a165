package funnel

import (
	"sync"
	"testing"
)

func TestUserLocksSerializePerUser(t *testing.T) {
	locks := newUserLocks()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		counter int
		max     int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.lock(1)
			defer release()

			mu.Lock()
			counter++
			if counter > max {
				max = counter
			}
			mu.Unlock()

			mu.Lock()
			counter--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if max != 1 {
		t.Fatalf("max concurrent holders = %d, want 1", max)
	}
	if len(locks.locks) != 0 {
		t.Fatalf("leaked %d lock entries", len(locks.locks))
	}
}

func TestUserLocksIndependentUsers(t *testing.T) {
	locks := newUserLocks()

	release1 := locks.lock(1)
	done := make(chan struct{})
	go func() {
		release2 := locks.lock(2)
		release2()
		close(done)
	}()
	<-done
	release1()

	if len(locks.locks) != 0 {
		t.Fatalf("leaked %d lock entries", len(locks.locks))
	}
}
