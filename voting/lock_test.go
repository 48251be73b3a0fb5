// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"sync"
	"testing"
	"time"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	var locks keyedMutex
	var wg sync.WaitGroup
	counter := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("agenda-1")
			defer unlock()

			// Non-atomic read-modify-write; the race detector flags it if
			// the lock does not hold.
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("Expected 50, got %d", counter)
	}
	if n := locks.size(); n != 0 {
		t.Errorf("Expected no idle entries, got %d", n)
	}
}

func TestKeyedMutex_DistinctKeysDoNotBlock(t *testing.T) {
	var locks keyedMutex

	unlockA := locks.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Lock on a different key blocked")
	}
}

func TestKeyedMutex_WaiterKeepsEntry(t *testing.T) {
	var locks keyedMutex

	unlock := locks.Lock("a")
	acquired := make(chan func())
	go func() {
		acquired <- locks.Lock("a")
	}()

	// Give the waiter time to register.
	time.Sleep(10 * time.Millisecond)
	unlock()

	second := <-acquired
	if n := locks.size(); n != 1 {
		t.Errorf("Expected 1 entry while held, got %d", n)
	}
	second()
	if n := locks.size(); n != 0 {
		t.Errorf("Expected 0 entries after release, got %d", n)
	}
}
