package services

import (
	"sync"
	"time"
)

// Clock supplies timestamps for system-assigned fields
type Clock func() time.Time

// MonotonicClock wraps a time source so that successive readings never go
// backwards, even if the wall clock is adjusted.
func MonotonicClock(source func() time.Time) Clock {
	var (
		mu   sync.Mutex
		last time.Time
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := source().UTC()
		if now.Before(last) {
			now = last
		}
		last = now
		return now
	}
}

// SystemClock is the default clock used by the services
func SystemClock() Clock {
	return MonotonicClock(time.Now)
}
