package utils

import (
	"math"
	"sync"
	"time"
)

var (
	sleepFunc func(time.Duration)
	mu        sync.Mutex // mutex to make the setting of the sleepFunc thread-safe
)

func init() {
	ResetSleepFunc() // Initialize sleepFunc with the default sleep function
}

// Sleep calls the current sleep function.
func Sleep(d time.Duration) {
	mu.Lock()
	f := sleepFunc
	mu.Unlock()
	f(d)
}

// SetSleepFunc allows for overriding the default sleep function, primarily for testing.
func SetSleepFunc(f func(time.Duration)) {
	mu.Lock()
	sleepFunc = f
	mu.Unlock()
}

// ResetSleepFunc resets the sleep function to the default time.Sleep.
func ResetSleepFunc() {
	SetSleepFunc(time.Sleep)
}

// Backoff returns the delay before retry number attempt (1-based):
// initial * factor^(attempt-1).
func Backoff(initial time.Duration, factor float64, attempt int) time.Duration {
	if attempt <= 1 {
		return initial
	}
	return time.Duration(float64(initial) * math.Pow(factor, float64(attempt-1)))
}
