package store

import "sync"

// MidPriceLog is a thread-safe append-only log of mid-price samples,
// one per observation tick, in cents. Strategies read it as a trend
// signal; handlers expose it for charting.
type MidPriceLog struct {
	mu      sync.RWMutex
	samples []int64
}

// NewMidPriceLog creates an empty MidPriceLog.
func NewMidPriceLog() *MidPriceLog {
	return &MidPriceLog{}
}

// Append adds one sample.
func (l *MidPriceLog) Append(v int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.samples = append(l.samples, v)
}

// Len returns the number of samples.
func (l *MidPriceLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.samples)
}

// Last returns the most recent sample, or false if none exist.
func (l *MidPriceLog) Last() (int64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.samples) == 0 {
		return 0, false
	}
	return l.samples[len(l.samples)-1], true
}

// Tail returns up to n of the most recent samples in chronological order.
// n <= 0 returns all samples. The returned slice is a copy.
func (l *MidPriceLog) Tail(n int) []int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 || n > len(l.samples) {
		n = len(l.samples)
	}
	result := make([]int64, n)
	copy(result, l.samples[len(l.samples)-n:])
	return result
}
