package staking

import (
	"sync/atomic"
	"time"
)

// Clock supplies the unix time, in seconds, every operation checkpoints at.
type Clock interface {
	Now() int64
}

type SystemClock struct{}

func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

// ManualClock only moves when told to. Safe for concurrent use.
type ManualClock struct {
	now atomic.Int64
}

func NewManualClock(start int64) *ManualClock {
	c := &ManualClock{}
	c.now.Store(start)
	return c
}

func (c *ManualClock) Now() int64 {
	return c.now.Load()
}

func (c *ManualClock) Set(now int64) {
	c.now.Store(now)
}

// Advance moves the clock forward by seconds and returns the new time.
func (c *ManualClock) Advance(seconds int64) int64 {
	return c.now.Add(seconds)
}
