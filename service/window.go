package service

import (
	"sync"
	"time"
)

// VotingWindow tracks the ballot deadline last read from the contract.
type VotingWindow struct {
	endTime time.Time
	now     func() time.Time
	mu      sync.RWMutex
}

func NewVotingWindow() *VotingWindow {
	return &VotingWindow{now: time.Now}
}

func (vw *VotingWindow) Update(endTime time.Time) {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	vw.endTime = endTime
}

func (vw *VotingWindow) EndTime() time.Time {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	return vw.endTime
}

// IsOpen reports whether the deadline is known and still ahead.
func (vw *VotingWindow) IsOpen() bool {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	return !vw.endTime.IsZero() && vw.now().Before(vw.endTime)
}

func (vw *VotingWindow) Remaining() time.Duration {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	if vw.endTime.IsZero() {
		return 0
	}
	if left := vw.endTime.Sub(vw.now()); left > 0 {
		return left
	}
	return 0
}
