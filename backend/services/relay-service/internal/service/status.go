package service

import (
	"sync"
	"time"
)

// Outcome classifies how a cycle ended.
type Outcome string

const (
	OutcomeSent        Outcome = "sent"
	OutcomeNoData      Outcome = "no_data"
	OutcomeNoWorkPower Outcome = "no_work_power"
	OutcomeSendFailed  Outcome = "send_failed"
)

// CycleStatus describes the latest relay cycle.
type CycleStatus struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Outcome    Outcome   `json:"outcome"`
	ReadingID  int64     `json:"reading_id,omitempty"`
	Quarter    string    `json:"quarter,omitempty"`
	Telegram   string    `json:"telegram,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Sent reports whether the cycle delivered a telegram.
func (s CycleStatus) Sent() bool {
	return s.Outcome == OutcomeSent
}

// StatusTracker keeps the most recent CycleStatus for concurrent readers.
type StatusTracker struct {
	mu     sync.RWMutex
	last   CycleStatus
	known  bool
	cycles int64
}

// NewStatusTracker returns an empty tracker.
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{}
}

// Record replaces the stored status.
func (t *StatusTracker) Record(status CycleStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = status
	t.known = true
	t.cycles++
}

// Restore seeds the tracker with a status published by a previous run. It is ignored once a
// cycle has been recorded.
func (t *StatusTracker) Restore(status CycleStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cycles > 0 {
		return
	}
	t.last = status
	t.known = true
}

// Last returns the latest status and false while nothing was recorded or restored.
func (t *StatusTracker) Last() (CycleStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last, t.known
}

// Cycles returns how many cycles have been recorded since start.
func (t *StatusTracker) Cycles() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cycles
}
