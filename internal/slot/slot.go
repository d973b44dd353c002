// Package slot holds the single backend process the launcher owns.
//
// The slot is written once by the launcher after a successful spawn and
// consumed once by the shutdown hook. The mutex is held only for the put and the
// take; the on-disk record is written afterwards.
package slot

import (
	"errors"
	"sync"
	"time"

	"deskhost/internal/logging"
)

// ErrOccupied is returned by Put when the slot already holds a process.
var ErrOccupied = errors.New("slot already holds a backend process")

// Handle is the owned process as far as the slot is concerned.
type Handle interface {
	PID() int
	Kill() error
}

// Record describes the owned backend for status reporting.
type Record struct {
	PID       int       `json:"pid"`
	Cmd       string    `json:"cmd"`
	LaunchID  string    `json:"launch_id"`
	StartedAt time.Time `json:"started_at"`
}

// Slot is a mutex-protected optional Handle.
type Slot struct {
	mu     sync.Mutex
	handle Handle
	rec    Record

	// saveMu serializes record writes so they apply in slot order.
	saveMu sync.Mutex

	// Where to persist the record. If empty, persistence is disabled.
	RecordPath string
}

// New returns an empty slot persisting to recordPath (may be empty).
func New(recordPath string) *Slot {
	return &Slot{RecordPath: recordPath}
}

// Put stores h. It refuses to replace an existing handle so at most one process
// is ever owned.
func (s *Slot) Put(h Handle, rec Record) error {
	if h == nil {
		return errors.New("nil handle")
	}
	s.mu.Lock()
	if s.handle != nil {
		s.mu.Unlock()
		return ErrOccupied
	}
	if rec.PID == 0 {
		rec.PID = h.PID()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = now()
	}
	s.handle = h
	s.rec = rec
	s.mu.Unlock()

	s.maybeSave()
	return nil
}

// Take empties the slot and returns what it held.
func (s *Slot) Take() (Handle, bool) {
	s.mu.Lock()
	h := s.handle
	s.handle = nil
	s.rec = Record{}
	s.mu.Unlock()

	if h == nil {
		return nil, false
	}
	s.maybeSave()
	return h, true
}

// Occupied reports whether a process is currently owned.
func (s *Slot) Occupied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != nil
}

// Current returns the record of the owned process.
func (s *Slot) Current() (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec, s.handle != nil
}

func (s *Slot) maybeSave() {
	if s.RecordPath == "" {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	rec, ok := s.Current()
	var err error
	if ok {
		err = saveRecord(s.RecordPath, rec)
	} else {
		err = RemoveRecord(s.RecordPath)
	}
	if err != nil {
		logging.Warn().Err(err).Str("path", s.RecordPath).Msg("backend record update failed")
	}
}

func now() time.Time {
	return time.Now().UTC()
}
