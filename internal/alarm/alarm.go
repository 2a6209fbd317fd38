// Package alarm plays the terminal cues of a liquidation run.
package alarm

import (
	"io"
	"sync"
	"time"
)

const (
	bell = "\a"
	// siren is four 300ms sweeps, matching a 1.2s rising and falling tone.
	sirenSweeps = 4
)

// Session owns one audible channel. Starting a cue stops the previous one.
type Session struct {
	out     io.Writer
	enabled bool
	sweep   time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewSession writes cues to out. A disabled session is silent.
func NewSession(out io.Writer, enabled bool) *Session {
	return &Session{out: out, enabled: enabled, sweep: 300 * time.Millisecond}
}

// Alarm starts the siren in the background.
func (s *Session) Alarm() {
	s.Stop()
	if !s.enabled {
		return
	}
	stop, done := make(chan struct{}), make(chan struct{})
	s.mu.Lock()
	s.stop, s.done = stop, done
	s.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.sweep)
		defer ticker.Stop()
		for i := 0; i < sirenSweeps; i++ {
			s.ring()
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Success cuts the siren and plays a single chime.
func (s *Session) Success() {
	s.Stop()
	if s.enabled {
		s.ring()
	}
}

// Stop silences the session. It is safe to call repeatedly.
func (s *Session) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (s *Session) ring() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.out, bell)
}
