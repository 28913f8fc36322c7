package workflow

import (
	"sync"

	"github.com/spigell/applicant/internal/portal"
)

// Phase is the lifecycle of a submission.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInFlight
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInFlight:
		return "in_flight"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// JobPhase is the lifecycle of the job posting load.
type JobPhase int

const (
	JobIdle JobPhase = iota
	JobLoading
	JobLoaded
	JobFailed
)

func (p JobPhase) String() string {
	switch p {
	case JobIdle:
		return "idle"
	case JobLoading:
		return "loading"
	case JobLoaded:
		return "loaded"
	case JobFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a snapshot of the workflow. Pointer fields are never mutated after publishing.
type State struct {
	JobPhase     JobPhase
	JobPosting   *portal.JobPosting
	JobLoadError string

	Phase      Phase
	AttemptID  string
	LastResult *portal.Assessment
	LastError  string
}

// Store owns the workflow State. It is changed only through its transition methods.
type Store struct {
	mu          sync.Mutex
	state       State
	subscribers map[int]chan State
	nextID      int
}

func NewStore() *Store {
	return &Store{subscribers: make(map[int]chan State)}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe returns a channel receiving the current state and every later change.
// A slow reader only misses intermediate states, never the latest one.
// The returned func unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	ch := make(chan State, 1)
	ch <- s.state
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
}

// update applies fn under the lock and notifies subscribers.
func (s *Store) update(fn func(*State) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !fn(&s.state) {
		return false
	}

	for _, ch := range s.subscribers {
		publish(ch, s.state)
	}

	return true
}

// publish replaces a pending unread state with the new one.
func publish(ch chan State, st State) {
	for {
		select {
		case ch <- st:
			return
		default:
		}

		select {
		case <-ch:
		default:
		}
	}
}

func (s *Store) jobLoading() {
	s.update(func(st *State) bool {
		st.JobPhase = JobLoading
		return true
	})
}

func (s *Store) jobLoaded(job *portal.JobPosting) {
	s.update(func(st *State) bool {
		st.JobPhase = JobLoaded
		st.JobPosting = job
		st.JobLoadError = ""
		return true
	})
}

func (s *Store) jobFailed(message string) {
	s.update(func(st *State) bool {
		st.JobPhase = JobFailed
		st.JobPosting = nil
		st.JobLoadError = message
		return true
	})
}

// admit moves to InFlight unless a submission is already in flight.
func (s *Store) admit(attemptID string) bool {
	return s.update(func(st *State) bool {
		if st.Phase == PhaseInFlight {
			return false
		}
		st.Phase = PhaseInFlight
		st.AttemptID = attemptID
		st.LastResult = nil
		st.LastError = ""
		return true
	})
}

// rejectInput records a validation error. The last result stays visible.
func (s *Store) rejectInput(message string) bool {
	return s.update(func(st *State) bool {
		if st.Phase == PhaseInFlight {
			return false
		}
		st.Phase = PhaseFailed
		st.LastError = message
		return true
	})
}

func (s *Store) succeed(attemptID string, result *portal.Assessment) {
	s.update(func(st *State) bool {
		if st.AttemptID != attemptID {
			return false
		}
		st.Phase = PhaseSucceeded
		st.LastResult = result
		st.LastError = ""
		return true
	})
}

func (s *Store) fail(attemptID, message string) {
	s.update(func(st *State) bool {
		if st.AttemptID != attemptID {
			return false
		}
		st.Phase = PhaseFailed
		st.LastResult = nil
		st.LastError = message
		return true
	})
}
