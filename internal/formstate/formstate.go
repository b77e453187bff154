// Package formstate holds the status line of a form: a loading flag and a
// categorised message, plus the submit routine that drives them.
package formstate

import (
	"context"
	"sync"

	"github.com/sbilibin2017/expense-tracker/internal/client"
	"github.com/sbilibin2017/expense-tracker/internal/logger"
)

// Category classifies a status message.
type Category string

const (
	Info    Category = "info"
	Success Category = "success"
	Error   Category = "error"
)

// Color returns the display color of the category.
func (c Category) Color() string {
	switch c {
	case Success:
		return "green"
	case Error:
		return "red"
	default:
		return "blue"
	}
}

const (
	msgSubmitting     = "Submitting..."
	msgDefaultSuccess = "Operation successful!"
	msgDefaultFailure = "Operation failed"
	msgNoConnection   = "Failed to reach the server"
)

// Status is a snapshot of the form state.
type Status struct {
	Loading  bool
	Message  string
	Category Category
}

// Call performs one API request.
type Call func(ctx context.Context) (*client.Result, error)

// Controller is the set of operations a view drives.
type Controller interface {
	Status() Status
	SetStatus(message string, category Category)
	Clear()
	SetLoading(loading bool)
	ResetFields(fields map[string]string, defaults map[string]string)
	Submit(ctx context.Context, call Call, onSuccess func(*client.Result))
}

var _ Controller = (*State)(nil)

// State is safe for concurrent use. The zero value is ready.
type State struct {
	mu     sync.RWMutex
	status Status
}

// New returns an empty State.
func New() *State {
	return &State{status: Status{Category: Info}}
}

// Status returns the current status.
func (s *State) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.status
	if st.Category == "" {
		st.Category = Info
	}
	return st
}

func (s *State) SetStatus(message string, category Category) {
	if category == "" {
		category = Info
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Message = message
	s.status.Category = category
}

func (s *State) Clear() {
	s.SetStatus("", Info)
}

func (s *State) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Loading = loading
}

// ResetFields sets every field to its default, or "" when it has none or the
// default is empty, and clears the status.
func (s *State) ResetFields(fields map[string]string, defaults map[string]string) {
	for k := range fields {
		fields[k] = defaults[k]
	}
	s.Clear()
}

// Submit runs call and reports its outcome in the status. onSuccess, when
// set, only runs for a result with Success true. Loading is false again on
// every return path, panics included.
func (s *State) Submit(ctx context.Context, call Call, onSuccess func(*client.Result)) {
	s.SetLoading(true)
	defer s.SetLoading(false)
	s.SetStatus(msgSubmitting, Info)

	result, err := call(ctx)
	switch {
	case err != nil:
		logger.Log.Errorw("form submit failed", "error", err)
		msg := err.Error()
		if msg == "" {
			msg = msgNoConnection
		}
		s.SetStatus("❌ "+msg, Error)
	case result == nil:
		s.SetStatus("❌ "+msgDefaultFailure, Error)
	case result.Success:
		msg := result.Message
		if msg == "" {
			msg = msgDefaultSuccess
		}
		s.SetStatus("✅ "+msg, Success)
		if onSuccess != nil {
			onSuccess(result)
		}
	default:
		msg := result.Error
		if msg == "" {
			msg = msgDefaultFailure
		}
		s.SetStatus("❌ "+msg, Error)
	}
}
