package output

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sink defines a destination for scan output.
type Sink interface {
	Write(v any) error
	Close() error
}

// Manager coordinates writing records to multiple sinks. Every run gets a
// uuid so interleaved streams from different runs can be told apart.
type Manager struct {
	runID string
	sinks []Sink
}

func NewManager() *Manager {
	return &Manager{runID: uuid.NewString()}
}

func (m *Manager) RunID() string { return m.runID }

func (m *Manager) AddSink(s Sink) error {
	if s == nil {
		return fmt.Errorf("sink must not be nil")
	}
	m.sinks = append(m.sinks, s)
	return nil
}

func (m *Manager) Write(v any) error {
	if e, ok := v.(Event); ok && e.RunID == "" {
		e.RunID = m.runID
		v = e
	}
	var errs []error
	for _, s := range m.sinks {
		if err := s.Write(v); err != nil {
			errs = append(errs, fmt.Errorf("write %T: %w", s, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors writing to sinks: %w", errors.Join(errs...))
	}
	return nil
}

func (m *Manager) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %T: %w", s, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing sinks: %w", errors.Join(errs...))
	}
	return nil
}
