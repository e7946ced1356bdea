// Package performance provides lightweight operation tracking. Every
// handler/service operation opens a marker; completing it records duration
// and outcome for the performance channel.
package performance

import (
	"sync"
	"time"
)

// Marker tracks a single operation from start to completion.
type Marker struct {
	ID        string
	Operation string
	ProfileID string
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string
	Completed bool

	mu       sync.Mutex
	metadata map[string]any
}

// Complete finalizes the marker, recording its duration.
func (m *Marker) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Completed {
		return
	}
	m.Duration = time.Since(m.StartTime)
	m.Completed = true
}

// SetSuccess records the outcome of the operation.
func (m *Marker) SetSuccess(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Success = success
}

// SetError records a failure with its message and marks the operation failed.
func (m *Marker) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Success = false
	if err != nil {
		m.Error = err.Error()
	}
}

// AddMetadata attaches an arbitrary key/value to the marker.
func (m *Marker) AddMetadata(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.metadata == nil {
		m.metadata = make(map[string]any)
	}
	m.metadata[key] = value
}

// Metadata returns a copy of the attached metadata.
func (m *Marker) Metadata() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]any, len(m.metadata))
	for k, v := range m.metadata {
		out[k] = v
	}
	return out
}
