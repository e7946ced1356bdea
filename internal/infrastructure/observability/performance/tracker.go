package performance

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Tracker collects markers for recent operations, keeping a bounded window
// per profile for inspection.
type Tracker struct {
	mu     sync.RWMutex
	config *TrackerConfig
	recent map[string][]*Marker
}

// TrackerConfig bounds retention and names the slow-operation threshold.
type TrackerConfig struct {
	MaxMarkersPerProfile int
	SlowOpThreshold      time.Duration
}

// DefaultTrackerConfig returns the standard tracker settings.
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkersPerProfile: 256,
		SlowOpThreshold:      500 * time.Millisecond,
	}
}

// NewTracker creates a tracker with the given configuration.
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	return &Tracker{
		config: config,
		recent: make(map[string][]*Marker),
	}
}

// StartOperation opens a marker for an operation within a profile.
func (t *Tracker) StartOperation(operation, profileID string) *Marker {
	marker := &Marker{
		ID:        ulid.Make().String(),
		Operation: operation,
		ProfileID: profileID,
		StartTime: time.Now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	markers := append(t.recent[profileID], marker)
	if len(markers) > t.config.MaxMarkersPerProfile {
		markers = markers[len(markers)-t.config.MaxMarkersPerProfile:]
	}
	t.recent[profileID] = markers
	return marker
}

// IsSlow reports whether a completed marker exceeded the slow threshold.
func (t *Tracker) IsSlow(marker *Marker) bool {
	return marker.Duration > t.config.SlowOpThreshold
}

// GetMetrics returns copies of the recent markers for a profile.
func (t *Tracker) GetMetrics(profileID string) []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Marker, 0, len(t.recent[profileID]))
	for _, m := range t.recent[profileID] {
		out = append(out, Marker{
			ID:        m.ID,
			Operation: m.Operation,
			ProfileID: m.ProfileID,
			StartTime: m.StartTime,
			Duration:  m.Duration,
			Success:   m.Success,
			Error:     m.Error,
			Completed: m.Completed,
		})
	}
	return out
}
