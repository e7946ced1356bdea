// Package kv provides the key-value store adapter the storefront state core
// persists through. It mirrors a browser's per-origin local storage: string
// keys, string values (JSON text by convention), last write wins, and a
// change notification delivered to every subscribed context except the one
// that performed the write.
package kv

import (
	"sync"

	"github.com/motonorte/storefront-go/pkg/config"
)

// ChangeEvent describes one key mutation within a profile. It names the key
// only; subscribers re-derive state from the store rather than trusting a
// payload.
type ChangeEvent struct {
	ProfileID string `json:"profileId"`
	Key       string `json:"key"`
	Removed   bool   `json:"removed"`
	Origin    string `json:"-"`
}

// Store is the adapter contract. Get returns the raw string and whether the
// key was present. Set and Remove carry the originating context ID so that
// context is not notified of its own write. There is no locking across
// contexts: two writers can race and the last Set wins.
type Store interface {
	Get(profileID, key string) (string, bool)
	Set(profileID, key, value, origin string) error
	Remove(profileID, key, origin string) error
	Subscribe(profileID, origin string) *Subscription
	Unsubscribe(sub *Subscription)
	Close() error
}

// Subscription is one context's feed of change events for a profile.
type Subscription struct {
	ProfileID string
	Origin    string
	C         chan ChangeEvent
}

// notifier implements the fan-out shared by every Store backend.
// Notifications are process-local, the way browser storage events are
// machine-local.
type notifier struct {
	mu   sync.Mutex
	subs map[string][]*Subscription
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[string][]*Subscription)}
}

func (n *notifier) subscribe(profileID, origin string) *Subscription {
	sub := &Subscription{
		ProfileID: profileID,
		Origin:    origin,
		C:         make(chan ChangeEvent, config.SyncChannelBuffer),
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs[profileID] = append(n.subs[profileID], sub)
	return sub
}

func (n *notifier) unsubscribe(sub *Subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()
	current := n.subs[sub.ProfileID]
	next := make([]*Subscription, 0, len(current))
	for _, s := range current {
		if s != sub {
			next = append(next, s)
		}
	}
	if len(next) == 0 {
		delete(n.subs, sub.ProfileID)
	} else {
		n.subs[sub.ProfileID] = next
	}
	close(sub.C)
}

// notify fans the event out to every subscriber of the profile except the
// originating context. Sends never block; a full channel drops the event,
// matching the coarse "something changed, go re-read" contract.
func (n *notifier) notify(ev ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, sub := range n.subs[ev.ProfileID] {
		if ev.Origin != "" && sub.Origin == ev.Origin {
			continue
		}
		select {
		case sub.C <- ev:
		default:
		}
	}
}
