// Package events provides event types
package events

// Signal names the in-context pub/sub channels. Subscribers re-derive state
// from the store on every delivery; signals carry no payload.
type Signal string

const (
	SignalCartUpdated      Signal = "cartUpdated"
	SignalAuthStateChanged Signal = "authStateChanged"
)
