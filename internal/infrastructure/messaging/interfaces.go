// Package messaging provides the in-context event bus and the cross-context
// change feeds (SSE and websocket) built on top of store notifications.
package messaging

import "github.com/motonorte/storefront-go/internal/domain/events"

// Publisher is the narrow interface services use to announce state changes.
type Publisher interface {
	Publish(signal events.Signal, profileID string)
}
