package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/motonorte/storefront-go/internal/infrastructure/persistence/kv"
)

// Cross-context delivery is deliberately coarse: subscribers learn which key
// changed, never what it changed to, and must re-read the store.

// FormatStorageEvent renders a store change as an SSE frame.
func FormatStorageEvent(ev kv.ChangeEvent) string {
	payload, _ := json.Marshal(ev)
	return fmt.Sprintf("event: storage_changed\ndata: %s\n\n", payload)
}

// FormatHeartbeat renders the keep-alive frame for idle SSE connections.
func FormatHeartbeat() string {
	return "event: heartbeat\ndata: {}\n\n"
}

// MarshalStorageEvent renders a store change for the websocket feed.
func MarshalStorageEvent(ev kv.ChangeEvent) []byte {
	msg := struct {
		Type  string         `json:"type"`
		Event kv.ChangeEvent `json:"event"`
	}{Type: "storage_changed", Event: ev}
	payload, _ := json.Marshal(msg)
	return payload
}
