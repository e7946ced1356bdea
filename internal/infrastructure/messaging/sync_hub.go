package messaging

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/logging"
	"github.com/motonorte/storefront-go/internal/infrastructure/persistence/kv"
)

// SyncClient represents one connected websocket context (a "tab").
type SyncClient struct {
	Conn      *websocket.Conn
	ProfileID string
	ContextID string
	Send      chan []byte

	sub *kv.Subscription
}

// SyncHub manages websocket clients receiving cross-context storage change
// notifications, one registry per profile.
type SyncHub struct {
	store          kv.Store
	profileClients map[string]map[*SyncClient]bool
	register       chan *SyncClient
	unregister     chan *SyncClient
	mu             sync.RWMutex
	logger         *logging.ChanneledLogger
}

// NewSyncHub creates a hub over the given store.
func NewSyncHub(store kv.Store, logger *logging.ChanneledLogger) *SyncHub {
	return &SyncHub{
		store:          store,
		profileClients: make(map[string]map[*SyncClient]bool),
		register:       make(chan *SyncClient),
		unregister:     make(chan *SyncClient),
		logger:         logger,
	}
}

// Run starts the hub's registration loop. This should be run as a goroutine.
func (h *SyncHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.profileClients[client.ProfileID]; !ok {
				h.profileClients[client.ProfileID] = make(map[*SyncClient]bool)
			}
			h.profileClients[client.ProfileID][client] = true
			h.mu.Unlock()

			client.sub = h.store.Subscribe(client.ProfileID, client.ContextID)
			go h.pump(client)
			h.logger.Bus().Debug("Sync client registered", "profileId", client.ProfileID, "contextId", client.ContextID)

		case client := <-h.unregister:
			h.mu.Lock()
			registered := false
			if clients, ok := h.profileClients[client.ProfileID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					registered = true
					if len(clients) == 0 {
						delete(h.profileClients, client.ProfileID)
					}
				}
			}
			h.mu.Unlock()

			// Tearing down the subscription ends pump, and pump closes
			// Send on its way out. Send is never closed here while pump
			// may still be forwarding into it.
			if registered && client.sub != nil {
				h.store.Unsubscribe(client.sub)
			}
			h.logger.Bus().Debug("Sync client unregistered", "profileId", client.ProfileID, "contextId", client.ContextID)
		}
	}
}

// pump forwards store change events to the client's send channel until its
// subscription closes, then closes Send. Send is owned by this goroutine:
// nothing else may close it, so a late store change can never hit a closed
// channel. A full send channel drops the event; the client must re-read the
// store anyway.
func (h *SyncHub) pump(client *SyncClient) {
	defer close(client.Send)
	for ev := range client.sub.C {
		select {
		case client.Send <- MarshalStorageEvent(ev):
		default:
			h.logger.Bus().Warn("Sync channel full, notification dropped", "profileId", client.ProfileID, "key", ev.Key)
		}
	}
}

// Register queues a client for registration.
func (h *SyncHub) Register(client *SyncClient) {
	h.register <- client
}

// Unregister queues a client for unregistration.
func (h *SyncHub) Unregister(client *SyncClient) {
	h.unregister <- client
}

// ConnectionCount returns the number of connected contexts for a profile.
func (h *SyncHub) ConnectionCount(profileID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.profileClients[profileID])
}
