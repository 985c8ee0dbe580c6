package models

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// sendWriteTimeout bounds a single push so one stalled client cannot hold
// the registry lock indefinitely.
const sendWriteTimeout = 5 * time.Second

type SocketClient struct {
	ConnectionID string
	UserID       uint
	Conn         *websocket.Conn
}

// SocketHub is the connection registry: the single source of truth for
// "is user U currently reachable, and via which connection?". It is the only
// shared mutable structure in the process and every access goes through the
// mutex. One live connection per user: a second Bind for the same user
// evicts the previous binding and closes its socket so it cannot linger
// half-alive.
type SocketHub struct {
	mu      sync.Mutex
	clients map[uint]*SocketClient
	users   map[string]uint
}

func NewSocketHub() *SocketHub {
	return &SocketHub{
		clients: make(map[uint]*SocketClient),
		users:   make(map[string]uint),
	}
}

// Bind registers the user's live connection and returns the binding,
// replacing (and closing) any previous one.
func (hub *SocketHub) Bind(userID uint, conn *websocket.Conn) *SocketClient {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	if previous, ok := hub.clients[userID]; ok {
		delete(hub.users, previous.ConnectionID)
		if err := previous.Conn.Close(); err != nil {
			log.Printf("Error closing evicted connection %v of user %v: %v", previous.ConnectionID, userID, err)
		}
	}

	client := &SocketClient{
		ConnectionID: uuid.NewString(),
		UserID:       userID,
		Conn:         conn,
	}
	hub.clients[userID] = client
	hub.users[client.ConnectionID] = userID
	return client
}

// Unbind removes the mapping owned by the given connection. A connection id
// the hub no longer knows, or one that was already replaced by a newer
// binding for the same user, is a no-op.
func (hub *SocketHub) Unbind(connectionID string) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	userID, ok := hub.users[connectionID]
	if !ok {
		return
	}
	delete(hub.users, connectionID)
	if client, ok := hub.clients[userID]; ok && client.ConnectionID == connectionID {
		delete(hub.clients, userID)
	}
}

func (hub *SocketHub) IsOnline(userID uint) bool {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	_, ok := hub.clients[userID]
	return ok
}

func (hub *SocketHub) ConnectionOf(userID uint) (*SocketClient, bool) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	client, ok := hub.clients[userID]
	return client, ok
}

// Send writes one JSON frame to the user's bound connection. Offline users
// are skipped silently: push delivery is best-effort, the durable record is
// what clients reconcile against. The write carries a deadline, so a client
// that stopped reading times out instead of wedging the registry; a failed
// or timed-out write tears the binding down.
func (hub *SocketHub) Send(userID uint, v interface{}) bool {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	client, ok := hub.clients[userID]
	if !ok {
		return false
	}
	if err := client.Conn.SetWriteDeadline(time.Now().Add(sendWriteTimeout)); err != nil {
		log.Printf("Error setting write deadline for user %v: %v", userID, err)
	}
	if err := client.Conn.WriteJSON(v); err != nil {
		log.Printf("Error writing json to user %v: %v", userID, err)
		if err := client.Conn.Close(); err != nil {
			log.Printf("Error closing connection of user %v: %v", userID, err)
		}
		delete(hub.users, client.ConnectionID)
		delete(hub.clients, userID)
		return false
	}
	return true
}

// CloseAll drops every binding, closing the sockets. Used on shutdown.
func (hub *SocketHub) CloseAll() {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for userID, client := range hub.clients {
		if err := client.Conn.Close(); err != nil {
			log.Printf("Error closing connection of user %v: %v", userID, err)
		}
		delete(hub.users, client.ConnectionID)
		delete(hub.clients, userID)
	}
}
