package websocket

import (
	"time"

	"github.com/coder/websocket"
)

// Message types pushed to preview pages.
const (
	// MessageCatalogUpdate reports that one story's props changed.
	MessageCatalogUpdate = "catalog_update"
	// MessageFullReload asks every page to reload; sent when stories are
	// added or removed.
	MessageFullReload = "full_reload"
)

// Client represents a WebSocket client connection
type Client struct {
	id          string
	conn        *websocket.Conn
	send        chan []byte
	remoteAddr  string
	connectedAt time.Time
}

// ClientInfo describes a connected client for monitoring
type ClientInfo struct {
	ID          string    `json:"id"`
	RemoteAddr  string    `json:"remote_addr"`
	ConnectedAt time.Time `json:"connected_at"`
}

// UpdateMessage represents a message sent to the browser
type UpdateMessage struct {
	Type      string    `json:"type"`
	Target    string    `json:"target,omitempty"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
