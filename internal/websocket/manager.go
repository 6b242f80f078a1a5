// Package websocket is the live-reload hub: preview pages connect to /ws and
// are told when the story catalog changes.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/conneroisu/herobook/internal/logging"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
	sendBuffer   = 16
)

// WebSocketManager handles WebSocket connections and broadcasting.
//
// A single hub goroutine owns client registration and the send channels.
// Only the hub closes a client's send channel.
type WebSocketManager struct {
	clients      map[string]*Client
	clientsMutex sync.RWMutex

	broadcast  chan []byte
	register   chan *Client
	unregister chan string

	originValidator OriginValidator
	logger          logging.Logger

	ctx          context.Context
	cancel       context.CancelFunc
	hubDone      chan struct{}
	clientsWG    sync.WaitGroup
	shutdownOnce sync.Once
}

// NewWebSocketManager creates a manager and starts its hub. Callers must
// call Shutdown to stop it.
func NewWebSocketManager(originValidator OriginValidator, logger logging.Logger) *WebSocketManager {
	if originValidator == nil {
		originValidator = AllowedOrigins(nil)
	}
	if logger == nil {
		logger = logging.Discard()
	}

	ctx, cancel := context.WithCancel(context.Background())

	manager := &WebSocketManager{
		clients:         make(map[string]*Client),
		broadcast:       make(chan []byte, 64),
		register:        make(chan *Client),
		unregister:      make(chan string, 32),
		originValidator: originValidator,
		logger:          logger.WithComponent("websocket"),
		ctx:             ctx,
		cancel:          cancel,
		hubDone:         make(chan struct{}),
	}

	go manager.runHub()

	return manager
}

// HandleWebSocket upgrades the request and serves the client until either
// side closes the connection.
func (wm *WebSocketManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if wm.IsShutdown() {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	origin := r.Header.Get("Origin")
	if origin != "" && !sameOrigin(origin, r.Host) && !wm.originValidator.IsAllowedOrigin(origin) {
		wm.logger.Warn(r.Context(), nil, "WebSocket connection rejected: origin not allowed",
			"origin", origin, "remote_addr", r.RemoteAddr)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Origins are checked above.
		InsecureSkipVerify: true,
		CompressionMode:    websocket.CompressionDisabled,
	})
	if err != nil {
		wm.logger.Warn(r.Context(), err, "WebSocket upgrade failed", "remote_addr", r.RemoteAddr)
		return
	}

	client := &Client{
		id:          uuid.NewString(),
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		remoteAddr:  r.RemoteAddr,
		connectedAt: time.Now(),
	}

	if !wm.addClient(client) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	wm.handleClient(client)
}

// addClient hands client to the hub. register is unbuffered, so a client is
// either taken by a running hub, which will close its send channel, or
// refused once shutdown has begun.
func (wm *WebSocketManager) addClient(client *Client) bool {
	wm.clientsWG.Add(1)
	select {
	case wm.register <- client:
		return true
	case <-wm.ctx.Done():
		wm.clientsWG.Done()
		return false
	}
}

func (wm *WebSocketManager) runHub() {
	defer close(wm.hubDone)

	for {
		select {
		case client := <-wm.register:
			wm.registerClient(client)

		case id := <-wm.unregister:
			wm.unregisterClient(id)

		case message := <-wm.broadcast:
			wm.broadcastToClients(message)

		case <-wm.ctx.Done():
			wm.clientsMutex.Lock()
			for id, client := range wm.clients {
				close(client.send)
				delete(wm.clients, id)
			}
			wm.clientsMutex.Unlock()
			return
		}
	}
}

func (wm *WebSocketManager) registerClient(client *Client) {
	wm.clientsMutex.Lock()
	wm.clients[client.id] = client
	total := len(wm.clients)
	wm.clientsMutex.Unlock()

	wm.logger.Info(wm.ctx, "WebSocket client connected",
		"client_id", client.id, "remote_addr", client.remoteAddr, "clients", total)
}

func (wm *WebSocketManager) unregisterClient(id string) {
	wm.clientsMutex.Lock()
	client, exists := wm.clients[id]
	if exists {
		delete(wm.clients, id)
		close(client.send)
	}
	total := len(wm.clients)
	wm.clientsMutex.Unlock()

	if exists {
		wm.logger.Info(wm.ctx, "WebSocket client disconnected", "client_id", id, "clients", total)
	}
}

// broadcastToClients drops clients whose send buffer is full.
func (wm *WebSocketManager) broadcastToClients(message []byte) {
	wm.clientsMutex.RLock()
	var slow []string
	for id, client := range wm.clients {
		select {
		case client.send <- message:
		default:
			slow = append(slow, id)
		}
	}
	wm.clientsMutex.RUnlock()

	for _, id := range slow {
		wm.logger.Warn(wm.ctx, nil, "WebSocket client too slow, disconnecting", "client_id", id)
		wm.unregisterClient(id)
	}
}

func (wm *WebSocketManager) handleClient(client *Client) {
	defer wm.clientsWG.Done()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		wm.writeToClient(client)
	}()

	wm.readFromClient(client)

	select {
	case wm.unregister <- client.id:
	case <-wm.ctx.Done():
	}
	<-writerDone
	client.conn.CloseNow()
}

// readFromClient drains incoming frames. Pages never send anything we act
// on, but reading is what processes pongs and close frames.
func (wm *WebSocketManager) readFromClient(client *Client) {
	for {
		_, message, err := client.conn.Read(wm.ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && wm.ctx.Err() == nil {
				wm.logger.Debug(wm.ctx, "WebSocket read ended", "client_id", client.id, "error", err.Error())
			}
			return
		}
		wm.logger.Debug(wm.ctx, "Received WebSocket message", "client_id", client.id, "bytes", len(message))
	}
}

func (wm *WebSocketManager) writeToClient(client *Client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				client.conn.Close(websocket.StatusGoingAway, "server shutdown")
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := client.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				wm.logger.Debug(wm.ctx, "WebSocket write failed", "client_id", client.id, "error", err.Error())
				client.conn.CloseNow()
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(wm.ctx, writeTimeout)
			err := client.conn.Ping(ctx)
			cancel()
			if err != nil {
				client.conn.CloseNow()
				return
			}
		}
	}
}

// BroadcastMessage sends a message to all connected clients. It never
// blocks: when the hub is backed up the message is dropped.
func (wm *WebSocketManager) BroadcastMessage(message UpdateMessage) {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	data, err := json.Marshal(message)
	if err != nil {
		wm.logger.Error(wm.ctx, err, "Failed to marshal broadcast message")
		return
	}

	select {
	case <-wm.ctx.Done():
		return
	default:
	}

	select {
	case wm.broadcast <- data:
	default:
		wm.logger.Warn(wm.ctx, nil, "Broadcast channel full, dropping message", "type", message.Type)
	}
}

// GetConnectedClients returns the number of connected clients
func (wm *WebSocketManager) GetConnectedClients() int {
	wm.clientsMutex.RLock()
	defer wm.clientsMutex.RUnlock()
	return len(wm.clients)
}

// GetClients returns a snapshot of connected clients
func (wm *WebSocketManager) GetClients() []ClientInfo {
	wm.clientsMutex.RLock()
	defer wm.clientsMutex.RUnlock()

	clients := make([]ClientInfo, 0, len(wm.clients))
	for _, client := range wm.clients {
		clients = append(clients, ClientInfo{
			ID:          client.id,
			RemoteAddr:  client.remoteAddr,
			ConnectedAt: client.connectedAt,
		})
	}
	return clients
}

// IsShutdown reports whether Shutdown has been called
func (wm *WebSocketManager) IsShutdown() bool {
	return wm.ctx.Err() != nil
}

// Shutdown closes every client and stops the hub. It waits for client
// goroutines until ctx is done. Later calls are no-ops.
func (wm *WebSocketManager) Shutdown(ctx context.Context) error {
	var err error
	wm.shutdownOnce.Do(func() {
		wm.cancel()
		<-wm.hubDone

		done := make(chan struct{})
		go func() {
			wm.clientsWG.Wait()
			close(done)
		}()

		select {
		case <-done:
			wm.logger.Info(ctx, "WebSocket manager shut down")
		case <-ctx.Done():
			err = ctx.Err()
		}
	})
	return err
}
