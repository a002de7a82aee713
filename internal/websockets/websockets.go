package websockets

import (
	"context"
	"encoding/json"
	"sync"

	"agency/internal/events"
	"agency/internal/logger"
	. "agency/internal/models"

	"github.com/gofiber/websocket/v2"
)

const (
	sendBuffer = 32

	actionSignedOut = "signed_out"
)

// Conn is the part of a websocket connection the manager drives.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler events.Handler) error
}

type Client struct {
	conn    Conn
	session Session
	send    chan []byte
	once    sync.Once
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Manager keeps the live admin dashboards and pushes bus events to them.
type Manager struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	bus     Subscriber
	log     logger.Logger
}

func New(bus Subscriber) *Manager {
	return &Manager{
		clients: make(map[*Client]struct{}),
		bus:     bus,
		log:     logger.New("websockets"),
	}
}

// Start subscribes to record changes and session changes until ctx ends.
func (m *Manager) Start(ctx context.Context) error {
	log := m.log.Function("Start")

	if err := m.bus.Subscribe(ctx, events.ChannelAdmin, m.Broadcast); err != nil {
		return log.Err("failed to subscribe to admin events", err)
	}
	if err := m.bus.Subscribe(ctx, events.ChannelAuth, m.handleAuthEvent); err != nil {
		return log.Err("failed to subscribe to auth events", err)
	}

	return nil
}

// HandleWebSocket serves one dashboard connection until it closes. The session
// must already have been checked by the upgrade middleware.
func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	session, _ := c.Locals("session").(Session)
	m.Serve(c, session)
}

func (m *Manager) Serve(conn Conn, session Session) {
	log := m.log.Function("Serve")

	client := &Client{
		conn:    conn,
		session: session,
		send:    make(chan []byte, sendBuffer),
	}
	m.register(client)
	log.Info("Dashboard connected", "userID", session.UserID)

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.writePump(client)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	m.unregister(client)
	<-done
	_ = conn.Close()
	log.Info("Dashboard disconnected", "userID", session.UserID)
}

func (m *Manager) writePump(client *Client) {
	for message := range client.send {
		if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			m.log.Function("writePump").Warn("failed to write message", "userID", client.session.UserID, "error", err)
			_ = client.conn.Close()
			return
		}
	}
	_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
	_ = client.conn.Close()
}

func (m *Manager) register(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client] = struct{}{}
}

func (m *Manager) unregister(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[client]; ok {
		delete(m.clients, client)
		client.close()
	}
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Broadcast sends event to every connected dashboard. A client whose buffer is
// full is skipped for this event.
func (m *Manager) Broadcast(event events.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		m.log.Function("Broadcast").Er("failed to marshal event", err, "type", event.Type)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for client := range m.clients {
		select {
		case client.send <- payload:
		default:
			m.log.Function("Broadcast").Warn("client buffer full", "userID", client.session.UserID)
		}
	}
}

// handleAuthEvent ends every socket that belongs to a session that just signed
// out, after telling it why.
func (m *Manager) handleAuthEvent(event events.Event) {
	if event.Action != actionSignedOut {
		return
	}
	token, _ := event.Data["token"].(string)
	if token == "" {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		m.log.Function("handleAuthEvent").Er("failed to marshal event", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for client := range m.clients {
		if client.session.Token != token {
			continue
		}
		select {
		case client.send <- payload:
		default:
		}
		delete(m.clients, client)
		client.close()
	}
}
