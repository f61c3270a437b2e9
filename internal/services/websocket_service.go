package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"algoridigm/internal/metrics"
	"algoridigm/internal/models"
	"algoridigm/internal/presentation"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Command types accepted from clients
const (
	CommandBegin          = "begin"
	CommandNext           = "next"
	CommandPrevious       = "previous"
	CommandGoTo           = "goto"
	CommandDismissWarning = "dismiss-warning"
	CommandToggleMute     = "mute"
	CommandStartTimer     = "timer/start"
	CommandStopTimer      = "timer/stop"
	CommandResetTimer     = "timer/reset"
)

// Command is a presentation control message
type Command struct {
	Type  string `json:"type"`
	Slide *int   `json:"slide,omitempty"`
}

// Event is a message pushed to clients
type Event struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Client is a connected presentation viewer
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// WebSocketService pushes presentation state to connected viewers and
// applies their control commands to the sequencer
type WebSocketService struct {
	seq    *presentation.Sequencer
	logger *zap.Logger

	unwatch func()

	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
	wg      sync.WaitGroup
}

// NewWebSocketService creates a new websocket service. Sequencer changes are
// forwarded to clients from the moment it is created.
func NewWebSocketService(seq *presentation.Sequencer, logger *zap.Logger) *WebSocketService {
	ws := &WebSocketService{
		seq:     seq,
		logger:  logger,
		clients: make(map[*Client]struct{}),
	}
	ws.unwatch = seq.Watch(func(state models.PresentationState) {
		ws.Broadcast(Event{Type: "state", Payload: state, Timestamp: time.Now()})
	})
	return ws
}

// Run blocks until ctx is done, then stops forwarding and disconnects all
// clients
func (ws *WebSocketService) Run(ctx context.Context) {
	<-ctx.Done()
	ws.unwatch()
	ws.shutdown()
}

// Broadcast sends an event to every client, dropping clients that cannot keep up
func (ws *WebSocketService) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		ws.logger.Error("Failed to marshal event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	ws.mu.RLock()
	var slow []*Client
	for c := range ws.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	ws.mu.RUnlock()

	for _, c := range slow {
		ws.logger.Warn("Dropping slow client", zap.String("client", c.ID))
		ws.removeClient(c)
	}
}

// ClientCount returns the number of connected clients
func (ws *WebSocketService) ClientCount() int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return len(ws.clients)
}

// Serve registers conn, sends it the current state and pumps messages until
// the connection closes. It blocks.
func (ws *WebSocketService) Serve(conn *websocket.Conn) {
	client := &Client{
		ID:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	// The initial state is queued and the client registered under the stage
	// lock, so no broadcast can slip in between or arrive out of order.
	registered := false
	ws.seq.Attach(func(state models.PresentationState) {
		ws.mu.Lock()
		defer ws.mu.Unlock()
		if ws.closed {
			return
		}
		if initial, err := json.Marshal(Event{Type: "state", Payload: state, Timestamp: time.Now()}); err == nil {
			client.send <- initial
		}
		ws.clients[client] = struct{}{}
		ws.wg.Add(1)
		registered = true
	})
	if !registered {
		conn.Close()
		return
	}
	defer ws.wg.Done()

	metrics.WebSocketClients.Inc()
	ws.logger.Info("Client connected", zap.String("client", client.ID))

	done := make(chan struct{})
	go func() {
		defer close(done)
		ws.writePump(client)
	}()

	ws.readPump(client)
	ws.removeClient(client)
	<-done

	ws.logger.Info("Client disconnected", zap.String("client", client.ID))
}

// HandleCommand applies a command to the sequencer. It reports whether the
// presentation changed; ignored navigation is not an error.
func (ws *WebSocketService) HandleCommand(cmd Command) (bool, error) {
	switch cmd.Type {
	case CommandBegin:
		return ws.seq.Begin(), nil
	case CommandNext:
		return ws.seq.Next(), nil
	case CommandPrevious:
		return ws.seq.Previous(), nil
	case CommandGoTo:
		if cmd.Slide == nil {
			return false, fmt.Errorf("goto requires a slide index")
		}
		return ws.seq.GoToSlide(*cmd.Slide), nil
	case CommandDismissWarning:
		return ws.seq.DismissWarning(), nil
	case CommandToggleMute:
		ws.seq.ToggleMute()
		return true, nil
	case CommandStartTimer:
		return ws.seq.StartTimer(), nil
	case CommandStopTimer:
		return ws.seq.StopTimer(), nil
	case CommandResetTimer:
		ws.seq.ResetTimer()
		return true, nil
	default:
		return false, fmt.Errorf("unknown command: %q", cmd.Type)
	}
}

func (ws *WebSocketService) readPump(c *Client) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.logger.Warn("Websocket read failed", zap.String("client", c.ID), zap.Error(err))
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			ws.sendError(c, "invalid command")
			continue
		}
		if _, err := ws.HandleCommand(cmd); err != nil {
			ws.sendError(c, err.Error())
		}
	}
}

func (ws *WebSocketService) writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ws *WebSocketService) sendError(c *Client, message string) {
	data, err := json.Marshal(Event{Type: "error", Payload: map[string]string{"message": message}, Timestamp: time.Now()})
	if err != nil {
		return
	}
	ws.mu.RLock()
	_, live := ws.clients[c]
	if live {
		select {
		case c.send <- data:
		default:
		}
	}
	ws.mu.RUnlock()
}

// removeClient unregisters c and closes its send channel exactly once
func (ws *WebSocketService) removeClient(c *Client) {
	ws.mu.Lock()
	_, ok := ws.clients[c]
	delete(ws.clients, c)
	ws.mu.Unlock()

	if ok {
		metrics.WebSocketClients.Dec()
	}
	c.once.Do(func() { close(c.send) })
}

func (ws *WebSocketService) shutdown() {
	ws.mu.Lock()
	ws.closed = true
	clients := make([]*Client, 0, len(ws.clients))
	for c := range ws.clients {
		clients = append(clients, c)
	}
	ws.mu.Unlock()

	for _, c := range clients {
		// writePump sends the close frame and closes the conn, which ends readPump
		ws.removeClient(c)
	}
	ws.wg.Wait()
}
