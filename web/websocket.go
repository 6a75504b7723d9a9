package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/thewug/eventmaster/store"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	outgoingBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// RaffleHub fans event updates out to every connected presenter screen.
type RaffleHub struct {
	clients map[*Client]struct{}

	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan []byte

	done   chan struct{}
	logger *slog.Logger
}

type Rolling struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type Winner struct {
	Type  string `json:"type"`
	Prize string `json:"prize"`
	Name  string `json:"name"`
}

type History struct {
	Type    string               `json:"type"`
	History []store.WinnerRecord `json:"history"`
}

type Roster struct {
	Type         string              `json:"type"`
	Participants []store.Participant `json:"participants"`
	Duplicates   []string            `json:"duplicates"`
}

type Groups struct {
	Type   string        `json:"type"`
	Groups []store.Group `json:"groups"`
}

type Client struct {
	Hub *RaffleHub

	Conn *websocket.Conn

	Outgoing chan []byte
}

func NewRaffleHub(logger *slog.Logger) *RaffleHub {
	return &RaffleHub{
		clients:    make(map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run owns the client set until ctx is done, at which point every client's
// outgoing channel is closed.
func (h *RaffleHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.Register:
			h.clients[c] = struct{}{}
			h.logger.Debug("screen connected", "screens", len(h.clients))

		case c := <-h.Unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.Outgoing)
				h.logger.Debug("screen disconnected", "screens", len(h.clients))
			}

		case msg := <-h.Broadcast:
			for c := range h.clients {
				select {
				case c.Outgoing <- msg:
				default:
					// too slow to keep up with the roll, drop it
					delete(h.clients, c)
					close(c.Outgoing)
					h.logger.Warn("dropped slow screen", "remote", c.Conn.RemoteAddr().String())
				}
			}

		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.Outgoing)
			}
			return
		}
	}
}

func (h *RaffleHub) send(msg interface{}) {
	j, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encode screen update", "error", err)
		return
	}

	select {
	case h.Broadcast <- j:
	default:
		h.logger.Warn("broadcast queue full, update dropped")
	}
}

func (h *RaffleHub) Rolling(name string) {
	h.send(Rolling{Type: "rolling", Name: name})
}

func (h *RaffleHub) DrawFinished(record store.WinnerRecord) {
	h.send(Winner{Type: "winner", Prize: record.Prize, Name: record.Name})
}

func (h *RaffleHub) HistoryChanged(history []store.WinnerRecord) {
	h.send(History{Type: "history", History: history})
}

func (h *RaffleHub) RosterChanged(participants []store.Participant) {
	h.send(Roster{Type: "roster", Participants: participants, Duplicates: store.Duplicates(participants)})
}

func (h *RaffleHub) GroupsChanged(groups []store.Group) {
	h.send(Groups{Type: "groups", Groups: groups})
}

// Serve upgrades req and attaches the connection to the hub. hello, when not
// nil, is the first message the screen receives, and by the time it arrives
// the screen is registered for every later update.
func (h *RaffleHub) Serve(w http.ResponseWriter, req *http.Request, hello interface{}) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		// Upgrade has already written the error response
		h.logger.Warn("websocket upgrade", "error", err)
		return
	}

	c := &Client{
		Hub:      h,
		Conn:     conn,
		Outgoing: make(chan []byte, outgoingBuffer),
	}
	if hello != nil {
		j, err := json.Marshal(hello)
		if err != nil {
			h.logger.Error("encode screen hello", "error", err)
		} else {
			c.Outgoing <- j
		}
	}

	select {
	case h.Register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump only exists to answer pings and notice when the screen goes away.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.Unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Outgoing:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
