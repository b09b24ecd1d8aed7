package httpapi

import "encoding/json"

// client is a single websocket connection subscribed to state broadcasts.
type client struct {
	conn interface {
		WriteMessage(messageType int, data []byte) error
		ReadMessage() (messageType int, p []byte, err error)
		Close() error
	}
	send chan []byte
}

func (c *client) reader(h *hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writer() {
	for msg := range c.send {
		if err := c.conn.WriteMessage(1, msg); err != nil {
			return
		}
	}
}

// hub fans out state snapshots to every connected client, grounded on the
// register/unregister/broadcast channel trio common to websocket-pushed
// live views.
type hub struct {
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcastC chan []byte
}

func newHub() *hub {
	return &hub{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcastC: make(chan []byte, 16),
	}
}

func (h *hub) run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case msg := <-h.broadcastC:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// broadcast marshals v and pushes it to every connected client, dropping
// the message if the hub's buffer is full.
func (h *hub) broadcast(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case h.broadcastC <- payload:
	default:
	}
}
