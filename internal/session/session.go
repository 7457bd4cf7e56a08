// Package session tracks live connections and the player/room each one
// represents. The registry is confined to the game loop goroutine, so it
// carries no lock of its own; only a client's outbox channel crosses
// goroutines.
package session

import "errors"

var ErrClientGone = errors.New("client gone")
var ErrSlowClient = errors.New("client outbox full")

// Client is the send side of one connection. The transport layer drains
// Outbox in its own writer goroutine; Send and close stay on the loop
// goroutine.
type Client struct {
	id     string
	outbox chan []byte
	gone   bool
}

func NewClient(id string, buffer int) *Client {
	return &Client{
		id:     id,
		outbox: make(chan []byte, buffer),
	}
}

func (c *Client) ID() string { return c.id }

func (c *Client) Outbox() <-chan []byte { return c.outbox }

// Send enqueues a payload without blocking. A full outbox means the reader
// on the other end stopped keeping up; the caller decides what to do with
// the client then.
func (c *Client) Send(payload []byte) error {
	if c.gone {
		return ErrClientGone
	}
	select {
	case c.outbox <- payload:
		return nil
	default:
		return ErrSlowClient
	}
}

func (c *Client) close() {
	if c.gone {
		return
	}
	c.gone = true
	close(c.outbox)
}

// Session is what a connection has told us about itself so far. Both
// fields stay empty until the connection announces a room_hello.
type Session struct {
	PlayerName string
	RoomName   string
}

// Registry maps live clients to their session metadata.
type Registry struct {
	sessions map[*Client]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[*Client]*Session)}
}

// Register creates an empty session for a newly accepted client.
func (r *Registry) Register(c *Client) {
	r.sessions[c] = &Session{}
}

// Bind associates a client with a player and room. Last write wins if a
// client ever announces itself twice.
func (r *Registry) Bind(c *Client, playerName, roomName string) bool {
	s, ok := r.sessions[c]
	if !ok {
		return false
	}
	s.PlayerName = playerName
	s.RoomName = roomName
	return true
}

func (r *Registry) Lookup(c *Client) (Session, bool) {
	s, ok := r.sessions[c]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// InRoom returns every registered client bound to the given room.
func (r *Registry) InRoom(roomName string) []*Client {
	var out []*Client
	for c, s := range r.sessions {
		if s.RoomName == roomName {
			out = append(out, c)
		}
	}
	return out
}

// All returns every registered client, bound or not.
func (r *Registry) All() []*Client {
	out := make([]*Client, 0, len(r.sessions))
	for c := range r.sessions {
		out = append(out, c)
	}
	return out
}

// Unregister drops the client's session and closes its outbox. Safe to
// call twice; a failed broadcast send may already have removed a client
// whose disconnect arrives later.
func (r *Registry) Unregister(c *Client) {
	if _, ok := r.sessions[c]; !ok {
		return
	}
	delete(r.sessions, c)
	c.close()
}

func (r *Registry) Len() int { return len(r.sessions) }
