package server

import (
	"log"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

const maxSpectators = 64

// Hub tracks spectator connections and fans snapshots out to them
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	closed     bool
	unregister chan *Client
	broadcast  chan []byte
	stop       chan struct{}
	stopOnce   sync.Once
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		unregister: make(chan *Client, 16),
		broadcast:  make(chan []byte, 8),
		stop:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes unregister and broadcast events until Stop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.unregister:
			h.remove(client)

		case frame := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for client := range h.clients {
				select {
				case client.send <- frame:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range slow {
				h.logger.Printf("spectator %s too slow, dropping", client.remoteAddr)
				h.remove(client)
			}

		case <-h.stop:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a spectator unless the hub is stopping. initial, if set,
// is queued ahead of any broadcast frame.
func (h *Hub) Register(client *Client, initial []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	if initial != nil {
		client.send <- initial
	}
	h.clients[client] = true
	return true
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stop:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

// BroadcastSnapshot encodes snap once and queues it for every spectator.
// A full queue drops the frame.
func (h *Hub) BroadcastSnapshot(snap Snapshot) {
	if h.ClientCount() == 0 {
		return
	}
	data, err := encodeSnapshot(snap)
	if err != nil {
		h.logger.Printf("snapshot marshal error: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

func encodeSnapshot(snap Snapshot) ([]byte, error) {
	return msgpack.Marshal(&snap)
}

// CanAccept reports whether another spectator fits
func (h *Hub) CanAccept() bool {
	return h.ClientCount() < maxSpectators
}

// ClientCount returns the number of connected spectators
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop refuses new spectators, then disconnects the rest and ends Run
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		h.mu.Lock()
		h.closed = true
		h.mu.Unlock()
		close(h.stop)
	})
}
