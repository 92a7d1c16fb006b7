package websocket

import (
	"sync"

	"go.uber.org/zap"
)

// Hub fans comment events out to the connections watching each iframe
// session. Rooms are keyed by iframe ID and exist only while they have at
// least one subscriber.
type Hub struct {
	rooms      map[string]map[*Client]bool
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	subscribe  chan *SubscribeRequest
	broadcast  chan *broadcastRequest
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	logger     *zap.Logger
	mu         sync.RWMutex
}

type SubscribeRequest struct {
	Client   *Client
	IframeID string
}

type broadcastRequest struct {
	iframeID string
	data     *Message
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subscribe:  make(chan *SubscribeRequest),
		broadcast:  make(chan *broadcastRequest, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.rooms = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					h.leaveRoom(client)
					client.Close()
				}
			}
			h.mu.Unlock()

		case req := <-h.subscribe:
			h.mu.Lock()
			if !h.stopped {
				h.leaveRoom(req.Client)
				req.Client.iframeID = req.IframeID
				room, ok := h.rooms[req.IframeID]
				if !ok {
					room = make(map[*Client]bool)
					h.rooms[req.IframeID] = room
				}
				room[req.Client] = true
			}
			h.mu.Unlock()

			msg, _ := NewMessage(MessageTypeSubscribed, SubscribedPayload{IframeID: req.IframeID})
			req.Client.Send(msg)

		case req := <-h.broadcast:
			h.mu.RLock()
			for client := range h.rooms[req.iframeID] {
				client.Send(req.data)
			}
			h.mu.RUnlock()
		}
	}
}

// leaveRoom removes the client from its current room. Caller holds h.mu.
func (h *Hub) leaveRoom(client *Client) {
	if client.iframeID == "" {
		return
	}
	if room, ok := h.rooms[client.iframeID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.iframeID)
		}
	}
	client.iframeID = ""
}

// Stop gracefully shuts down the hub. It blocks until Run has exited.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

// PublishComment delivers a newly created comment to the iframe's
// subscribers. It never blocks the caller; events are dropped if the hub is
// saturated or stopped.
func (h *Hub) PublishComment(iframeID string, payload any) {
	msg, err := NewMessage(MessageTypeCommentCreated, payload)
	if err != nil {
		h.logger.Warn("failed to encode comment event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- &broadcastRequest{iframeID: iframeID, data: msg}:
	default:
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client, tolerating a hub that is shutting down.
func (h *Hub) Unregister(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		return
	}

	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
