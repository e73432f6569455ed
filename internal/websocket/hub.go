package websocket

import (
	"context"
	"encoding/json"

	"ai-flashcard-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

// Envelope is the frame written to sockets.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clusterMessage struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

type delivery struct {
	userID uuid.UUID
	data   []byte
}

// Hub tracks sockets per user and fans messages out to them. With redis
// configured, messages also reach sockets held by other instances.
// Only Run touches the client map.
type Hub struct {
	clients    map[uuid.UUID][]*Client
	register   chan *Client
	unregister chan *Client
	local      chan delivery

	// Redis connection for cross-instance fan-out; nil runs single-node.
	rdb *redis.Client
	// instanceID tags our own cluster messages so they are not delivered twice.
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		local:      make(chan delivery, 256),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run owns the client map. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	remote := make(chan delivery, 256)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx, remote)
	}

	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.clients {
				for _, c := range clients {
					close(c.Send)
				}
			}
			h.clients = make(map[uuid.UUID][]*Client)
			return

		case client := <-h.register:
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID.String()})

		case client := <-h.unregister:
			h.remove(client)

		case d := <-h.local:
			h.deliver(d)

		case d := <-remote:
			h.deliver(d)
		}
	}
}

func (h *Hub) remove(client *Client) {
	clients := h.clients[client.UserID]
	for i, c := range clients {
		if c == client {
			h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.UserID]) == 0 {
		delete(h.clients, client.UserID)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID.String()})
	}
}

// deliver writes to every local socket of the user. Slow sockets are
// dropped rather than blocking the hub.
func (h *Hub) deliver(d delivery) {
	clients := h.clients[d.userID]
	for _, client := range append([]*Client(nil), clients...) {
		select {
		case client.Send <- d.data:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"user_id": d.userID.String()})
			h.remove(client)
		}
	}
}

// Send queues a typed message for all sockets of a user, here and on other
// instances.
func (h *Hub) Send(userID uuid.UUID, msgType string, data interface{}) {
	payload, err := json.Marshal(Envelope{Type: msgType, Data: data})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode message", map[string]interface{}{"error": err.Error()})
		return
	}

	select {
	case h.local <- delivery{userID: userID, data: payload}:
	default:
		h.logger.Warn("Hub", "Delivery queue full, dropping message", map[string]interface{}{"user_id": userID.String()})
	}

	if h.rdb == nil {
		return
	}
	msg, _ := json.Marshal(clusterMessage{
		Origin:       h.instanceID,
		TargetUserID: userID.String(),
		Message:      payload,
	})
	if err := h.rdb.Publish(context.Background(), clusterChannel, msg).Err(); err != nil {
		h.logger.Warn("Hub", "Failed to publish to cluster", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context, out chan<- delivery) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			d, ok := h.decodeCluster(msg.Payload)
			if !ok {
				continue
			}
			select {
			case out <- d:
			case <-ctx.Done():
				return
			}
		}
	}
}

// decodeCluster skips our own messages and anything malformed.
func (h *Hub) decodeCluster(raw string) (delivery, bool) {
	var payload clusterMessage
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
		return delivery{}, false
	}
	if payload.Origin == h.instanceID {
		return delivery{}, false
	}
	uid, err := uuid.Parse(payload.TargetUserID)
	if err != nil {
		return delivery{}, false
	}
	return delivery{userID: uid, data: payload.Message}, true
}
