package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const eventsChannel = "ws:customer_events"

// customerEventMessage is the cross-instance envelope on the Redis channel
type customerEventMessage struct {
	CustomerID       string          `json:"customer_id"`
	Payload          json.RawMessage `json:"payload"`
	SenderInstanceID string          `json:"sender_instance_id"`
}

// Connection represents one dashboard WebSocket session
type Connection struct {
	CustomerID uuid.UUID
	Conn       *websocket.Conn
	Send       chan []byte
}

// Hub fans events out to connected dashboard sessions. With Redis configured
// it bridges instances over Pub/Sub; without it, delivery is local only.
type Hub struct {
	connections map[uuid.UUID]map[*Connection]bool

	redis  *redis.Client
	pubsub *redis.PubSub

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc

	instanceID string
}

// NewHub creates the hub. redisClient may be nil.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections: make(map[uuid.UUID]map[*Connection]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
		instanceID:  uuid.NewString(),
	}

	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, eventsChannel)
	}

	return h
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.CustomerID] == nil {
				h.connections[conn.CustomerID] = make(map[*Connection]bool)
			}
			h.connections[conn.CustomerID][conn] = true
			h.mu.Unlock()
			log.Debug().Str("customer_id", conn.CustomerID.String()).Msg("dashboard session connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.connections[conn.CustomerID]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
				}
				if len(conns) == 0 {
					delete(h.connections, conn.CustomerID)
				}
			}
			h.mu.Unlock()
			log.Debug().Str("customer_id", conn.CustomerID.String()).Msg("dashboard session disconnected")
		}
	}
}

func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()

	for {
		select {
		case <-h.ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event customerEventMessage
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			if event.SenderInstanceID == h.instanceID {
				continue
			}
			customerID, err := uuid.Parse(event.CustomerID)
			if err != nil {
				continue
			}
			h.sendLocal(customerID, []byte(event.Payload))
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// SendToCustomerJSON delivers a payload to every session of the customer,
// on this instance and, via Redis, on all others.
func (h *Hub) SendToCustomerJSON(customerID uuid.UUID, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	h.sendLocal(customerID, data)

	if h.redis != nil {
		event := customerEventMessage{
			CustomerID:       customerID.String(),
			Payload:          data,
			SenderInstanceID: h.instanceID,
		}
		envelope, err := json.Marshal(event)
		if err != nil {
			return err
		}
		return h.redis.Publish(h.ctx, eventsChannel, envelope).Err()
	}

	return nil
}

// sendLocal holds the read lock across the fan-out so the Run loop cannot
// mutate the connection set mid-iteration. Sends are non-blocking.
func (h *Hub) sendLocal(customerID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.connections[customerID] {
		select {
		case conn.Send <- data:
		default:
			log.Warn().Str("customer_id", customerID.String()).Msg("websocket send buffer full")
		}
	}
}

// ConnectionCount returns the number of local sessions
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.connections {
		total += len(conns)
	}
	return total
}

// Shutdown gracefully shuts down the hub
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}
