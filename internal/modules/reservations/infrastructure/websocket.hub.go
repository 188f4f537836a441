package infrastructure

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"reservaMesa/internal/modules/reservations/application/port"
	"reservaMesa/internal/modules/reservations/domain"
	"reservaMesa/internal/shared/metrics"
)

// Hub fans voucher events out to websocket clients waiting on a payment ID.
type Hub struct {
	subscribers map[string]map[*Client]struct{}
	mu          sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]map[*Client]struct{})}
}

// AttachClient subscribes the client to its payment ID.
func (h *Hub) AttachClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[c.paymentID] == nil {
		h.subscribers[c.paymentID] = make(map[*Client]struct{})
	}
	h.subscribers[c.paymentID][c] = struct{}{}
	metrics.WebsocketClients.Inc()
	slog.Info("ws client attached", slog.String("paymentId", c.paymentID), slog.String("clientId", c.id))
}

func (h *Hub) detachClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(c)
}

func (h *Hub) detachLocked(c *Client) {
	if c == nil {
		return
	}
	subs, ok := h.subscribers[c.paymentID]
	if !ok {
		return
	}
	if _, member := subs[c]; !member {
		return
	}
	delete(subs, c)
	if len(subs) == 0 {
		delete(h.subscribers, c.paymentID)
	}
	c.close()
	metrics.WebsocketClients.Dec()
	slog.Info("ws client detached", slog.String("paymentId", c.paymentID), slog.String("clientId", c.id))
}

// Subscribers reports how many clients wait on paymentID.
func (h *Hub) Subscribers(paymentID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[strings.TrimSpace(paymentID)])
}

// BroadcastVoucher sends the event to every client waiting on paymentID.
func (h *Hub) BroadcastVoucher(paymentID string, event *domain.Event) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" || event == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("broadcast marshal error", slog.Any("error", err))
		return
	}

	// Sends happen under the read lock so a concurrent detach cannot close a channel mid-send.
	h.mu.RLock()
	clients := len(h.subscribers[paymentID])
	for c := range h.subscribers[paymentID] {
		h.trySendLocked(c, data)
	}
	h.mu.RUnlock()

	slog.Debug("voucher broadcast", slog.String("paymentId", paymentID), slog.Int("clients", clients))
}

// sendTo queues data for a single client if it is still attached.
func (h *Hub) sendTo(c *Client, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.subscribers[c.paymentID][c]; ok {
		h.trySendLocked(c, data)
	}
}

func (h *Hub) trySendLocked(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		slog.Warn("websocket send buffer full", slog.String("paymentId", c.paymentID), slog.String("clientId", c.id))
		go h.detachClient(c)
	}
}

var _ port.VoucherBroadcaster = (*Hub)(nil)
