package infrastructure

import (
	"context"
	"log/slog"
	"sync"

	"reservaMesa/internal/modules/reservations/application/port"
	"reservaMesa/internal/modules/reservations/domain"
)

type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]port.TopicHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]port.TopicHandler)}
}

func (r *HandlerRegistry) Register(h port.TopicHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.Topic()] = h
}

// Topics lists the registered topics.
func (r *HandlerRegistry) Topics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	return topics
}

func (r *HandlerRegistry) Dispatch(ctx context.Context, event *domain.Event) error {
	r.mu.RLock()
	handler, ok := r.handlers[event.Topic]
	r.mu.RUnlock()
	if !ok {
		slog.Debug("no handler for topic", slog.String("topic", event.Topic))
		return nil
	}
	return handler.Handle(ctx, event)
}

// LocalPublisher dispatches events in-process when no broker is configured.
type LocalPublisher struct {
	registry *HandlerRegistry
}

func NewLocalPublisher(registry *HandlerRegistry) *LocalPublisher {
	return &LocalPublisher{registry: registry}
}

func (p *LocalPublisher) Publish(ctx context.Context, event domain.Event) error {
	return p.registry.Dispatch(ctx, &event)
}

var _ port.EventPublisher = (*LocalPublisher)(nil)
