package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"agency/config"
	"agency/internal/database"
	"agency/internal/logger"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const (
	ChannelAdmin    = "admin"
	ChannelAuth     = "auth"
	ChannelTracking = "tracking"
)

type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Action    string         `json:"action,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func NewEvent(channel, eventType, action string, data map[string]any) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Channel:   channel,
		Action:    action,
		Data:      data,
		Timestamp: time.Now(),
	}
}

type Handler func(Event)

// Publisher is the slice of the bus that producers need.
type Publisher interface {
	Publish(channel string, event Event) error
}

// EventBus fans events out over valkey pub/sub so every server instance sees them.
type EventBus struct {
	client database.CacheClient
	config config.Config
	log    logger.Logger

	mu      sync.Mutex
	cancels []context.CancelFunc
	wg      sync.WaitGroup
}

func New(client database.CacheClient, config config.Config) *EventBus {
	return &EventBus{
		client: client,
		config: config,
		log:    logger.New("events"),
	}
}

func (b *EventBus) Publish(channel string, event Event) error {
	log := b.log.Function("Publish")

	if b.client == nil {
		return log.Error("event bus has no cache client", "channel", channel)
	}

	if event.Channel == "" {
		event.Channel = channel
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "channel", channel)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := b.client.B().Publish().Channel(channel).Message(string(payload)).Build()
	if err := b.client.Do(ctx, cmd).Error(); err != nil {
		return log.Err("failed to publish event", err, "channel", channel, "type", event.Type)
	}

	return nil
}

// Subscribe delivers every event published on channel to handler until ctx is
// cancelled or the bus is closed. It returns immediately.
func (b *EventBus) Subscribe(ctx context.Context, channel string, handler Handler) error {
	log := b.log.Function("Subscribe")

	if b.client == nil {
		return log.Error("event bus has no cache client", "channel", channel)
	}

	ctx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.cancels = append(b.cancels, cancel)
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		cmd := b.client.B().Subscribe().Channel(channel).Build()
		err := b.client.Receive(ctx, cmd, func(msg valkey.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				log.Er("failed to decode event", err, "channel", msg.Channel)
				return
			}
			handler(event)
		})
		if err != nil && ctx.Err() == nil {
			log.Er("subscription ended", err, "channel", channel)
		}
	}()

	return nil
}

func (b *EventBus) Close() error {
	b.mu.Lock()
	for _, cancel := range b.cancels {
		cancel()
	}
	b.cancels = nil
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}
