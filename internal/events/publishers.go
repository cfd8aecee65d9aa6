package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/julinotmonth/outtthelook/internal/domain"
)

// Envelope формат события на проводе
type Envelope struct {
	ID         string           `json:"id"`
	Type       domain.EventType `json:"type"`
	BookingID  int64            `json:"bookingId"`
	OccurredAt time.Time        `json:"occurredAt"`
	Data       interface{}      `json:"data,omitempty"`
}

func NewEnvelope(e domain.Event) Envelope {
	return Envelope{
		ID:         e.ID,
		Type:       e.Type,
		BookingID:  e.BookingID,
		OccurredAt: e.OccurredAt,
		Data:       e.Data,
	}
}

// JSONPublisher клиент брокера (*mq.Publisher)
type JSONPublisher interface {
	PublishJSON(ctx context.Context, key, messageID string, v any) error
}

// BrokerPublisher публикует события в topic exchange, ключ маршрутизации равен типу события
type BrokerPublisher struct {
	client JSONPublisher
}

func NewBrokerPublisher(client JSONPublisher) *BrokerPublisher {
	return &BrokerPublisher{client: client}
}

func (p *BrokerPublisher) Publish(ctx context.Context, event domain.Event) error {
	return p.client.PublishJSON(ctx, string(event.Type), event.ID, NewEnvelope(event))
}

// LogPublisher пишет события в лог, когда брокер выключен
type LogPublisher struct {
	logger Logger
}

func NewLogPublisher(logger Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.Event) error {
	body, err := json.Marshal(NewEnvelope(event))
	if err != nil {
		return err
	}
	p.logger.Info("Event %s: %s", event.Type, body)
	return nil
}
