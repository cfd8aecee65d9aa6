package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julinotmonth/outtthelook/internal/domain"
	"github.com/julinotmonth/outtthelook/pkg/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	p.events = append(p.events, event)
	return p.err
}

type recordingMetrics struct {
	mu      sync.Mutex
	results map[string][]error
}

func (m *recordingMetrics) RecordEvent(eventType string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results == nil {
		m.results = make(map[string][]error)
	}
	m.results[eventType] = append(m.results[eventType], err)
}

func TestDispatcher_EmitsInOrderWithIDs(t *testing.T) {
	pub := &recordingPublisher{}
	metrics := &recordingMetrics{}
	d := NewDispatcher(pub, metrics, time.Second, logger.NewNop())

	d.Emit(context.Background(),
		domain.Event{Type: domain.EventPaymentVerified, BookingID: 1},
		domain.Event{Type: domain.EventBookingStatusChanged, BookingID: 1},
	)
	d.Wait()

	require.Len(t, pub.events, 2)
	assert.Equal(t, domain.EventPaymentVerified, pub.events[0].Type)
	assert.Equal(t, domain.EventBookingStatusChanged, pub.events[1].Type)
	assert.NotEmpty(t, pub.events[0].ID)
	assert.NotEqual(t, pub.events[0].ID, pub.events[1].ID)
	assert.False(t, pub.events[0].OccurredAt.IsZero())
	assert.Len(t, metrics.results[string(domain.EventPaymentVerified)], 1)
}

// gatedPublisher держит первую публикацию, пока тест не откроет gate
type gatedPublisher struct {
	recordingPublisher
	gate  chan struct{}
	first sync.Once
}

func (p *gatedPublisher) Publish(ctx context.Context, event domain.Event) error {
	p.first.Do(func() { <-p.gate })
	return p.recordingPublisher.Publish(ctx, event)
}

func TestDispatcher_KeepsOrderAcrossEmits(t *testing.T) {
	pub := &gatedPublisher{gate: make(chan struct{})}
	d := NewDispatcher(pub, nil, time.Second, logger.NewNop())

	// создание брони и сразу отмена: status_changed не должен обогнать created
	d.Emit(context.Background(), domain.Event{Type: domain.EventBookingCreated, BookingID: 9})
	d.Emit(context.Background(), domain.Event{Type: domain.EventBookingStatusChanged, BookingID: 9})
	d.Emit(context.Background(), domain.Event{Type: domain.EventPaymentProofSubmitted, BookingID: 10})
	close(pub.gate)
	d.Wait()

	require.Len(t, pub.events, 3)
	assert.Equal(t, domain.EventBookingCreated, pub.events[0].Type)
	assert.Equal(t, domain.EventBookingStatusChanged, pub.events[1].Type)
	assert.Equal(t, domain.EventPaymentProofSubmitted, pub.events[2].Type)

	// после опустошения очереди воркер перезапускается
	d.Emit(context.Background(), domain.Event{Type: domain.EventBookingCreated, BookingID: 11})
	d.Wait()
	assert.Len(t, pub.events, 4)
}

func TestDispatcher_FailureIsSwallowed(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker unreachable")}
	metrics := &recordingMetrics{}
	d := NewDispatcher(pub, metrics, time.Second, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NotPanics(t, func() {
		d.Emit(ctx, domain.Event{Type: domain.EventBookingCreated, BookingID: 5})
		d.Wait()
	})
	require.Len(t, pub.events, 1)
	assert.Error(t, metrics.results[string(domain.EventBookingCreated)][0])
}

type fakeJSONClient struct {
	key, id string
	body    []byte
}

func (c *fakeJSONClient) PublishJSON(_ context.Context, key, messageID string, v any) error {
	c.key, c.id = key, messageID
	body, err := json.Marshal(v)
	c.body = body
	return err
}

func TestBrokerPublisher_RoutesByType(t *testing.T) {
	client := &fakeJSONClient{}
	p := NewBrokerPublisher(client)

	err := p.Publish(context.Background(), domain.Event{
		ID:        "evt-1",
		Type:      domain.EventBookingCreated,
		BookingID: 9,
		Data:      domain.BookingCreatedData{StaffID: 2, Date: "2025-03-10", StartTime: "10:00"},
	})
	require.NoError(t, err)

	assert.Equal(t, "booking.created", client.key)
	assert.Equal(t, "evt-1", client.id)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(client.body, &decoded))
	assert.Equal(t, float64(9), decoded["bookingId"])
	assert.Equal(t, "10:00", decoded["data"].(map[string]interface{})["startTime"])
}
