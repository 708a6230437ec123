package worker

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "hrgate/pkg/domain"
	"hrgate/pkg/platform/events"
	"hrgate/pkg/platform/events/outbox"
)

type capturePublisher struct {
	keys    []string
	failOn  string
	failErr error
}

func (p *capturePublisher) Publish(_ context.Context, key string, _ []byte) error {
	if p.failOn != "" && key == p.failOn {
		return p.failErr
	}
	p.keys = append(p.keys, key)
	return nil
}

func appendEvent(t *testing.T, ob *outbox.Memory) events.Event {
	t.Helper()
	event := events.New(events.TypeRequestCreated, time.Now())
	event.TenantID = id.TenantID(event.ID)
	event.RequestID = id.NewRequestID()
	require.NoError(t, ob.Append(context.Background(), event))
	return event
}

func TestDrain_PublishesAndMarks(t *testing.T) {
	ob := outbox.NewMemory()
	first := appendEvent(t, ob)
	second := appendEvent(t, ob)

	pub := &capturePublisher{}
	w := NewWorker(ob, pub, slog.Default(), time.Second, 100)

	require.NoError(t, w.drain(context.Background()))
	assert.Equal(t, []string{first.RequestID.String(), second.RequestID.String()}, pub.keys)

	remaining, err := ob.FetchUnpublished(context.Background(), 100)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestDrain_StopsAtFirstFailure(t *testing.T) {
	ob := outbox.NewMemory()
	first := appendEvent(t, ob)
	second := appendEvent(t, ob)

	pub := &capturePublisher{failOn: second.RequestID.String(), failErr: errors.New("broker down")}
	w := NewWorker(ob, pub, slog.Default(), time.Second, 100)

	err := w.drain(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{first.RequestID.String()}, pub.keys)

	// The delivered entry is marked; the failed one stays for retry.
	remaining, fetchErr := ob.FetchUnpublished(context.Background(), 100)
	require.NoError(t, fetchErr)
	require.Len(t, remaining, 1)
	assert.Equal(t, second.ID, remaining[0].ID)
}

func TestDrain_EmptyOutboxIsNoop(t *testing.T) {
	ob := outbox.NewMemory()
	pub := &capturePublisher{}
	w := NewWorker(ob, pub, slog.Default(), time.Second, 100)

	require.NoError(t, w.drain(context.Background()))
	assert.Empty(t, pub.keys)
}
