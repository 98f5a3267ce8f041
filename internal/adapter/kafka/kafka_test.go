package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (r *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, msgs...)
	return nil
}

func (r *recordingWriter) Close() error {
	r.closed = true
	return nil
}

func sampleEvent() domain.AssessmentEvent {
	return domain.AssessmentEvent{
		ID:           "x1",
		PropertyName: "Property at 19.0760, 72.8777",
		Address:      "Mumbai, India",
		Location:     domain.Coordinate{Lat: 19.076, Lng: 72.8777},
		AssetValue:   1_000_000,
		LoanTerm:     30,
		Score:        71.3,
		Risks: domain.RiskFactors{
			{Category: "flood", RiskFactor: domain.RiskFactor{Level: domain.RiskLow, Value: 7.6}},
		},
		Projection: []domain.ProjectionPoint{{Year: 2030, Risk: 61.9}},
		AnalyzedAt: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
	}
}

func TestSerializeToMessage(t *testing.T) {
	ev := sampleEvent()

	msg, err := serializeToMessage(ev)
	require.NoError(t, err)

	assert.Equal(t, []byte("x1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"risk_factors":{"flood":{"level":"Low","value":7.6}}`)
	assert.Contains(t, string(msg.Value), `"location":{"lat":19.076,"lng":72.8777}`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "score", msg.Headers[0].Key)
	assert.Equal(t, []byte("71.3"), msg.Headers[0].Value)
	assert.Equal(t, "analyzed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2026-03-02T09:30:00Z"), msg.Headers[1].Value)
	assert.Equal(t, ev.AnalyzedAt, msg.Time)
}

func TestWriter_Publish(t *testing.T) {
	rec := &recordingWriter{}
	w := &Writer{writer: rec, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	require.NoError(t, w.Publish(context.Background(), sampleEvent()))
	require.Len(t, rec.msgs, 1)
	assert.Equal(t, []byte("x1"), rec.msgs[0].Key)

	require.NoError(t, w.Close())
	assert.True(t, rec.closed)
}

func TestWriter_PublishError(t *testing.T) {
	rec := &recordingWriter{err: errors.New("leader not available")}
	w := &Writer{writer: rec, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	err := w.Publish(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x1")
	assert.Contains(t, err.Error(), "leader not available")
}
