//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/climate-credit-score/internal/adapter/kafka"
	"github.com/couchcryptid/climate-credit-score/internal/config"
	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/observability"
	"github.com/couchcryptid/climate-credit-score/internal/riskengine"
	"github.com/couchcryptid/climate-credit-score/internal/workflow"
)

const testTopic = "test-assessments"

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestVisitPublishesAssessment runs a full visit against the in-process risk
// engine and reads the published assessment back from Kafka.
func TestVisitPublishesAssessment(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaAssessmentTopic: testTopic}
	writer := kafka.NewWriter(cfg, logger)
	defer writer.Close()

	v := workflow.NewVisit(workflow.Deps{
		Analyzer:  riskengine.New(10, logger, riskengine.WithIDFunc(func() string { return "it-1" })),
		Publisher: writer,
		Logger:    logger,
		Metrics:   observability.NewMetricsForTesting(),
	})
	defer v.Close()

	v.SetMode(domain.ModeCoordinates)
	v.SetCoordinateText("19.0760, 72.8777")
	require.NoError(t, v.FetchLocation(ctx))

	a, err := v.Submit(ctx, domain.DefaultFinancialInputs())
	require.NoError(t, err)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	defer consumer.Close()

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read published assessment")

	assert.Equal(t, "it-1", string(msg.Key))
	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "68.4", headers["score"])

	var ev domain.AssessmentEvent
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, a.ID, ev.ID)
	assert.Equal(t, domain.Coordinate{Lat: 19.076, Lng: 72.8777}, ev.Location)
	assert.Equal(t, "19.0760, 72.8777", ev.Address)
	require.Len(t, ev.Risks, 4)
}
