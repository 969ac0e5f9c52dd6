package qa

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/aiactqa/internal/logging"
)

const instrumentationName = "github.com/fyrsmithlabs/aiactqa/internal/qa"

// askMetrics holds the instruments recorded per ask.
type askMetrics struct {
	requestsTotal metric.Int64Counter
	duration      metric.Float64Histogram
}

func newAskMetrics(mp metric.MeterProvider, logger *logging.Logger) *askMetrics {
	meter := mp.Meter(instrumentationName)
	m := &askMetrics{}

	var err error
	m.requestsTotal, err = meter.Int64Counter(
		"aiactqa.ask.requests_total",
		metric.WithDescription("Questions sent to the backend, labeled by transport outcome (success, http_failure, no_response, setup_fault)."),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		logger.Warn(context.Background(), "failed to create requests counter", zap.Error(err))
	}

	m.duration, err = meter.Float64Histogram(
		"aiactqa.ask.duration_seconds",
		metric.WithDescription("Time from sending a question until the response body was read or the attempt failed."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60),
	)
	if err != nil {
		logger.Warn(context.Background(), "failed to create duration histogram", zap.Error(err))
	}

	return m
}

func (m *askMetrics) record(ctx context.Context, o Outcome, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", OutcomeLabel(o)))
	if m.requestsTotal != nil {
		m.requestsTotal.Add(ctx, 1, attrs)
	}
	if m.duration != nil {
		m.duration.Record(ctx, elapsed.Seconds(), attrs)
	}
}
