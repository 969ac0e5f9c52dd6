package qa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/aiactqa/internal/logging"
)

const (
	// DefaultTimeout bounds one attempt when no timeout is configured.
	DefaultTimeout = 60 * time.Second

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 8 << 20
)

// Asker sends one question and reports the raw transport outcome.
type Asker interface {
	Ask(ctx context.Context, query string) Outcome
}

// Client talks to the answering backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	tracer     trace.Tracer
	metrics    *askMetrics
	propagator propagation.TextMapPropagator
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout        time.Duration
	httpClient     *http.Client
	logger         *logging.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithTimeout sets the per-attempt timeout. Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *clientOptions) { o.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider. Defaults to the global one.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *clientOptions) { o.meterProvider = mp }
}

// NewClient creates a client for the backend at baseURL. The URL is checked
// on every Ask so a bad value surfaces as a SetupFault instead of an error here.
func NewClient(baseURL string, opts ...Option) *Client {
	o := clientOptions{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
	if o.meterProvider == nil {
		o.meterProvider = otel.GetMeterProvider()
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: o.timeout}
	}

	logger := o.logger.Named("qa")
	return &Client{
		baseURL:    baseURL,
		httpClient: o.httpClient,
		logger:     logger,
		tracer:     o.tracerProvider.Tracer(instrumentationName),
		metrics:    newAskMetrics(o.meterProvider, logger),
		propagator: propagation.TraceContext{},
	}
}

type askRequest struct {
	Text string `json:"text"`
}

// Ask performs a single POST /api/ask. It never retries.
func (c *Client) Ask(ctx context.Context, query string) Outcome {
	ctx = logging.WithRequestID(ctx, uuid.NewString())
	ctx, span := c.tracer.Start(ctx, "qa.ask",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("qa.query.length", len(query))),
	)
	defer span.End()

	start := time.Now()
	out := c.ask(ctx, query)
	elapsed := time.Since(start)
	c.metrics.record(ctx, out, elapsed)

	span.SetAttributes(attribute.String("qa.outcome", OutcomeLabel(out)))
	switch o := out.(type) {
	case HTTPSuccess:
		span.SetAttributes(attribute.Int("http.response.status_code", o.Status))
		c.logger.Debug(ctx, "ask succeeded", zap.Int("status", o.Status), zap.Duration("elapsed", elapsed))
	case HTTPFailure:
		span.SetAttributes(attribute.Int("http.response.status_code", o.Status))
		span.SetStatus(codes.Error, o.StatusText)
		c.logger.Warn(ctx, "ask rejected by server", zap.Int("status", o.Status), zap.Duration("elapsed", elapsed))
	case NoResponse:
		span.RecordError(o.Err)
		span.SetStatus(codes.Error, "no response")
		c.logger.Warn(ctx, "ask got no response", zap.Error(o.Err), zap.Duration("elapsed", elapsed))
	case SetupFault:
		span.SetStatus(codes.Error, o.Message)
		c.logger.Error(ctx, "ask request setup failed", zap.String("reason", o.Message))
	}
	return out
}

func (c *Client) ask(ctx context.Context, query string) Outcome {
	endpoint, err := c.endpoint("api", "ask")
	if err != nil {
		return SetupFault{Message: err.Error()}
	}

	payload, err := json.Marshal(askRequest{Text: query})
	if err != nil {
		return SetupFault{Message: fmt.Sprintf("encoding request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return SetupFault{Message: fmt.Sprintf("building request: %v", err)}
	}
	c.setHeaders(ctx, req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NoResponse{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return NoResponse{Err: fmt.Errorf("reading response body: %w", err)}
	}
	c.logger.Trace(ctx, "ask response body", zap.Int("status", resp.StatusCode), zap.ByteString("body", body))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return HTTPSuccess{Status: resp.StatusCode, Body: body}
	}
	return HTTPFailure{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Body:       body,
	}
}

// endpoint joins path elements onto the base URL after checking it.
func (c *Client) endpoint(elem ...string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %v", c.baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid server URL %q: scheme must be http or https", c.baseURL)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid server URL %q: missing host", c.baseURL)
	}
	return u.JoinPath(elem...).String(), nil
}

func (c *Client) setHeaders(ctx context.Context, req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	c.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status string `json:"status"`
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var hs HealthStatus
	if err := c.getJSON(ctx, &hs, "health"); err != nil {
		return nil, err
	}
	return &hs, nil
}

// Info calls GET /info and returns the decoded object.
func (c *Client) Info(ctx context.Context) (map[string]any, error) {
	info := map[string]any{}
	if err := c.getJSON(ctx, &info, "info"); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *Client) getJSON(ctx context.Context, dst any, elem ...string) error {
	endpoint, err := c.endpoint(elem...)
	if err != nil {
		return err
	}

	ctx = logging.WithRequestID(ctx, uuid.NewString())
	ctx, span := c.tracer.Start(ctx, "qa.get", trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("url.path", "/"+elem[len(elem)-1])))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	c.setHeaders(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "no response")
		return fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, resp.Status)
		return fmt.Errorf("GET %s: unexpected status %s", endpoint, resp.Status)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	c.logger.Debug(ctx, "backend query ok", zap.String("endpoint", endpoint))
	return nil
}
