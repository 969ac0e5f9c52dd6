// Package telemetry wires OpenTelemetry tracing and metrics for aiactqa.
//
// Telemetry is off by default. When enabled, spans and metrics are exported
// over OTLP (grpc or http/protobuf) to a collector, and the providers are
// installed as the otel globals so the qa client and its outgoing request
// headers pick them up.
//
//	tel, err := telemetry.New(ctx, &cfg.Telemetry, logger)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	client := qa.NewClient(cfg.Server.URL,
//	    qa.WithTracerProvider(tel.TracerProvider()),
//	    qa.WithMeterProvider(tel.MeterProvider()),
//	)
//
// Tests use NewTestTelemetry, which records spans in memory and exposes a
// manual metric reader.
package telemetry
