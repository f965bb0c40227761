// Package observability bootstraps OpenTelemetry tracing and metrics for
// httpkit clients.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"), log)
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-service"), log)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewClientMetrics(mp.Meter("httpkit"))
//
// Setup does both from a single Config and returns one shutdown function.
package observability
