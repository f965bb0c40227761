package observability

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure || cfg.Enabled {
		t.Error("expected insecure, disabled defaults")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, sdktrace.AlwaysSample().Description()},
		{2.0, sdktrace.AlwaysSample().Description()},
		{0, sdktrace.NeverSample().Description()},
		{0.5, sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.5)).Description()},
	}
	for _, tt := range tests {
		if got := sampler(tt.rate).Description(); got != tt.want {
			t.Errorf("sampler(%v) = %s, want %s", tt.rate, got, tt.want)
		}
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("svc", "1.2.3", "test")
	if err != nil {
		t.Fatalf("newResource: %v", err)
	}
	found := map[attribute.Key]string{}
	for _, kv := range res.Attributes() {
		found[kv.Key] = kv.Value.Emit()
	}
	if found["service.name"] != "svc" || found["service.version"] != "1.2.3" || found["environment"] != "test" {
		t.Errorf("resource attributes = %v", found)
	}
}

func TestInitTracer(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")
	tp, err := InitTracer(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("InitTracer: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = tp.Shutdown(ctx)
}

func TestInitMeter(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")
	mp, err := InitMeter(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("InitMeter: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	// Nothing listens on the endpoint; only the shutdown path matters.
	_ = mp.Shutdown(ctx)
}

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{}, nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestNewClientMetrics_Noop(t *testing.T) {
	m, err := NewClientMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewClientMetrics: %v", err)
	}
	ctx := context.Background()
	m.RecordRequestStart(ctx, "example.com")
	m.RecordRequestEnd(ctx, "GET", "example.com", 200, time.Millisecond)
	m.RecordError(ctx, "GET", "connect")
}

func TestClientMetrics_Recorded(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewClientMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	m.RecordRequestStart(ctx, "api")
	m.RecordRequestEnd(ctx, "GET", "api", 503, 20*time.Millisecond)
	m.RecordRequestStart(ctx, "api")
	m.RecordRequestEnd(ctx, "GET", "api", 0, 5*time.Millisecond)
	m.RecordError(ctx, "GET", "timeout")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatal(err)
	}

	byName := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			byName[md.Name] = md
		}
	}

	total, ok := byName[MetricRequestTotal].Data.(metricdata.Sum[int64])
	if !ok || len(total.DataPoints) != 2 {
		t.Fatalf("request total = %+v", byName[MetricRequestTotal])
	}
	statuses := map[string]int64{}
	for _, dp := range total.DataPoints {
		v, _ := dp.Attributes.Value("status")
		statuses[v.AsString()] = dp.Value
	}
	if statuses["503"] != 1 || statuses["error"] != 1 {
		t.Errorf("statuses = %v", statuses)
	}

	active, ok := byName[MetricRequestActive].Data.(metricdata.Sum[int64])
	if !ok || len(active.DataPoints) != 1 || active.DataPoints[0].Value != 0 {
		t.Errorf("active = %+v", byName[MetricRequestActive])
	}

	errs, ok := byName[MetricErrorTotal].Data.(metricdata.Sum[int64])
	if !ok || len(errs.DataPoints) != 1 || errs.DataPoints[0].Value != 1 {
		t.Errorf("errors = %+v", byName[MetricErrorTotal])
	}

	if _, ok := byName[MetricRequestDuration].Data.(metricdata.Histogram[float64]); !ok {
		t.Errorf("duration = %+v", byName[MetricRequestDuration])
	}
}
