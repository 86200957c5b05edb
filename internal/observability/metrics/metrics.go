package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes the engine-level instruments.
type Metrics struct {
	invoicesCompleted metric.Int64Counter
	linesResolved     metric.Int64Counter
	repairOutcomes    metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the engine metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "acumulus"
	}
	meter := provider.Meter(name)

	invoicesCompleted, err := meter.Int64Counter("acumulus_invoices_completed_total",
		metric.WithDescription("Invoices run through the completion pipeline"))
	if err != nil {
		return nil, err
	}
	linesResolved, err := meter.Int64Counter("acumulus_lines_resolved_total",
		metric.WithDescription("Invoice lines by VAT-rate resolution source"))
	if err != nil {
		return nil, err
	}
	repairOutcomes, err := meter.Int64Counter("acumulus_tax_repairs_total",
		metric.WithDescription("Tax-rate repair attempts by strategy outcome"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		invoicesCompleted: invoicesCompleted,
		linesResolved:     linesResolved,
		repairOutcomes:    repairOutcomes,
	}, nil
}

// RecordInvoiceCompleted counts one pipeline run.
func (m *Metrics) RecordInvoiceCompleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.invoicesCompleted.Add(ctx, 1)
}

// RecordLineResolved counts one line by resolution source tag.
func (m *Metrics) RecordLineResolved(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.linesResolved.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

// RecordRepair counts one repair attempt by strategy outcome.
func (m *Metrics) RecordRepair(ctx context.Context, strategy string) {
	if m == nil {
		return
	}
	m.repairOutcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("strategy", strategy)))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", protocol)
	}
}
