// Package observability sets up OpenTelemetry providers and the process logger.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultServiceName is used when Config.ServiceName is empty.
const DefaultServiceName = "crm"

// Config holds observability configuration.
type Config struct {
	Enabled     bool
	ServiceName string

	// LogFile, when set, receives JSON logs through a rotating writer
	// instead of stdout. Only used while OTel is disabled.
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogLevel      slog.Level

	// Console replaces stdout as the fallback log destination.
	Console io.Writer
}

func (c Config) serviceName() string {
	if c.ServiceName == "" {
		return DefaultServiceName
	}
	return c.ServiceName
}

// newResource merges service attributes with the SDK defaults. Partial
// resources are usable and not treated as errors.
//
// Extra attributes come from OTEL_RESOURCE_ATTRIBUTES.
func newResource(ctx context.Context, serviceName string) (*resource.Resource, error) {
	serviceResource, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithAttributes(semconv.ServiceName(serviceName)),
		resource.WithSchemaURL(semconv.SchemaURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create service resource: %w", err)
	}

	res, err := resource.Merge(resource.Default(), serviceResource)
	if err != nil {
		if errors.Is(err, resource.ErrPartialResource) || errors.Is(err, resource.ErrSchemaURLConflict) {
			return res, nil
		}
		return nil, fmt.Errorf("failed to merge resources: %w", err)
	}
	return res, nil
}

// InitTracerProvider installs the global tracer provider. The exporter
// endpoint and headers come from the standard OTEL_EXPORTER_OTLP_* variables.
func InitTracerProvider(ctx context.Context, cfg Config) (*sdktrace.TracerProvider, error) {
	if !cfg.Enabled {
		tp := sdktrace.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return tp, nil
	}

	res, err := newResource(ctx, cfg.serviceName())
	if err != nil {
		return nil, err
	}

	// Exporters get a fresh context so shutdown never waits on a cancelled one.
	exporter, err := otlptracegrpc.New(context.Background(), otlptracegrpc.WithTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp, nil
}

// InitMeterProvider installs the global meter provider.
func InitMeterProvider(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	if !cfg.Enabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		return mp, nil
	}

	res, err := newResource(ctx, cfg.serviceName())
	if err != nil {
		return nil, err
	}

	exporter, err := otlpmetricgrpc.New(context.Background(), otlpmetricgrpc.WithTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second))),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// InitLogger returns the process logger. With OTel enabled records go to
// the OTLP log exporter through the slog bridge; otherwise they are written
// as JSON to stdout or to cfg.LogFile.
func InitLogger(ctx context.Context, cfg Config) (*log.LoggerProvider, *slog.Logger, error) {
	if !cfg.Enabled {
		return log.NewLoggerProvider(), slog.New(slog.NewJSONHandler(logWriter(cfg), &slog.HandlerOptions{Level: cfg.LogLevel})), nil
	}

	res, err := newResource(ctx, cfg.serviceName())
	if err != nil {
		return nil, nil, err
	}

	exporter, err := otlploggrpc.New(context.Background(), otlploggrpc.WithTimeout(10*time.Second))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log exporter: %w", err)
	}

	lp := log.NewLoggerProvider(
		log.WithProcessor(log.NewBatchProcessor(exporter, log.WithExportTimeout(5*time.Second))),
		log.WithResource(res),
	)
	return lp, otelslog.NewLogger(cfg.serviceName(), otelslog.WithLoggerProvider(lp)), nil
}

func logWriter(cfg Config) io.Writer {
	if cfg.LogFile == "" {
		if cfg.Console != nil {
			return cfg.Console
		}
		return os.Stdout
	}
	maxSize := cfg.LogMaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	return &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    maxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     28,
		Compress:   true,
	}
}

// Providers groups what Setup installed so main can flush it on exit.
type Providers struct {
	Tracer *sdktrace.TracerProvider
	Meter  *sdkmetric.MeterProvider
	Logger *log.LoggerProvider
}

// Setup installs all three providers and makes the returned logger the
// slog default.
func Setup(ctx context.Context, cfg Config) (*Providers, *slog.Logger, error) {
	tp, err := InitTracerProvider(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	mp, err := InitMeterProvider(ctx, cfg)
	if err != nil {
		return nil, nil, errors.Join(err, tp.Shutdown(ctx))
	}
	lp, logger, err := InitLogger(ctx, cfg)
	if err != nil {
		return nil, nil, errors.Join(err, tp.Shutdown(ctx), mp.Shutdown(ctx))
	}
	slog.SetDefault(logger)
	return &Providers{Tracer: tp, Meter: mp, Logger: lp}, logger, nil
}

// Shutdown flushes and stops every provider, logs last.
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.Tracer.Shutdown(ctx),
		p.Meter.Shutdown(ctx),
		p.Logger.Shutdown(ctx),
	)
}
