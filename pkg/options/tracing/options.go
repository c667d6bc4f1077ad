// Package tracing provides OpenTelemetry tracing configuration options.
package tracing

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/N1njakeks/echomind/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// ExporterType selects where spans are exported.
type ExporterType string

const (
	// ExporterOTLPGRPC exports spans via OTLP over gRPC.
	ExporterOTLPGRPC ExporterType = "otlp_grpc"
	// ExporterOTLPHTTP exports spans via OTLP over HTTP.
	ExporterOTLPHTTP ExporterType = "otlp_http"
	// ExporterStdout exports spans to stdout, for development.
	ExporterStdout ExporterType = "stdout"
	// ExporterNoop records spans without exporting them.
	ExporterNoop ExporterType = "noop"
)

// Options configures OpenTelemetry tracing.
type Options struct {
	// Enabled turns tracing on. Off by default; when off all spans stay
	// no-ops and nothing is exported.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// ServiceName identifies the service in exported spans.
	ServiceName string `json:"service-name" mapstructure:"service-name"`

	// Environment is the deployment environment attached to spans.
	Environment string `json:"environment" mapstructure:"environment"`

	// ExporterType selects the span exporter.
	ExporterType ExporterType `json:"exporter-type" mapstructure:"exporter-type"`

	// Endpoint is the OTLP collector endpoint.
	// For gRPC: "localhost:4317". For HTTP: "localhost:4318".
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`

	// Insecure disables TLS for the OTLP connection.
	Insecure bool `json:"insecure" mapstructure:"insecure"`

	// SampleRatio is the fraction of traces to sample, parent-based.
	SampleRatio float64 `json:"sample-ratio" mapstructure:"sample-ratio"`

	// BatchTimeout is the maximum wait before exporting a span batch.
	BatchTimeout time.Duration `json:"batch-timeout" mapstructure:"batch-timeout"`

	// ExportTimeout bounds a single export call.
	ExportTimeout time.Duration `json:"export-timeout" mapstructure:"export-timeout"`
}

// NewOptions creates default tracing options.
func NewOptions() *Options {
	return &Options{
		Enabled:       false,
		ServiceName:   "echomind",
		Environment:   "development",
		ExporterType:  ExporterOTLPGRPC,
		Endpoint:      "localhost:4317",
		Insecure:      true,
		SampleRatio:   1.0,
		BatchTimeout:  5 * time.Second,
		ExportTimeout: 30 * time.Second,
	}
}

// AddFlags adds flags for tracing options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.BoolVar(&o.Enabled, options.Join(prefixes...)+"tracing.enabled", o.Enabled, "Enable OpenTelemetry tracing.")
	fs.StringVar(&o.ServiceName, options.Join(prefixes...)+"tracing.service-name", o.ServiceName, "Service name attached to exported spans.")
	fs.StringVar(&o.Environment, options.Join(prefixes...)+"tracing.environment", o.Environment, "Deployment environment attached to exported spans.")
	fs.StringVar((*string)(&o.ExporterType), options.Join(prefixes...)+"tracing.exporter-type", string(o.ExporterType), "Span exporter (otlp_grpc, otlp_http, stdout, noop).")
	fs.StringVar(&o.Endpoint, options.Join(prefixes...)+"tracing.endpoint", o.Endpoint, "OTLP collector endpoint.")
	fs.BoolVar(&o.Insecure, options.Join(prefixes...)+"tracing.insecure", o.Insecure, "Disable TLS for the OTLP connection.")
	fs.Float64Var(&o.SampleRatio, options.Join(prefixes...)+"tracing.sample-ratio", o.SampleRatio, "Fraction of traces to sample.")
	fs.DurationVar(&o.BatchTimeout, options.Join(prefixes...)+"tracing.batch-timeout", o.BatchTimeout, "Maximum wait before exporting a span batch.")
	fs.DurationVar(&o.ExportTimeout, options.Join(prefixes...)+"tracing.export-timeout", o.ExportTimeout, "Timeout for a single span export.")
}

// Validate validates the tracing options.
func (o *Options) Validate() []error {
	if o == nil || !o.Enabled {
		return nil
	}

	var errs []error
	if o.ServiceName == "" {
		errs = append(errs, fmt.Errorf("tracing: service name is required when tracing is enabled"))
	}

	switch o.ExporterType {
	case ExporterOTLPGRPC, ExporterOTLPHTTP:
		if o.Endpoint == "" {
			errs = append(errs, fmt.Errorf("tracing: endpoint is required for exporter type %s", o.ExporterType))
		}
	case ExporterStdout, ExporterNoop:
	default:
		errs = append(errs, fmt.Errorf("tracing: invalid exporter type %q", o.ExporterType))
	}

	if o.SampleRatio < 0.0 || o.SampleRatio > 1.0 {
		errs = append(errs, fmt.Errorf("tracing: sample ratio must be between 0.0 and 1.0, got %f", o.SampleRatio))
	}
	if o.BatchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("tracing: batch timeout must be positive"))
	}
	if o.ExportTimeout <= 0 {
		errs = append(errs, fmt.Errorf("tracing: export timeout must be positive"))
	}

	return errs
}

// Complete completes the tracing options with defaults.
func (o *Options) Complete() error {
	if o.ServiceName == "" {
		o.ServiceName = "echomind"
	}
	return nil
}
