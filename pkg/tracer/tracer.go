// Copyright (c) 2022 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package tracer

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	_service = "iotex-appchain"
)

type (
	// Config is the config for tracer
	Config struct {
		// ServiceName is the name of the service
		ServiceName string `yaml:"serviceName"`
		// EndPoint the jaeger collector endpoint
		EndPoint string `yaml:"endpoint"`
		// InstanceID is the identifier of this process
		InstanceID string `yaml:"instanceID"`
		// SamplingRatio is the ratio of sampled traces, default to always sample
		SamplingRatio string `yaml:"samplingRatio"`
	}

	// Option is the option for tracer provider
	Option func(ops *optionParams) error

	optionParams struct {
		serviceName   string
		endpoint      string
		instanceID    string
		samplingRatio string
	}
)

// WithServiceName defines the service name
func WithServiceName(name string) Option {
	return func(ops *optionParams) error {
		ops.serviceName = name
		return nil
	}
}

// WithEndpoint defines the jaeger collector endpoint
func WithEndpoint(endpoint string) Option {
	return func(ops *optionParams) error {
		ops.endpoint = endpoint
		return nil
	}
}

// WithInstanceID defines the instance id
func WithInstanceID(id string) Option {
	return func(ops *optionParams) error {
		ops.instanceID = id
		return nil
	}
}

// WithSamplingRatio defines the sampling ratio
func WithSamplingRatio(rate string) Option {
	return func(ops *optionParams) error {
		ops.samplingRatio = rate
		return nil
	}
}

// NewProvider creates a tracer provider exporting to jaeger, it returns nil when no endpoint is set
func NewProvider(opts ...Option) (*tracesdk.TracerProvider, error) {
	ops := optionParams{
		serviceName: _service,
	}
	for _, opt := range opts {
		if err := opt(&ops); err != nil {
			return nil, err
		}
	}
	if ops.endpoint == "" {
		return nil, nil
	}
	sampler := tracesdk.AlwaysSample()
	if ops.samplingRatio != "" {
		ratio, err := strconv.ParseFloat(ops.samplingRatio, 64)
		if err != nil {
			return nil, err
		}
		sampler = tracesdk.TraceIDRatioBased(ratio)
	}
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(ops.endpoint)))
	if err != nil {
		return nil, err
	}
	tp := tracesdk.NewTracerProvider(
		tracesdk.WithSampler(sampler),
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(ops.serviceName),
			semconv.ServiceInstanceID(ops.instanceID),
		)),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}

// NewProviderFromConfig creates a tracer provider from config
func NewProviderFromConfig(cfg Config) (*tracesdk.TracerProvider, error) {
	opts := []Option{
		WithEndpoint(cfg.EndPoint),
		WithInstanceID(cfg.InstanceID),
		WithSamplingRatio(cfg.SamplingRatio),
	}
	if cfg.ServiceName != "" {
		opts = append(opts, WithServiceName(cfg.ServiceName))
	}
	return NewProvider(opts...)
}

// NewSpan starts a span from the global tracer provider
func NewSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(_service).Start(ctx, name, opts...)
}
