/*
Copyright 2026 The Pod Cleanup Operator Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package tracing

import (
	"context"
	"crypto/x509"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials"
	"k8s.io/klog/v2"
)

const (
	// DefaultServiceName is the default service name used for tracing.
	DefaultServiceName = "pod-cleanup-operator"

	// TracerName names the tracer used by the cleanup cycle.
	TracerName = "github.com/pod-cleanup-operator/pod-cleanup-operator"

	// CycleOperation is the operation name used for a full cleanup cycle.
	CycleOperation = "cycle"

	// DeleteOperation is the operation name used for a single deletion.
	DeleteOperation = "delete"
)

// Tracer returns the tracer of the globally installed provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// NewTracerProvider creates a new trace provider with the given options and
// installs it globally. An empty endpoint installs a no-op provider.
func NewTracerProvider(ctx context.Context, endpoint, caCert, name, namespace string, sampleRate float64) (provider trace.TracerProvider, err error) {
	logger := klog.FromContext(ctx)

	if endpoint != "" {
		var opts []otlptracegrpc.Option
		opts = append(opts, otlptracegrpc.WithEndpoint(endpoint))

		if caCert != "" {
			data, err := os.ReadFile(caCert)
			if err != nil {
				logger.Error(err, "Failed to read the CA certificate for the trace exporter", "path", caCert)
				return nil, err
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(data) {
				return nil, fmt.Errorf("no PEM certificates found in %q", caCert)
			}
			logger.Info("Enabling trace GRPC client in secure TLS mode")
			opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(pool, "")))
		} else {
			logger.Info("Enabling trace GRPC client in insecure mode")
			opts = append(opts, otlptracegrpc.WithInsecure())
		}

		exporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient(opts...))
		if err != nil {
			logger.Error(err, "Failed to create the trace exporter")
			return nil, err
		}
		if name == "" {
			logger.V(5).Info("No name provided, using default service name for tracing", "name", DefaultServiceName)
			name = DefaultServiceName
		}
		resourceOpts := []sdkresource.Option{sdkresource.WithAttributes(semconv.ServiceNameKey.String(name)), sdkresource.WithSchemaURL(semconv.SchemaURL)}
		if namespace != "" {
			resourceOpts = append(resourceOpts, sdkresource.WithAttributes(semconv.ServiceNamespaceKey.String(namespace)))
		}
		resource, err := sdkresource.New(ctx, resourceOpts...)
		if err != nil {
			logger.Error(err, "Failed to create traceable resource")
			return nil, err
		}

		provider = sdktrace.NewTracerProvider(
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRate))),
			sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter)),
			sdktrace.WithResource(resource),
		)
	} else {
		logger.V(2).Info("No trace collector endpoint defined, tracing disabled")
		provider = trace.NewNoopTracerProvider()
	}

	otel.SetTextMapPropagator(propagation.TraceContext{})
	otel.SetTracerProvider(provider)
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		logger.Error(err, "Got error from opentelemetry")
	}))
	return provider, nil
}

// StartSpan starts a span on the cleanup tracer tagged with the operation name.
func StartSpan(ctx context.Context, spanName, operation string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	attributes = append(attributes, attribute.String("operation", operation))
	return Tracer().Start(ctx, spanName, trace.WithAttributes(attributes...))
}

// Shutdown flushes and stops the provider if it exports spans.
func Shutdown(ctx context.Context, tpRaw trace.TracerProvider) error {
	tp, ok := tpRaw.(*sdktrace.TracerProvider)
	if !ok {
		return nil
	}
	if err := tp.Shutdown(ctx); err != nil {
		otel.Handle(err)
		klog.FromContext(ctx).Error(err, "Failed to shutdown the trace exporter")
		return err
	}
	return nil
}
