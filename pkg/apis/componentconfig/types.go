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

package componentconfig

import (
	componentbaseconfig "k8s.io/component-base/config"
	registry "k8s.io/component-base/logs/api/v1"
)

// CleanerConfiguration is the run configuration assembled once at startup.
// It is read-only after validation.
type CleanerConfiguration struct {
	// Namespace restricts cleanup to a single namespace. Empty means all namespaces.
	Namespace string

	// UserOnly excludes system namespaces (kube-*).
	UserOnly bool

	// GracePeriodSeconds is how long a resource must remain in a matching
	// status before it is deleted.
	GracePeriodSeconds int64

	// LabelSelector is a JSON object of label key/value pairs resources must carry.
	LabelSelector string

	// LifetimeAnnotation names the annotation declaring a resource's maximum age.
	LifetimeAnnotation string

	// LifetimeMaxKills caps the number of deletions attempted in one cycle.
	LifetimeMaxKills int

	// Quiet suppresses the cycle summary when nothing was deleted.
	Quiet bool

	// IntervalSeconds between two cycles. 0 runs a single cycle.
	IntervalSeconds int64

	// ErrorLimit is the number of consecutive failed cycles that stops the process.
	ErrorLimit int

	// DryRun logs deletions without performing them.
	DryRun bool

	// SkipWithOwner leaves resources with owner references alone.
	SkipWithOwner bool

	// Statuses are the Status[:Reason] filters. At least one is required.
	Statuses []string

	// DisableMetrics stops serving /metrics.
	DisableMetrics bool

	// DeletionFailureEventNotification emits a Warning event when a delete call fails.
	DeletionFailureEventNotification bool

	// Tracing specifies the options for tracing.
	Tracing TracingConfiguration

	// LeaderElection starts the loop only once the lease is held.
	LeaderElection componentbaseconfig.LeaderElectionConfiguration

	// Logging specifies the options of logging.
	Logging registry.LoggingConfiguration

	// ClientConnection specifies the kubeconfig file and client connection settings to use when communicating with the apiserver.
	ClientConnection componentbaseconfig.ClientConnectionConfiguration
}

type TracingConfiguration struct {
	// CollectorEndpoint is the address of the OpenTelemetry collector.
	// If not specified, tracing will be used NoopTraceProvider.
	CollectorEndpoint string
	// TransportCert is the path to the certificate file for the OpenTelemetry collector.
	// If not specified, provider will start in insecure mode.
	TransportCert string
	// ServiceName is the name of the service to be used in the OpenTelemetry collector.
	// If not specified, DefaultServiceName is used.
	ServiceName string
	// ServiceNamespace is the namespace of the service to be used in the OpenTelemetry collector.
	ServiceNamespace string
	// SampleRate is used to configure the sample rate of the OTEL trace collection.
	SampleRate float64
}
