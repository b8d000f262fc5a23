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

// Package options provides the pod-cleanup-operator flags
package options

import (
	"github.com/spf13/pflag"
	apiserveroptions "k8s.io/apiserver/pkg/server/options"
	clientset "k8s.io/client-go/kubernetes"
	componentbaseoptions "k8s.io/component-base/config/options"
	logsapi "k8s.io/component-base/logs/api/v1"

	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/apis/componentconfig"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/features"
)

const (
	// DefaultPort serves /metrics and /healthz.
	DefaultPort = 10258
)

// CleanupServer configuration
type CleanupServer struct {
	componentconfig.CleanerConfiguration

	Client        clientset.Interface
	SecureServing *apiserveroptions.SecureServingOptionsWithLoopback
}

// NewCleanupServer creates a new CleanupServer with default parameters
func NewCleanupServer() *CleanupServer {
	return &CleanupServer{
		CleanerConfiguration: componentconfig.NewDefaultCleanerConfiguration(),
		SecureServing:        newSecureServingOptions(),
	}
}

func newSecureServingOptions() *apiserveroptions.SecureServingOptionsWithLoopback {
	o := apiserveroptions.NewSecureServingOptions()
	o.ServerCert.CertDirectory = ""
	o.ServerCert.PairName = "pod-cleanup-operator"
	o.BindPort = DefaultPort
	return o.WithLoopback()
}

// AddFlags adds flags for a specific CleanupServer to the specified FlagSet
func (rs *CleanupServer) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&rs.Namespace, "namespace", "n", rs.Namespace, "Only clean up resources in this namespace. All namespaces when empty.")
	fs.BoolVarP(&rs.UserOnly, "user", "u", rs.UserOnly, "Only clean up resources outside of system (kube-*) namespaces.")
	fs.Int64VarP(&rs.GracePeriodSeconds, "graceperiod", "g", rs.GracePeriodSeconds, "Seconds a resource must stay in a matching status before it is deleted.")
	fs.StringVarP(&rs.LabelSelector, "label-selector", "l", rs.LabelSelector, `JSON object of labels resources must carry, e.g. '{"app":"batch"}'.`)
	fs.StringVar(&rs.LifetimeAnnotation, "lifetime-annotation", rs.LifetimeAnnotation, "Annotation declaring the maximum age of a resource, e.g. '5min 30sec'.")
	fs.IntVar(&rs.LifetimeMaxKills, "lifetime-max-kills", rs.LifetimeMaxKills, "Maximum number of deletions attempted per cycle.")
	fs.BoolVar(&rs.Quiet, "quiet", rs.Quiet, "Do not log the cycle summary when nothing was deleted.")
	fs.Int64Var(&rs.IntervalSeconds, "interval", rs.IntervalSeconds, "Seconds between two cycles. 0 runs a single cycle and exits.")
	fs.IntVar(&rs.ErrorLimit, "error-limit", rs.ErrorLimit, "Number of consecutive failed cycles after which the process exits.")
	fs.BoolVar(&rs.DryRun, "dry-run", rs.DryRun, "Log deletions without performing them.")
	fs.BoolVar(&rs.SkipWithOwner, "skip-with-owner", rs.SkipWithOwner, "Do not delete resources that have owner references.")
	fs.BoolVar(&rs.DeletionFailureEventNotification, "deletion-failure-event-notification", rs.DeletionFailureEventNotification, "Emit a Warning event on the resource when its deletion fails.")
	fs.StringVar(&rs.ClientConnection.Kubeconfig, "kubeconfig", rs.ClientConnection.Kubeconfig, "File with kube configuration. In-cluster configuration or ~/.kube/config is used when empty.")
	fs.BoolVar(&rs.DisableMetrics, "disable-metrics", rs.DisableMetrics, "Disables metrics. The metrics are by default served through https://localhost:10258/metrics. Secure address, resp. port can be changed through --bind-address, resp. --secure-port flags.")
	fs.StringVar(&rs.Tracing.CollectorEndpoint, "otel-collector-endpoint", "", "Set this flag to the OpenTelemetry Collector Service Address")
	fs.StringVar(&rs.Tracing.TransportCert, "otel-trace-ca-cert", "", "Set this flag to the CA Certificate to be used by the OpenTelemetry Collector")
	fs.StringVar(&rs.Tracing.ServiceName, "otel-service-name", "", "OTEL Trace name to be used with the resources")
	fs.StringVar(&rs.Tracing.ServiceNamespace, "otel-trace-namespace", "", "OTEL Trace namespace to be used with the resources")
	fs.Float64Var(&rs.Tracing.SampleRate, "otel-sample-rate", rs.Tracing.SampleRate, "Sample rate to collect the Traces")

	componentbaseoptions.BindLeaderElectionFlags(&rs.LeaderElection, fs)
	features.DefaultMutableFeatureGate.AddFlag(fs)
	logsapi.AddFlags(&rs.Logging, fs)
	rs.SecureServing.AddFlags(fs)
}

// SetStatuses records the positional Status[:Reason] arguments.
func (rs *CleanupServer) SetStatuses(args []string) {
	rs.Statuses = append([]string(nil), args...)
}
