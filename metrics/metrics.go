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

package metrics

import (
	"sync"

	"k8s.io/component-base/metrics"
	"k8s.io/component-base/metrics/legacyregistry"

	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/version"
)

const (
	// Subsystem is the metrics subsystem name used by the operator.
	Subsystem = "pod_cleanup"
)

// Result label values of ResourcesDeleted.
const (
	ResultSuccess      = "success"
	ResultError        = "error"
	ResultDryRun       = "dry_run"
	ResultLimitReached = "limit_reached"
)

var (
	ResourcesDeleted = metrics.NewCounterVec(
		&metrics.CounterOpts{
			Subsystem:      Subsystem,
			Name:           "resources_deleted_total",
			Help:           "Number of resources the operator tried to delete, by kind, by result, by namespace. 'error' result means the resource could not be deleted",
			StabilityLevel: metrics.ALPHA,
		}, []string{"kind", "result", "namespace"})

	CycleDuration = metrics.NewHistogramVec(
		&metrics.HistogramOpts{
			Subsystem:      Subsystem,
			Name:           "cycle_duration_seconds",
			Help:           "Time taken to complete a full cleanup cycle, by result",
			StabilityLevel: metrics.ALPHA,
			Buckets:        []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
		}, []string{"result"})

	ConsecutiveErrors = metrics.NewGauge(
		&metrics.GaugeOpts{
			Subsystem:      Subsystem,
			Name:           "consecutive_errors",
			Help:           "Number of consecutive cleanup cycles that ended with an error",
			StabilityLevel: metrics.ALPHA,
		})

	buildInfo = metrics.NewGauge(
		&metrics.GaugeOpts{
			Subsystem:      Subsystem,
			Name:           "build_info",
			Help:           "Build info about the operator, including Go version, operator version, Git SHA, Git branch",
			ConstLabels:    map[string]string{"GoVersion": version.Get().GoVersion, "AppVersion": version.Get().Major + "." + version.Get().Minor, "OperatorVersion": version.Get().GitVersion, "GitBranch": version.Get().GitBranch, "GitSha1": version.Get().GitSha1},
			StabilityLevel: metrics.ALPHA,
		},
	)

	metricsList = []metrics.Registerable{
		ResourcesDeleted,
		CycleDuration,
		ConsecutiveErrors,
		buildInfo,
	}
)

var registerMetrics sync.Once

// Register all metrics.
func Register() {
	registerMetrics.Do(func() {
		RegisterMetrics(metricsList...)
		buildInfo.Set(1)
	})
}

// RegisterMetrics registers a list of metrics.
func RegisterMetrics(extraMetrics ...metrics.Registerable) {
	for _, metric := range extraMetrics {
		legacyregistry.MustRegister(metric)
	}
}
