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
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	registry "k8s.io/component-base/logs/api/v1"

	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/cleaner/lifetime"
)

const (
	DefaultGracePeriodSeconds = 300
	DefaultLabelSelector      = "{}"
	DefaultLifetimeMaxKills   = 1
	DefaultIntervalSeconds    = 60
	DefaultErrorLimit         = 5

	// DefaultLeaseName names the lease used for leader election.
	DefaultLeaseName = "pod-cleanup-operator"
)

// NewDefaultCleanerConfiguration returns a configuration with every default applied.
func NewDefaultCleanerConfiguration() CleanerConfiguration {
	cfg := CleanerConfiguration{}
	SetDefaults_CleanerConfiguration(&cfg)
	return cfg
}

// SetDefaults_CleanerConfiguration fills unset fields with their defaults.
// It runs before flags are parsed, so flags may still set meaningful zero values.
func SetDefaults_CleanerConfiguration(obj *CleanerConfiguration) {
	if obj.GracePeriodSeconds == 0 {
		obj.GracePeriodSeconds = DefaultGracePeriodSeconds
	}
	if obj.LabelSelector == "" {
		obj.LabelSelector = DefaultLabelSelector
	}
	if obj.LifetimeAnnotation == "" {
		obj.LifetimeAnnotation = lifetime.DefaultAnnotation
	}
	if obj.LifetimeMaxKills == 0 {
		obj.LifetimeMaxKills = DefaultLifetimeMaxKills
	}
	if obj.IntervalSeconds == 0 {
		obj.IntervalSeconds = DefaultIntervalSeconds
	}
	if obj.ErrorLimit == 0 {
		obj.ErrorLimit = DefaultErrorLimit
	}
	if obj.Tracing.SampleRate == 0 {
		obj.Tracing.SampleRate = 1.0
	}

	le := &obj.LeaderElection
	if le.LeaseDuration.Duration == 0 {
		le.LeaseDuration = metav1.Duration{Duration: 137 * time.Second}
	}
	if le.RenewDeadline.Duration == 0 {
		le.RenewDeadline = metav1.Duration{Duration: 107 * time.Second}
	}
	if le.RetryPeriod.Duration == 0 {
		le.RetryPeriod = metav1.Duration{Duration: 26 * time.Second}
	}
	if le.ResourceLock == "" {
		le.ResourceLock = "leases"
	}
	if le.ResourceName == "" {
		le.ResourceName = DefaultLeaseName
	}
	if le.ResourceNamespace == "" {
		le.ResourceNamespace = metav1.NamespaceSystem
	}

	cc := &obj.ClientConnection
	if cc.QPS == 0 {
		cc.QPS = 5
	}
	if cc.Burst == 0 {
		cc.Burst = 10
	}
	if cc.ContentType == "" {
		cc.ContentType = "application/vnd.kubernetes.protobuf"
	}
	if cc.AcceptContentTypes == "" {
		cc.AcceptContentTypes = "application/vnd.kubernetes.protobuf,application/json"
	}

	registry.SetRecommendedLoggingConfiguration(&obj.Logging)
}

// GracePeriod returns the grace period as a duration.
func (c *CleanerConfiguration) GracePeriod() time.Duration {
	return time.Duration(c.GracePeriodSeconds) * time.Second
}

// Interval returns the cycle interval as a duration.
func (c *CleanerConfiguration) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}
