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

package cleaner

import (
	"context"
	"fmt"
	"time"

	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/events"
	"k8s.io/klog/v2"
	"k8s.io/utils/clock"
	"k8s.io/utils/ptr"

	"github.com/pod-cleanup-operator/pod-cleanup-operator/cmd/pod-cleanup-operator/app/options"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/apis/componentconfig/validation"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/cleaner/client"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/cleaner/deletions"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/cleaner/selection"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/features"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/tracing"
)

const componentName = "pod-cleanup-operator"

// Run validates the configuration, then runs the control loop until ctx is
// done or the error limit is reached.
func Run(ctx context.Context, rs *options.CleanupServer) error {
	logger := klog.FromContext(ctx)

	parsed, err := validation.ParseCleanerConfiguration(&rs.CleanerConfiguration)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	specs, selector := parsed.FilterSpecs, parsed.LabelSelector

	if rs.Client == nil {
		rs.Client, err = client.CreateClient(rs.ClientConnection, componentName)
		if err != nil {
			return fmt.Errorf("unable to create the kubernetes client: %w", err)
		}
	}

	tp, err := tracing.NewTracerProvider(ctx, rs.Tracing.CollectorEndpoint, rs.Tracing.TransportCert, rs.Tracing.ServiceName, rs.Tracing.ServiceNamespace, rs.Tracing.SampleRate)
	if err != nil {
		return fmt.Errorf("unable to set up tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = tracing.Shutdown(shutdownCtx, tp)
	}()

	var eventRecorder events.EventRecorder = &events.FakeRecorder{}
	if !rs.DryRun {
		eventBroadcaster := events.NewBroadcaster(&events.EventSinkImpl{Interface: rs.Client.EventsV1()})
		eventBroadcaster.StartRecordingToSink(ctx.Done())
		defer eventBroadcaster.Shutdown()
		eventRecorder = eventBroadcaster.NewRecorder(scheme.Scheme, componentName)
	}

	engine := selection.NewEngine(selection.Config{
		Namespace:          rs.Namespace,
		UserOnly:           rs.UserOnly,
		SkipWithOwner:      rs.SkipWithOwner,
		LabelSelector:      selector,
		FilterSpecs:        specs,
		GracePeriod:        rs.GracePeriod(),
		LifetimeAnnotation: rs.LifetimeAnnotation,
		CleanupPreempting:  features.DefaultFeatureGate.Enabled(features.PreemptingPodCleanup),
	})

	metricsEnabled := !rs.DisableMetrics
	executor := NewCycleExecutor(
		rs.Client,
		engine,
		Scope{Namespace: rs.Namespace, LabelSelector: selector},
		eventRecorder,
		clock.RealClock{},
		rs.DryRun,
		metricsEnabled,
		deletions.NewOptions().
			WithMaxDeletionsPerCycle(ptr.To(uint(rs.LifetimeMaxKills))).
			WithDeletionFailureEventNotification(ptr.To(rs.DeletionFailureEventNotification)),
	)
	loop := NewLoop(executor, rs.Interval(), rs.ErrorLimit, rs.Quiet, metricsEnabled)

	logger.Info("Starting cleanup loop",
		"namespace", rs.Namespace,
		"statuses", rs.Statuses,
		"gracePeriod", rs.GracePeriod(),
		"interval", rs.Interval(),
		"maxKills", rs.LifetimeMaxKills,
		"errorLimit", rs.ErrorLimit,
		"dryRun", rs.DryRun,
	)

	if rs.LeaderElection.LeaderElect {
		return NewLeaderElection(ctx, loop.Run, rs.Client, &rs.LeaderElection)
	}
	return loop.Run(ctx)
}
