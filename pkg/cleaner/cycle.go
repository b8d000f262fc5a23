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
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	clientset "k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/events"
	"k8s.io/klog/v2"
	"k8s.io/utils/clock"

	"github.com/pod-cleanup-operator/pod-cleanup-operator/metrics"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/cleaner/candidate"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/cleaner/deletions"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/cleaner/selection"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/tracing"
)

// CycleResult is the outcome of one cleanup pass.
type CycleResult struct {
	PodsDeleted uint
	JobsDeleted uint
	// DryRun is set when the counts are deletions that would have happened.
	DryRun bool
	// Err is set when listing failed or any delete call failed.
	Err error
}

// Scope limits which resources are listed.
type Scope struct {
	// Namespace to list from. Empty lists all namespaces.
	Namespace string
	// LabelSelector is sent to the API server to narrow the listing.
	LabelSelector labels.Set
}

// CycleExecutor runs one list, decide, delete pass.
type CycleExecutor struct {
	client         clientset.Interface
	engine         *selection.Engine
	scope          Scope
	deleterOptions *deletions.Options
	eventRecorder  events.EventRecorder
	clock          clock.PassiveClock
	metricsEnabled bool
}

func NewCycleExecutor(
	client clientset.Interface,
	engine *selection.Engine,
	scope Scope,
	eventRecorder events.EventRecorder,
	clk clock.PassiveClock,
	dryRun bool,
	metricsEnabled bool,
	deleterOptions *deletions.Options,
) *CycleExecutor {
	if deleterOptions == nil {
		deleterOptions = deletions.NewOptions()
	}
	return &CycleExecutor{
		client:         client,
		engine:         engine,
		scope:          scope,
		deleterOptions: deleterOptions.WithDryRun(dryRun).WithMetricsEnabled(metricsEnabled),
		eventRecorder:  eventRecorder,
		clock:          clk,
		metricsEnabled: metricsEnabled,
	}
}

type admitted struct {
	candidate *candidate.Candidate
	reason    selection.Reason
}

// RunCycle lists pods then jobs, decides each against a single "now" and
// deletes the admitted ones in listing order up to the per-cycle cap.
func (e *CycleExecutor) RunCycle(ctx context.Context) (result CycleResult) {
	deleter := deletions.NewDeleter(e.client, e.eventRecorder, e.deleterOptions)
	ctx, span := tracing.StartSpan(ctx, "RunCycle", tracing.CycleOperation,
		attribute.String("namespace", e.scope.Namespace),
		attribute.Bool("dryRun", deleter.DryRun()),
	)
	defer span.End()
	logger := klog.FromContext(ctx)

	start := e.clock.Now()
	result.DryRun = deleter.DryRun()
	defer func() {
		outcome := "success"
		if result.Err != nil {
			outcome = "error"
			span.RecordError(result.Err)
			span.SetStatus(codes.Error, result.Err.Error())
		}
		if e.metricsEnabled {
			metrics.CycleDuration.With(map[string]string{"result": outcome}).Observe(e.clock.Since(start).Seconds())
		}
	}()

	candidates, err := e.listCandidates(ctx)
	if err != nil {
		result.Err = err
		return result
	}

	now := e.clock.Now()
	var queue []admitted
	for _, c := range candidates {
		decision := e.engine.Decide(ctx, c, now)
		if !decision.Admit {
			continue
		}
		logger.V(3).Info("Candidate admitted", "kind", c.Kind, "resource", klog.KObj(c), "reason", decision.Reason)
		queue = append(queue, admitted{candidate: c, reason: decision.Reason})
	}
	span.SetAttributes(attribute.Int("candidates", len(candidates)), attribute.Int("admitted", len(queue)))

	var errs []error
	skipped := 0
	for _, item := range queue {
		err := deleter.Delete(ctx, item.candidate, deletions.DeleteOptions{
			Reason: string(item.reason),
			Age:    now.Sub(item.candidate.CreationTimestamp),
		})
		var limitErr *deletions.DeletionLimitError
		switch {
		case errors.As(err, &limitErr):
			skipped++
		case err != nil:
			errs = append(errs, err)
		}
	}
	if skipped > 0 {
		logger.V(1).Info("Per-cycle deletion limit reached", "admitted", len(queue), "skipped", skipped)
	}

	result.PodsDeleted = deleter.Deleted(candidate.KindPod)
	result.JobsDeleted = deleter.Deleted(candidate.KindJob)
	result.Err = utilerrors.NewAggregate(errs)
	return result
}

// listCandidates returns pods followed by jobs, each in listing order.
func (e *CycleExecutor) listCandidates(ctx context.Context) ([]*candidate.Candidate, error) {
	opts := metav1.ListOptions{}
	if len(e.scope.LabelSelector) > 0 {
		opts.LabelSelector = e.scope.LabelSelector.String()
	}
	namespace := e.scope.Namespace
	if namespace == "" {
		namespace = metav1.NamespaceAll
	}

	pods, err := e.client.CoreV1().Pods(namespace).List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing pods: %w", err)
	}
	jobs, err := e.client.BatchV1().Jobs(namespace).List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	candidates := make([]*candidate.Candidate, 0, len(pods.Items)+len(jobs.Items))
	for i := range pods.Items {
		candidates = append(candidates, candidate.FromPod(&pods.Items[i]))
	}
	for i := range jobs.Items {
		candidates = append(candidates, candidate.FromJob(&jobs.Items[i]))
	}
	klog.FromContext(ctx).V(4).Info("Listed candidates", "pods", len(pods.Items), "jobs", len(jobs.Items))
	return candidates, nil
}
