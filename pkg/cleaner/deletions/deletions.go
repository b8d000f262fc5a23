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

package deletions

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	v1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	clientset "k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/events"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/pod-cleanup-operator/pod-cleanup-operator/metrics"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/cleaner/candidate"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/cleaner/duration"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/tracing"
)

// Deleter deletes admitted candidates within one cycle while exercising the
// per-cycle cap. A Deleter must not be reused across cycles.
type Deleter struct {
	client                           clientset.Interface
	dryRun                           bool
	maxDeletionsPerCycle             *uint
	attempts                         uint
	deleted                          map[candidate.Kind]uint
	deletionFailureEventNotification bool
	metricsEnabled                   bool
	eventRecorder                    events.EventRecorder
}

func NewDeleter(client clientset.Interface, eventRecorder events.EventRecorder, options *Options) *Deleter {
	if options == nil {
		options = NewOptions()
	}
	return &Deleter{
		client:                           client,
		dryRun:                           options.dryRun,
		maxDeletionsPerCycle:             options.maxDeletionsPerCycle,
		deleted:                          make(map[candidate.Kind]uint),
		deletionFailureEventNotification: options.deletionFailureEventNotification,
		metricsEnabled:                   options.metricsEnabled,
		eventRecorder:                    eventRecorder,
	}
}

// Deleted gives the number of resources of kind deleted (or, in dry run, that would have been).
func (d *Deleter) Deleted(kind candidate.Kind) uint {
	return d.deleted[kind]
}

// TotalDeleted gives the number of resources deleted across all kinds.
func (d *Deleter) TotalDeleted() uint {
	var total uint
	for _, count := range d.deleted {
		total += count
	}
	return total
}

// LimitReached reports whether no further deletion may be attempted.
func (d *Deleter) LimitReached() bool {
	return d.maxDeletionsPerCycle != nil && d.attempts >= *d.maxDeletionsPerCycle
}

// DryRun reports whether deletions are only simulated.
func (d *Deleter) DryRun() bool {
	return d.dryRun
}

// DeleteOptions provides a handle for passing additional info to Delete.
type DeleteOptions struct {
	// Reason is the policy that admitted the candidate.
	Reason string
	// Age of the candidate at decision time, used for logging.
	Age time.Duration
}

// Delete removes the candidate from the cluster. Failed attempts count
// against the per-cycle cap. A resource that is already gone counts as deleted.
func (d *Deleter) Delete(ctx context.Context, c *candidate.Candidate, opts DeleteOptions) error {
	ctx, span := tracing.StartSpan(ctx, "DeleteResource", tracing.DeleteOperation,
		attribute.String("kind", string(c.Kind)),
		attribute.String("name", c.Name),
		attribute.String("namespace", c.Namespace),
		attribute.String("reason", opts.Reason),
		attribute.Bool("dryRun", d.dryRun),
	)
	defer span.End()
	logger := klog.FromContext(ctx).WithValues("kind", c.Kind, "resource", klog.KObj(c), "reason", opts.Reason)

	if d.LimitReached() {
		d.observe(c, metrics.ResultLimitReached)
		err := NewDeletionLimitError(*d.maxDeletionsPerCycle)
		span.AddEvent("Deletion Skipped", trace.WithAttributes(attribute.String("err", err.Error())))
		logger.V(2).Info("Skipping deletion", "limit", *d.maxDeletionsPerCycle)
		return err
	}
	d.attempts++

	if d.dryRun {
		d.deleted[c.Kind]++
		d.observe(c, metrics.ResultDryRun)
		logger.Info("Deleted resource", "age", duration.HumanDuration(opts.Age), "dryRun", true)
		return nil
	}

	err := deleteResource(ctx, d.client, c)
	if err != nil && !apierrors.IsNotFound(err) {
		span.AddEvent("Deletion Failed", trace.WithAttributes(attribute.String("err", err.Error())))
		logger.Error(err, "Error deleting resource")
		d.observe(c, metrics.ResultError)
		if d.deletionFailureEventNotification {
			d.eventRecorder.Eventf(c.ObjectReference(), nil, v1.EventTypeWarning, "CleanupFailed", "Delete", "%s cleanup failed: %v", c.Kind, err.Error())
		}
		return fmt.Errorf("deleting %s: %w", c, err)
	}
	if err != nil {
		logger.V(2).Info("Resource already deleted")
	}

	d.deleted[c.Kind]++
	d.observe(c, metrics.ResultSuccess)
	logger.Info("Deleted resource", "age", duration.HumanDuration(opts.Age))
	d.eventRecorder.Eventf(c.ObjectReference(), nil, v1.EventTypeNormal, "CleanedUp", "Delete", "%s deleted by pod-cleanup-operator: %s", c.Kind, opts.Reason)
	return nil
}

func (d *Deleter) observe(c *candidate.Candidate, result string) {
	if !d.metricsEnabled {
		return
	}
	metrics.ResourcesDeleted.With(map[string]string{"kind": string(c.Kind), "result": result, "namespace": c.Namespace}).Inc()
}

func deleteResource(ctx context.Context, client clientset.Interface, c *candidate.Candidate) error {
	switch c.Kind {
	case candidate.KindPod:
		return client.CoreV1().Pods(c.Namespace).Delete(ctx, c.Name, metav1.DeleteOptions{})
	case candidate.KindJob:
		// Background propagation lets the garbage collector remove the job's pods.
		return client.BatchV1().Jobs(c.Namespace).Delete(ctx, c.Name, metav1.DeleteOptions{
			PropagationPolicy: ptr.To(metav1.DeletePropagationBackground),
		})
	default:
		return fmt.Errorf("unsupported kind %q", c.Kind)
	}
}
