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

package candidate

import (
	"fmt"
	"time"

	batchv1 "k8s.io/api/batch/v1"
	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
)

// Kind identifies the type of resource behind a Candidate.
type Kind string

const (
	KindPod Kind = "Pod"
	KindJob Kind = "Job"
)

// Job phases are not part of the Job API; they are derived from the job
// conditions so that the same status filters apply to pods and jobs.
const (
	JobPhaseSucceeded = "Succeeded"
	JobPhaseFailed    = "Failed"
	JobPhaseRunning   = "Running"
	JobPhasePending   = "Pending"
)

// Candidate is a read-only view over one fetched pod or job.
// It is built fresh every cycle and discarded once a decision is made.
type Candidate struct {
	Kind      Kind
	Namespace string
	Name      string
	UID       types.UID

	Phase  string
	Reason string

	// LastTransitionTime is when the resource entered its current phase.
	// Falls back to CreationTimestamp when it cannot be determined.
	LastTransitionTime time.Time
	CreationTimestamp  time.Time

	Labels          map[string]string
	Annotations     map[string]string
	OwnerReferences []metav1.OwnerReference
}

// GetName makes Candidate usable with klog.KObj.
func (c *Candidate) GetName() string {
	return c.Name
}

// GetNamespace makes Candidate usable with klog.KObj.
func (c *Candidate) GetNamespace() string {
	return c.Namespace
}

// ObjectReference points at the resource the candidate was built from.
func (c *Candidate) ObjectReference() *v1.ObjectReference {
	apiVersion := "v1"
	if c.Kind == KindJob {
		apiVersion = batchv1.SchemeGroupVersion.String()
	}
	return &v1.ObjectReference{
		Kind:       string(c.Kind),
		APIVersion: apiVersion,
		Namespace:  c.Namespace,
		Name:       c.Name,
		UID:        c.UID,
	}
}

func (c *Candidate) String() string {
	return fmt.Sprintf("%s %s/%s", c.Kind, c.Namespace, c.Name)
}

// FromPod builds a Candidate from a pod.
func FromPod(pod *v1.Pod) *Candidate {
	c := &Candidate{
		Kind:              KindPod,
		Namespace:         pod.Namespace,
		Name:              pod.Name,
		UID:               pod.UID,
		Phase:             string(pod.Status.Phase),
		Reason:            pod.Status.Reason,
		CreationTimestamp: pod.CreationTimestamp.Time,
		Labels:            pod.Labels,
		Annotations:       pod.Annotations,
		OwnerReferences:   pod.OwnerReferences,
	}
	c.LastTransitionTime = podTerminationTime(pod)
	if c.LastTransitionTime.IsZero() {
		c.LastTransitionTime = c.CreationTimestamp
	}
	return c
}

// podTerminationTime returns the latest finish time across init and regular
// containers, or the zero time if no container has terminated.
func podTerminationTime(pod *v1.Pod) time.Time {
	var latest time.Time
	statuses := append(append([]v1.ContainerStatus{}, pod.Status.InitContainerStatuses...), pod.Status.ContainerStatuses...)
	for _, status := range statuses {
		terminated := status.State.Terminated
		if terminated == nil {
			terminated = status.LastTerminationState.Terminated
		}
		if terminated == nil || terminated.FinishedAt.IsZero() {
			continue
		}
		if terminated.FinishedAt.Time.After(latest) {
			latest = terminated.FinishedAt.Time
		}
	}
	return latest
}

// FromJob builds a Candidate from a job. The phase is Succeeded or Failed once
// the matching condition is true, Running once the job started and Pending
// otherwise.
func FromJob(job *batchv1.Job) *Candidate {
	c := &Candidate{
		Kind:              KindJob,
		Namespace:         job.Namespace,
		Name:              job.Name,
		UID:               job.UID,
		Phase:             JobPhasePending,
		CreationTimestamp: job.CreationTimestamp.Time,
		Labels:            job.Labels,
		Annotations:       job.Annotations,
		OwnerReferences:   job.OwnerReferences,
	}
	if job.Status.StartTime != nil {
		c.Phase = JobPhaseRunning
	}

	for _, condition := range job.Status.Conditions {
		if condition.Status != v1.ConditionTrue {
			continue
		}
		switch condition.Type {
		case batchv1.JobComplete:
			c.Phase = JobPhaseSucceeded
		case batchv1.JobFailed:
			c.Phase = JobPhaseFailed
		default:
			continue
		}
		c.Reason = condition.Reason
		c.LastTransitionTime = condition.LastTransitionTime.Time
		break
	}

	if c.LastTransitionTime.IsZero() && job.Status.CompletionTime != nil {
		c.LastTransitionTime = job.Status.CompletionTime.Time
	}
	if c.LastTransitionTime.IsZero() {
		c.LastTransitionTime = c.CreationTimestamp
	}
	return c
}
