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

package test

import (
	"fmt"
	"time"

	batchv1 "k8s.io/api/batch/v1"
	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
)

// BuildTestPod creates a running test pod created at the given time.
func BuildTestPod(name, namespace string, created time.Time, apply func(pod *v1.Pod)) *v1.Pod {
	pod := &v1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Namespace:         namespace,
			Name:              name,
			UID:               types.UID(fmt.Sprintf("%s-%s", namespace, name)),
			CreationTimestamp: metav1.NewTime(created),
		},
		Spec: v1.PodSpec{
			Containers: []v1.Container{{Name: "main", Image: "busybox"}},
		},
		Status: v1.PodStatus{
			Phase: v1.PodRunning,
		},
	}
	if apply != nil {
		apply(pod)
	}
	return pod
}

// SetPodTerminated moves the pod to the given phase and reason and records a
// terminated state for its container finishing at finishedAt.
func SetPodTerminated(pod *v1.Pod, phase v1.PodPhase, reason string, finishedAt time.Time) {
	pod.Status.Phase = phase
	pod.Status.Reason = reason
	pod.Status.ContainerStatuses = []v1.ContainerStatus{
		{
			Name: "main",
			State: v1.ContainerState{
				Terminated: &v1.ContainerStateTerminated{
					Reason:     reason,
					FinishedAt: metav1.NewTime(finishedAt),
				},
			},
		},
	}
}

// SetNormalOwnerRef sets the given pod's owner to ReplicaSet
func SetNormalOwnerRef(pod *v1.Pod) {
	trueVar := true
	pod.ObjectMeta.OwnerReferences = []metav1.OwnerReference{
		{Kind: "ReplicaSet", APIVersion: "v1", Name: "replicaset-1", Controller: &trueVar},
	}
}

// SetJobOwnerRef sets the given pod's owner to a Job
func SetJobOwnerRef(pod *v1.Pod, jobName string) {
	trueVar := true
	pod.ObjectMeta.OwnerReferences = []metav1.OwnerReference{
		{Kind: "Job", APIVersion: "batch/v1", Name: jobName, Controller: &trueVar},
	}
}

// BuildTestJob creates a started test job created at the given time.
func BuildTestJob(name, namespace string, created time.Time, apply func(job *batchv1.Job)) *batchv1.Job {
	started := metav1.NewTime(created)
	job := &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Namespace:         namespace,
			Name:              name,
			UID:               types.UID(fmt.Sprintf("job-%s-%s", namespace, name)),
			CreationTimestamp: metav1.NewTime(created),
		},
		Status: batchv1.JobStatus{
			StartTime: &started,
		},
	}
	if apply != nil {
		apply(job)
	}
	return job
}

// SetJobCondition adds a true condition of the given type to the job.
func SetJobCondition(job *batchv1.Job, conditionType batchv1.JobConditionType, reason string, transition time.Time) {
	job.Status.Conditions = append(job.Status.Conditions, batchv1.JobCondition{
		Type:               conditionType,
		Status:             v1.ConditionTrue,
		Reason:             reason,
		LastTransitionTime: metav1.NewTime(transition),
	})
}
