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
	"testing"
	"time"

	v1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	core "k8s.io/client-go/testing"

	"github.com/pod-cleanup-operator/pod-cleanup-operator/cmd/pod-cleanup-operator/app/options"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/test"
)

func newTestServer(client *fake.Clientset, statuses ...string) *options.CleanupServer {
	rs := options.NewCleanupServer()
	rs.Client = client
	rs.Statuses = statuses
	rs.IntervalSeconds = 0
	rs.DisableMetrics = true
	return rs
}

func TestRunSingleCycle(t *testing.T) {
	created := time.Now().Add(-time.Hour)
	old := test.BuildTestPod("old", "default", created, func(pod *v1.Pod) {
		test.SetPodTerminated(pod, v1.PodSucceeded, "", created.Add(time.Minute))
	})
	running := test.BuildTestPod("running", "default", created, nil)
	client := fake.NewClientset(old, running)

	rs := newTestServer(client, "Succeeded")
	rs.LifetimeMaxKills = 10
	if err := Run(context.Background(), rs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := deletedNames(client); len(diff) != 1 || diff[0] != "pods/old" {
		t.Errorf("expected only pods/old to be deleted, got %v", diff)
	}
}

func TestRunDryRun(t *testing.T) {
	created := time.Now().Add(-time.Hour)
	client := fake.NewClientset(test.BuildTestPod("old", "default", created, func(pod *v1.Pod) {
		test.SetPodTerminated(pod, v1.PodFailed, "Evicted", created.Add(time.Minute))
	}))

	rs := newTestServer(client, "Failed:Evicted")
	rs.DryRun = true
	if err := Run(context.Background(), rs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := deletedNames(client); len(got) != 0 {
		t.Errorf("expected no delete calls in dry run, got %v", got)
	}
}

func TestRunInvalidConfiguration(t *testing.T) {
	client := fake.NewClientset()

	rs := newTestServer(client)
	if err := Run(context.Background(), rs); err == nil {
		t.Errorf("expected an error without statuses")
	}

	rs = newTestServer(client, "Failed")
	rs.LabelSelector = "not json"
	if err := Run(context.Background(), rs); err == nil {
		t.Errorf("expected an error for an invalid label selector")
	}

	if len(client.Actions()) != 0 {
		t.Errorf("expected no API calls before the configuration is valid, got %d", len(client.Actions()))
	}
}

func TestRunErrorLimit(t *testing.T) {
	client := fake.NewClientset()
	client.PrependReactor("list", "pods", func(action core.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("unauthorized")
	})

	rs := newTestServer(client, "Failed")
	rs.ErrorLimit = 1
	if err := Run(context.Background(), rs); !errors.Is(err, ErrErrorLimitReached) {
		t.Errorf("expected ErrErrorLimitReached, got %v", err)
	}
}
