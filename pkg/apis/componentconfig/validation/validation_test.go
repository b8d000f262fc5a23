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

package validation

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"

	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/apis/componentconfig"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/cleaner/filters"
)

func TestValidateCleanerConfiguration(t *testing.T) {
	valid := func() componentconfig.CleanerConfiguration {
		cfg := componentconfig.NewDefaultCleanerConfiguration()
		cfg.Statuses = []string{"Failed:Shutdown", "Succeeded"}
		return cfg
	}

	tests := []struct {
		description string
		mutate      func(cfg *componentconfig.CleanerConfiguration)
		wantErr     bool
	}{
		{
			description: "defaults with statuses",
			mutate:      func(cfg *componentconfig.CleanerConfiguration) {},
		},
		{
			description: "single namespace and zero interval",
			mutate: func(cfg *componentconfig.CleanerConfiguration) {
				cfg.Namespace = "default"
				cfg.IntervalSeconds = 0
				cfg.LifetimeMaxKills = 0
			},
		},
		{
			description: "no statuses",
			mutate:      func(cfg *componentconfig.CleanerConfiguration) { cfg.Statuses = nil },
			wantErr:     true,
		},
		{
			description: "empty status",
			mutate:      func(cfg *componentconfig.CleanerConfiguration) { cfg.Statuses = []string{""} },
			wantErr:     true,
		},
		{
			description: "too many separators",
			mutate:      func(cfg *componentconfig.CleanerConfiguration) { cfg.Statuses = []string{"A:B:C"} },
			wantErr:     true,
		},
		{
			description: "selector with numeric value",
			mutate:      func(cfg *componentconfig.CleanerConfiguration) { cfg.LabelSelector = `{"a":1}` },
			wantErr:     true,
		},
		{
			description: "selector array",
			mutate:      func(cfg *componentconfig.CleanerConfiguration) { cfg.LabelSelector = `[]` },
			wantErr:     true,
		},
		{
			description: "selector not json",
			mutate:      func(cfg *componentconfig.CleanerConfiguration) { cfg.LabelSelector = "not json" },
			wantErr:     true,
		},
		{
			description: "invalid namespace",
			mutate:      func(cfg *componentconfig.CleanerConfiguration) { cfg.Namespace = "Not_A_Namespace" },
			wantErr:     true,
		},
		{
			description: "invalid annotation key",
			mutate:      func(cfg *componentconfig.CleanerConfiguration) { cfg.LifetimeAnnotation = "bad key!" },
			wantErr:     true,
		},
		{
			description: "negative grace period",
			mutate:      func(cfg *componentconfig.CleanerConfiguration) { cfg.GracePeriodSeconds = -1 },
			wantErr:     true,
		},
		{
			description: "negative max kills",
			mutate:      func(cfg *componentconfig.CleanerConfiguration) { cfg.LifetimeMaxKills = -1 },
			wantErr:     true,
		},
		{
			description: "negative interval",
			mutate:      func(cfg *componentconfig.CleanerConfiguration) { cfg.IntervalSeconds = -5 },
			wantErr:     true,
		},
		{
			description: "zero error limit",
			mutate:      func(cfg *componentconfig.CleanerConfiguration) { cfg.ErrorLimit = 0 },
			wantErr:     true,
		},
		{
			description: "sample rate above one",
			mutate:      func(cfg *componentconfig.CleanerConfiguration) { cfg.Tracing.SampleRate = 1.5 },
			wantErr:     true,
		},
		{
			description: "leader election with a single cycle",
			mutate: func(cfg *componentconfig.CleanerConfiguration) {
				cfg.LeaderElection.LeaderElect = true
				cfg.IntervalSeconds = 0
			},
			wantErr: true,
		},
		{
			description: "leader election renew deadline longer than the lease",
			mutate: func(cfg *componentconfig.CleanerConfiguration) {
				cfg.LeaderElection.LeaderElect = true
				cfg.LeaderElection.RenewDeadline = metav1.Duration{Duration: time.Hour}
			},
			wantErr: true,
		},
		{
			description: "leader election with defaults",
			mutate: func(cfg *componentconfig.CleanerConfiguration) {
				cfg.LeaderElection.LeaderElect = true
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := ValidateCleanerConfiguration(&cfg)
			if (err != nil) != tc.wantErr {
				t.Errorf("expected error=%v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := componentconfig.NewDefaultCleanerConfiguration()
	cfg.GracePeriodSeconds = -1
	cfg.ErrorLimit = -1

	err := ValidateCleanerConfiguration(&cfg)
	if err == nil {
		t.Fatal("expected an error")
	}
	agg, ok := err.(interface{ Errors() []error })
	if !ok {
		t.Fatalf("expected an aggregate error, got %T", err)
	}
	// no statuses, negative grace period, negative error limit
	if got := len(agg.Errors()); got != 3 {
		t.Errorf("expected 3 errors, got %d: %v", got, err)
	}
}

func TestParseCleanerConfiguration(t *testing.T) {
	cfg := componentconfig.NewDefaultCleanerConfiguration()
	cfg.Statuses = []string{"Failed:Shutdown", "Succeeded"}
	cfg.LabelSelector = `{"app":"x"}`

	parsed, err := ParseCleanerConfiguration(&cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	shutdown := "Shutdown"
	want := &ParsedConfiguration{
		FilterSpecs:   []filters.FilterSpec{{Status: "Failed", Reason: &shutdown}, {Status: "Succeeded"}},
		LabelSelector: labels.Set{"app": "x"},
	}
	if diff := cmp.Diff(want, parsed); diff != "" {
		t.Errorf("ParseCleanerConfiguration (-want, +got):\n%s", diff)
	}

	cfg.LabelSelector = "not json"
	if parsed, err := ParseCleanerConfiguration(&cfg); err == nil || parsed != nil {
		t.Errorf("expected an error and no parsed values, got %v, %v", parsed, err)
	}
}
