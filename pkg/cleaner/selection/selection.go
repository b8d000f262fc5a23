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

package selection

import (
	"context"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/klog/v2"

	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/cleaner/candidate"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/cleaner/filters"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/cleaner/lifetime"
)

// SystemNamespacePrefix marks namespaces reserved for the cluster itself.
const SystemNamespacePrefix = "kube-"

// PreemptingReason is the pod status reason set while a pod is being preempted.
const PreemptingReason = "Preempting"

// FilterFunc returns true if the candidate may proceed.
type FilterFunc func(c *candidate.Candidate) bool

// Gate is a named precondition. Gates run in order and the first one that
// returns false rejects the candidate.
type Gate struct {
	Name   string
	Filter FilterFunc
}

// NamespaceGate admits only candidates in namespace. An empty namespace admits all.
func NamespaceGate(namespace string) Gate {
	return Gate{Name: "Namespace", Filter: func(c *candidate.Candidate) bool {
		return namespace == "" || c.Namespace == namespace
	}}
}

// UserNamespaceGate rejects candidates in system namespaces.
func UserNamespaceGate() Gate {
	return Gate{Name: "UserNamespace", Filter: func(c *candidate.Candidate) bool {
		return !IsSystemNamespace(c.Namespace)
	}}
}

// OwnerGate rejects candidates that have owner references.
func OwnerGate() Gate {
	return Gate{Name: "Owner", Filter: func(c *candidate.Candidate) bool {
		return len(c.OwnerReferences) == 0
	}}
}

// LabelGate admits candidates whose labels satisfy selector.
func LabelGate(selector labels.Set) Gate {
	return Gate{Name: "LabelSelector", Filter: func(c *candidate.Candidate) bool {
		return filters.MatchesLabels(c.Labels, selector)
	}}
}

// IsSystemNamespace reports whether namespace is reserved for the cluster.
func IsSystemNamespace(namespace string) bool {
	return strings.HasPrefix(namespace, SystemNamespacePrefix)
}

// Config holds the parts of the run configuration the engine decides on.
type Config struct {
	Namespace          string
	UserOnly           bool
	SkipWithOwner      bool
	LabelSelector      labels.Set
	FilterSpecs        []filters.FilterSpec
	GracePeriod        time.Duration
	LifetimeAnnotation string
	// CleanupPreempting admits pods in the Preempting state once they pass the gates.
	CleanupPreempting bool
}

// Reason explains why a candidate was admitted or rejected.
type Reason string

const (
	ReasonStatus     Reason = "Status"
	ReasonLifetime   Reason = "Lifetime"
	ReasonPreempting Reason = "Preempting"
	ReasonNoMatch    Reason = "NoMatch"
)

// Decision is the outcome of Engine.Decide.
type Decision struct {
	Admit bool
	// Reason is the admitting policy, the rejecting gate name, or ReasonNoMatch.
	Reason Reason
}

// Engine decides whether a candidate qualifies for deletion.
// Decisions depend only on the candidate, the configuration and now.
type Engine struct {
	gates              []Gate
	specs              []filters.FilterSpec
	gracePeriod        time.Duration
	lifetimeAnnotation string
	cleanupPreempting  bool
}

// NewEngine builds the gate chain namespace, user-only, owner, labels from cfg
// and appends extra gates after them.
func NewEngine(cfg Config, extra ...Gate) *Engine {
	gates := []Gate{NamespaceGate(cfg.Namespace)}
	if cfg.UserOnly {
		gates = append(gates, UserNamespaceGate())
	}
	if cfg.SkipWithOwner {
		gates = append(gates, OwnerGate())
	}
	gates = append(gates, LabelGate(cfg.LabelSelector))
	gates = append(gates, extra...)

	annotation := cfg.LifetimeAnnotation
	if annotation == "" {
		annotation = lifetime.DefaultAnnotation
	}

	return &Engine{
		gates:              gates,
		specs:              cfg.FilterSpecs,
		gracePeriod:        cfg.GracePeriod,
		lifetimeAnnotation: annotation,
		cleanupPreempting:  cfg.CleanupPreempting,
	}
}

// Decide admits c iff it passes every gate and either it matches a status
// filter for at least the grace period, or it outlived its declared lifetime.
func (e *Engine) Decide(ctx context.Context, c *candidate.Candidate, now time.Time) Decision {
	logger := klog.FromContext(ctx)

	for _, gate := range e.gates {
		if !gate.Filter(c) {
			logger.V(4).Info("Candidate rejected", "kind", c.Kind, "resource", klog.KObj(c), "gate", gate.Name)
			return Decision{Reason: Reason(gate.Name)}
		}
	}

	if e.cleanupPreempting && c.Kind == candidate.KindPod && c.Reason == PreemptingReason {
		return Decision{Admit: true, Reason: ReasonPreempting}
	}

	statusMatch := filters.MatchesStatus(c.Phase, c.Reason, e.specs)
	graceElapsed := now.Sub(c.LastTransitionTime) >= e.gracePeriod
	if statusMatch && graceElapsed {
		return Decision{Admit: true, Reason: ReasonStatus}
	}

	// Lifetime is evaluated against the creation time only, independent of
	// the phase and of the grace period.
	if lifetime.IsExpired(ctx, c, e.lifetimeAnnotation, now) {
		return Decision{Admit: true, Reason: ReasonLifetime}
	}

	if statusMatch {
		logger.V(4).Info("Candidate within grace period", "kind", c.Kind, "resource", klog.KObj(c), "phase", c.Phase, "reason", c.Reason, "gracePeriod", e.gracePeriod)
	}
	return Decision{Reason: ReasonNoMatch}
}
