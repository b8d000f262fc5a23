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
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/labels"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/apis/componentconfig"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/cleaner/filters"
)

// ParsedConfiguration holds the values parsed out of the configuration
// strings during validation.
type ParsedConfiguration struct {
	FilterSpecs   []filters.FilterSpec
	LabelSelector labels.Set
}

// ValidateCleanerConfiguration checks the startup configuration. Any error is
// fatal: the control loop must not start.
func ValidateCleanerConfiguration(cfg *componentconfig.CleanerConfiguration) error {
	_, err := ParseCleanerConfiguration(cfg)
	return err
}

// ParseCleanerConfiguration validates cfg and returns the parsed statuses and
// label selector. It returns nil with every validation error aggregated when
// cfg is invalid.
func ParseCleanerConfiguration(cfg *componentconfig.CleanerConfiguration) (*ParsedConfiguration, error) {
	specs, statusErr := filters.ParseFilterSpecs(cfg.Statuses)
	selector, selectorErr := filters.ParseLabelSelector(cfg.LabelSelector)

	if err := errorsAggregate(
		statusErr,
		selectorErr,
		validateNamespace(cfg.Namespace),
		validateLifetimeAnnotation(cfg.LifetimeAnnotation),
		validateNonNegative("grace period", cfg.GracePeriodSeconds),
		validateNonNegative("lifetime max kills", int64(cfg.LifetimeMaxKills)),
		validateNonNegative("interval", cfg.IntervalSeconds),
		validateErrorLimit(cfg.ErrorLimit),
		validateTracing(cfg.Tracing),
		validateLeaderElection(cfg),
	); err != nil {
		return nil, err
	}
	return &ParsedConfiguration{FilterSpecs: specs, LabelSelector: selector}, nil
}

// errorsAggregate converts all validation errors to a single error interface.
// if no errors, it will return nil.
func errorsAggregate(errors ...error) error {
	return utilerrors.NewAggregate(errors)
}

func validateNamespace(namespace string) error {
	if namespace == "" {
		return nil
	}
	if errs := validation.IsDNS1123Label(namespace); len(errs) > 0 {
		return fmt.Errorf("invalid namespace %q: %s", namespace, strings.Join(errs, "; "))
	}
	return nil
}

func validateLifetimeAnnotation(key string) error {
	if errs := validation.IsQualifiedName(key); len(errs) > 0 {
		return fmt.Errorf("invalid lifetime annotation %q: %s", key, strings.Join(errs, "; "))
	}
	return nil
}

func validateNonNegative(name string, value int64) error {
	if value < 0 {
		return fmt.Errorf("%s must not be negative, got %d", name, value)
	}
	return nil
}

func validateErrorLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("error limit must be positive, got %d", limit)
	}
	return nil
}

func validateTracing(tracing componentconfig.TracingConfiguration) error {
	if tracing.SampleRate < 0 || tracing.SampleRate > 1 {
		return fmt.Errorf("tracing sample rate must be between 0 and 1, got %v", tracing.SampleRate)
	}
	return nil
}

func validateLeaderElection(cfg *componentconfig.CleanerConfiguration) error {
	le := cfg.LeaderElection
	if !le.LeaderElect {
		return nil
	}
	if cfg.IntervalSeconds == 0 {
		return fmt.Errorf("leader election cannot be used with a single cycle (interval 0)")
	}
	if le.ResourceNamespace == "" || le.ResourceName == "" {
		return fmt.Errorf("leader election requires a lease name and namespace")
	}
	if le.RenewDeadline.Duration >= le.LeaseDuration.Duration {
		return fmt.Errorf("leader election renew deadline (%v) must be less than the lease duration (%v)", le.RenewDeadline.Duration, le.LeaseDuration.Duration)
	}
	return nil
}
