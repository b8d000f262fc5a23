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
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"

	"github.com/pod-cleanup-operator/pod-cleanup-operator/metrics"
)

// ErrErrorLimitReached is returned once the number of consecutive failed
// cycles reaches the error limit.
var ErrErrorLimitReached = errors.New("consecutive error limit reached")

// Cycler runs one cleanup pass.
type Cycler interface {
	RunCycle(ctx context.Context) CycleResult
}

// Loop repeats cycles and trips once errorLimit consecutive cycles failed.
type Loop struct {
	cycler            Cycler
	interval          time.Duration
	errorLimit        int
	quiet             bool
	metricsEnabled    bool
	consecutiveErrors int
}

func NewLoop(cycler Cycler, interval time.Duration, errorLimit int, quiet, metricsEnabled bool) *Loop {
	return &Loop{
		cycler:         cycler,
		interval:       interval,
		errorLimit:     errorLimit,
		quiet:          quiet,
		metricsEnabled: metricsEnabled,
	}
}

// ConsecutiveErrors gives the number of failed cycles since the last success.
func (l *Loop) ConsecutiveErrors() int {
	return l.consecutiveErrors
}

// Run repeats cycles, sleeping interval after each one, until ctx is done or
// the error limit is reached. An interval of 0 runs a single cycle and
// returns its error. Cancelling ctx never interrupts a cycle in flight.
func (l *Loop) Run(ctx context.Context) error {
	if l.interval == 0 {
		result, err := l.Step(ctx)
		if err != nil {
			return err
		}
		return result.Err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var loopErr error
	wait.UntilWithContext(ctx, func(ctx context.Context) {
		if _, err := l.Step(ctx); err != nil {
			loopErr = err
			cancel()
		}
	}, l.interval)
	return loopErr
}

// Step runs one cycle and records its outcome. It only returns an error when
// the error limit is reached.
func (l *Loop) Step(ctx context.Context) (CycleResult, error) {
	logger := klog.FromContext(ctx)
	result := l.cycler.RunCycle(context.WithoutCancel(ctx))

	if result.Err != nil {
		l.consecutiveErrors++
		l.observe()
		logger.Error(result.Err, "Cleanup cycle failed", "consecutiveErrors", l.consecutiveErrors, "errorLimit", l.errorLimit, "pods", result.PodsDeleted, "jobs", result.JobsDeleted)
		if l.consecutiveErrors >= l.errorLimit {
			return result, fmt.Errorf("%w: %d consecutive cycles failed", ErrErrorLimitReached, l.consecutiveErrors)
		}
		return result, nil
	}

	l.consecutiveErrors = 0
	l.observe()
	if !l.quiet || result.PodsDeleted+result.JobsDeleted > 0 {
		logger.Info("Deleted pods and jobs", "pods", result.PodsDeleted, "jobs", result.JobsDeleted, "dryRun", result.DryRun)
	}
	return result, nil
}

func (l *Loop) observe() {
	if l.metricsEnabled {
		metrics.ConsecutiveErrors.Set(float64(l.consecutiveErrors))
	}
}
