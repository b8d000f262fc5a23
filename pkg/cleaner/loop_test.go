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
)

type scriptedCycler struct {
	results []CycleResult
	calls   int
	// onCall runs after each cycle with the number of calls so far.
	onCall func(calls int)
	// ctxErrs records whether each cycle saw a cancelled context.
	ctxErrs []error
}

func (s *scriptedCycler) RunCycle(ctx context.Context) CycleResult {
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	result := CycleResult{}
	if s.calls < len(s.results) {
		result = s.results[s.calls]
	}
	s.calls++
	if s.onCall != nil {
		s.onCall(s.calls)
	}
	return result
}

var errCycle = errors.New("cycle failed")

func TestLoopErrorLimit(t *testing.T) {
	ok := CycleResult{PodsDeleted: 1}
	failed := CycleResult{Err: errCycle}

	tests := []struct {
		description string
		results     []CycleResult
		errorLimit  int
		wantCalls   int
	}{
		{
			description: "trips after the limit of consecutive failures",
			results:     []CycleResult{failed, failed, failed},
			errorLimit:  3,
			wantCalls:   3,
		},
		{
			description: "a success resets the counter",
			results:     []CycleResult{failed, failed, ok, failed, failed, failed},
			errorLimit:  3,
			wantCalls:   6,
		},
		{
			description: "limit of one trips on the first failure",
			results:     []CycleResult{ok, ok, failed},
			errorLimit:  1,
			wantCalls:   3,
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			cycler := &scriptedCycler{results: tc.results}
			loop := NewLoop(cycler, time.Millisecond, tc.errorLimit, false, false)

			err := loop.Run(context.Background())
			if !errors.Is(err, ErrErrorLimitReached) {
				t.Fatalf("expected ErrErrorLimitReached, got %v", err)
			}
			if cycler.calls != tc.wantCalls {
				t.Errorf("expected %d cycles, got %d", tc.wantCalls, cycler.calls)
			}
			if loop.ConsecutiveErrors() != tc.errorLimit {
				t.Errorf("expected %d consecutive errors, got %d", tc.errorLimit, loop.ConsecutiveErrors())
			}
		})
	}
}

func TestLoopStep(t *testing.T) {
	cycler := &scriptedCycler{results: []CycleResult{{Err: errCycle}, {Err: errCycle}, {JobsDeleted: 2}}}
	loop := NewLoop(cycler, time.Minute, 5, true, false)
	ctx := context.Background()

	for i, want := range []int{1, 2, 0} {
		if _, err := loop.Step(ctx); err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		if got := loop.ConsecutiveErrors(); got != want {
			t.Errorf("step %d: expected %d consecutive errors, got %d", i, want, got)
		}
	}
}

func TestLoopSingleCycle(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		cycler := &scriptedCycler{results: []CycleResult{{PodsDeleted: 3}}}
		if err := NewLoop(cycler, 0, 5, false, false).Run(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if cycler.calls != 1 {
			t.Errorf("expected a single cycle, got %d", cycler.calls)
		}
	})

	t.Run("failure", func(t *testing.T) {
		cycler := &scriptedCycler{results: []CycleResult{{Err: errCycle}}}
		err := NewLoop(cycler, 0, 5, false, false).Run(context.Background())
		if !errors.Is(err, errCycle) {
			t.Errorf("expected the cycle error, got %v", err)
		}
		if cycler.calls != 1 {
			t.Errorf("expected a single cycle, got %d", cycler.calls)
		}
	})
}

func TestLoopStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cycler := &scriptedCycler{}
	cycler.onCall = func(calls int) {
		if calls == 2 {
			cancel()
		}
	}
	loop := NewLoop(cycler, time.Millisecond, 5, false, false)

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected a clean stop, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
	if cycler.calls != 2 {
		t.Errorf("expected 2 cycles, got %d", cycler.calls)
	}
	for i, err := range cycler.ctxErrs {
		if err != nil {
			t.Errorf("cycle %d ran with a cancelled context: %v", i, err)
		}
	}
}
