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

package filters

import (
	"fmt"
	"strings"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// FilterSpec is one parsed "Status" or "Status:Reason" argument.
type FilterSpec struct {
	Status string
	// Reason is nil when any reason is accepted.
	Reason *string
}

func (f FilterSpec) String() string {
	if f.Reason == nil {
		return f.Status
	}
	return f.Status + ":" + *f.Reason
}

// ParseFilterSpec parses a single status argument.
func ParseFilterSpec(token string) (FilterSpec, error) {
	bits := strings.Split(token, ":")
	if len(bits) > 2 {
		return FilterSpec{}, fmt.Errorf("too many ':' in status selector %q", token)
	}
	if bits[0] == "" {
		return FilterSpec{}, fmt.Errorf("empty status in status selector %q", token)
	}

	spec := FilterSpec{Status: bits[0]}
	if len(bits) == 2 {
		reason := bits[1]
		spec.Reason = &reason
	}
	return spec, nil
}

// ParseFilterSpecs parses all status arguments. At least one is required.
func ParseFilterSpecs(tokens []string) ([]FilterSpec, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("at least one status is required")
	}

	var errs []error
	specs := make([]FilterSpec, 0, len(tokens))
	for _, token := range tokens {
		spec, err := ParseFilterSpec(token)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		specs = append(specs, spec)
	}
	if len(errs) > 0 {
		return nil, utilerrors.NewAggregate(errs)
	}
	return specs, nil
}

// MatchesStatus reports whether any spec accepts the given phase and reason.
// Comparison is exact and case-sensitive. An empty spec list matches nothing.
func MatchesStatus(phase, reason string, specs []FilterSpec) bool {
	for _, spec := range specs {
		if spec.Status != phase {
			continue
		}
		if spec.Reason == nil || *spec.Reason == reason {
			return true
		}
	}
	return false
}
