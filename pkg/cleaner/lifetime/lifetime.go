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

package lifetime

import (
	"context"
	"time"

	"k8s.io/klog/v2"

	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/cleaner/candidate"
	"github.com/pod-cleanup-operator/pod-cleanup-operator/pkg/cleaner/duration"
)

// DefaultAnnotation is the annotation holding the maximum age of a resource.
const DefaultAnnotation = "pod.kubernetes.io/lifetime"

// DeclaredLifetime returns the lifetime declared through annotationKey.
// ok is false when the annotation is absent.
func DeclaredLifetime(c *candidate.Candidate, annotationKey string) (lifetime time.Duration, ok bool, err error) {
	value, found := c.Annotations[annotationKey]
	if !found {
		return 0, false, nil
	}
	lifetime, err = duration.Parse(value)
	if err != nil {
		return 0, false, err
	}
	return lifetime, true, nil
}

// IsExpired reports whether the candidate is at least as old as its declared
// lifetime. A missing or unparsable annotation never expires the candidate.
func IsExpired(ctx context.Context, c *candidate.Candidate, annotationKey string, now time.Time) bool {
	lifetime, ok, err := DeclaredLifetime(c, annotationKey)
	if err != nil {
		klog.FromContext(ctx).Error(err, "Ignoring lifetime annotation", "kind", c.Kind, "resource", klog.KObj(c), "annotation", annotationKey, "value", c.Annotations[annotationKey])
		return false
	}
	if !ok {
		return false
	}

	age := now.Sub(c.CreationTimestamp)
	if age < lifetime {
		return false
	}
	klog.FromContext(ctx).V(2).Info("Resource exceeded its lifetime", "kind", c.Kind, "resource", klog.KObj(c), "lifetime", c.Annotations[annotationKey], "age", duration.HumanDuration(age))
	return true
}
