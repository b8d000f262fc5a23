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

package deletions

type Options struct {
	dryRun                           bool
	maxDeletionsPerCycle             *uint
	deletionFailureEventNotification bool
	metricsEnabled                   bool
}

// NewOptions returns an Options with default values: no cap, real deletions.
func NewOptions() *Options {
	return &Options{}
}

func (o *Options) WithDryRun(dryRun bool) *Options {
	o.dryRun = dryRun
	return o
}

// WithMaxDeletionsPerCycle caps deletion attempts. nil means unlimited.
func (o *Options) WithMaxDeletionsPerCycle(maxDeletionsPerCycle *uint) *Options {
	o.maxDeletionsPerCycle = maxDeletionsPerCycle
	return o
}

func (o *Options) WithMetricsEnabled(metricsEnabled bool) *Options {
	o.metricsEnabled = metricsEnabled
	return o
}

func (o *Options) WithDeletionFailureEventNotification(deletionFailureEventNotification *bool) *Options {
	if deletionFailureEventNotification != nil {
		o.deletionFailureEventNotification = *deletionFailureEventNotification
	}
	return o
}
