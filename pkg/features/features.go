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

package features

import (
	"k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/component-base/featuregate"
	logsapi "k8s.io/component-base/logs/api/v1"
)

const (
	// Every feature gate should add a key here following this template:
	//
	// // alpha: v0.X
	// MyFeature featuregate.Feature = "MyFeature"
	//
	// Feature gates should be listed in alphabetical, case-sensitive
	// (upper before any lower case character) order.

	// alpha: v0.3
	//
	// Delete pods stuck in the Preempting state once they pass the namespace,
	// owner and label selector checks. This used to happen unconditionally
	// and is now opt-in.
	PreemptingPodCleanup featuregate.Feature = "PreemptingPodCleanup"
)

func init() {
	runtime.Must(DefaultMutableFeatureGate.Add(defaultFeatureGates))
	runtime.Must(logsapi.AddFeatureGates(DefaultMutableFeatureGate))
}

// defaultFeatureGates consists of all known operator-specific feature keys.
//
// Entries are separated from each other with blank lines to avoid sweeping gofmt changes
// when adding or removing one entry.
var defaultFeatureGates = map[featuregate.Feature]featuregate.FeatureSpec{
	PreemptingPodCleanup: {Default: false, PreRelease: featuregate.Alpha},
}

// DefaultMutableFeatureGate is a mutable version of DefaultFeatureGate.
// Only top-level commands/options setup and tests should make use of this.
var DefaultMutableFeatureGate featuregate.MutableVersionedFeatureGate = featuregate.NewFeatureGate()

// DefaultFeatureGate is a shared read-only view of DefaultMutableFeatureGate.
var DefaultFeatureGate featuregate.FeatureGate = DefaultMutableFeatureGate
