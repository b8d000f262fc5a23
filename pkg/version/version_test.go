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

package version

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    Info
	}{
		{
			name:    "release tag",
			version: "v0.3.1",
			want: Info{
				Major:      "0",
				Minor:      "3.1",
				GitVersion: "v0.3.1",
			},
		},
		{
			name:    "local build ahead of a tag",
			version: "v0.3.1-5-g79990946",
			want: Info{
				Major:      "0",
				Minor:      "3.1",
				GitVersion: "v0.3.1-5-g79990946",
			},
		},
		{
			name:    "automated container release tag",
			version: "v20260519-v1.2.0",
			want: Info{
				Major:      "1",
				Minor:      "2.0",
				GitVersion: "v20260519-v1.2.0",
			},
		},
		{
			name:    "unparsable version",
			version: "main",
			want: Info{
				GitVersion: "main",
			},
		},
		{
			name: "unset version",
			want: Info{},
		},
	}
	ignoreRuntimeFields := cmpopts.IgnoreFields(Info{}, "GoVersion", "Compiler", "Platform")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version = tt.version
			defer func() { version = "" }()
			got := Get()
			if diff := cmp.Diff(tt.want, got, ignoreRuntimeFields); diff != "" {
				t.Errorf("Get (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	if got := (Info{}).String(); got != "devel" {
		t.Errorf("expected devel for an unset version, got %q", got)
	}
	if got := (Info{GitVersion: "v0.3.1"}).String(); got != "v0.3.1" {
		t.Errorf("expected v0.3.1, got %q", got)
	}
}
