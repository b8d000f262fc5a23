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

package duration

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Duration
		wantErr bool
	}{
		{name: "minutes and seconds", value: "5min 30sec", want: 330 * time.Second},
		{name: "reversed order", value: "30sec 5min", want: 330 * time.Second},
		{name: "space between number and unit", value: "12 hours", want: 43200 * time.Second},
		{name: "single letter units", value: "1d2h3m4s", want: 26*time.Hour + 3*time.Minute + 4*time.Second},
		{name: "case insensitive", value: "2HOURS", want: 2 * time.Hour},
		{name: "comma separated", value: "1 day, 6 hours", want: 30 * time.Hour},
		{name: "surrounding whitespace", value: "  45sec  ", want: 45 * time.Second},
		{name: "repeated unit is summed", value: "1min 1min", want: 2 * time.Minute},
		{name: "empty", value: "", wantErr: true},
		{name: "no tokens", value: "abc", wantErr: true},
		{name: "number without unit", value: "300", wantErr: true},
		{name: "unknown unit", value: "5 fortnights", wantErr: true},
		{name: "fractional number", value: "5.5min", wantErr: true},
		{name: "negative number", value: "-5min", wantErr: true},
		{name: "trailing garbage", value: "5min later!", wantErr: true},
		{name: "number too large", value: "99999999999999999999sec", wantErr: true},
		{name: "overflowing sum", value: "106751days 106751days", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %v, expected an error", tt.value, got)
				}
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Errorf("Parse(%q) returned %T, expected *ParseError", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, expected %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestHumanDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0sec"},
		{500 * time.Millisecond, "0sec"},
		{90 * time.Second, "1min 30sec"},
		{26*time.Hour + 3*time.Minute + 4*time.Second, "1days 2hrs 3min 4sec"},
		{2 * time.Hour, "2hrs"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := HumanDuration(tt.in); got != tt.want {
				t.Errorf("HumanDuration(%v) = %q, expected %q", tt.in, got, tt.want)
			}
		})
	}
}
