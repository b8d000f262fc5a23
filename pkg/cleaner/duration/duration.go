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

// Package duration parses human friendly lifetime values such as "5min 30sec"
// or "12 hours" into a time.Duration.
package duration

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// tokenRegexp matches a single "<integer><unit>" token. Whitespace between the
// number and the unit is allowed ("12 hours").
var tokenRegexp = regexp.MustCompile(`(\d+)\s*([a-zA-Z]+)`)

// separators may appear between tokens.
const separators = " \t\n,;+"

var units = map[string]time.Duration{
	"s":       time.Second,
	"sec":     time.Second,
	"secs":    time.Second,
	"second":  time.Second,
	"seconds": time.Second,
	"m":       time.Minute,
	"min":     time.Minute,
	"mins":    time.Minute,
	"minute":  time.Minute,
	"minutes": time.Minute,
	"h":       time.Hour,
	"hr":      time.Hour,
	"hrs":     time.Hour,
	"hour":    time.Hour,
	"hours":   time.Hour,
	"d":       24 * time.Hour,
	"day":     24 * time.Hour,
	"days":    24 * time.Hour,
}

// ParseError is returned when a value cannot be parsed into a duration.
type ParseError struct {
	Value  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unable to parse duration %q: %s: %v", e.Value, e.Reason, e.Err)
	}
	return fmt.Sprintf("unable to parse duration %q: %s", e.Value, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse converts s into the sum of all its "<integer><unit>" tokens.
// Units are case-insensitive abbreviations of seconds, minutes, hours and days.
// Anything other than tokens and separators makes the whole value invalid.
func Parse(s string) (time.Duration, error) {
	matches := tokenRegexp.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return 0, &ParseError{Value: s, Reason: "no duration token found"}
	}

	var total time.Duration
	last := 0
	for _, m := range matches {
		if gap := s[last:m[0]]; strings.Trim(gap, separators) != "" {
			return 0, &ParseError{Value: s, Reason: fmt.Sprintf("unexpected text %q", strings.TrimSpace(gap))}
		}
		last = m[1]

		number, unit := s[m[2]:m[3]], strings.ToLower(s[m[4]:m[5]])
		scale, ok := units[unit]
		if !ok {
			return 0, &ParseError{Value: s, Reason: fmt.Sprintf("unknown unit %q", unit)}
		}
		n, err := strconv.ParseInt(number, 10, 64)
		if err != nil {
			return 0, &ParseError{Value: s, Reason: fmt.Sprintf("invalid number %q", number), Err: err}
		}
		if n > int64(math.MaxInt64/scale) || total > math.MaxInt64-time.Duration(n)*scale {
			return 0, &ParseError{Value: s, Reason: "duration overflows"}
		}
		total += time.Duration(n) * scale
	}
	if rest := s[last:]; strings.Trim(rest, separators) != "" {
		return 0, &ParseError{Value: s, Reason: fmt.Sprintf("unexpected text %q", strings.TrimSpace(rest))}
	}

	return total, nil
}

var humanUnits = []struct {
	size time.Duration
	name string
}{
	{24 * time.Hour, "days"},
	{time.Hour, "hrs"},
	{time.Minute, "min"},
	{time.Second, "sec"},
}

// HumanDuration renders d rounded down to the second, e.g. "1days 2hrs 3min 4sec".
func HumanDuration(d time.Duration) string {
	if d < time.Second {
		return "0sec"
	}
	var parts []string
	remainder := d
	for _, u := range humanUnits {
		q := remainder / u.size
		remainder -= q * u.size
		if q > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", q, u.name))
		}
	}
	return strings.Join(parts, " ")
}
