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

	"github.com/xeipuuv/gojsonschema"
	"k8s.io/apimachinery/pkg/labels"
	"sigs.k8s.io/yaml"
)

// labelSelectorSchema accepts a flat JSON object of string values.
const labelSelectorSchema = `{
  "type": "object",
  "additionalProperties": {"type": "string"}
}`

var labelSelectorSchemaLoader = gojsonschema.NewStringLoader(labelSelectorSchema)

// ParseLabelSelector parses a JSON object such as {"app":"x"} into a label set.
// An empty string is treated as "{}".
func ParseLabelSelector(raw string) (labels.Set, error) {
	if strings.TrimSpace(raw) == "" {
		raw = "{}"
	}

	result, err := gojsonschema.Validate(labelSelectorSchemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("label selector %q is not valid JSON: %w", raw, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("label selector %q must be an object of string values: %s", raw, strings.Join(msgs, "; "))
	}

	set := labels.Set{}
	if err := yaml.Unmarshal([]byte(raw), &set); err != nil {
		return nil, fmt.Errorf("unable to decode label selector %q: %w", raw, err)
	}
	if _, err := labels.ValidatedSelectorFromSet(set); err != nil {
		return nil, fmt.Errorf("invalid label selector %q: %w", raw, err)
	}
	return set, nil
}

// MatchesLabels reports whether every key of selector is present in objLabels
// with an equal value. An empty selector matches everything.
func MatchesLabels(objLabels map[string]string, selector labels.Set) bool {
	if len(selector) == 0 {
		return true
	}
	return selector.AsSelector().Matches(labels.Set(objLabels))
}
