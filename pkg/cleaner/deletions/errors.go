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

import "fmt"

// DeletionLimitError is returned once the per-cycle deletion cap is used up.
type DeletionLimitError struct {
	limit uint
}

func (e *DeletionLimitError) Error() string {
	return fmt.Sprintf("maximum number of deletions per cycle reached (%d)", e.limit)
}

func NewDeletionLimitError(limit uint) *DeletionLimitError {
	return &DeletionLimitError{
		limit: limit,
	}
}

var _ error = &DeletionLimitError{}
