/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package genotype

import (
	"fmt"
	"sort"
	"strings"
)

// Operation names recorded in dataset history.
const (
	OpFilterPopulations = "filter.populations"
	OpFilterMetricRange = "filter.metricRange"
	OpFilterPolymorphic = "filter.polymorphic"
	OpRelabel           = "relabel"
	OpAnnotate          = "annotate"
)

// Record is an immutable description of one operation applied to a Dataset:
// the operation name and its parameters.
type Record struct {
	Operation string
	Details   map[string]string
}

// NewRecord creates a Record from an operation name and alternating
// detail key, value pairs.
func NewRecord(operation string, details ...string) Record {
	m := make(map[string]string, len(details)/2)

	for i := 0; i+1 < len(details); i += 2 {
		m[details[i]] = details[i+1]
	}

	return Record{Operation: operation, Details: m}
}

// String renders the record as the operation name followed by its details in
// key order.
func (r Record) String() string {
	if len(r.Details) == 0 {
		return r.Operation
	}

	keys := make([]string, 0, len(r.Details))
	for k := range r.Details {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%s", k, r.Details[k])
	}

	return r.Operation + "(" + strings.Join(parts, ", ") + ")"
}

// History is the append-only ordered log of the operations that produced a
// Dataset. Append returns a new History; an existing one is never modified,
// so histories can be shared between datasets that diverged from a common
// ancestor.
type History []Record

// Append returns a new History consisting of this one plus the given record.
func (h History) Append(rec Record) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)

	return append(out, rec)
}
