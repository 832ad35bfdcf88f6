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
	"strconv"
	"strings"

	"github.com/inconshreveable/log15"
	"gonum.org/v1/gonum/stat"
)

// FilterOptions carries the observability knobs shared by the filter
// operations. Verbosity is always explicit: operations log through the given
// Logger and never read ambient state, so logging can never change a
// computed result.
type FilterOptions struct {
	// Logger receives warnings and progress diagnostics. May be nil.
	Logger log15.Logger

	// SubstituteSource names an individual attribute (eg. "sex") to use in
	// place of the population label when matching keep labels. The returned
	// dataset keeps the original population labels.
	SubstituteSource string
}

func (o FilterOptions) logger() log15.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	l := log15.New()
	l.SetHandler(log15.DiscardHandler())

	return l
}

// FilterPopulations returns a new Dataset containing only individuals whose
// population label (or substitute attribute, see
// FilterOptions.SubstituteSource) is amongst keep, in original relative
// order, with locus data unchanged.
//
// Requested labels absent from the dataset are dropped with a warning; if
// none remain, a ConfigurationError is returned.
func FilterPopulations(d *Dataset, keep []string, opts FilterOptions) (*Dataset, error) {
	logger := opts.logger()

	labels, err := workingLabels(d, opts.SubstituteSource)
	if err != nil {
		return nil, err
	}

	working := presentLabels(keep, labels, logger)
	if len(working) == 0 {
		return nil, ErrNoPopulationsLeft
	}

	mask := make([]bool, len(labels))
	for i, label := range labels {
		mask[i] = working[label]
	}

	out, err := d.KeepIndividuals(mask, NewRecord(OpFilterPopulations,
		"kept", strings.Join(sortedKeys(working), ","),
		"substitute", opts.SubstituteSource,
	))
	if err != nil {
		return nil, err
	}

	logger.Info("filtered individuals by population",
		"before", d.NumIndividuals(), "after", out.NumIndividuals(),
		"populations", len(working))

	return out, nil
}

// workingLabels returns the label to match for each individual: the
// population label, or the named attribute when a substitute source is
// given. Every individual must carry the substitute attribute.
func workingLabels(d *Dataset, substitute string) ([]string, error) {
	labels := make([]string, d.NumIndividuals())

	for i := range labels {
		ind := d.Individual(i)

		if substitute == "" {
			labels[i] = ind.Population

			continue
		}

		label, ok := ind.Attributes[substitute]
		if !ok || label == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAttribute, substitute)
		}

		labels[i] = label
	}

	return labels, nil
}

// presentLabels intersects the requested labels with those actually in the
// dataset, warning about each request that matches nothing.
func presentLabels(keep, labels []string, logger log15.Logger) map[string]bool {
	present := make(map[string]bool, len(labels))
	for _, label := range labels {
		present[label] = true
	}

	working := make(map[string]bool, len(keep))

	for _, label := range keep {
		if !present[label] {
			logger.Warn("requested population not present in dataset; ignoring", "population", label)

			continue
		}

		working[label] = true
	}

	return working
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// FilterMetricRange returns a new Dataset keeping only loci whose named
// metric m satisfies lower <= m <= upper (inclusive on both bounds). The
// call matrix columns and the locus metadata are subset by the identical
// index mask.
//
// A ConfigurationError is returned if the metric is not recorded for every
// locus. Bounds are not order-checked: lower > upper yields zero surviving
// loci, which is valid but warned about.
func FilterMetricRange(d *Dataset, metric string, lower, upper float64, opts FilterOptions) (*Dataset, error) {
	logger := opts.logger()

	if lower > upper {
		logger.Warn("lower bound exceeds upper bound; no loci can survive",
			"metric", metric, "lower", lower, "upper", upper)
	}

	mask := make([]bool, d.NumLoci())
	kept := make([]float64, 0, d.NumLoci())

	for j := range mask {
		v, ok := d.Metric(j, metric)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
		}

		if lower <= v && v <= upper {
			mask[j] = true

			kept = append(kept, v)
		}
	}

	out, err := d.KeepLoci(mask, NewRecord(OpFilterMetricRange,
		"metric", metric,
		"lower", formatBound(lower),
		"upper", formatBound(upper),
	))
	if err != nil {
		return nil, err
	}

	logFilteredLoci(logger, d, out, metric, kept)

	return out, nil
}

func logFilteredLoci(logger log15.Logger, before, after *Dataset, metric string, kept []float64) {
	ctx := []interface{}{
		"metric", metric,
		"before", before.NumLoci(), "after", after.NumLoci(),
		"individuals", after.NumIndividuals(),
		"populations", len(after.Populations()),
	}

	if len(kept) > 0 {
		ctx = append(ctx, "mean", stat.Mean(kept, nil))
	}

	logger.Info("filtered loci by metric range", ctx...)
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
