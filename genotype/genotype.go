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

// package genotype holds an immutable individuals x loci matrix of genotype
// calls together with per-individual population labels and per-locus quality
// metrics, and the filter operations that subset it without letting the
// matrix and its metadata drift apart.

package genotype

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// DefaultPopulation is the synthetic label given to individuals constructed
// without a population assignment.
const DefaultPopulation = "pop1"

// Ploidy is the number of chromosome copies represented per individual per
// locus. It is uniform across a Dataset; mixed ploidy is invalid.
type Ploidy int

const (
	// Haploid data records presence/absence calls in {0, 1}.
	Haploid Ploidy = 1

	// Diploid data records SNP dosages in {0, 1, 2}: the count of the
	// alternate allele.
	Diploid Ploidy = 2
)

// PloidyFromInt converts an integer to a Ploidy.
func PloidyFromInt(n int) (Ploidy, error) {
	switch Ploidy(n) {
	case Haploid:
		return Haploid, nil
	case Diploid:
		return Diploid, nil
	default:
		return 0, ErrInvalidPloidy
	}
}

func (p Ploidy) maxCall() float64 { return float64(p) }

// Missing returns the genotype call used where no call could be made.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether the given call is the missing call.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Individual is one row of the dataset: a stable identifier, the current
// population label, and any extra per-individual attributes (eg. sex or
// collection site) that can substitute for the population label during
// filtering.
type Individual struct {
	ID         string
	Population string
	Attributes map[string]string
}

// Locus is one column of the dataset: a stable identifier and named numeric
// quality metrics (eg. call rate or average read depth) used as filter
// bounds.
type Locus struct {
	ID      string
	Metrics map[string]float64
}

// Dataset pairs a genotype call matrix with its individual and locus
// metadata. A Dataset is immutable: every operation returns a new Dataset
// and appends to its History, so a Dataset may be shared freely across
// independent filter pipelines.
type Dataset struct {
	ploidy      Ploidy
	calls       *mat.Dense // nil when either dimension is zero
	individuals []Individual
	loci        []Locus
	history     History
}

// New creates a Dataset from a call matrix and its metadata, validating that
// the matrix dimensions match the metadata lengths and that every call is
// within the domain permitted by the ploidy, or missing. Individuals without
// a population label are given DefaultPopulation.
func New(ploidy Ploidy, calls *mat.Dense, individuals []Individual, loci []Locus) (*Dataset, error) {
	if _, err := PloidyFromInt(int(ploidy)); err != nil {
		return nil, err
	}

	rows, cols := calls.Dims()

	if rows != len(individuals) {
		return nil, ErrIndividualCount
	}

	if cols != len(loci) {
		return nil, ErrLocusCount
	}

	if err := validateCalls(ploidy, calls); err != nil {
		return nil, err
	}

	return &Dataset{
		ploidy:      ploidy,
		calls:       calls,
		individuals: defaultPopulations(individuals),
		loci:        append([]Locus(nil), loci...),
	}, nil
}

func validateCalls(ploidy Ploidy, calls *mat.Dense) error {
	rows, cols := calls.Dims()

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := calls.At(i, j)
			if IsMissing(v) {
				continue
			}

			if v != math.Trunc(v) || v < 0 || v > ploidy.maxCall() {
				return ErrCallOutOfRange
			}
		}
	}

	return nil
}

func defaultPopulations(individuals []Individual) []Individual {
	out := append([]Individual(nil), individuals...)

	for i := range out {
		if out[i].Population == "" {
			out[i].Population = DefaultPopulation
		}
	}

	return out
}

// Ploidy returns the uniform ploidy of the dataset.
func (d *Dataset) Ploidy() Ploidy { return d.ploidy }

// NumIndividuals returns the number of matrix rows.
func (d *Dataset) NumIndividuals() int { return len(d.individuals) }

// NumLoci returns the number of matrix columns.
func (d *Dataset) NumLoci() int { return len(d.loci) }

// Call returns the genotype call for the given individual at the given
// locus. Use IsMissing to test for the missing call.
func (d *Dataset) Call(individual, locus int) float64 {
	return d.calls.At(individual, locus)
}

// Individual returns the metadata for the given matrix row.
func (d *Dataset) Individual(i int) Individual { return d.individuals[i] }

// Locus returns the metadata for the given matrix column.
func (d *Dataset) Locus(j int) Locus { return d.loci[j] }

// Individuals returns a copy of the individual metadata in row order.
func (d *Dataset) Individuals() []Individual {
	return append([]Individual(nil), d.individuals...)
}

// Loci returns a copy of the locus metadata in column order.
func (d *Dataset) Loci() []Locus {
	return append([]Locus(nil), d.loci...)
}

// History returns a copy of the operations applied to produce this dataset.
func (d *Dataset) History() History {
	return append(History(nil), d.history...)
}

// Metric returns the named metric for the given locus, and whether it is
// recorded there.
func (d *Dataset) Metric(locus int, name string) (float64, bool) {
	v, ok := d.loci[locus].Metrics[name]

	return v, ok
}

// MetricNames returns, sorted, the metric names that are recorded for every
// locus in the dataset.
func (d *Dataset) MetricNames() []string {
	if len(d.loci) == 0 {
		return nil
	}

	var names []string

	for name := range d.loci[0].Metrics {
		if d.metricEverywhere(name) {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}

func (d *Dataset) metricEverywhere(name string) bool {
	for _, locus := range d.loci {
		if _, ok := locus.Metrics[name]; !ok {
			return false
		}
	}

	return true
}

// Populations returns the distinct population labels in first-seen row
// order.
func (d *Dataset) Populations() []string {
	seen := make(map[string]bool, len(d.individuals))

	var pops []string

	for _, ind := range d.individuals {
		if !seen[ind.Population] {
			seen[ind.Population] = true

			pops = append(pops, ind.Population)
		}
	}

	return pops
}

// Validate re-checks the matrix/metadata synchronization invariant. It is a
// defensive check for consumers such as exporters; filters maintain the
// invariant by construction.
func (d *Dataset) Validate() error {
	rows, cols := d.dims()

	if rows != len(d.individuals) {
		return ErrIndividualCount
	}

	if cols != len(d.loci) {
		return ErrLocusCount
	}

	return nil
}

// dims reports the call matrix dimensions. gonum cannot represent an empty
// Dense, so a dataset that filtered down to zero rows or columns holds a nil
// matrix and the metadata lengths are authoritative.
func (d *Dataset) dims() (int, int) {
	if d.calls == nil {
		return len(d.individuals), len(d.loci)
	}

	return d.calls.Dims()
}

// KeepIndividuals returns a new Dataset containing only the rows where mask
// is true, in original relative order, with locus data unchanged and rec
// appended to the history. The mask must have one entry per individual.
func (d *Dataset) KeepIndividuals(mask []bool, rec Record) (*Dataset, error) {
	if len(mask) != len(d.individuals) {
		return nil, ErrBadMaskLength
	}

	kept := maskIndexes(mask)
	_, cols := d.dims()

	individuals := make([]Individual, len(kept))

	var calls *mat.Dense
	if len(kept) > 0 && cols > 0 {
		calls = mat.NewDense(len(kept), cols, nil)
	}

	for to, from := range kept {
		individuals[to] = d.individuals[from]

		for j := 0; j < cols; j++ {
			calls.Set(to, j, d.calls.At(from, j))
		}
	}

	return d.derive(calls, individuals, d.loci, rec), nil
}

// KeepLoci returns a new Dataset containing only the columns where mask is
// true, applying the identical index mask to the call matrix and the locus
// metadata so that the two can never drift apart. The mask must have one
// entry per locus.
func (d *Dataset) KeepLoci(mask []bool, rec Record) (*Dataset, error) {
	if len(mask) != len(d.loci) {
		return nil, ErrBadMaskLength
	}

	kept := maskIndexes(mask)
	rows, _ := d.dims()

	loci := make([]Locus, len(kept))

	var calls *mat.Dense
	if len(kept) > 0 && rows > 0 {
		calls = mat.NewDense(rows, len(kept), nil)
	}

	for to, from := range kept {
		loci[to] = d.loci[from]

		for i := 0; i < rows; i++ {
			calls.Set(i, to, d.calls.At(i, from))
		}
	}

	return d.derive(calls, d.individuals, loci, rec), nil
}

func (d *Dataset) derive(calls *mat.Dense, individuals []Individual, loci []Locus, rec Record) *Dataset {
	return &Dataset{
		ploidy:      d.ploidy,
		calls:       calls,
		individuals: append([]Individual(nil), individuals...),
		loci:        append([]Locus(nil), loci...),
		history:     d.history.Append(rec),
	}
}

func maskIndexes(mask []bool) []int {
	var kept []int

	for i, keep := range mask {
		if keep {
			kept = append(kept, i)
		}
	}

	return kept
}

// Relabel returns a new Dataset with population labels replaced according to
// the given individual id to population mapping. Individuals not in the
// mapping, and mappings to an empty label, are left unchanged. The number of
// individuals relabelled is also returned.
func (d *Dataset) Relabel(assignments map[string]string) (*Dataset, int) {
	individuals := append([]Individual(nil), d.individuals...)

	changed := 0

	for i := range individuals {
		pop, ok := assignments[individuals[i].ID]
		if !ok || pop == "" || pop == individuals[i].Population {
			continue
		}

		individuals[i].Population = pop
		changed++
	}

	return &Dataset{
		ploidy:      d.ploidy,
		calls:       d.calls,
		individuals: individuals,
		loci:        d.loci,
		history:     d.history.Append(NewRecord(OpRelabel, "individuals", strconv.Itoa(changed))),
	}, changed
}

// PopulationAttribute is the attribute name that Annotate treats as the
// population label rather than a plain attribute.
const PopulationAttribute = "population"

// Annotate returns a new Dataset with the given per-individual attributes
// merged in by individual id. An attribute named PopulationAttribute sets
// the population label (unless empty); all others land in
// Individual.Attributes. The number of individuals annotated is also
// returned.
func (d *Dataset) Annotate(attrs map[string]map[string]string) (*Dataset, int) {
	individuals := append([]Individual(nil), d.individuals...)

	changed := 0

	for i := range individuals {
		toAdd, ok := attrs[individuals[i].ID]
		if !ok || len(toAdd) == 0 {
			continue
		}

		individuals[i] = annotateIndividual(individuals[i], toAdd)
		changed++
	}

	return &Dataset{
		ploidy:      d.ploidy,
		calls:       d.calls,
		individuals: individuals,
		loci:        d.loci,
		history:     d.history.Append(NewRecord(OpAnnotate, "individuals", strconv.Itoa(changed))),
	}, changed
}

func annotateIndividual(ind Individual, toAdd map[string]string) Individual {
	merged := make(map[string]string, len(ind.Attributes)+len(toAdd))

	for k, v := range ind.Attributes {
		merged[k] = v
	}

	for k, v := range toAdd {
		if k == PopulationAttribute {
			if v != "" {
				ind.Population = v
			}

			continue
		}

		merged[k] = v
	}

	ind.Attributes = merged

	return ind
}
