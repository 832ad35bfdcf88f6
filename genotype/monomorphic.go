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

// MonomorphicLoci returns a mask with one entry per locus, true where the
// locus carries no informative variation: either every non-missing call
// across all individuals is identical, or there are no non-missing calls at
// all.
//
// The mask does not itself remove anything; combine it (inverted) with
// KeepLoci, or use FilterPolymorphic.
func MonomorphicLoci(d *Dataset) []bool {
	mask := make([]bool, d.NumLoci())

	for j := range mask {
		mask[j] = locusIsMonomorphic(d, j)
	}

	return mask
}

func locusIsMonomorphic(d *Dataset, j int) bool {
	first := Missing()
	seen := false

	for i := 0; i < d.NumIndividuals(); i++ {
		v := d.Call(i, j)
		if IsMissing(v) {
			continue
		}

		if !seen {
			first = v
			seen = true

			continue
		}

		if v != first {
			return false
		}
	}

	return true
}

// FilterPolymorphic returns a new Dataset with monomorphic and all-missing
// loci removed, using the same paired matrix/metadata removal as the metric
// filter.
func FilterPolymorphic(d *Dataset, opts FilterOptions) (*Dataset, error) {
	mono := MonomorphicLoci(d)

	keep := make([]bool, len(mono))
	for j, isMono := range mono {
		keep[j] = !isMono
	}

	out, err := d.KeepLoci(keep, NewRecord(OpFilterPolymorphic))
	if err != nil {
		return nil, err
	}

	opts.logger().Info("removed monomorphic loci",
		"before", d.NumLoci(), "after", out.NumLoci())

	return out, nil
}
