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

// package faststructure recodes a diploid genotype dataset into the
// two-rows-per-individual allele-coded text format read by fastStructure.

package faststructure

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/inconshreveable/log15"
	"github.com/qitsweauca/dartR/genotype"
)

const (
	// LowAlleleCode and HighAlleleCode are the per-copy allele codes in the
	// output. The low allele is written as 1, never 0.
	LowAlleleCode  = "1"
	HighAlleleCode = "2"

	// MissingCode marks a missing call on both chromosome copies.
	MissingCode = "-9"

	// leadingColumns is the number of metadata columns the format mandates
	// before the genotype columns. All six are filled with the 1-based
	// individual index; consumers ignore them beyond count-validation.
	leadingColumns = 6
)

// Options carries the observability knobs for encoding. Neither field can
// affect output content or ordering.
type Options struct {
	// Logger receives a summary of what was written. May be nil.
	Logger log15.Logger

	// Progress, if non-nil, is called with the 0-based row index after each
	// individual's pair of rows has been produced.
	Progress func(individual int)
}

func (o Options) logger() log15.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	l := log15.New()
	l.SetHandler(log15.DiscardHandler())

	return l
}

// Encode recodes the dataset into fastStructure lines: two per individual in
// dataset row order, each with 6 + locus-count tab-separated fields. It
// returns a DomainError for non-diploid data and a ValidationError if the
// dataset fails its own consistency check.
func Encode(d *genotype.Dataset, opts Options) ([]string, error) {
	if err := check(d); err != nil {
		return nil, err
	}

	lines := make([]string, 0, 2*d.NumIndividuals())

	for i := 0; i < d.NumIndividuals(); i++ {
		copy1, copy2 := rowPair(d, i)
		lines = append(lines, copy1, copy2)

		if opts.Progress != nil {
			opts.Progress(i)
		}
	}

	return lines, nil
}

// Export writes the encoded dataset to the given path, replacing any
// existing file. The file is truncated once at the start and rows are then
// written strictly in individual order through a single handle, so a
// partially interleaved or reordered file can never be observed from one
// call.
func Export(d *genotype.Dataset, path string, opts Options) error {
	if err := check(d); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	err = write(d, file, opts)
	if err != nil {
		file.Close()

		return err
	}

	if err = file.Close(); err != nil {
		return err
	}

	opts.logger().Info("wrote fastStructure file", "path", path,
		"individuals", d.NumIndividuals(), "loci", d.NumLoci(),
		"lines", 2*d.NumIndividuals())

	return nil
}

func check(d *genotype.Dataset) error {
	if d.Ploidy() != genotype.Diploid {
		return genotype.ErrNotDiploid
	}

	return d.Validate()
}

func write(d *genotype.Dataset, w io.Writer, opts Options) error {
	for i := 0; i < d.NumIndividuals(); i++ {
		copy1, copy2 := rowPair(d, i)

		if _, err := io.WriteString(w, copy1+"\n"+copy2+"\n"); err != nil {
			return err
		}

		if opts.Progress != nil {
			opts.Progress(i)
		}
	}

	return nil
}

// rowPair produces the two chromosome copy rows for one individual. Dosage 0
// becomes (1,1), 2 becomes (2,2), missing becomes (-9,-9), and the
// heterozygous 1 becomes (1,2): copy 1 always gets the low allele. That is a
// fixed order-dependent convention, not haplotype phase.
func rowPair(d *genotype.Dataset, i int) (string, string) {
	index := strconv.Itoa(i + 1)

	var copy1, copy2 strings.Builder

	for n := 0; n < leadingColumns; n++ {
		if n > 0 {
			copy1.WriteByte('\t')
			copy2.WriteByte('\t')
		}

		copy1.WriteString(index)
		copy2.WriteString(index)
	}

	for j := 0; j < d.NumLoci(); j++ {
		allele1, allele2 := alleleCodes(d.Call(i, j))

		copy1.WriteByte('\t')
		copy1.WriteString(allele1)
		copy2.WriteByte('\t')
		copy2.WriteString(allele2)
	}

	return copy1.String(), copy2.String()
}

func alleleCodes(dosage float64) (string, string) {
	switch {
	case genotype.IsMissing(dosage):
		return MissingCode, MissingCode
	case dosage == 0:
		return LowAlleleCode, LowAlleleCode
	case dosage == 1:
		return LowAlleleCode, HighAlleleCode
	default:
		return HighAlleleCode, HighAlleleCode
	}
}
