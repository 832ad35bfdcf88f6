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

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/qitsweauca/dartR/dart"
	"github.com/qitsweauca/dartR/genotype"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInputRequired  = Error("an input report is required (-i)")
	ErrOutputRequired = Error("an output path is required (-o)")

	inputFlag  = "input"
	popsFlag   = "pops"
	ploidyFlag = "ploidy"
)

// options shared by the sub-commands that read a report.
var (
	inputPath string
	popsPath  string
	ploidyInt int
)

// addInputFlags registers the report-reading options on a sub-command.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&inputPath, inputFlag, "i", "",
		"path to the SNP report to read (.csv or .csv.gz)")
	cmd.Flags().StringVar(&popsPath, popsFlag, "",
		"path to a CSV of per-individual metadata (id column plus eg. population, sex)")
	cmd.Flags().IntVar(&ploidyInt, ploidyFlag, int(genotype.Diploid),
		"ploidy of the report's calls: 1 for presence/absence, 2 for SNP dosages")
}

// loadDataset reads the report (and optional populations file) named by the
// input flags.
func loadDataset() (*genotype.Dataset, error) {
	if inputPath == "" {
		return nil, ErrInputRequired
	}

	ploidy, err := genotype.PloidyFromInt(ploidyInt)
	if err != nil {
		return nil, err
	}

	return dart.Read(inputPath, dart.ReadOptions{
		Ploidy:          ploidy,
		PopulationsPath: popsPath,
		Logger:          appLogger,
	})
}
