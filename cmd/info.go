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
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/qitsweauca/dartR/genotype"
)

// infoCmd represents the info command.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarise a SNP report.",
	Long: `Summarise a SNP report.

Reads the report given with -i and prints its dimensions, ploidy, the
populations and their sizes, the range of each locus quality metric, and the
operations recorded in its history. Useful for picking metric bounds before
running filter.
`,
	Run: func(_ *cobra.Command, _ []string) {
		d, err := loadDataset()
		if err != nil {
			die("%s", err.Error())
		}

		printSummary(d)
	},
}

func init() {
	RootCmd.AddCommand(infoCmd)

	addInputFlags(infoCmd)
}

func printSummary(d *genotype.Dataset) {
	cliPrint("individuals: %d\nloci: %d\nploidy: %d\n",
		d.NumIndividuals(), d.NumLoci(), d.Ploidy())

	cliPrint("\npopulations:\n")

	sizes := populationSizes(d)
	for _, pop := range d.Populations() {
		cliPrint("  %s: %d\n", pop, sizes[pop])
	}

	printMetrics(d)

	if history := d.History(); len(history) > 0 {
		cliPrint("\nhistory:\n")

		for _, rec := range history {
			cliPrint("  %s\n", rec.String())
		}
	}
}

func populationSizes(d *genotype.Dataset) map[string]int {
	sizes := make(map[string]int)

	for i := 0; i < d.NumIndividuals(); i++ {
		sizes[d.Individual(i).Population]++
	}

	return sizes
}

func printMetrics(d *genotype.Dataset) {
	names := d.MetricNames()
	if len(names) == 0 {
		return
	}

	cliPrint("\nmetrics:\n")

	for _, name := range names {
		values := metricValues(d, name)
		cliPrint("  %s: min %g, mean %g, max %g\n",
			name, floats.Min(values), stat.Mean(values, nil), floats.Max(values))
	}
}

func metricValues(d *genotype.Dataset, name string) []float64 {
	values := make([]float64, d.NumLoci())

	for j := range values {
		values[j], _ = d.Metric(j, name)
	}

	return values
}
