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
	"math"

	"github.com/spf13/cobra"

	"github.com/qitsweauca/dartR/dart"
	"github.com/qitsweauca/dartR/genotype"
	"github.com/qitsweauca/dartR/pipeline"
)

const ErrNothingToDo = Error("no filter steps given; use a pipeline file or filter flags")

// options for this cmd.
var (
	filterOutput      string
	filterPipeline    string
	filterKeep        []string
	filterSubstitute  string
	filterMetric      string
	filterMin         float64
	filterMax         float64
	filterPolymorphic bool
)

// filterCmd represents the filter command.
var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter a SNP report.",
	Long: `Filter a SNP report.

Reads the report given with -i, applies filter steps, and writes the
surviving individuals and loci back out as a report to the path given
with -o (gzipped if it ends .gz).

Steps come either from a TOML pipeline file given with -p, or from the
filter flags, which are applied in this order: --keep (subset individuals to
the given populations), then --metric with --min/--max (subset loci to those
whose metric is inside the inclusive range), then --polymorphic (drop loci
with no variation). An example run:

$ dartr filter -i report.csv -o filtered.csv --keep North,South \
    --metric RepAvg --min 0.95 --polymorphic

Requesting a population that doesn't exist only warns, but if none of the
requested populations exist the command fails. A --min above the --max is
allowed and keeps zero loci.
`,
	Run: func(_ *cobra.Command, _ []string) {
		d, err := loadDataset()
		if err != nil {
			die("%s", err.Error())
		}

		p, err := filterSteps()
		if err != nil {
			die("%s", err.Error())
		}

		d, err = p.Run(d, appLogger)
		if err != nil {
			die("%s", err.Error())
		}

		if filterOutput == "" {
			die("%s", ErrOutputRequired.Error())
		}

		if err := dart.Write(d, filterOutput); err != nil {
			die("%s", err.Error())
		}

		info("wrote filtered report with %d individuals and %d loci to %s",
			d.NumIndividuals(), d.NumLoci(), filterOutput)
	},
}

func init() {
	RootCmd.AddCommand(filterCmd)

	addInputFlags(filterCmd)

	filterCmd.Flags().StringVarP(&filterOutput, "output", "o", "",
		"path to write the filtered report to")
	filterCmd.Flags().StringVarP(&filterPipeline, "pipeline", "p", "",
		"path to a TOML pipeline file of filter steps")
	filterCmd.Flags().StringSliceVar(&filterKeep, "keep", nil,
		"population labels to keep individuals from")
	filterCmd.Flags().StringVar(&filterSubstitute, "substitute", "",
		"individual attribute to match --keep against instead of the population label")
	filterCmd.Flags().StringVar(&filterMetric, "metric", "",
		"locus metric to filter loci by")
	filterCmd.Flags().Float64Var(&filterMin, "min", math.Inf(-1),
		"lowest metric value to keep (inclusive)")
	filterCmd.Flags().Float64Var(&filterMax, "max", math.Inf(1),
		"highest metric value to keep (inclusive)")
	filterCmd.Flags().BoolVar(&filterPolymorphic, "polymorphic", false,
		"drop monomorphic and all-missing loci")
}

// filterSteps builds the pipeline to run, from the pipeline file if one was
// given, otherwise from the individual filter flags.
func filterSteps() (*pipeline.Pipeline, error) {
	if filterPipeline != "" {
		return pipeline.Load(filterPipeline)
	}

	p := &pipeline.Pipeline{}

	if len(filterKeep) > 0 {
		p.Steps = append(p.Steps, pipeline.Step{
			Op:         pipeline.OpPopulations,
			Keep:       filterKeep,
			Substitute: filterSubstitute,
		})
	}

	if filterMetric != "" {
		p.Steps = append(p.Steps, pipeline.Step{
			Op:     pipeline.OpMetric,
			Metric: filterMetric,
			Min:    &filterMin,
			Max:    &filterMax,
		})
	}

	if filterPolymorphic {
		p.Steps = append(p.Steps, pipeline.Step{Op: pipeline.OpPolymorphic})
	}

	if len(p.Steps) == 0 {
		return nil, ErrNothingToDo
	}

	return p, nil
}

// applyOptionalPipeline is shared with the export command, where filtering
// before export is optional.
func applyOptionalPipeline(d *genotype.Dataset, path string) (*genotype.Dataset, error) {
	if path == "" {
		return d, nil
	}

	p, err := pipeline.Load(path)
	if err != nil {
		return nil, err
	}

	return p.Run(d, appLogger)
}
