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

	"github.com/qitsweauca/dartR/faststructure"
)

// options for this cmd.
var (
	exportOutput       string
	exportPipeline     string
	exportK            int
	exportOutPrefix    string
	exportPrintCommand bool
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a SNP report for fastStructure.",
	Long: `Export a SNP report for fastStructure.

Reads the diploid report given with -i, optionally applies a TOML filter
pipeline first (-p), then recodes it into the str format fastStructure
reads and writes it to the path given with -o (conventionally ending .str).
Any existing file at that path is replaced.

Each individual contributes two consecutive lines, one per chromosome copy,
each with six index columns followed by one allele code per locus: 1 for the
low allele, 2 for the high allele, -9 for missing. Haploid reports cannot be
exported to this format.

With --print-command, the fastStructure command line to run on the exported
file is printed to stdout; set -K to the number of ancestral populations to
model.
`,
	Run: func(_ *cobra.Command, _ []string) {
		d, err := loadDataset()
		if err != nil {
			die("%s", err.Error())
		}

		d, err = applyOptionalPipeline(d, exportPipeline)
		if err != nil {
			die("%s", err.Error())
		}

		if exportOutput == "" {
			die("%s", ErrOutputRequired.Error())
		}

		err = faststructure.Export(d, exportOutput, faststructure.Options{Logger: appLogger})
		if err != nil {
			die("%s", err.Error())
		}

		info("exported %d individuals at %d loci to %s",
			d.NumIndividuals(), d.NumLoci(), exportOutput)

		if exportPrintCommand {
			job := faststructure.NewJob(exportOutput, outPrefix(), exportK)
			cliPrint("%s\n", job.Command())
		}
	},
}

func init() {
	RootCmd.AddCommand(exportCmd)

	addInputFlags(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"path to write the fastStructure file to")
	exportCmd.Flags().StringVarP(&exportPipeline, "pipeline", "p", "",
		"path to a TOML pipeline file of filter steps to apply before export")
	exportCmd.Flags().IntVarP(&exportK, "k", "K", faststructure.DefaultK,
		"number of ancestral populations for the printed fastStructure command")
	exportCmd.Flags().StringVar(&exportOutPrefix, "out-prefix", "",
		"output prefix for the printed fastStructure command (default: the input prefix)")
	exportCmd.Flags().BoolVar(&exportPrintCommand, "print-command", false,
		"print the fastStructure command line for the exported file")
}

func outPrefix() string {
	if exportOutPrefix != "" {
		return exportOutPrefix
	}

	return faststructure.InputPrefix(exportOutput)
}
