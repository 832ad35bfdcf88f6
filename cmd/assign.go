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

	"github.com/qitsweauca/dartR/config"
	"github.com/qitsweauca/dartR/dart"
	"github.com/qitsweauca/dartR/lims"
	"github.com/qitsweauca/dartR/metadata"
	"github.com/qitsweauca/dartR/sheets"
)

const ErrProjectRequired = Error("a project name is required")

// options for this cmd.
var (
	assignOutput  string
	assignNoLIMS  bool
	assignNoSheet bool
)

// assignCmd represents the assign command.
var assignCmd = &cobra.Command{
	Use:   "assign <project>",
	Short: "Assign population labels and metadata from LIMS and the metadata sheet.",
	Long: `Assign population labels and metadata from LIMS and the metadata sheet.

Reads the report given with -i, fetches the named project's individual
metadata from the LIMS database and the field metadata Google sheet, merges
them (LIMS population assignments win over the sheet's population column),
annotates the matching individuals, and writes the relabelled report to the
path given with -o.

The DARTR_* environment variables (or a .env file) must be set with the
database and sheet credentials; see the config package. Use --no-lims or
--no-sheet to consult only one source.
`,
	Run: func(_ *cobra.Command, args []string) {
		if len(args) != 1 {
			die("%s", ErrProjectRequired.Error())
		}

		d, err := loadDataset()
		if err != nil {
			die("%s", err.Error())
		}

		if assignOutput == "" {
			die("%s", ErrOutputRequired.Error())
		}

		client, err := metadataClient()
		if err != nil {
			die("%s", err.Error())
		}

		defer client.Close()

		attrs, err := client.ForProject(args[0])
		if err != nil {
			die("%s", err.Error())
		}

		d, annotated := d.Annotate(attrs)

		if annotated == 0 {
			warn("no individuals in the report matched the project metadata")
		}

		if err := dart.Write(d, assignOutput); err != nil {
			die("%s", err.Error())
		}

		info("annotated %d of %d individuals; wrote %s",
			annotated, d.NumIndividuals(), assignOutput)
	},
}

func init() {
	RootCmd.AddCommand(assignCmd)

	addInputFlags(assignCmd)

	assignCmd.Flags().StringVarP(&assignOutput, "output", "o", "",
		"path to write the relabelled report to")
	assignCmd.Flags().BoolVar(&assignNoLIMS, "no-lims", false,
		"skip the LIMS database")
	assignCmd.Flags().BoolVar(&assignNoSheet, "no-sheet", false,
		"skip the metadata sheet")
}

func metadataClient() (*metadata.Client, error) {
	c, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	var lc metadata.LIMSClient

	if !assignNoLIMS {
		db, err := lims.New(lims.MySQLConfig(c))
		if err != nil {
			return nil, err
		}

		lc = db
	}

	var sc metadata.SheetsClient

	if !assignNoSheet {
		creds, err := sheets.ServiceCredentialsFromFile(c.CredentialsPath)
		if err != nil {
			return nil, err
		}

		s, err := sheets.New(creds)
		if err != nil {
			return nil, err
		}

		sc = s
	}

	return metadata.New(lc, sc, c.SheetID), nil
}
