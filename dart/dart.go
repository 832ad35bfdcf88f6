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

// package dart reads and writes DArT-style SNP report files: CSV with one
// row per locus, where locus quality metric columns are followed by one
// dosage column per individual. Files ending .gz are transparently
// (de)compressed.
//
// The layout is:
//
//	row 1: CloneID, <metric names...>, <individual ids...>
//	row 2: pop,     <blank...>,        <population labels...>
//	rest:  locusID, <metric values...>, <dosage calls...>
//
// Metric columns are told apart from individual columns by the second row:
// metric cells there are blank, individual cells carry the population label.
// Dosage calls are 0, 1 or 2 for diploid data (0 or 1 for haploid), with "-"
// for missing.
package dart

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/inconshreveable/log15"
	"github.com/klauspost/compress/gzip"
	"github.com/qitsweauca/dartR/genotype"
	"gonum.org/v1/gonum/mat"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrEmptyReport    = Error("report contains no locus rows")
	ErrNoIndividuals  = Error("report contains no individual columns")
	ErrBadHeader      = Error("report must start with a CloneID column")
	ErrMissingPopRow  = Error("report is missing the population row")
	ErrBadGenotype    = Error("genotype cell is not a valid dosage call")
	ErrRaggedRow      = Error("locus row has the wrong number of cells")
	ErrNoIDColumn     = Error("populations file must have an id column")
	ErrDuplicateInd   = Error("duplicate individual id in populations file")
	ErrPopsFileEmpty  = Error("populations file contains no rows")

	locusIDHeader = "CloneID"
	popRowMarker  = "pop"
	missingCell   = "-"

	gzipSuffix = ".gz"
	filePerm   = 0644
)

// ReadOptions adjusts how a report is read.
type ReadOptions struct {
	// Ploidy of the calls in the report. Defaults to Diploid.
	Ploidy genotype.Ploidy

	// PopulationsPath optionally names a CSV of per-individual metadata
	// (see ReadPopulations) applied on top of the report's population row.
	PopulationsPath string

	// Logger receives progress diagnostics. May be nil.
	Logger log15.Logger
}

func (o ReadOptions) ploidy() genotype.Ploidy {
	if o.Ploidy == 0 {
		return genotype.Diploid
	}

	return o.Ploidy
}

func (o ReadOptions) logger() log15.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	l := log15.New()
	l.SetHandler(log15.DiscardHandler())

	return l
}

// Read parses the report at the given path into a Dataset.
func Read(path string, opts ReadOptions) (*genotype.Dataset, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	d, err := datasetFromRows(rows, opts.ploidy())
	if err != nil {
		return nil, err
	}

	if opts.PopulationsPath != "" {
		d, err = annotateFromFile(d, opts.PopulationsPath, opts.logger())
		if err != nil {
			return nil, err
		}
	}

	opts.logger().Info("read report", "path", path,
		"individuals", d.NumIndividuals(), "loci", d.NumLoci(),
		"populations", len(d.Populations()))

	return d, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer file.Close()

	var r io.Reader = file

	if strings.HasSuffix(path, gzipSuffix) {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, err
		}

		defer gz.Close()

		r = gz
	}

	return csv.NewReader(r).ReadAll()
}

func datasetFromRows(rows [][]string, ploidy genotype.Ploidy) (*genotype.Dataset, error) {
	header, popRow, locusRows, err := splitRows(rows)
	if err != nil {
		return nil, err
	}

	metricCols, indCols := classifyColumns(popRow)
	if len(indCols) == 0 {
		return nil, ErrNoIndividuals
	}

	individuals := make([]genotype.Individual, len(indCols))
	for i, col := range indCols {
		individuals[i] = genotype.Individual{ID: header[col], Population: popRow[col]}
	}

	loci, calls, err := parseLocusRows(locusRows, header, metricCols, indCols, ploidy)
	if err != nil {
		return nil, err
	}

	return genotype.New(ploidy, calls, individuals, loci)
}

func splitRows(rows [][]string) ([]string, []string, [][]string, error) {
	if len(rows) < 2 || len(rows[0]) == 0 || rows[0][0] != locusIDHeader {
		return nil, nil, nil, ErrBadHeader
	}

	if len(rows[1]) != len(rows[0]) || rows[1][0] != popRowMarker {
		return nil, nil, nil, ErrMissingPopRow
	}

	if len(rows) == 2 {
		return nil, nil, nil, ErrEmptyReport
	}

	return rows[0], rows[1], rows[2:], nil
}

// classifyColumns splits the non-CloneID columns into metric and individual
// columns based on the population row: individual cells there are non-blank.
func classifyColumns(popRow []string) (metricCols, indCols []int) {
	for col := 1; col < len(popRow); col++ {
		if popRow[col] == "" {
			metricCols = append(metricCols, col)
		} else {
			indCols = append(indCols, col)
		}
	}

	return metricCols, indCols
}

func parseLocusRows(rows [][]string, header []string, metricCols, indCols []int,
	ploidy genotype.Ploidy) ([]genotype.Locus, *mat.Dense, error) {
	loci := make([]genotype.Locus, len(rows))
	data := make([]float64, len(indCols)*len(rows))

	c := converter{}

	for rowNum, row := range rows {
		if len(row) != len(header) {
			return nil, nil, ErrRaggedRow
		}

		metrics := make(map[string]float64, len(metricCols))
		for _, col := range metricCols {
			metrics[header[col]] = c.ToFloat(row[col])
		}

		loci[rowNum] = genotype.Locus{ID: row[0], Metrics: metrics}

		for i, col := range indCols {
			// data is laid out locus-major here; transposed below
			data[rowNum*len(indCols)+i] = c.ToCall(row[col])
		}
	}

	if c.Err != nil {
		return nil, nil, c.Err
	}

	return loci, transpose(data, len(rows), len(indCols)), nil
}

// transpose converts the locus-major parse order into the individuals x loci
// matrix the Dataset holds.
func transpose(data []float64, numLoci, numInds int) *mat.Dense {
	calls := mat.NewDense(numInds, numLoci, nil)

	for j := 0; j < numLoci; j++ {
		for i := 0; i < numInds; i++ {
			calls.Set(i, j, data[j*numInds+i])
		}
	}

	return calls
}

// ReadPopulations parses a per-individual metadata CSV with an "id" column
// and any further columns (eg. population, sex, site), returning attribute
// maps keyed by individual id, suitable for Dataset.Annotate.
func ReadPopulations(path string) (map[string]map[string]string, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, ErrPopsFileEmpty
	}

	header := rows[0]

	idCol := -1

	for col, name := range header {
		if name == "id" {
			idCol = col

			break
		}
	}

	if idCol == -1 {
		return nil, ErrNoIDColumn
	}

	if len(rows) == 1 {
		return nil, ErrPopsFileEmpty
	}

	return attributeRows(rows[1:], header, idCol)
}

func attributeRows(rows [][]string, header []string, idCol int) (map[string]map[string]string, error) {
	attrs := make(map[string]map[string]string, len(rows))

	for _, row := range rows {
		id := row[idCol]

		if _, dup := attrs[id]; dup {
			return nil, ErrDuplicateInd
		}

		m := make(map[string]string, len(header)-1)

		for col, name := range header {
			if col == idCol || col >= len(row) || row[col] == "" {
				continue
			}

			m[name] = row[col]
		}

		attrs[id] = m
	}

	return attrs, nil
}

func annotateFromFile(d *genotype.Dataset, path string, logger log15.Logger) (*genotype.Dataset, error) {
	attrs, err := ReadPopulations(path)
	if err != nil {
		return nil, err
	}

	out, changed := d.Annotate(attrs)

	logger.Info("annotated individuals from populations file",
		"path", path, "annotated", changed)

	return out, nil
}

// Write saves the dataset as a report at the given path, replacing any
// existing file, so that a filter pipeline's result can be re-read later.
// Only metrics recorded for every locus are written.
func Write(d *genotype.Dataset, path string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return err
	}

	var w io.Writer = file

	var gz *gzip.Writer

	if strings.HasSuffix(path, gzipSuffix) {
		gz = gzip.NewWriter(file)
		w = gz
	}

	err = writeRows(d, csv.NewWriter(w))

	if gz != nil {
		if gzErr := gz.Close(); err == nil {
			err = gzErr
		}
	}

	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	return err
}

func writeRows(d *genotype.Dataset, w *csv.Writer) error {
	metricNames := d.MetricNames()

	if err := w.Write(headerRow(d, metricNames)); err != nil {
		return err
	}

	if err := w.Write(populationRow(d, metricNames)); err != nil {
		return err
	}

	for j := 0; j < d.NumLoci(); j++ {
		if err := w.Write(locusRow(d, j, metricNames)); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

func headerRow(d *genotype.Dataset, metricNames []string) []string {
	row := append([]string{locusIDHeader}, metricNames...)

	for i := 0; i < d.NumIndividuals(); i++ {
		row = append(row, d.Individual(i).ID)
	}

	return row
}

func populationRow(d *genotype.Dataset, metricNames []string) []string {
	row := make([]string, 1+len(metricNames), 1+len(metricNames)+d.NumIndividuals())
	row[0] = popRowMarker

	for i := 0; i < d.NumIndividuals(); i++ {
		row = append(row, d.Individual(i).Population)
	}

	return row
}

func locusRow(d *genotype.Dataset, j int, metricNames []string) []string {
	locus := d.Locus(j)

	row := make([]string, 0, 1+len(metricNames)+d.NumIndividuals())
	row = append(row, locus.ID)

	for _, name := range metricNames {
		row = append(row, strconv.FormatFloat(locus.Metrics[name], 'g', -1, 64))
	}

	for i := 0; i < d.NumIndividuals(); i++ {
		row = append(row, formatCall(d.Call(i, j)))
	}

	return row
}

func formatCall(v float64) string {
	if genotype.IsMissing(v) {
		return missingCell
	}

	return strconv.Itoa(int(v))
}
