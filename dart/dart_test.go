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

package dart

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/qitsweauca/dartR/genotype"
)

const exampleReport = `CloneID,RepAvg,AvgReadDepth,ind1,ind2,ind3
pop,,,A,A,B
L1,1.0,10,0,1,2
L2,0.95,20,1,1,-
L3,0.90,5,2,NA,0
`

func writeReport(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)

	err := os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	return path
}

func TestRead(t *testing.T) {
	Convey("Given a report file, you can Read it into a Dataset", t, func() {
		path := writeReport(t, "report.csv", exampleReport)

		d, err := Read(path, ReadOptions{})
		So(err, ShouldBeNil)
		So(d.NumIndividuals(), ShouldEqual, 3)
		So(d.NumLoci(), ShouldEqual, 3)
		So(d.Ploidy(), ShouldEqual, genotype.Diploid)
		So(d.Validate(), ShouldBeNil)

		Convey("with individuals and populations from the first two rows", func() {
			So(d.Individual(0).ID, ShouldEqual, "ind1")
			So(d.Individual(0).Population, ShouldEqual, "A")
			So(d.Individual(2).Population, ShouldEqual, "B")
			So(d.Populations(), ShouldResemble, []string{"A", "B"})
		})

		Convey("with metric columns attached to each locus", func() {
			So(d.MetricNames(), ShouldResemble, []string{"AvgReadDepth", "RepAvg"})

			v, ok := d.Metric(1, "RepAvg")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 0.95)
		})

		Convey("with calls transposed to individuals x loci", func() {
			So(d.Call(0, 0), ShouldEqual, 0)
			So(d.Call(2, 0), ShouldEqual, 2)
			So(d.Call(0, 2), ShouldEqual, 2)

			Convey("and '-' and 'NA' cells read as missing", func() {
				So(genotype.IsMissing(d.Call(2, 1)), ShouldBeTrue)
				So(genotype.IsMissing(d.Call(1, 2)), ShouldBeTrue)
			})
		})
	})

	Convey("Malformed reports are rejected", t, func() {
		Convey("when the header lacks the CloneID column", func() {
			path := writeReport(t, "report.csv",
				"Marker,ind1\npop,A\nL1,0\n")

			_, err := Read(path, ReadOptions{})
			So(err, ShouldEqual, ErrBadHeader)
		})

		Convey("when the population row is missing", func() {
			path := writeReport(t, "report.csv",
				"CloneID,ind1\nL1,0\nL2,1\n")

			_, err := Read(path, ReadOptions{})
			So(err, ShouldEqual, ErrMissingPopRow)
		})

		Convey("when there are no locus rows", func() {
			path := writeReport(t, "report.csv",
				"CloneID,ind1\npop,A\n")

			_, err := Read(path, ReadOptions{})
			So(err, ShouldEqual, ErrEmptyReport)
		})

		Convey("when there are no individual columns", func() {
			path := writeReport(t, "report.csv",
				"CloneID,RepAvg\npop,\nL1,1.0\n")

			_, err := Read(path, ReadOptions{})
			So(err, ShouldEqual, ErrNoIndividuals)
		})

		Convey("when a genotype cell is not a dosage call", func() {
			path := writeReport(t, "report.csv",
				"CloneID,ind1\npop,A\nL1,x\n")

			_, err := Read(path, ReadOptions{})
			So(errors.Is(err, ErrBadGenotype), ShouldBeTrue)
		})
	})

	Convey("A populations file can annotate the individuals", t, func() {
		dir := t.TempDir()
		reportPath := filepath.Join(dir, "report.csv")
		popsPath := filepath.Join(dir, "pops.csv")

		So(os.WriteFile(reportPath, []byte(exampleReport), 0644), ShouldBeNil)
		So(os.WriteFile(popsPath, []byte(
			"id,population,site\nind1,X,north\nind3,,south\n"), 0644), ShouldBeNil)

		d, err := Read(reportPath, ReadOptions{PopulationsPath: popsPath})
		So(err, ShouldBeNil)
		So(d.Individual(0).Population, ShouldEqual, "X")
		So(d.Individual(0).Attributes["site"], ShouldEqual, "north")
		So(d.Individual(1).Population, ShouldEqual, "A")
		So(d.Individual(2).Population, ShouldEqual, "B")
		So(d.Individual(2).Attributes["site"], ShouldEqual, "south")
	})
}

func TestReadPopulations(t *testing.T) {
	Convey("ReadPopulations parses id-keyed attribute maps", t, func() {
		path := writeReport(t, "pops.csv",
			"site,id,population\nnorth,ind1,X\n,ind2,Y\n")

		attrs, err := ReadPopulations(path)
		So(err, ShouldBeNil)
		So(attrs, ShouldResemble, map[string]map[string]string{
			"ind1": {"site": "north", "population": "X"},
			"ind2": {"population": "Y"},
		})
	})

	Convey("ReadPopulations rejects bad files", t, func() {
		Convey("without an id column", func() {
			path := writeReport(t, "pops.csv", "name,population\nind1,X\n")

			_, err := ReadPopulations(path)
			So(err, ShouldEqual, ErrNoIDColumn)
		})

		Convey("with no data rows", func() {
			path := writeReport(t, "pops.csv", "id,population\n")

			_, err := ReadPopulations(path)
			So(err, ShouldEqual, ErrPopsFileEmpty)
		})

		Convey("with a repeated individual", func() {
			path := writeReport(t, "pops.csv", "id,population\nind1,X\nind1,Y\n")

			_, err := ReadPopulations(path)
			So(err, ShouldEqual, ErrDuplicateInd)
		})
	})
}

func TestWrite(t *testing.T) {
	Convey("Given a Dataset, you can Write it and Read it back", t, func() {
		path := writeReport(t, "in.csv", exampleReport)

		d, err := Read(path, ReadOptions{})
		So(err, ShouldBeNil)

		for _, name := range []string{"out.csv", "out.csv.gz"} {
			Convey("via "+name, func() {
				outPath := filepath.Join(t.TempDir(), name)

				So(Write(d, outPath), ShouldBeNil)

				back, err := Read(outPath, ReadOptions{})
				So(err, ShouldBeNil)
				So(back.NumIndividuals(), ShouldEqual, d.NumIndividuals())
				So(back.NumLoci(), ShouldEqual, d.NumLoci())
				So(back.Individuals()[0].ID, ShouldEqual, "ind1")
				So(back.Locus(2).ID, ShouldEqual, "L3")
				So(back.MetricNames(), ShouldResemble, d.MetricNames())
				So(back.Call(2, 0), ShouldEqual, d.Call(2, 0))
				So(genotype.IsMissing(back.Call(2, 1)), ShouldBeTrue)

				v, ok := back.Metric(0, "RepAvg")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 1.0)
			})
		}
	})
}
