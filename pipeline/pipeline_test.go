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

package pipeline

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/qitsweauca/dartR/genotype"
	"gonum.org/v1/gonum/mat"
)

const examplePipeline = `
[[step]]
op = "populations"
keep = ["A", "B"]

[[step]]
op = "metric"
metric = "RepAvg"
min = 0.95
max = 1.0

[[step]]
op = "polymorphic"
`

func pipelineDataset() *genotype.Dataset {
	nan := math.NaN()

	calls := mat.NewDense(3, 3, []float64{
		0, 1, 1,
		1, 1, nan,
		2, 0, 0,
	})

	individuals := []genotype.Individual{
		{ID: "ind1", Population: "A"},
		{ID: "ind2", Population: "B"},
		{ID: "ind3", Population: "C"},
	}
	loci := []genotype.Locus{
		{ID: "L1", Metrics: map[string]float64{"RepAvg": 1.0}},
		{ID: "L2", Metrics: map[string]float64{"RepAvg": 0.99}},
		{ID: "L3", Metrics: map[string]float64{"RepAvg": 0.90}},
	}

	d, err := genotype.New(genotype.Diploid, calls, individuals, loci)
	So(err, ShouldBeNil)

	return d
}

func TestParse(t *testing.T) {
	Convey("Parse reads steps from TOML in order", t, func() {
		p, err := Parse(examplePipeline)
		So(err, ShouldBeNil)
		So(p.Steps, ShouldHaveLength, 3)
		So(p.Steps[0].Op, ShouldEqual, OpPopulations)
		So(p.Steps[0].Keep, ShouldResemble, []string{"A", "B"})
		So(p.Steps[1].Op, ShouldEqual, OpMetric)
		So(*p.Steps[1].Min, ShouldEqual, 0.95)
		So(*p.Steps[1].Max, ShouldEqual, 1.0)
		So(p.Steps[2].Op, ShouldEqual, OpPolymorphic)
	})

	Convey("An omitted bound is unbounded", t, func() {
		p, err := Parse("[[step]]\nop = \"metric\"\nmetric = \"RepAvg\"\nmin = 0.95\n")
		So(err, ShouldBeNil)
		So(p.Steps[0].Max, ShouldBeNil)
	})

	Convey("Invalid pipelines are rejected", t, func() {
		Convey("when empty", func() {
			_, err := Parse("")
			So(err, ShouldEqual, ErrNoSteps)
		})

		Convey("when a step has an unknown op", func() {
			_, err := Parse("[[step]]\nop = \"shuffle\"\n")
			So(errors.Is(err, ErrUnknownOp), ShouldBeTrue)
		})

		Convey("when a metric step has no metric", func() {
			_, err := Parse("[[step]]\nop = \"metric\"\n")
			So(err, ShouldEqual, ErrMetricRequired)
		})

		Convey("when a populations step keeps nothing", func() {
			_, err := Parse("[[step]]\nop = \"populations\"\n")
			So(err, ShouldEqual, ErrKeepRequired)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Load reads a pipeline from a TOML file", t, func() {
		path := filepath.Join(t.TempDir(), "pipeline.toml")

		err := os.WriteFile(path, []byte(examplePipeline), 0644)
		So(err, ShouldBeNil)

		p, err := Load(path)
		So(err, ShouldBeNil)
		So(p.Steps, ShouldHaveLength, 3)
	})
}

func TestRun(t *testing.T) {
	Convey("Given a pipeline and a dataset, you can Run it", t, func() {
		p, err := Parse(examplePipeline)
		So(err, ShouldBeNil)

		d := pipelineDataset()

		out, err := p.Run(d, nil)
		So(err, ShouldBeNil)

		Convey("applying each step in order", func() {
			// populations drops ind3, metric drops L3, and with ind3 gone
			// L2 is constant, so polymorphic drops it too
			So(out.NumIndividuals(), ShouldEqual, 2)
			So(out.NumLoci(), ShouldEqual, 1)
			So(out.Locus(0).ID, ShouldEqual, "L1")
			So(out.Validate(), ShouldBeNil)
		})

		Convey("recording the whole chain in the history", func() {
			history := out.History()
			So(history, ShouldHaveLength, 3)
			So(history[0].Operation, ShouldEqual, genotype.OpFilterPopulations)
			So(history[1].Operation, ShouldEqual, genotype.OpFilterMetricRange)
			So(history[2].Operation, ShouldEqual, genotype.OpFilterPolymorphic)
		})

		Convey("leaving the input dataset untouched", func() {
			So(d.NumIndividuals(), ShouldEqual, 3)
			So(d.NumLoci(), ShouldEqual, 3)
			So(d.History(), ShouldBeEmpty)
		})
	})

	Convey("A failing step aborts the run and names itself", t, func() {
		p, err := Parse("[[step]]\nop = \"metric\"\nmetric = \"nosuch\"\n")
		So(err, ShouldBeNil)

		_, err = p.Run(pipelineDataset(), nil)
		So(err, ShouldNotBeNil)
		So(errors.Is(err, genotype.ErrUnknownMetric), ShouldBeTrue)
		So(err.Error(), ShouldStartWith, "pipeline step 1 (metric)")
	})
}
