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

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFilterPopulations(t *testing.T) {
	Convey("Given a dataset with populations A, A, B and C", t, func() {
		d := testDataset()

		Convey("You can keep individuals from a subset of populations", func() {
			out, err := FilterPopulations(d, []string{"A", "B"}, FilterOptions{})
			So(err, ShouldBeNil)
			So(out.NumIndividuals(), ShouldEqual, 3)
			So(out.Individual(0).ID, ShouldEqual, "ind1")
			So(out.Individual(1).ID, ShouldEqual, "ind2")
			So(out.Individual(2).ID, ShouldEqual, "ind3")

			Convey("with locus data unchanged", func() {
				So(out.NumLoci(), ShouldEqual, 4)
				So(out.Locus(0).ID, ShouldEqual, "L1")
				So(out.Call(2, 0), ShouldEqual, d.Call(2, 0))
			})

			Convey("and the operation recorded in history", func() {
				history := out.History()
				So(history, ShouldHaveLength, 1)
				So(history[0].Operation, ShouldEqual, OpFilterPopulations)
				So(history[0].Details["kept"], ShouldEqual, "A,B")
			})
		})

		Convey("Unknown labels are dropped, not fatal, if any remain", func() {
			out, err := FilterPopulations(d, []string{"A", "Z"}, FilterOptions{})
			So(err, ShouldBeNil)

			viaKnown, err := FilterPopulations(d, []string{"A"}, FilterOptions{})
			So(err, ShouldBeNil)
			So(out.Individuals(), ShouldResemble, viaKnown.Individuals())
		})

		Convey("Only unknown labels is a ConfigurationError", func() {
			_, err := FilterPopulations(d, []string{"Z"}, FilterOptions{})
			So(err, ShouldEqual, ErrNoPopulationsLeft)

			_, err = FilterPopulations(d, nil, FilterOptions{})
			So(err, ShouldEqual, ErrNoPopulationsLeft)
		})

		Convey("A substitute attribute can stand in for the label", func() {
			out, err := FilterPopulations(d, []string{"F"},
				FilterOptions{SubstituteSource: "sex"})
			So(err, ShouldBeNil)
			So(out.NumIndividuals(), ShouldEqual, 2)
			So(out.Individual(0).ID, ShouldEqual, "ind1")
			So(out.Individual(1).ID, ShouldEqual, "ind3")

			Convey("while the result keeps the real population labels", func() {
				So(out.Individual(0).Population, ShouldEqual, "A")
				So(out.Individual(1).Population, ShouldEqual, "B")
			})
		})

		Convey("A substitute attribute missing from an individual fails", func() {
			_, err := FilterPopulations(d, []string{"F"},
				FilterOptions{SubstituteSource: "nosuch"})
			So(errors.Is(err, ErrUnknownAttribute), ShouldBeTrue)
		})
	})
}

func TestFilterMetricRange(t *testing.T) {
	Convey("Given a dataset with RepAvg metrics 1.0, 0.95, 0.90 and 0.99", t, func() {
		d := testDataset()

		Convey("Loci inside the inclusive range are kept", func() {
			out, err := FilterMetricRange(d, "RepAvg", 0.95, 1.0, FilterOptions{})
			So(err, ShouldBeNil)
			So(out.NumLoci(), ShouldEqual, 3)
			So(out.Locus(0).ID, ShouldEqual, "L1")
			So(out.Locus(1).ID, ShouldEqual, "L2")
			So(out.Locus(2).ID, ShouldEqual, "L4")

			Convey("and both bounds are themselves kept", func() {
				repAvg := func(d *Dataset, j int) float64 {
					v, ok := d.Metric(j, "RepAvg")
					So(ok, ShouldBeTrue)

					return v
				}
				So(repAvg(out, 0), ShouldEqual, 1.0)
				So(repAvg(out, 1), ShouldEqual, 0.95)
			})

			Convey("and each surviving locus keeps its own metadata", func() {
				// L2's calls were column 1; its depth metric must follow it
				So(out.Call(0, 1), ShouldEqual, 1)

				depth, ok := out.Metric(1, "AvgReadDepth")
				So(ok, ShouldBeTrue)
				So(depth, ShouldEqual, 20)
			})

			Convey("and individuals are unaffected", func() {
				So(out.NumIndividuals(), ShouldEqual, 4)
				So(out.Populations(), ShouldResemble, d.Populations())
			})
		})

		Convey("Loci strictly outside either bound are removed", func() {
			out, err := FilterMetricRange(d, "RepAvg", 0.91, 0.999, FilterOptions{})
			So(err, ShouldBeNil)
			So(out.NumLoci(), ShouldEqual, 2)
			So(out.Locus(0).ID, ShouldEqual, "L2")
			So(out.Locus(1).ID, ShouldEqual, "L4")
		})

		Convey("An unknown metric is a ConfigurationError", func() {
			_, err := FilterMetricRange(d, "nosuch", 0, 1, FilterOptions{})
			So(errors.Is(err, ErrUnknownMetric), ShouldBeTrue)
		})

		Convey("Inverted bounds keep zero loci without error", func() {
			out, err := FilterMetricRange(d, "RepAvg", 1.0, 0.9, FilterOptions{})
			So(err, ShouldBeNil)
			So(out.NumLoci(), ShouldEqual, 0)
			So(out.NumIndividuals(), ShouldEqual, 4)
			So(out.Validate(), ShouldBeNil)
		})

		Convey("An unbounded side works", func() {
			out, err := FilterMetricRange(d, "AvgReadDepth", 10, math.Inf(1),
				FilterOptions{})
			So(err, ShouldBeNil)
			So(out.NumLoci(), ShouldEqual, 3)
		})
	})
}

func TestFilterSequences(t *testing.T) {
	Convey("Invariants hold after any sequence of filters", t, func() {
		d := testDataset()

		out, err := FilterPopulations(d, []string{"A", "C"}, FilterOptions{})
		So(err, ShouldBeNil)
		So(out.Validate(), ShouldBeNil)

		out, err = FilterMetricRange(out, "AvgReadDepth", 0, 25, FilterOptions{})
		So(err, ShouldBeNil)
		So(out.Validate(), ShouldBeNil)

		out, err = FilterPolymorphic(out, FilterOptions{})
		So(err, ShouldBeNil)
		So(out.Validate(), ShouldBeNil)

		So(out.History(), ShouldHaveLength, 3)
		So(d.History(), ShouldBeEmpty)

		Convey("and the original can still run an independent pipeline", func() {
			other, err := FilterMetricRange(d, "RepAvg", 0.99, 1, FilterOptions{})
			So(err, ShouldBeNil)
			So(other.NumLoci(), ShouldEqual, 2)
			So(other.NumIndividuals(), ShouldEqual, 4)
		})
	})
}
