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

// package pipeline applies an ordered series of genotype filter steps
// described in a TOML file, so that a quality-filtering recipe can be kept
// alongside the data and re-run reproducibly. An example pipeline:
//
//	[[step]]
//	op = "populations"
//	keep = ["North", "South"]
//
//	[[step]]
//	op = "metric"
//	metric = "RepAvg"
//	min = 0.95
//	max = 1.0
//
//	[[step]]
//	op = "polymorphic"
package pipeline

import (
	"fmt"
	"math"

	"github.com/BurntSushi/toml"
	"github.com/inconshreveable/log15"
	"github.com/qitsweauca/dartR/genotype"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNoSteps        = Error("pipeline has no steps")
	ErrUnknownOp      = Error("unknown pipeline op")
	ErrMetricRequired = Error("metric step requires a metric name")
	ErrKeepRequired   = Error("populations step requires labels to keep")

	OpPopulations = "populations"
	OpMetric      = "metric"
	OpPolymorphic = "polymorphic"
)

// Step is one filter operation in a pipeline. Op decides which of the other
// fields are meaningful.
type Step struct {
	Op         string   `toml:"op"`
	Keep       []string `toml:"keep"`
	Substitute string   `toml:"substitute"`
	Metric     string   `toml:"metric"`
	Min        *float64 `toml:"min"`
	Max        *float64 `toml:"max"`
}

// Pipeline is an ordered series of Steps.
type Pipeline struct {
	Steps []Step `toml:"step"`
}

// Load reads a pipeline from the TOML file at the given path and validates
// it.
func Load(path string) (*Pipeline, error) {
	p := &Pipeline{}

	if _, err := toml.DecodeFile(path, p); err != nil {
		return nil, err
	}

	return p, p.validate()
}

// Parse reads a pipeline from TOML data and validates it.
func Parse(data string) (*Pipeline, error) {
	p := &Pipeline{}

	if _, err := toml.Decode(data, p); err != nil {
		return nil, err
	}

	return p, p.validate()
}

func (p *Pipeline) validate() error {
	if len(p.Steps) == 0 {
		return ErrNoSteps
	}

	for _, step := range p.Steps {
		if err := step.validate(); err != nil {
			return err
		}
	}

	return nil
}

func (s Step) validate() error {
	switch s.Op {
	case OpPopulations:
		if len(s.Keep) == 0 {
			return ErrKeepRequired
		}
	case OpMetric:
		if s.Metric == "" {
			return ErrMetricRequired
		}
	case OpPolymorphic:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, s.Op)
	}

	return nil
}

// Run applies the pipeline's steps to the dataset in order, returning the
// final dataset with the whole chain in its history. The first failing step
// aborts the run; the input dataset is never modified.
func (p *Pipeline) Run(d *genotype.Dataset, logger log15.Logger) (*genotype.Dataset, error) {
	var err error

	for i, step := range p.Steps {
		d, err = step.apply(d, logger)
		if err != nil {
			return nil, fmt.Errorf("pipeline step %d (%s): %w", i+1, step.Op, err)
		}
	}

	return d, nil
}

func (s Step) apply(d *genotype.Dataset, logger log15.Logger) (*genotype.Dataset, error) {
	opts := genotype.FilterOptions{Logger: logger, SubstituteSource: s.Substitute}

	switch s.Op {
	case OpPopulations:
		return genotype.FilterPopulations(d, s.Keep, opts)
	case OpMetric:
		return genotype.FilterMetricRange(d, s.Metric, s.min(), s.max(), opts)
	case OpPolymorphic:
		return genotype.FilterPolymorphic(d, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, s.Op)
	}
}

// min and max default an omitted bound to unbounded, so a step can give just
// one of them.
func (s Step) min() float64 {
	if s.Min == nil {
		return math.Inf(-1)
	}

	return *s.Min
}

func (s Step) max() float64 {
	if s.Max == nil {
		return math.Inf(1)
	}

	return *s.Max
}
