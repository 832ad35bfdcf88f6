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

// ConfigurationError is returned when caller-supplied arguments are invalid
// given the dataset's current state, such as asking to keep populations none
// of which exist. It is never recovered from silently, since proceeding would
// produce a misleading dataset.
type ConfigurationError string

func (e ConfigurationError) Error() string { return string(e) }

// DomainError is returned when an operation is invoked against data of the
// wrong ploidy.
type DomainError string

func (e DomainError) Error() string { return string(e) }

// ValidationError is returned when an internal invariant is violated, such as
// the genotype matrix and locus metadata disagreeing about the number of
// loci. A well-formed pipeline should never trigger one.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

const (
	ErrNoPopulationsLeft = ConfigurationError("none of the requested population labels are present in the dataset")
	ErrUnknownMetric     = ConfigurationError("metric is not recorded for every locus")
	ErrUnknownAttribute  = ConfigurationError("attribute is not set for every individual")

	ErrNotDiploid    = DomainError("operation requires diploid (SNP) data")
	ErrInvalidPloidy = DomainError("ploidy must be 1 (presence/absence) or 2 (SNP)")

	ErrIndividualCount = ValidationError("matrix row count does not match individual count")
	ErrLocusCount      = ValidationError("matrix column count does not match locus metadata count")
	ErrCallOutOfRange  = ValidationError("genotype call outside the domain permitted by ploidy")
	ErrBadMaskLength   = ValidationError("mask length does not match dataset dimension")
)
