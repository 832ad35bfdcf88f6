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

// package metadata merges the two external sources of per-individual
// metadata (the LIMS database's population assignments and the field
// metadata Google sheet) into one attribute map per individual, ready to
// annotate a dataset with.

package metadata

import (
	"github.com/qitsweauca/dartR/genotype"
	"github.com/qitsweauca/dartR/lims"
)

type Error string

func (e Error) Error() string { return string(e) }

const ErrNoMetadata = Error("no metadata found for project")

// LIMSClient is the part of the LIMS connection we need.
type LIMSClient interface {
	// AssignmentsForProject returns the individual to population
	// assignments for the given project.
	AssignmentsForProject(project string) ([]lims.Assignment, error)

	// Close closes the connection to the LIMS database.
	Close() error
}

// SheetsClient is the part of the Google sheets connection we need.
type SheetsClient interface {
	// IndividualAttributes reads per-individual attributes from the doc
	// with the given id, keyed by individual id.
	IndividualAttributes(docID string) (map[string]map[string]string, error)
}

// Client combines a LIMS connection and a sheets connection to get merged
// individual metadata.
type Client struct {
	lc    LIMSClient
	sc    SheetsClient
	docID string
}

// New returns a Client that merges metadata from the given sources. Either
// source may be nil, in which case only the other is consulted.
func New(lc LIMSClient, sc SheetsClient, docID string) *Client {
	return &Client{lc: lc, sc: sc, docID: docID}
}

// ForProject returns each individual's attributes for the given project. The
// sheet supplies arbitrary attributes; the LIMS population assignment is
// authoritative and overrides any population column in the sheet. An
// individual known only to the LIMS still gets an entry.
func (c *Client) ForProject(project string) (map[string]map[string]string, error) {
	attrs, err := c.sheetAttributes()
	if err != nil {
		return nil, err
	}

	attrs, err = c.overlayAssignments(attrs, project)
	if err != nil {
		return nil, err
	}

	if len(attrs) == 0 {
		return nil, ErrNoMetadata
	}

	return attrs, nil
}

func (c *Client) sheetAttributes() (map[string]map[string]string, error) {
	if c.sc == nil {
		return make(map[string]map[string]string), nil
	}

	return c.sc.IndividualAttributes(c.docID)
}

func (c *Client) overlayAssignments(attrs map[string]map[string]string,
	project string) (map[string]map[string]string, error) {
	if c.lc == nil {
		return attrs, nil
	}

	assignments, err := c.lc.AssignmentsForProject(project)
	if err != nil {
		return nil, err
	}

	for _, a := range assignments {
		m, ok := attrs[a.IndividualID]
		if !ok {
			m = make(map[string]string, 1)
			attrs[a.IndividualID] = m
		}

		m[genotype.PopulationAttribute] = a.Population
	}

	return attrs, nil
}

// Close closes the LIMS connection, if there is one.
func (c *Client) Close() error {
	if c.lc == nil {
		return nil
	}

	return c.lc.Close()
}
