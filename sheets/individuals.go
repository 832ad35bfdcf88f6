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

package sheets

const (
	ErrNoData     = Error("no data found in sheet")
	ErrNoIDColumn = Error("individuals sheet must have an id column")

	// IndividualsSheetName is the sheet within the doc that holds one row
	// per individual.
	IndividualsSheetName = "individuals"

	idColumn = "id"
)

// IndividualAttributes reads the individuals sheet from the doc with the
// given id and returns each individual's attributes keyed by individual id:
// every non-blank cell becomes an attribute named after its column header.
// The result is suitable for genotype.Dataset.Annotate, which gives the
// "population" column its special meaning.
func (s *Sheets) IndividualAttributes(docID string) (map[string]map[string]string, error) {
	sheet, err := s.Read(docID, IndividualsSheetName)
	if err != nil {
		return nil, err
	}

	if sheet == nil || len(sheet.Rows) == 0 {
		return nil, ErrNoData
	}

	return attributesFromSheet(sheet)
}

func attributesFromSheet(sheet *Sheet) (map[string]map[string]string, error) {
	idCol, err := sheet.ColumnIndex(idColumn)
	if err != nil {
		return nil, ErrNoIDColumn
	}

	attrs := make(map[string]map[string]string, len(sheet.Rows))

	for _, row := range sheet.Rows {
		id := sheet.Cell(row, idCol)
		if id == "" {
			continue
		}

		attrs[id] = rowAttributes(sheet, row, idCol)
	}

	if len(attrs) == 0 {
		return nil, ErrNoData
	}

	return attrs, nil
}

func rowAttributes(sheet *Sheet, row []string, idCol int) map[string]string {
	m := make(map[string]string, len(sheet.ColumnHeaders)-1)

	for col, header := range sheet.ColumnHeaders {
		if col == idCol {
			continue
		}

		if cell := sheet.Cell(row, col); cell != "" {
			m[header] = cell
		}
	}

	return m
}
