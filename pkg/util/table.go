// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package util

import (
	"fmt"
	"io"
	"strings"
)

// TablePrinter lays out rows of cells in aligned columns, where the first row
// is a header separated from the rest.  Cells wider than their column are
// truncated.
type TablePrinter struct {
	widths []uint
	rows   [][]string
}

// NewTablePrinter constructs an empty table with a given number of columns and
// rows.
func NewTablePrinter(ncols uint, nrows uint) *TablePrinter {
	rows := make([][]string, nrows)
	//
	for i := range rows {
		rows[i] = make([]string, ncols)
	}
	//
	return &TablePrinter{make([]uint, ncols), rows}
}

// SetRow sets the cells of a given row, widening columns as necessary.
func (p *TablePrinter) SetRow(row uint, cells ...string) {
	if len(cells) != len(p.widths) {
		panic(fmt.Sprintf("expected %d cells, found %d", len(p.widths), len(cells)))
	}
	//
	for i, cell := range cells {
		p.widths[i] = max(p.widths[i], uint(len(cell)))
	}
	//
	p.rows[row] = cells
}

// SetMaxWidth bounds the width of every column.
func (p *TablePrinter) SetMaxWidth(m uint) {
	for i := range p.widths {
		p.widths[i] = min(p.widths[i], m)
	}
}

// Fprint writes the table.  Every line occupies exactly three characters per
// column beyond the column widths.
func (p *TablePrinter) Fprint(w io.Writer) {
	for i, row := range p.rows {
		for j, cell := range row {
			if uint(len(cell)) > p.widths[j] {
				cell = cell[:p.widths[j]]
			}
			//
			fmt.Fprintf(w, " %-*s |", p.widths[j], cell)
		}
		//
		fmt.Fprintln(w)
		//
		if i == 0 && len(p.rows) > 1 {
			p.separator(w)
		}
	}
}

func (p *TablePrinter) separator(w io.Writer) {
	for _, width := range p.widths {
		fmt.Fprintf(w, "%s|", strings.Repeat("-", int(width)+2))
	}
	//
	fmt.Fprintln(w)
}
