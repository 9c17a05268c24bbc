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
package ir

import (
	"github.com/consensys/go-pilcom/pkg/util"
)

// Lookup asserts that every tuple of input values, on rows where the input
// selector is active, appears in the table formed by the table expressions on
// rows where the table selector is active.
type Lookup struct {
	// Name of this lookup, which may be empty.
	Name string
	// Selector for input rows (nil means always active).
	Selector Expr
	// Inputs being looked up.
	Inputs []Expr
	// TableSelector for table rows (nil means always active).
	TableSelector Expr
	// Table being looked up into.
	Table []Expr
	// Counts is a witness column holding the number of times each table row is
	// read.  When absent, every active table row is read exactly once.
	Counts util.Option[ColumnId]
}

// PermutationSide is one group of columns within a permutation argument.
type PermutationSide struct {
	// Selector for rows included in this side (nil means every row).
	Selector Expr
	// Columns making up each tuple of this side.
	Columns []ColumnAccess
}

// Permutation asserts that two or more groups of columns hold the same
// multiset of tuples.
type Permutation struct {
	// Name of this permutation, which may be empty.
	Name string
	// Sides of this permutation.
	Sides []PermutationSide
}

// Cell identifies a single trace cell, relative to the current row.
type Cell struct {
	Column ColumnId
	Offset int
}

// Access returns the column access reading this cell.
func (p Cell) Access() *ColumnAccess {
	return &ColumnAccess{p.Column, p.Offset}
}

// Copy asserts that two cells hold the same value on every row where its
// selector is active.
type Copy struct {
	Left     Cell
	Right    Cell
	Selector Expr
}
