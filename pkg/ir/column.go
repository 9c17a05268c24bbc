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
	"fmt"
	"strconv"

	"github.com/consensys/go-pilcom/pkg/sexp"
)

// ColumnId is a handle identifying a column within the arena of a VM.  Handles
// are allocated in declaration order, starting from zero.
type ColumnId = uint

// ColumnKind determines how values of a column are provided.
type ColumnKind uint8

const (
	// FIXED columns hold values which are constant for every instance of the VM.
	FIXED ColumnKind = iota
	// WITNESS columns hold values provided by the prover.
	WITNESS
	// PUBLIC columns hold witness values which are also known to the verifier.
	PUBLIC
	// HELPER columns are derived by the compiler rather than declared.
	HELPER
)

func (k ColumnKind) String() string {
	switch k {
	case FIXED:
		return "fixed"
	case WITNESS:
		return "witness"
	case PUBLIC:
		return "public"
	case HELPER:
		return "helper"
	}
	//
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseColumnKind parses the name of a declarable column kind.  Helper columns
// cannot be declared.
func ParseColumnKind(s string) (ColumnKind, error) {
	switch s {
	case "fixed":
		return FIXED, nil
	case "witness", "commit":
		return WITNESS, nil
	case "public":
		return PUBLIC, nil
	}
	//
	return 0, fmt.Errorf("unknown column kind \"%s\"", s)
}

// Column represents a declared column of a VM.
type Column struct {
	// Name of this column, unique within its VM.
	Name string
	// Kind of this column.
	Kind ColumnKind
	// Index of this column in declaration order.
	Index ColumnId
}

// ColumnAccess represents reading a column at a given row shift relative to the
// current row.  A shift of one reads the "next row".
type ColumnAccess struct {
	Column ColumnId
	Shift  int
}

// Col constructs an access to the current row of a column.
func Col(column ColumnId) Expr {
	return &ColumnAccess{column, 0}
}

// Next constructs an access to the next row of a column.
func Next(column ColumnId) Expr {
	return &ColumnAccess{column, 1}
}

// Degree implementation for Expr interface.
func (p *ColumnAccess) Degree() uint { return 1 }

// Lisp implementation for Expr interface.
func (p *ColumnAccess) Lisp(mapping ColumnMap) sexp.SExp {
	name := sexp.NewSymbol(mapping.ColumnName(p.Column))
	//
	switch p.Shift {
	case 0:
		return name
	case 1:
		return sexp.NewSymbol(name.Value + "'")
	}
	//
	return sexp.NewList(sexp.NewSymbol("shift"), name, sexp.NewSymbol(strconv.Itoa(p.Shift)))
}

// Visit implementation for Expr interface.
func (p *ColumnAccess) Visit(fn func(Expr)) { fn(p) }
