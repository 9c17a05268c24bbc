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
package codegen

import "github.com/consensys/go-pilcom/pkg/ir"

// ColumnRole determines how the values of a column in the final enumeration
// are obtained, and whether they are committed by the prover.
type ColumnRole uint8

const (
	// FIXED columns are declared, and committed in the verification key.
	FIXED ColumnRole = iota
	// WITNESS columns are declared, and committed by the prover.
	WITNESS
	// PUBLIC columns are declared witness columns also known to the verifier.
	PUBLIC
	// PRECOMPUTED columns are synthesized, data independent, and committed in
	// the verification key.
	PRECOMPUTED
	// DERIVED columns are synthesized from the witness after the argument
	// challenges are known, and committed by the prover.
	DERIVED
)

func (r ColumnRole) String() string {
	switch r {
	case FIXED:
		return "fixed"
	case WITNESS:
		return "witness"
	case PUBLIC:
		return "public"
	case PRECOMPUTED:
		return "precomputed"
	default:
		return "derived"
	}
}

// InKey checks whether columns of this role are committed in the keys rather
// than by the prover.
func (r ColumnRole) InKey() bool {
	return r == FIXED || r == PRECOMPUTED
}

// RoleOf determines the role of a declared column.
func RoleOf(kind ir.ColumnKind) ColumnRole {
	switch kind {
	case ir.FIXED:
		return FIXED
	case ir.PUBLIC:
		return PUBLIC
	default:
		return WITNESS
	}
}

// HelperColumn is a column synthesized by a builder.
type HelperColumn struct {
	// Name of this column.
	Name string
	// Role is either PRECOMPUTED or DERIVED.
	Role ColumnRole
	// Shifted indicates this column is read at the next row.
	Shifted bool
	// Construct which caused this column to be synthesized.
	Construct string
	// Compute is the generated function computing a derived column.
	Compute string
}

// ColumnInfo is a column of the final enumeration.
type ColumnInfo struct {
	// Name of this column.
	Name string
	// Field holding this column in generated code.
	Field string
	// Role of this column.
	Role ColumnRole
	// Shifted indicates this column is read at the next row.
	Shifted bool
}

// PermutationSide is one side of a permutation argument, as compiled.
type PermutationSide struct {
	// Selector of rows included in this side (nil means every row).
	Selector ir.Expr
	// Values making up the tuple of this side on each row.
	Values []ir.Expr
}

// PermutationArgument is a permutation argument as compiled, either declared
// or folded from a copy constraint.
type PermutationArgument struct {
	// Construct from which this argument was derived.
	Construct string
	// Sides of this argument, of which there are at least two.
	Sides []PermutationSide
}
