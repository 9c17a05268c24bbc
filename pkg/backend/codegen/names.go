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

import (
	"fmt"

	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/consensys/go-pilcom/pkg/util"
)

// Every generated name is a pure function of the kind and index of the
// declaration it belongs to.  Names never depend on the content of a
// declaration, hence two arguments over overlapping columns cannot collide.

// Names of shared precomputed columns.
const (
	LAGRANGE_FIRST = "lagrange_first"
	LAGRANGE_LAST  = "lagrange_last"
	COPY_ROW_INDEX = "copy_row_index"
)

// Transcript labels and challenges which do not belong to any argument.
const (
	CIRCUIT_SIZE         = "circuit_size"
	PUBLIC_INPUTS        = "public_inputs"
	GATE_CHALLENGE       = "gate_challenge"
	SUMCHECK_UNIVARIATE  = "sumcheck_univariate_%d"
	SUMCHECK_CHALLENGE   = "sumcheck_u_%d"
	SUMCHECK_EVALUATIONS = "sumcheck_evaluations"
	PCS_RHO              = "pcs_rho"
	PCS_QUOTIENT         = "pcs_quotient"
	PCS_Z                = "pcs_z"
)

// Fields of the generated RelationParameters type holding argument challenges.
const (
	LOOKUP_BETA       = "LookupBeta"
	LOOKUP_GAMMA      = "LookupGamma"
	PERMUTATION_BETA  = "PermutationBeta"
	PERMUTATION_GAMMA = "PermutationGamma"
)

// Identifiers of the generated flavor which no column may shadow, since they
// name methods of the generated polynomial container.
var reservedFields = []string{"Row", "All", "Size", "Shifted"}

// LookupInverse names the inverse helper column of the kth lookup.
func LookupInverse(k int) string {
	return fmt.Sprintf("lookup_%d_inv", k)
}

// PermutationAccumulator names the grand product accumulator comparing the
// first side of the kth permutation with its jth side.  The side is omitted
// when the permutation has only two sides.
func PermutationAccumulator(k int, j int, sides int) string {
	return permutationHelper(k, "z", j, sides)
}

// PermutationInverse names the log derivative inverse comparing the first side
// of the kth permutation with its jth side.
func PermutationInverse(k int, j int, sides int) string {
	return permutationHelper(k, "inv", j, sides)
}

func permutationHelper(k int, kind string, j int, sides int) string {
	if sides <= 2 {
		return fmt.Sprintf("perm_%d_%s", k, kind)
	}
	//
	return fmt.Sprintf("perm_%d_%s_%d", k, kind, j)
}

// LookupChallenges returns the beta and gamma challenge labels of the kth
// lookup.
func LookupChallenges(k int) (string, string) {
	return fmt.Sprintf("lookup_%d_beta", k), fmt.Sprintf("lookup_%d_gamma", k)
}

// PermutationChallenges returns the beta and gamma challenge labels of the kth
// permutation.
func PermutationChallenges(k int) (string, string) {
	return fmt.Sprintf("perm_%d_beta", k), fmt.Sprintf("perm_%d_gamma", k)
}

// Alpha labels the challenge batching sub-identity i+1 into the first.
func Alpha(i int) string {
	return fmt.Sprintf("alpha_%d", i)
}

// LookupName is the debug name of the kth lookup relation.
func LookupName(k int) string {
	return fmt.Sprintf("lookup_%d", k)
}

// PermutationName is the debug name of the kth permutation relation.
func PermutationName(k int) string {
	return fmt.Sprintf("perm_%d", k)
}

// Field converts a column name into the exported Go field holding it.
func Field(name string) string {
	return util.ToPascalCase(util.SanitizeName(name))
}

// ShiftField is the field holding the next row value of a column field.
func ShiftField(field string) string {
	return field + "Shift"
}

// ColumnConst is the generated constant holding the index of a column field
// within the flavor enumeration.
func ColumnConst(field string) string {
	return "Col" + field
}

// RelationType is the generated type evaluating a relation with the given
// debug name.
func RelationType(name string) string {
	return util.ToPascalCase(util.SanitizeName(name)) + "Relation"
}

// CopyRelationType is the generated type evaluating direct copy constraints.
const CopyRelationType = "CopyRelation"

// IsReservedField checks whether a field name clashes with a method of the
// generated polynomial container.
func IsReservedField(field string) bool {
	for _, r := range reservedFields {
		if r == field {
			return true
		}
	}
	//
	return false
}

// Naming maps the declared columns of a VM to their generated fields.
type Naming struct {
	fields []string
}

// NewNaming computes the fields of every declared column of a VM.
func NewNaming(vm *ir.VM) *Naming {
	fields := make([]string, len(vm.Columns()))
	//
	for i, c := range vm.Columns() {
		fields[i] = Field(c.Name)
	}
	//
	return &Naming{fields}
}

// Field returns the generated field of a declared column.
func (p *Naming) Field(id ir.ColumnId) string {
	return p.fields[id]
}
