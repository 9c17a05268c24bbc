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
package composer

import (
	"fmt"
	"strings"

	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/codegen"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/consensys/go-pilcom/pkg/util"
)

// Counts gives the number of columns of each kind in the enumeration.
type Counts struct {
	Fixed              int
	Witness            int
	Public             int
	Precomputed        int
	Derived            int
	LookupHelpers      int
	PermutationHelpers int
}

// Total returns the total number of columns.
func (p Counts) Total() int {
	return p.Fixed + p.Witness + p.Public + p.Precomputed + p.Derived
}

// Output of the composer.
type Output struct {
	// Columns is the canonical enumeration of every column.
	Columns []codegen.ColumnInfo
	// Shifted holds the positions within Columns of every column read at the
	// next row, in enumeration order.
	Shifted []int
	// Counts per kind.
	Counts Counts
	// Artifact holding the generated keys.
	Artifact artifact.Artifact
}

// Names returns the names of all columns, in enumeration order.
func (p *Output) Names() []string {
	names := make([]string, len(p.Columns))
	//
	for i, c := range p.Columns {
		names[i] = c.Name
	}
	//
	return names
}

// KeyColumns returns the positions of all columns committed in the keys, in
// enumeration order.
func (p *Output) KeyColumns() []int {
	var key []int
	//
	for i, c := range p.Columns {
		if c.Role.InKey() {
			key = append(key, i)
		}
	}
	//
	return key
}

// Build enumerates the complete column universe of a VM: declared columns in
// declaration order, then lookup helpers in lookup order, then permutation
// helpers in permutation order.  This ordering is used by every other
// artifact.  The enumeration fails if two columns resolve to the same name, or
// to the same generated identifier.
func Build(vm *ir.VM, cfg config.Config, lookupHelpers []codegen.HelperColumn,
	permutationHelpers []codegen.HelperColumn) (Output, error) {
	var (
		out     Output
		shifts  = vm.Shifts()
		sources []string
	)
	//
	for _, c := range vm.Columns() {
		out.Columns = append(out.Columns, codegen.ColumnInfo{
			Name:    c.Name,
			Field:   codegen.Field(c.Name),
			Role:    codegen.RoleOf(c.Kind),
			Shifted: shifts.Test(c.Index),
		})
		sources = append(sources, ir.ColumnConstruct(c.Name))
	}
	//
	for _, helpers := range [][]codegen.HelperColumn{lookupHelpers, permutationHelpers} {
		for _, h := range helpers {
			out.Columns = append(out.Columns, codegen.ColumnInfo{
				Name:    h.Name,
				Field:   codegen.Field(h.Name),
				Role:    h.Role,
				Shifted: h.Shifted,
			})
			sources = append(sources, fmt.Sprintf("helper column \"%s\" of %s", h.Name, h.Construct))
		}
	}
	//
	if err := checkNames(vm.Name(), out.Columns, sources); err != nil {
		return Output{}, err
	}
	//
	for i, c := range out.Columns {
		if c.Shifted {
			out.Shifted = append(out.Shifted, i)
		}
		//
		switch c.Role {
		case codegen.FIXED:
			out.Counts.Fixed++
		case codegen.WITNESS:
			out.Counts.Witness++
		case codegen.PUBLIC:
			out.Counts.Public++
		case codegen.PRECOMPUTED:
			out.Counts.Precomputed++
		case codegen.DERIVED:
			out.Counts.Derived++
		}
	}
	//
	out.Counts.LookupHelpers = len(lookupHelpers)
	out.Counts.PermutationHelpers = len(permutationHelpers)
	//
	var err error
	out.Artifact, err = emit(vm, cfg, &out)
	//
	return out, err
}

// Check that names are unique once sanitized, and that generated identifiers
// are unique.
func checkNames(vm string, columns []codegen.ColumnInfo, sources []string) error {
	var (
		names       = make([]string, len(columns))
		identifiers = make(map[string]int)
	)
	//
	for i, c := range columns {
		names[i] = util.SanitizeName(c.Name)
		//
		if names[i] == "" {
			return ir.Errorf(ir.NamingCollision, sources[i], "name has no identifier characters").At(vm)
		} else if codegen.IsReservedField(c.Field) {
			return ir.Errorf(ir.NamingCollision, sources[i], "field %s is reserved", c.Field).At(vm)
		}
	}
	//
	if dups := util.Duplicates(names); len(dups) > 0 {
		first, second := dups[0].Left, dups[0].Right
		//
		return ir.Errorf(ir.DuplicateColumn, sources[second], "resolves to \"%s\", as does %s",
			names[second], sources[first]).At(vm)
	}
	//
	for i, c := range columns {
		ids := []string{c.Field}
		if c.Shifted {
			ids = append(ids, codegen.ShiftField(c.Field))
		}
		//
		for _, id := range ids {
			if j, ok := identifiers[id]; ok {
				return ir.Errorf(ir.NamingCollision, sources[i], "generated identifier %s already used by %s",
					id, sources[j]).At(vm)
			}
			//
			identifiers[id] = i
		}
	}
	//
	return nil
}

func emit(vm *ir.VM, cfg config.Config, out *Output) (artifact.Artifact, error) {
	var (
		file = codegen.NewGoFile(artifact.COMPOSER, util.PackageName(vm.Name()))
		body = file.Body()
		key  = make([]string, 0)
	)
	//
	file.Import(codegen.RUNTIME_ALIAS, cfg.RuntimeImport)
	//
	for _, i := range out.KeyColumns() {
		key = append(key, codegen.ColumnConst(out.Columns[i].Field))
	}
	//
	body.Line("// Column enumeration:")
	body.Line("//")
	//
	for i, c := range out.Columns {
		shifted := ""
		if c.Shifted {
			shifted = " (shifted)"
		}
		//
		body.Linef("//\t%d\t%s\t%s%s", i, c.Role, codegen.OneLine(c.Name), shifted)
	}
	//
	body.Line()
	body.Line("// NumKeyColumns is the number of columns committed in the keys.")
	body.Line("const NumKeyColumns = NumFixed + NumPrecomputed")
	body.Line()
	body.Line("// KeyColumns identifies the columns committed in the keys, in enumeration order.")
	body.Linef("var KeyColumns = [NumKeyColumns]int{%s}", strings.Join(key, ", "))
	body.Line()
	body.Line("// ProvingKey holds everything the prover needs beyond the witness.")
	body.Line("type ProvingKey struct {")
	body.Line("\tCircuitSize      int")
	body.Line("\tCommitmentKey    honk.CommitmentKey")
	body.Line("\tFixedCommitments [NumKeyColumns]honk.Commitment")
	body.Line("}")
	body.Line()
	body.Line("// VerificationKey holds everything the verifier needs beyond the proof.")
	body.Line("type VerificationKey struct {")
	body.Line("\tCircuitSize      int")
	body.Line("\tOpeningKey       honk.OpeningKey")
	body.Line("\tFixedCommitments [NumKeyColumns]honk.Commitment")
	body.Line("}")
	body.Line()
	body.Line("// CreateProvingKey commits to the fixed and precomputed columns of a circuit.")
	body.Line("func CreateProvingKey(ck honk.CommitmentKey, polys *ProverPolynomials) *ProvingKey {")
	body.Line("\tkey := &ProvingKey{CircuitSize: polys.Size(), CommitmentKey: ck}")
	body.Line("\tall := polys.All()")
	body.Line("\t//")
	body.Line("\tfor i, col := range KeyColumns {")
	body.Line("\t\tkey.FixedCommitments[i] = ck.Commit(all[col])")
	body.Line("\t}")
	body.Line("\t//")
	body.Line("\treturn key")
	body.Line("}")
	body.Line()
	body.Line("// CreateVerificationKey derives the verification key from a proving key.")
	body.Line("func CreateVerificationKey(pk *ProvingKey, ok honk.OpeningKey) *VerificationKey {")
	body.Line("\treturn &VerificationKey{pk.CircuitSize, ok, pk.FixedCommitments}")
	body.Line("}")
	//
	return file.Artifact()
}
