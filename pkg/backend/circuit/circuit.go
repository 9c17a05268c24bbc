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
package circuit

import (
	"fmt"

	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/codegen"
	"github.com/consensys/go-pilcom/pkg/backend/flavor"
	"github.com/consensys/go-pilcom/pkg/util"
)

// Seeds of the fixed challenges used when checking a circuit, which are
// offset by the index of each argument.
const (
	BETA_SEED  = 0x5eed_b07a
	GAMMA_SEED = 0x5eed_9a33
)

// Build generates the circuit builder of a flavor, which turns a trace of
// declared columns into prover polynomials and checks them without a proof.
func Build(f *flavor.Flavor) (artifact.Artifact, error) {
	var file = codegen.NewGoFile(artifact.CIRCUIT, f.Package)
	//
	file.Import("", "fmt")
	file.Import("", codegen.FR_IMPORT)
	//
	emitTrace(file.Body(), f)
	emitBuilder(file.Body(), f)
	emitCheck(file.Body(), f)
	//
	return file.Artifact()
}

// Declared columns are those which are neither precomputed nor derived.
func declared(f *flavor.Flavor) []codegen.ColumnInfo {
	var columns []codegen.ColumnInfo
	//
	for _, c := range f.Columns {
		if c.Role != codegen.PRECOMPUTED && c.Role != codegen.DERIVED {
			columns = append(columns, c)
		}
	}
	//
	return columns
}

func emitTrace(out *util.IndentBuilder, f *flavor.Flavor) {
	out.Line("// TraceRow holds the values of every declared column at a single row.")
	out.Line("type TraceRow struct {")
	//
	for _, c := range declared(f) {
		out.Linef("\t%s fr.Element", c.Field)
	}
	//
	out.Line("}")
	out.Line()
}

func emitBuilder(out *util.IndentBuilder, f *flavor.Flavor) {
	out.Line("// CircuitBuilder turns a trace into the polynomials of a circuit.")
	out.Line("type CircuitBuilder struct {")
	out.Line("\trows []TraceRow")
	out.Line("}")
	out.Line()
	out.Line("// NewCircuitBuilder constructs a builder with an empty trace.")
	out.Line("func NewCircuitBuilder() *CircuitBuilder {")
	out.Line("\treturn &CircuitBuilder{}")
	out.Line("}")
	out.Line()
	out.Line("// SetTrace sets the rows of the trace.")
	out.Line("func (p *CircuitBuilder) SetTrace(rows []TraceRow) {")
	out.Line("\tp.rows = rows")
	out.Line("}")
	out.Line()
	out.Line("// NumRows returns the number of rows in the trace.")
	out.Line("func (p *CircuitBuilder) NumRows() int {")
	out.Line("\treturn len(p.rows)")
	out.Line("}")
	out.Line()
	if f.HasAccumulators() {
		out.Line("// CircuitSize returns the smallest power of two strictly greater than the number of")
		out.Line("// rows, which leaves at least one padding row at the end for the running products")
		out.Line("// to close.  Padding rows are zero.")
		out.Line("func (p *CircuitBuilder) CircuitSize() int {")
		out.Line("\tsize := 2")
		out.Line("\t//")
		out.Line("\tfor size < len(p.rows)+1 {")
	} else {
		out.Line("// CircuitSize returns the smallest power of two (at least two) no smaller than the")
		out.Line("// number of rows.  Padding rows, if any, are zero.")
		out.Line("func (p *CircuitBuilder) CircuitSize() int {")
		out.Line("\tsize := 2")
		out.Line("\t//")
		out.Line("\tfor size < len(p.rows) {")
	}
	//
	out.Line("\t\tsize <<= 1")
	out.Line("\t}")
	out.Line("\t//")
	out.Line("\treturn size")
	out.Line("}")
	out.Line()
	out.Line("// ComputePolynomials fills the declared and precomputed columns.  Padding rows are")
	out.Line("// zero, and derived columns are left for ComputeHelperColumns.")
	out.Line("func (p *CircuitBuilder) ComputePolynomials() *ProverPolynomials {")
	out.Line("\tpolys := NewProverPolynomials(p.CircuitSize())")
	out.Line("\t//")
	//
	if columns := declared(f); len(columns) > 0 {
		out.Line("\tfor i := range p.rows {")
		//
		for _, c := range columns {
			out.Linef("\t\tpolys.%s[i] = p.rows[i].%s", c.Field, c.Field)
		}
		//
		out.Line("\t}")
		out.Line("\t//")
	}
	//
	for _, i := range f.ColumnsWith(codegen.PRECOMPUTED) {
		field := f.Columns[i].Field
		//
		switch f.Columns[i].Name {
		case codegen.LAGRANGE_FIRST:
			out.Linef("\tpolys.%s[0].SetOne()", field)
		case codegen.LAGRANGE_LAST:
			out.Linef("\tpolys.%s[polys.Size()-1].SetOne()", field)
		case codegen.COPY_ROW_INDEX:
			out.Linef("\tfor i := range polys.%s {", field)
			out.Linef("\t\tpolys.%s[i].SetUint64(uint64(i))", field)
			out.Line("\t}")
		default:
			panic(fmt.Sprintf("unknown precomputed column %s", f.Columns[i].Name))
		}
	}
	//
	out.Line("\t//")
	out.Line("\treturn polys")
	out.Line("}")
	out.Line()
}

func emitCheck(out *util.IndentBuilder, f *flavor.Flavor) {
	out.Line("// CheckCircuit computes the helper columns under fixed challenges, and checks every")
	out.Line("// relation.  Linearly independent sub-identities must vanish on every row, whilst")
	out.Line("// linearly dependent ones must vanish when summed over all rows.")
	out.Line("func (p *CircuitBuilder) CheckCircuit() error {")
	out.Line("\tvar (")
	out.Line("\t\tpolys   = p.ComputePolynomials()")
	out.Line("\t\tparams  RelationParameters")
	out.Line("\t\tscaling = fr.One()")
	out.Line("\t\tsums    [NumSubrelations]fr.Element")
	out.Line("\t)")
	out.Line("\t//")
	//
	for _, c := range []struct {
		beta, gamma string
	}{{codegen.LOOKUP_BETA, codegen.LOOKUP_GAMMA}, {codegen.PERMUTATION_BETA, codegen.PERMUTATION_GAMMA}} {
		out.Linef("\tfor i := range params.%s {", c.beta)
		out.Linef("\t\tparams.%s[i].SetUint64(uint64(0x%x + i))", c.beta, BETA_SEED)
		out.Linef("\t\tparams.%s[i].SetUint64(uint64(0x%x + i))", c.gamma, GAMMA_SEED)
		out.Line("\t}")
	}
	//
	out.Line("\t//")
	out.Line("\tComputeHelperColumns(polys, &params)")
	out.Line("\t//")
	out.Line("\tfor i := 0; i < polys.Size(); i++ {")
	out.Line("\t\tvar evals [NumSubrelations]fr.Element")
	out.Line("\t\t//")
	out.Line("\t\tAccumulateRelations(evals[:], polys.Row(i), &params, scaling)")
	out.Line("\t\t//")
	out.Line("\t\tfor j := range evals {")
	out.Line("\t\t\tif !SubrelationLinearlyIndependent[j] {")
	out.Line("\t\t\t\tsums[j].Add(&sums[j], &evals[j])")
	out.Line("\t\t\t} else if !evals[j].IsZero() {")
	out.Line("\t\t\t\treturn fmt.Errorf(\"relation %s fails on row %d\", SubrelationLabels[j], i)")
	out.Line("\t\t\t}")
	out.Line("\t\t}")
	out.Line("\t}")
	out.Line("\t//")
	out.Line("\tfor j := range sums {")
	out.Line("\t\tif !SubrelationLinearlyIndependent[j] && !sums[j].IsZero() {")
	out.Line("\t\t\treturn fmt.Errorf(\"relation %s fails when summed over all rows\", SubrelationLabels[j])")
	out.Line("\t\t}")
	out.Line("\t}")
	out.Line("\t//")
	out.Line("\treturn nil")
	out.Line("}")
}
