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
package permutation

import (
	"fmt"

	"github.com/consensys/go-pilcom/pkg/backend/codegen"
	"github.com/consensys/go-pilcom/pkg/ir"
)

// grandProduct compiles a permutation argument into one running product per
// pair of sides (0, j).  The accumulator z satisfies
//
//	(z + L_first) * N_0 = (z' + L_last) * D_j
//
// on every row, where N_0 and D_j compress the tuples of the two sides (or are
// one on unselected rows).  Hence z starts from zero on the first row (read as
// one), accumulates N_0/D_j, and must reach one on the closing row.
type grandProduct struct{}

func (p *grandProduct) compile(k int, arg codegen.PermutationArgument) (codegen.RelationInfo, []codegen.HelperColumn) {
	var (
		rel     = relationOf(k, arg, "grand product")
		helpers []codegen.HelperColumn
		first   = codegen.Helper(codegen.LAGRANGE_FIRST)
		last    = codegen.Helper(codegen.LAGRANGE_LAST)
		num     = term(k, arg.Sides[0])
	)
	//
	for j := 1; j < len(arg.Sides); j++ {
		var (
			name  = codegen.PermutationAccumulator(k, j, len(arg.Sides))
			z     = codegen.Helper(name)
			zNext = codegen.HelperNext(name)
			den   = term(k, arg.Sides[j])
			step  = ir.Difference(ir.Product(ir.Sum(z, first), num), ir.Product(ir.Sum(zNext, last), den))
			end   = ir.Product(last, zNext)
			index = len(rel.Subrelations)
		)
		//
		rel.Subrelations = append(rel.Subrelations,
			codegen.Subrelation{
				Label:               fmt.Sprintf("%s#%d", rel.Name, index),
				Comment:             fmt.Sprintf("%s accumulates sides 0 and %d", name, j),
				Construct:           arg.Construct,
				Expr:                step,
				Degree:              step.Degree(),
				LinearlyIndependent: true,
			},
			codegen.Subrelation{
				Label:               fmt.Sprintf("%s#%d", rel.Name, index+1),
				Comment:             fmt.Sprintf("%s closes at one", name),
				Construct:           arg.Construct,
				Expr:                end,
				Degree:              end.Degree(),
				LinearlyIndependent: true,
			})
		//
		helpers = append(helpers, codegen.HelperColumn{
			Name:      name,
			Role:      codegen.DERIVED,
			Shifted:   true,
			Construct: arg.Construct,
			Compute:   codegen.ComputeFunction(name),
		})
	}
	//
	return rel, helpers
}

func (p *grandProduct) emitCompute(file *codegen.GoFile, fields codegen.FieldMap, k int,
	arg codegen.PermutationArgument) {
	var (
		out  = file.Body()
		body = out.Indent()
		loop = body.Indent()
		num  = term(k, arg.Sides[0])
	)
	//
	file.Import("", codegen.FR_IMPORT)
	//
	for j := 1; j < len(arg.Sides); j++ {
		var (
			name   = codegen.PermutationAccumulator(k, j, len(arg.Sides))
			target = "polys." + codegen.Field(name)
			den    = term(k, arg.Sides[j])
		)
		//
		out.Linef("// %s computes the running product of %s between sides 0 and %d.",
			codegen.ComputeFunction(name), codegen.OneLine(arg.Construct), j)
		out.Linef("func %s(polys *ProverPolynomials, params *RelationParameters) {", codegen.ComputeFunction(name))
		body.Line("var (")
		body.Line("\tsize        = polys.Size()")
		body.Line("\tnumerator   = make([]fr.Element, size)")
		body.Line("\tdenominator = make([]fr.Element, size)")
		body.Line(")")
		body.Line("//")
		body.Line("for i := 0; i < size; i++ {")
		loop.Line("in := polys.Row(i)")
		//
		if !codegen.ReadsRow(num, den) {
			loop.Line("_ = in")
		}
		//
		emitter := codegen.NewEmitter(loop, fields, codegen.RowAccess("in"), "params")
		emitter.Assign("numerator[i]", num)
		emitter.Assign("denominator[i]", den)
		body.Line("}")
		body.Line("//")
		body.Line("denominator = fr.BatchInvert(denominator)")
		body.Line("acc := fr.One()")
		body.Linef("%s[0].SetZero()", target)
		body.Line("//")
		body.Line("for i := 0; i+1 < size; i++ {")
		loop.Line("acc.Mul(&acc, &numerator[i])")
		loop.Line("acc.Mul(&acc, &denominator[i])")
		loop.Linef("%s[i+1] = acc", target)
		body.Line("}")
		out.Line("}")
		out.Line()
	}
}

// Compress one side of the kth permutation, giving s*(gamma + t_0 + beta*t_1 +
// ...) + 1 - s, or just the compressed tuple for a side without selector.
func term(k int, side codegen.PermutationSide) ir.Expr {
	compressed := codegen.Compress(codegen.PermutationBeta(k), codegen.PermutationGamma(k), side.Values)
	//
	if side.Selector == nil {
		return compressed
	}
	//
	return ir.Sum(ir.Product(side.Selector, compressed), ir.Difference(ir.Const64(1), side.Selector))
}
