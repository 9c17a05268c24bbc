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
)

// LogDerivative describes a logarithmic derivative argument, asserting that
//
//	sum_i q_r(i) / R(i) = sum_i m(i) / W(i)
//
// where R compresses the read tuple and W the write tuple of each row.  The
// argument uses a single inverse helper I, which holds 1/(R*W) on rows where
// either side is active and zero elsewhere.
type LogDerivative struct {
	// Inverse is the name of the inverse helper column.
	Inverse string
	// Beta and Gamma challenges compressing tuples.
	Beta, Gamma *Challenge
	// ReadSelector selects rows whose tuple is read (nil means every row).
	ReadSelector ir.Expr
	// Reads is the tuple read.
	Reads []ir.Expr
	// WriteSelector selects rows whose tuple is written (nil means every row).
	WriteSelector ir.Expr
	// Writes is the tuple written.
	Writes []ir.Expr
	// Counts is the number of times each written tuple is read.  When nil, each
	// active written tuple is read exactly once.
	Counts ir.Expr
}

// InverseExists returns the expression which is one on rows where the inverse
// is defined, namely q_r + q_w - q_r*q_w.
func (p *LogDerivative) InverseExists() ir.Expr {
	switch {
	case p.ReadSelector == nil && p.WriteSelector == nil:
		return ir.Const64(1)
	case p.WriteSelector == nil:
		return p.ReadSelector
	case p.ReadSelector == nil:
		return p.WriteSelector
	}
	//
	return ir.Difference(ir.Sum(p.ReadSelector, p.WriteSelector), ir.Product(p.ReadSelector, p.WriteSelector))
}

// ReadTerm returns the compressed read tuple R.
func (p *LogDerivative) ReadTerm() ir.Expr {
	return Compress(p.Beta, p.Gamma, p.Reads)
}

// WriteTerm returns the compressed write tuple W.
func (p *LogDerivative) WriteTerm() ir.Expr {
	return Compress(p.Beta, p.Gamma, p.Writes)
}

// Multiplicity returns the read count of each written tuple.
func (p *LogDerivative) Multiplicity() ir.Expr {
	if p.Counts != nil {
		return p.Counts
	}
	//
	return OrOne(p.WriteSelector)
}

// Subrelations returns the two sub-identities of this argument.  The first,
// I*R*W - E, establishes the inverse on every row.  The second, q_r*I*W -
// m*I*R, is linearly dependent and sums to zero exactly when the argument
// holds.
func (p *LogDerivative) Subrelations(name string, construct string) []Subrelation {
	var (
		inverse = Helper(p.Inverse)
		read    = p.ReadTerm()
		write   = p.WriteTerm()
	)
	//
	correctness := ir.Difference(ir.Product(inverse, read, write), p.InverseExists())
	sum := ir.Difference(product(p.ReadSelector, inverse, write), ir.Product(p.Multiplicity(), inverse, read))
	//
	return []Subrelation{
		{fmt.Sprintf("%s#0", name), "inverse correctness", construct, correctness, correctness.Degree(), true},
		{fmt.Sprintf("%s#1", name), "log derivative sum", construct, sum, sum.Degree(), false},
	}
}

// Helper returns the inverse column of this argument.
func (p *LogDerivative) Helper(construct string) HelperColumn {
	return HelperColumn{p.Inverse, DERIVED, false, construct, ComputeFunction(p.Inverse)}
}

// EmitCompute writes the function computing the inverse column.  Inverses are
// computed with a single batch inversion.
func (p *LogDerivative) EmitCompute(file *GoFile, fields FieldMap, doc string) {
	var (
		out    = file.Body()
		body   = out.Indent()
		row    = body.Indent()
		target = fmt.Sprintf("polys.%s", Field(p.Inverse))
	)
	//
	file.Import("", FR_IMPORT)
	out.Linef("// %s computes %s", ComputeFunction(p.Inverse), OneLine(doc))
	out.Linef("func %s(polys *ProverPolynomials, params *RelationParameters) {", ComputeFunction(p.Inverse))
	body.Line("for i := 0; i < polys.Size(); i++ {")
	row.Line("in := polys.Row(i)")
	//
	if !ReadsRow(p.InverseExists(), p.ReadTerm(), p.WriteTerm()) {
		row.Line("_ = in")
	}
	//
	emitter := NewEmitter(row, fields, RowAccess("in"), "params")
	exists := emitter.Emit(p.InverseExists())
	row.Linef("if %s.IsZero() {", exists)
	row.Linef("\t%s[i].SetZero()", target)
	row.Line("\tcontinue")
	row.Line("}")
	emitter.Assign(target+"[i]", ir.Product(p.ReadTerm(), p.WriteTerm()))
	body.Line("}")
	body.Line("//")
	body.Linef("copy(%s, fr.BatchInvert(%s))", target, target)
	out.Line("}")
	out.Line()
}

// ComputeFunction names the generated function computing a derived column.
func ComputeFunction(helper string) string {
	return "compute" + Field(helper)
}

// Multiply an optional selector with further factors.
func product(selector ir.Expr, factors ...ir.Expr) ir.Expr {
	if selector == nil {
		return ir.Product(factors...)
	}
	//
	return ir.Product(append([]ir.Expr{selector}, factors...)...)
}

// ReadsRow checks whether any of the given expressions reads a column.
func ReadsRow(exprs ...ir.Expr) bool {
	var reads bool
	//
	for _, e := range exprs {
		e.Visit(func(e ir.Expr) {
			switch e.(type) {
			case *ir.ColumnAccess, *HelperAccess:
				reads = true
			}
		})
	}
	//
	return reads
}
