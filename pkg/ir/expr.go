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
	"math"
	"math/bits"

	"github.com/consensys/go-pilcom/pkg/sexp"
)

// Expr represents a polynomial expression over the columns of a VM, and their
// row shifts.  Expressions are immutable once constructed.
type Expr interface {
	// Degree returns the algebraic degree of this expression, where every column
	// access has degree one and every constant has degree zero.
	Degree() uint
	// Lisp converts this expression into a simple S-Expression, for example so
	// it can be printed.
	Lisp(mapping ColumnMap) sexp.SExp
	// Visit applies a function to this expression and, recursively, to all of
	// its subexpressions in left-to-right order.
	Visit(fn func(Expr))
}

// ColumnMap provides the names of columns, as needed for printing expressions.
type ColumnMap interface {
	// ColumnName returns the name of the column with the given handle.
	ColumnName(ColumnId) string
}

// ============================================================================
// Add / Sub / Mul
// ============================================================================

// Add represents the addition of zero or more expressions.
type Add struct{ Args []Expr }

// Sub represents the left-associative subtraction of one or more expressions.
type Sub struct{ Args []Expr }

// Mul represents the multiplication of zero or more expressions.
type Mul struct{ Args []Expr }

// Sum zero or more expressions together.
func Sum(args ...Expr) Expr { return &Add{args} }

// Difference subtracts all remaining expressions from the first.
func Difference(args ...Expr) Expr { return &Sub{args} }

// Product multiplies zero or more expressions together.
func Product(args ...Expr) Expr { return &Mul{args} }

// Degree implementation for Expr interface.
func (p *Add) Degree() uint { return maxDegreeOf(p.Args) }

// Degree implementation for Expr interface.
func (p *Sub) Degree() uint { return maxDegreeOf(p.Args) }

// Degree implementation for Expr interface.  The degree of a product is the
// sum of the degrees of its factors.
func (p *Mul) Degree() uint {
	var degree uint
	//
	for _, arg := range p.Args {
		degree = addDegree(degree, arg.Degree())
	}
	//
	return degree
}

// Lisp implementation for Expr interface.
func (p *Add) Lisp(mapping ColumnMap) sexp.SExp { return lispOfArgs(mapping, "+", p.Args) }

// Lisp implementation for Expr interface.
func (p *Sub) Lisp(mapping ColumnMap) sexp.SExp { return lispOfArgs(mapping, "-", p.Args) }

// Lisp implementation for Expr interface.
func (p *Mul) Lisp(mapping ColumnMap) sexp.SExp { return lispOfArgs(mapping, "*", p.Args) }

// Visit implementation for Expr interface.
func (p *Add) Visit(fn func(Expr)) { visitArgs(p, fn, p.Args) }

// Visit implementation for Expr interface.
func (p *Sub) Visit(fn func(Expr)) { visitArgs(p, fn, p.Args) }

// Visit implementation for Expr interface.
func (p *Mul) Visit(fn func(Expr)) { visitArgs(p, fn, p.Args) }

// ============================================================================
// Neg / Exp
// ============================================================================

// Neg represents the additive inverse of an expression.
type Neg struct{ Arg Expr }

// Exp represents an expression raised to a constant power.
type Exp struct {
	Arg Expr
	Pow uint64
}

// Negate constructs the additive inverse of an expression.
func Negate(arg Expr) Expr { return &Neg{arg} }

// Power raises an expression to a constant power.
func Power(arg Expr, pow uint64) Expr { return &Exp{arg, pow} }

// Degree implementation for Expr interface.
func (p *Neg) Degree() uint { return p.Arg.Degree() }

// Degree implementation for Expr interface.
func (p *Exp) Degree() uint {
	degree := p.Arg.Degree()
	//
	if degree == 0 || p.Pow == 0 {
		return 0
	} else if p.Pow > math.MaxUint {
		return math.MaxUint
	}
	//
	return mulDegree(degree, uint(p.Pow))
}

// Lisp implementation for Expr interface.
func (p *Neg) Lisp(mapping ColumnMap) sexp.SExp {
	return sexp.NewList(sexp.NewSymbol("neg"), p.Arg.Lisp(mapping))
}

// Lisp implementation for Expr interface.
func (p *Exp) Lisp(mapping ColumnMap) sexp.SExp {
	return sexp.NewList(sexp.NewSymbol("^"), p.Arg.Lisp(mapping), sexp.NewSymbol(uintString(p.Pow)))
}

// Visit implementation for Expr interface.
func (p *Neg) Visit(fn func(Expr)) { visitArgs(p, fn, []Expr{p.Arg}) }

// Visit implementation for Expr interface.
func (p *Exp) Visit(fn func(Expr)) { visitArgs(p, fn, []Expr{p.Arg}) }

// ============================================================================
// Helpers
// ============================================================================

// Accesses returns every column access within an expression, in left-to-right
// order.  Repeated accesses are returned repeatedly.
func Accesses(e Expr) []*ColumnAccess {
	var accesses []*ColumnAccess
	//
	e.Visit(func(e Expr) {
		if a, ok := e.(*ColumnAccess); ok {
			accesses = append(accesses, a)
		}
	})
	//
	return accesses
}

// Degrees saturate at math.MaxUint, so an overflowing degree is still too
// large rather than wrapping around to something small.
func addDegree(x uint, y uint) uint {
	if sum, carry := bits.Add(x, y, 0); carry == 0 {
		return sum
	}
	//
	return math.MaxUint
}

func mulDegree(x uint, y uint) uint {
	if hi, lo := bits.Mul(x, y); hi == 0 {
		return lo
	}
	//
	return math.MaxUint
}

func maxDegreeOf(args []Expr) uint {
	var degree uint
	//
	for _, arg := range args {
		degree = max(degree, arg.Degree())
	}
	//
	return degree
}

func lispOfArgs(mapping ColumnMap, op string, args []Expr) sexp.SExp {
	elements := make([]sexp.SExp, len(args)+1)
	elements[0] = sexp.NewSymbol(op)
	//
	for i, arg := range args {
		elements[i+1] = arg.Lisp(mapping)
	}
	//
	return sexp.NewList(elements...)
}

func visitArgs(self Expr, fn func(Expr), args []Expr) {
	fn(self)
	//
	for _, arg := range args {
		arg.Visit(fn)
	}
}
