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
	"github.com/consensys/go-pilcom/pkg/sexp"
)

// HelperAccess reads a helper column synthesized by the backend.  Helper
// columns do not exist in the IR, hence they are identified by name rather
// than by handle.
type HelperAccess struct {
	// Name of the helper column, such as "lookup_0_inv".
	Name string
	// Shift is either 0 (current row) or 1 (next row).
	Shift int
}

// Helper constructs an access to the current row of a helper column.
func Helper(name string) *HelperAccess {
	return &HelperAccess{name, 0}
}

// HelperNext constructs an access to the next row of a helper column.
func HelperNext(name string) *HelperAccess {
	return &HelperAccess{name, 1}
}

// Degree implementation for Expr interface.
func (p *HelperAccess) Degree() uint { return 1 }

// Lisp implementation for Expr interface.
func (p *HelperAccess) Lisp(mapping ir.ColumnMap) sexp.SExp {
	if p.Shift != 0 {
		return sexp.NewSymbol(p.Name + "'")
	}
	//
	return sexp.NewSymbol(p.Name)
}

// Visit implementation for Expr interface.
func (p *HelperAccess) Visit(fn func(ir.Expr)) { fn(p) }

// Challenge reads a verifier challenge held in the generated RelationParameters
// type.  Challenges are constant across rows, hence have degree zero.
type Challenge struct {
	// Label of this challenge in the transcript.
	Label string
	// Field of RelationParameters holding this challenge.
	Field string
	// Index within that field.
	Index int
}

// Degree implementation for Expr interface.
func (p *Challenge) Degree() uint { return 0 }

// Lisp implementation for Expr interface.
func (p *Challenge) Lisp(mapping ir.ColumnMap) sexp.SExp {
	return sexp.NewSymbol(p.Label)
}

// Visit implementation for Expr interface.
func (p *Challenge) Visit(fn func(ir.Expr)) { fn(p) }

// LookupBeta is the beta challenge of the kth lookup.
func LookupBeta(k int) *Challenge {
	beta, _ := LookupChallenges(k)
	return &Challenge{beta, LOOKUP_BETA, k}
}

// LookupGamma is the gamma challenge of the kth lookup.
func LookupGamma(k int) *Challenge {
	_, gamma := LookupChallenges(k)
	return &Challenge{gamma, LOOKUP_GAMMA, k}
}

// PermutationBeta is the beta challenge of the kth permutation.
func PermutationBeta(k int) *Challenge {
	beta, _ := PermutationChallenges(k)
	return &Challenge{beta, PERMUTATION_BETA, k}
}

// PermutationGamma is the gamma challenge of the kth permutation.
func PermutationGamma(k int) *Challenge {
	_, gamma := PermutationChallenges(k)
	return &Challenge{gamma, PERMUTATION_GAMMA, k}
}

// Compress combines a tuple of expressions into a single expression, namely
// gamma + t_0 + beta*t_1 + beta^2*t_2 + ...
func Compress(beta ir.Expr, gamma ir.Expr, tuple []ir.Expr) ir.Expr {
	terms := []ir.Expr{gamma}
	//
	for i, t := range tuple {
		switch i {
		case 0:
			terms = append(terms, t)
		case 1:
			terms = append(terms, ir.Product(beta, t))
		default:
			terms = append(terms, ir.Product(ir.Power(beta, uint64(i)), t))
		}
	}
	//
	return ir.Sum(terms...)
}

// OrOne returns the given selector, or the constant one when it is absent.
func OrOne(selector ir.Expr) ir.Expr {
	if selector == nil {
		return ir.Const64(1)
	}
	//
	return selector
}

// String renders an expression for inclusion in a generated comment.
func String(e ir.Expr, mapping ir.ColumnMap) string {
	return fmt.Sprint(e.Lisp(mapping))
}
