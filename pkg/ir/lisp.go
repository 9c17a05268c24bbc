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
	"strconv"
	"strings"

	"github.com/consensys/go-pilcom/pkg/sexp"
)

// ExprString prints an expression in the S-expression syntax accepted by
// ParseExpr.
func ExprString(e Expr, mapping ColumnMap) string {
	return e.Lisp(mapping).String()
}

// Lisp converts this VM into a sequence of S-Expressions, one per declaration.
// This is the canonical form from which fingerprints are computed.
func (p *VM) Lisp() []sexp.SExp {
	var decls []sexp.SExp
	//
	decls = append(decls, list(sym("vm"), sym(quote(p.name))))
	//
	for _, c := range p.columns {
		decls = append(decls, list(sym("column"), sym(quote(c.Name)), sym(c.Kind.String())))
	}
	//
	for _, r := range p.relations {
		decls = append(decls, list(sym("relation"), sym(quote(r.Name))))
		//
		for _, id := range r.Identities {
			decls = append(decls, list(sym("identity"), sym(quote(r.Name)), p.optional(id.Selector),
				id.Expr.Lisp(p), sym(strconv.FormatUint(uint64(id.Degree), 10))))
		}
	}
	//
	for _, l := range p.lookups {
		counts := sym("_")
		if l.Counts.HasValue() {
			counts = sym(p.ColumnName(l.Counts.Unwrap()))
		}
		//
		decls = append(decls, list(sym("lookup"), sym(quote(l.Name)),
			p.optional(l.Selector), p.tuple(l.Inputs),
			p.optional(l.TableSelector), p.tuple(l.Table), counts))
	}
	//
	for _, perm := range p.permutations {
		elements := []sexp.SExp{sym("permutation"), sym(quote(perm.Name))}
		//
		for _, side := range perm.Sides {
			columns := make([]Expr, len(side.Columns))
			for i := range side.Columns {
				columns[i] = &side.Columns[i]
			}
			//
			elements = append(elements, list(p.optional(side.Selector), p.tuple(columns)))
		}
		//
		decls = append(decls, list(elements...))
	}
	//
	for _, c := range p.copies {
		decls = append(decls, list(sym("copy"), p.optional(c.Selector),
			p.cell(c.Left), p.cell(c.Right)))
	}
	//
	return decls
}

// String returns the canonical printed form of this VM, one declaration per
// line.
func (p *VM) String() string {
	var builder strings.Builder
	//
	for _, decl := range p.Lisp() {
		builder.WriteString(decl.String())
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

func (p *VM) optional(e Expr) sexp.SExp {
	if e == nil {
		return sym("_")
	}
	//
	return e.Lisp(p)
}

func (p *VM) tuple(exprs []Expr) sexp.SExp {
	elements := make([]sexp.SExp, len(exprs))
	//
	for i, e := range exprs {
		elements[i] = e.Lisp(p)
	}
	//
	return list(elements...)
}

func (p *VM) cell(c Cell) sexp.SExp {
	return list(sym(p.ColumnName(c.Column)), sym(strconv.Itoa(c.Offset)))
}

func quote(s string) string {
	return strconv.Quote(s)
}

func sym(s string) *sexp.Symbol {
	return sexp.NewSymbol(s)
}

func list(elements ...sexp.SExp) *sexp.List {
	return sexp.NewList(elements...)
}
