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
	"errors"
	"strconv"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/go-pilcom/pkg/sexp"
)

// ColumnResolver resolves column names into handles.  Both Builder and VM are
// resolvers.
type ColumnResolver interface {
	ColumnByName(name string) (ColumnId, bool)
}

// ParseExpr parses an expression written as an S-expression, such as "(- (* a
// b) 1)".  Column names are resolved against the given resolver, and a name
// followed by a single quote (e.g. "a'") reads the next row of that column.
// Constants are decimal or hexadecimal ("0x..") numbers, optionally negated with
// a leading "-".
func ParseExpr(text string, columns ColumnResolver) (Expr, error) {
	return newExprTranslator(columns).ParseAndTranslate(text)
}

// ParseColumnAccess parses a (possibly shifted) column access, which is either
// a column name, a primed column name, or a list "(shift name k)".
func ParseColumnAccess(text string, columns ColumnResolver) (ColumnAccess, error) {
	e, err := ParseExpr(text, columns)
	if err != nil {
		return ColumnAccess{}, err
	} else if access, ok := e.(*ColumnAccess); ok {
		return *access, nil
	}
	//
	return ColumnAccess{}, errors.New("expected column access, found \"" + text + "\"")
}

func newExprTranslator(columns ColumnResolver) *sexp.Translator[Expr] {
	p := sexp.NewTranslator[Expr]()
	//
	p.AddSymbolRule(constantRule)
	p.AddSymbolRule(columnRule(columns))
	p.AddRecursiveRule("+", naryRule(Sum))
	p.AddRecursiveRule("-", naryRule(Difference))
	p.AddRecursiveRule("*", naryRule(Product))
	p.AddRecursiveRule("neg", negRule)
	p.AddListRule("^", powRule(p))
	p.AddListRule("shift", shiftRule(p, columns))
	//
	return p
}

func constantRule(symbol string) (Expr, bool, error) {
	digits := strings.TrimPrefix(symbol, "-")
	//
	if digits == "" || digits[0] < '0' || digits[0] > '9' {
		return nil, false, nil
	}
	//
	var val fr.Element
	//
	if _, err := val.SetString(symbol); err != nil {
		return nil, true, errors.New("invalid constant \"" + symbol + "\"")
	}
	//
	return Const(val), true, nil
}

func columnRule(columns ColumnResolver) sexp.SymbolRule[Expr] {
	return func(symbol string) (Expr, bool, error) {
		var (
			name  = strings.TrimSuffix(symbol, "'")
			shift = len(symbol) - len(name)
		)
		//
		if id, ok := columns.ColumnByName(name); ok {
			return &ColumnAccess{id, shift}, true, nil
		}
		//
		return nil, true, Errorf(UnknownColumnReference, "", "column \"%s\" is not declared", name)
	}
}

func naryRule(constructor func(...Expr) Expr) sexp.RecursiveRule[Expr] {
	return func(args []Expr) (Expr, error) {
		if len(args) == 0 {
			return nil, errors.New("expected at least one argument")
		}
		//
		return constructor(args...), nil
	}
}

func negRule(args []Expr) (Expr, error) {
	if len(args) != 1 {
		return nil, errors.New("expected exactly one argument")
	}
	//
	return Negate(args[0]), nil
}

func powRule(p *sexp.Translator[Expr]) sexp.ListRule[Expr] {
	return func(l *sexp.List) (Expr, error) {
		if l.Len() != 3 || !l.Get(2).IsSymbol() {
			return nil, p.SyntaxError(l, "expected (^ expr n)")
		}
		//
		arg, err := p.Translate(l.Get(1))
		if err != nil {
			return nil, err
		}
		//
		pow, err := strconv.ParseUint(l.Get(2).String(), 10, 64)
		if err != nil {
			return nil, p.SyntaxError(l.Get(2), "invalid exponent")
		}
		//
		return Power(arg, pow), nil
	}
}

func shiftRule(p *sexp.Translator[Expr], columns ColumnResolver) sexp.ListRule[Expr] {
	return func(l *sexp.List) (Expr, error) {
		if l.Len() != 3 || !l.Get(1).IsSymbol() || !l.Get(2).IsSymbol() {
			return nil, p.SyntaxError(l, "expected (shift column n)")
		}
		//
		id, ok := columns.ColumnByName(l.Get(1).String())
		if !ok {
			return nil, Errorf(UnknownColumnReference, "", "column \"%s\" is not declared", l.Get(1).String())
		}
		//
		shift, err := strconv.Atoi(l.Get(2).String())
		if err != nil {
			return nil, p.SyntaxError(l.Get(2), "invalid shift")
		}
		//
		return &ColumnAccess{id, shift}, nil
	}
}
