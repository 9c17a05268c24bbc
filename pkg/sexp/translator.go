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
package sexp

import (
	"fmt"
)

// SymbolRule is a symbol generator is responsible for converting a terminating
// expression (i.e. a symbol) into an expression type T.  For example, a number
// or a column access.  A rule which does not recognise the symbol returns false,
// allowing the next rule to be tried.  A rule which recognises the symbol but
// finds it invalid returns true alongside an error.
type SymbolRule[T comparable] func(string) (T, bool, error)

// ListRule is a list translator is responsible converting a list with a given
// sequence of zero or more arguments into an expression type T.  The first
// element of the list is the rule's own name.
type ListRule[T comparable] func(*List) (T, error)

// RecursiveRule is a recursive translator is a wrapper for translating lists whose
// elements can be built by recursively reusing the enclosing
// translator.
type RecursiveRule[T comparable] func([]T) (T, error)

// ===================================================================
// Translator
// ===================================================================

// Translator is a generic mechanism for translating S-Expressions into a structured
// form.
type Translator[T comparable] struct {
	// Text being translated, retained for error reporting.
	text    string
	lists   map[string]ListRule[T]
	symbols []SymbolRule[T]
}

// NewTranslator constructs a new Translator instance.
func NewTranslator[T comparable]() *Translator[T] {
	return &Translator[T]{
		lists:   make(map[string]ListRule[T]),
		symbols: make([]SymbolRule[T], 0),
	}
}

// ===================================================================
// Public
// ===================================================================

// ParseAndTranslate a given string into a given structured representation T
// using an appropriately configured.
func (p *Translator[T]) ParseAndTranslate(s string) (T, error) {
	var empty T
	// Parse string into S-expression form
	e, err := Parse(s)
	if err != nil {
		return empty, err
	}
	//
	p.text = s
	// Process S-expression into target expression
	return p.Translate(e)
}

// Translate a given S-expression into a given structured representation T
// using an appropriately configured.
func (p *Translator[T]) Translate(sexp SExp) (T, error) {
	var empty T
	//
	switch e := sexp.(type) {
	case *List:
		return p.translateList(e)
	case *Symbol:
		for _, rule := range p.symbols {
			if ir, ok, err := rule(e.Value); ok {
				return ir, err
			}
		}
		//
		return empty, p.SyntaxError(e, "unknown symbol")
	}
	//
	return empty, p.SyntaxError(sexp, "invalid S-Expression")
}

// AddRecursiveRule adds a new list translator to this expression translator.
func (p *Translator[T]) AddRecursiveRule(name string, t RecursiveRule[T]) {
	// Construct a recursive list translator as a wrapper around a generic list translator.
	p.lists[name] = func(list *List) (T, error) {
		var (
			empty T
			err   error
		)
		// Translate arguments
		args := make([]T, list.Len()-1)
		for i, s := range list.Elements[1:] {
			if args[i], err = p.Translate(s); err != nil {
				return empty, err
			}
		}
		//
		ir, err := t(args)
		if err != nil {
			return empty, p.SyntaxError(list, err.Error())
		}
		//
		return ir, nil
	}
}

// AddListRule adds a new list translator which is given the raw list.  This is
// useful for lists whose arguments are not all expressions.
func (p *Translator[T]) AddListRule(name string, t ListRule[T]) {
	p.lists[name] = t
}

// AddSymbolRule adds a new symbol translator to this expression translator.
func (p *Translator[T]) AddSymbolRule(t SymbolRule[T]) {
	p.symbols = append(p.symbols, t)
}

// SyntaxError constructs a syntax error covering the given S-Expression.
func (p *Translator[T]) SyntaxError(e SExp, msg string) *SyntaxError {
	return NewSyntaxError(p.text, e.Span(), msg)
}

// ===================================================================
// Private
// ===================================================================

// Translate a list of S-Expressions into a unary, binary or n-ary
// expression of some kind.  This type of expression is determined by
// the first element of the list.  The remaining elements are treated
// as arguments which are first recursively translated.
func (p *Translator[T]) translateList(list *List) (T, error) {
	var empty T
	// Sanity check this list makes sense
	if list.Len() == 0 || !list.Elements[0].IsSymbol() {
		return empty, p.SyntaxError(list, "invalid list")
	}
	// Extract expression name
	name := (list.Elements[0].(*Symbol)).Value
	// Lookup appropriate translator
	if t, ok := p.lists[name]; ok {
		return t(list)
	}
	// Default fall back
	return empty, p.SyntaxError(list, fmt.Sprintf("unknown list \"%s\"", name))
}
