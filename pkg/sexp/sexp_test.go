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
	"errors"
	"strconv"
	"testing"
)

// ============================================================================
// Positive Tests
// ============================================================================

func TestSexp_0(t *testing.T) {
	CheckOk(t, "()", "()")
}

func TestSexp_1(t *testing.T) {
	CheckOk(t, "(())", "(())")
}

func TestSexp_2(t *testing.T) {
	CheckOk(t, "symbol", "symbol")
}

func TestSexp_3(t *testing.T) {
	CheckOk(t, "12345", "12345")
}

func TestSexp_4(t *testing.T) {
	CheckOk(t, "(symbol123)", "(symbol123)")
}

func TestSexp_5(t *testing.T) {
	CheckOk(t, "(symbol   symbol)", "(symbol symbol)")
}

func TestSexp_6(t *testing.T) {
	CheckOk(t, "(- (* a b)\n\t1)", "(- (* a b) 1)")
}

func TestSexp_7(t *testing.T) {
	CheckOk(t, "(+ a ; comment\n b)", "(+ a b)")
}

func TestSexp_8(t *testing.T) {
	CheckOk(t, "  (shift a' 1)  ", "(shift a' 1)")
}

func TestSexp_9(t *testing.T) {
	terms, err := ParseAll("(a) b (c d)")
	if err != nil {
		t.Fatal(err)
	} else if len(terms) != 3 {
		t.Errorf("expected 3 terms, got %d", len(terms))
	}
}

func TestSexp_Span_0(t *testing.T) {
	e, err := Parse("(+ abc def)")
	if err != nil {
		t.Fatal(err)
	}
	//
	list := e.(*List)
	if list.Span() != NewSpan(0, 11) {
		t.Errorf("unexpected list span %v", list.Span())
	} else if list.Get(1).Span() != NewSpan(3, 6) {
		t.Errorf("unexpected symbol span %v", list.Get(1).Span())
	}
}

// ============================================================================
// Negative Tests
// ============================================================================

func TestSexp_Invalid_0(t *testing.T) {
	CheckErr(t, "")
}

func TestSexp_Invalid_1(t *testing.T) {
	CheckErr(t, "(")
}

func TestSexp_Invalid_2(t *testing.T) {
	CheckErr(t, ")")
}

func TestSexp_Invalid_3(t *testing.T) {
	CheckErr(t, "(a))")
}

func TestSexp_Invalid_4(t *testing.T) {
	CheckErr(t, "(a (b)")
}

func TestSexp_Invalid_5(t *testing.T) {
	CheckErr(t, "a b")
}

// ============================================================================
// Translator Tests
// ============================================================================

func TestTranslator_0(t *testing.T) {
	checkTranslate(t, "(+ 1 2 3)", 6)
}

func TestTranslator_1(t *testing.T) {
	checkTranslate(t, "(* (+ 1 2) 4)", 12)
}

func TestTranslator_2(t *testing.T) {
	checkTranslate(t, "(neg 5)", -5)
}

func TestTranslator_3(t *testing.T) {
	checkTranslateErr(t, "(/ 1 2)")
}

func TestTranslator_4(t *testing.T) {
	checkTranslateErr(t, "(+ 1 x)")
}

func TestTranslator_5(t *testing.T) {
	checkTranslateErr(t, "(neg 1 2)")
}

func TestTranslator_6(t *testing.T) {
	checkTranslateErr(t, "((+ 1) 2)")
}

// ============================================================================
// Helpers
// ============================================================================

func CheckOk(t *testing.T, input string, expected string) {
	t.Helper()
	//
	e, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if e.String() != expected {
		t.Errorf("expected %s, got %s", expected, e.String())
	}
}

func CheckErr(t *testing.T, input string) {
	t.Helper()
	//
	var serr *SyntaxError
	//
	if _, err := Parse(input); err == nil {
		t.Errorf("input %q should not parse", input)
	} else if !errors.As(err, &serr) {
		t.Errorf("expected syntax error, got %T", err)
	}
}

func integerTranslator() *Translator[int] {
	p := NewTranslator[int]()
	//
	p.AddSymbolRule(func(s string) (int, bool, error) {
		n, err := strconv.Atoi(s)
		return n, err == nil, nil
	})
	p.AddRecursiveRule("+", func(args []int) (int, error) {
		sum := 0
		for _, a := range args {
			sum += a
		}
		//
		return sum, nil
	})
	p.AddRecursiveRule("*", func(args []int) (int, error) {
		prod := 1
		for _, a := range args {
			prod *= a
		}
		//
		return prod, nil
	})
	p.AddRecursiveRule("neg", func(args []int) (int, error) {
		if len(args) != 1 {
			return 0, errors.New("neg expects one argument")
		}
		//
		return -args[0], nil
	})
	//
	return p
}

func checkTranslate(t *testing.T, input string, expected int) {
	t.Helper()
	//
	n, err := integerTranslator().ParseAndTranslate(input)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if n != expected {
		t.Errorf("expected %d, got %d", expected, n)
	}
}

func checkTranslateErr(t *testing.T, input string) {
	t.Helper()
	//
	var serr *SyntaxError
	//
	if _, err := integerTranslator().ParseAndTranslate(input); err == nil {
		t.Errorf("input %q should not translate", input)
	} else if !errors.As(err, &serr) {
		t.Errorf("expected syntax error, got %T", err)
	}
}
