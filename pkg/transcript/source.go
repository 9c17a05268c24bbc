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
package transcript

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"

	"github.com/consensys/go-pilcom/pkg/backend/protocol"
)

// ParseManifest extracts the entries of a manifest variable declared in a
// generated source file.
func ParseManifest(src []byte, name string) ([]Entry, error) {
	file, err := parser.ParseFile(token.NewFileSet(), "", src, 0)
	if err != nil {
		return nil, err
	}
	//
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.VAR {
			continue
		}
		//
		for _, spec := range gen.Specs {
			value, ok := spec.(*ast.ValueSpec)
			if !ok || len(value.Names) != 1 || value.Names[0].Name != name || len(value.Values) != 1 {
				continue
			} else if lit, ok := value.Values[0].(*ast.CompositeLit); ok {
				return parseEntries(lit)
			}
			//
			return nil, fmt.Errorf("manifest %s is not a composite literal", name)
		}
	}
	//
	return nil, fmt.Errorf("manifest %s not found", name)
}

func parseEntries(lit *ast.CompositeLit) ([]Entry, error) {
	var entries = make([]Entry, 0, len(lit.Elts))
	//
	for i, elt := range lit.Elts {
		entry, ok := elt.(*ast.CompositeLit)
		if !ok {
			return nil, fmt.Errorf("manifest entry %d is not a composite literal", i)
		}
		//
		var e Entry
		//
		for _, field := range entry.Elts {
			if err := parseField(&e, field); err != nil {
				return nil, fmt.Errorf("manifest entry %d: %w", i, err)
			}
		}
		//
		entries = append(entries, e)
	}
	//
	return entries, nil
}

func parseField(e *Entry, field ast.Expr) error {
	kv, ok := field.(*ast.KeyValueExpr)
	if !ok {
		return fmt.Errorf("expected key-value field")
	}
	//
	key, ok := kv.Key.(*ast.Ident)
	if !ok {
		return fmt.Errorf("expected field name")
	}
	//
	var err error
	//
	switch key.Name {
	case "Round":
		var text string
		if text, err = literal(kv.Value, token.INT); err == nil {
			e.Round, err = strconv.Atoi(text)
		}
	case "Op":
		var text string
		if text, err = stringLiteral(kv.Value); err == nil {
			e.Op, err = protocol.ParseOp(text)
		}
	case "Challenge":
		e.Challenge, err = stringLiteral(kv.Value)
	case "Label":
		e.Label, err = stringLiteral(kv.Value)
	case "Repeated":
		ident, ok := kv.Value.(*ast.Ident)
		if !ok || (ident.Name != "true" && ident.Name != "false") {
			return fmt.Errorf("expected boolean for Repeated")
		}
		//
		e.Repeated = ident.Name == "true"
	default:
		return fmt.Errorf("unknown field %s", key.Name)
	}
	//
	return err
}

func literal(expr ast.Expr, kind token.Token) (string, error) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != kind {
		return "", fmt.Errorf("expected %s literal", kind)
	}
	//
	return lit.Value, nil
}

func stringLiteral(expr ast.Expr) (string, error) {
	text, err := literal(expr, token.STRING)
	if err != nil {
		return "", err
	}
	//
	return strconv.Unquote(text)
}

// ExtractCalls recovers the transcript operations performed by a generated
// function, in source order.  Operations are calls to the absorb and squeeze
// methods whose challenge and label are either string literals, or calls to
// fmt.Sprintf with a literal format (as used within the sumcheck loop).
// Operations inside a loop are marked as repeated.  Rounds cannot be recovered
// and are reported as -1.
func ExtractCalls(src []byte, function string) ([]Entry, error) {
	file, err := parser.ParseFile(token.NewFileSet(), "", src, 0)
	if err != nil {
		return nil, err
	}
	//
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Recv == nil && fn.Name.Name == function {
			var extractor = callExtractor{}
			//
			extractor.block(fn.Body, false)
			//
			return extractor.entries, extractor.err
		}
	}
	//
	return nil, fmt.Errorf("function %s not found", function)
}

type callExtractor struct {
	entries []Entry
	err     error
}

func (p *callExtractor) block(block *ast.BlockStmt, repeated bool) {
	// Loop bodies are visited separately, so that their calls are marked as
	// repeated.
	ast.Inspect(block, func(node ast.Node) bool {
		if p.err != nil {
			return false
		}
		//
		switch n := node.(type) {
		case *ast.ForStmt:
			p.block(n.Body, true)
			return false
		case *ast.RangeStmt:
			p.block(n.Body, true)
			return false
		case *ast.FuncLit:
			// Closures do not touch the transcript.
			return false
		case *ast.CallExpr:
			p.call(n, repeated)
		}
		//
		return true
	})
}

func (p *callExtractor) call(call *ast.CallExpr, repeated bool) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return
	}
	//
	var (
		entry = Entry{Round: -1, Repeated: repeated}
		err   error
	)
	//
	switch sel.Sel.Name {
	case protocol.ABSORB_METHOD:
		if len(call.Args) != 3 {
			p.err = fmt.Errorf("malformed call to %s", protocol.ABSORB_METHOD)
			return
		}
		//
		entry.Op = protocol.ABSORB
		if entry.Challenge, err = p.argument(call.Args[0]); err == nil {
			entry.Label, err = p.argument(call.Args[1])
		}
	case protocol.SQUEEZE_METHOD:
		if len(call.Args) != 1 {
			p.err = fmt.Errorf("malformed call to %s", protocol.SQUEEZE_METHOD)
			return
		}
		//
		entry.Op = protocol.SQUEEZE
		entry.Challenge, err = p.argument(call.Args[0])
		entry.Label = entry.Challenge
	default:
		return
	}
	//
	if err != nil {
		p.err = err
		return
	}
	//
	p.entries = append(p.entries, entry)
}

// Recover the text of a challenge or label argument.
func (p *callExtractor) argument(arg ast.Expr) (string, error) {
	if call, ok := arg.(*ast.CallExpr); ok {
		if sel, ok := call.Fun.(*ast.SelectorExpr); ok && sel.Sel.Name == "Sprintf" && len(call.Args) > 0 {
			return stringLiteral(call.Args[0])
		}
	}
	//
	return stringLiteral(arg)
}
