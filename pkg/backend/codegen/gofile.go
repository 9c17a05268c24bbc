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
	"go/format"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/util"
)

// Import paths used by generated code.
const (
	FR_IMPORT          = "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	FIAT_SHAMIR_IMPORT = "github.com/consensys/gnark-crypto/fiat-shamir"
	RUNTIME_ALIAS      = "honk"
)

type goImport struct {
	alias string
	path  string
	used  *regexp.Regexp
}

// GoFile accumulates the body of a generated Go source file.  Imports are
// declared up front as candidates, and only those actually referenced by the
// body are emitted.  This keeps generated files free of unused imports for VMs
// without (say) any lookups.
type GoFile struct {
	name    string
	pkg     string
	doc     string
	imports []goImport
	body    util.IndentBuilder
}

// NewGoFile constructs an empty file of the given name within a package.
func NewGoFile(name string, pkg string) *GoFile {
	return &GoFile{name: name, pkg: pkg, body: util.NewIndentBuilder()}
}

// Doc sets the package documentation written above the package clause.
func (p *GoFile) Doc(doc string) {
	p.doc = doc
}

// Import declares a candidate import, using the last element of its path as
// the package name unless an alias is given.
func (p *GoFile) Import(alias string, importPath string) {
	name := alias
	if name == "" {
		name = path.Base(importPath)
	}
	//
	for _, i := range p.imports {
		if i.path == importPath {
			return
		}
	}
	//
	used := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\.`)
	p.imports = append(p.imports, goImport{alias, importPath, used})
}

// Body returns the builder for the body of this file.
func (p *GoFile) Body() *util.IndentBuilder {
	return &p.body
}

// Artifact assembles and formats this file.  Failing to format indicates a
// malformed body, and is always a bug in the backend.
func (p *GoFile) Artifact() (artifact.Artifact, error) {
	var (
		src  strings.Builder
		body = p.body.String()
	)
	//
	if p.doc != "" {
		for _, line := range strings.Split(p.doc, "\n") {
			src.WriteString("// " + line + "\n")
		}
	}
	//
	fmt.Fprintf(&src, "package %s\n\n", p.pkg)
	p.writeImports(&src, body)
	src.WriteString(body)
	//
	formatted, err := format.Source([]byte(src.String()))
	if err != nil {
		return artifact.Artifact{}, fmt.Errorf("generated %s is malformed: %w", p.name, err)
	}
	//
	return artifact.Artifact{Name: p.name, Package: p.pkg, Content: formatted}, nil
}

func (p *GoFile) writeImports(src *strings.Builder, body string) {
	var std, other []goImport
	//
	for _, i := range p.imports {
		if !i.used.MatchString(body) {
			continue
		} else if strings.Contains(i.path, ".") {
			other = append(other, i)
		} else {
			std = append(std, i)
		}
	}
	//
	if len(std)+len(other) == 0 {
		return
	}
	//
	byPath := func(l, r goImport) int { return strings.Compare(l.path, r.path) }
	slices.SortFunc(std, byPath)
	slices.SortFunc(other, byPath)
	//
	src.WriteString("import (\n")
	//
	for _, group := range [][]goImport{std, other} {
		for _, i := range group {
			if i.alias != "" {
				fmt.Fprintf(src, "\t%s \"%s\"\n", i.alias, i.path)
			} else {
				fmt.Fprintf(src, "\t\"%s\"\n", i.path)
			}
		}
		//
		if len(group) > 0 {
			src.WriteString("\n")
		}
	}
	//
	src.WriteString(")\n\n")
}
