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
	"strings"

	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/consensys/go-pilcom/pkg/util"
)

// Subrelation is a single polynomial which must vanish, either on every row
// (linearly independent) or summed over all rows (linearly dependent).
type Subrelation struct {
	// Label identifying this sub-identity in diagnostics, such as "mul#0".
	Label string
	// Comment describing this sub-identity in generated code.
	Comment string
	// Construct from which this sub-identity was derived.
	Construct string
	// Expr which must vanish.
	Expr ir.Expr
	// Degree of this sub-identity, which may exceed that of its expression when
	// declared explicitly.
	Degree uint
	// LinearlyIndependent sub-identities vanish row by row and are scaled by the
	// sumcheck scaling factor.  Linearly dependent ones vanish only when summed
	// over the whole trace, and are never scaled.
	LinearlyIndependent bool
}

// RelationInfo describes a generated relation type, and is the unit in which
// builders report sub-identity counts and degrees.
type RelationInfo struct {
	// Name of this relation, reported by its Name() method.
	Name string
	// Type is the generated Go type of this relation.
	Type string
	// Doc is a one line description of this relation.
	Doc string
	// Subrelations of this relation, in order.
	Subrelations []Subrelation
}

// MaxDegree returns the largest degree of any sub-identity of this relation.
func (p *RelationInfo) MaxDegree() uint {
	var degree uint
	//
	for _, s := range p.Subrelations {
		degree = max(degree, s.Degree)
	}
	//
	return degree
}

// PartialLengths returns the partial length (degree plus one) of every
// sub-identity.
func (p *RelationInfo) PartialLengths() []uint {
	lengths := make([]uint, len(p.Subrelations))
	//
	for i, s := range p.Subrelations {
		lengths[i] = s.Degree + 1
	}
	//
	return lengths
}

// CheckDegrees checks that no sub-identity of a relation exceeds the maximum
// degree.
func CheckDegrees(vm string, rel RelationInfo, maxDegree uint) error {
	for _, s := range rel.Subrelations {
		if s.Degree > maxDegree {
			return ir.Errorf(ir.UnsupportedDegree, s.Construct,
				"degree %d exceeds maximum of %d", s.Degree, maxDegree).At(vm)
		}
	}
	//
	return nil
}

// EmitRelations writes the types of a set of relations into a file.  Every
// relation gets a native evaluation over a *Row, and a partially evaluated form
// over claimed evaluations in flavor order.
func EmitRelations(file *GoFile, fields FieldMap, relations []RelationInfo) {
	file.Import("", FR_IMPORT)
	//
	out := file.Body()
	//
	for _, rel := range relations {
		lengths := make([]string, len(rel.Subrelations))
		for i, l := range rel.PartialLengths() {
			lengths[i] = fmt.Sprint(l)
		}
		//
		out.Linef("// %s %s", rel.Type, OneLine(rel.Doc))
		out.Linef("type %s struct{}", rel.Type)
		out.Line()
		out.Line("// Name returns the name of this relation.")
		out.Linef("func (%s) Name() string { return %q }", rel.Type, rel.Name)
		out.Line()
		out.Line("// SubrelationPartialLengths returns one more than the degree of each sub-identity.")
		out.Linef("func (%s) SubrelationPartialLengths() []int { return []int{%s} }",
			rel.Type, strings.Join(lengths, ", "))
		out.Line()
		out.Line("// Accumulate adds the contribution of each sub-identity at a row.")
		emitAccumulate(out, rel, fields, "*Row", "Accumulate", RowAccess("in"))
		out.Line()
		out.Line("// AccumulateClaimed adds the contribution of each sub-identity for claimed evaluations.")
		emitAccumulate(out, rel, fields, "[]fr.Element", "AccumulateClaimed", ClaimedAccess("in"))
		out.Line()
	}
}

func emitAccumulate(out *util.IndentBuilder, rel RelationInfo, fields FieldMap, input string, method string,
	access Accessor) {
	body := out.Indent()
	//
	out.Linef("func (%s) %s(evals []fr.Element, in %s, params *RelationParameters, scaling fr.Element) {",
		rel.Type, method, input)
	//
	for i, s := range rel.Subrelations {
		if s.Comment != "" {
			body.Linef("// %s: %s", OneLine(s.Label), OneLine(s.Comment))
		} else {
			body.Linef("// %s", OneLine(s.Label))
		}
		body.Line("{")
		//
		scaling := "scaling"
		if !s.LinearlyIndependent {
			scaling = ""
		}
		//
		NewEmitter(body.Indent(), fields, access, "params").Accumulate(fmt.Sprintf("evals[%d]", i), s.Expr, scaling)
		body.Line("}")
	}
	//
	out.Line("}")
}

// OneLine flattens text for inclusion in a single line comment.
func OneLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
