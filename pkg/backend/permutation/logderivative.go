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
package permutation

import (
	"fmt"

	"github.com/consensys/go-pilcom/pkg/backend/codegen"
)

// logDerivative compiles a permutation argument into one inverse helper per
// pair of sides (0, j), each checked exactly like a lookup whose every written
// tuple is read once.
type logDerivative struct{}

func (p *logDerivative) compile(k int, arg codegen.PermutationArgument) (codegen.RelationInfo, []codegen.HelperColumn) {
	var (
		rel     = relationOf(k, arg, "log derivative")
		helpers []codegen.HelperColumn
	)
	//
	for j := 1; j < len(arg.Sides); j++ {
		inverse := argumentOf(k, j, arg)
		//
		for _, s := range inverse.Subrelations(rel.Name, arg.Construct) {
			s.Label = fmt.Sprintf("%s#%d", rel.Name, len(rel.Subrelations))
			rel.Subrelations = append(rel.Subrelations, s)
		}
		//
		helpers = append(helpers, inverse.Helper(arg.Construct))
	}
	//
	return rel, helpers
}

func (p *logDerivative) emitCompute(file *codegen.GoFile, fields codegen.FieldMap, k int,
	arg codegen.PermutationArgument) {
	for j := 1; j < len(arg.Sides); j++ {
		inverse := argumentOf(k, j, arg)
		inverse.EmitCompute(file, fields, fmt.Sprintf("the inverse helper of %s between sides 0 and %d.",
			arg.Construct, j))
	}
}

func argumentOf(k int, j int, arg codegen.PermutationArgument) codegen.LogDerivative {
	return codegen.LogDerivative{
		Inverse:       codegen.PermutationInverse(k, j, len(arg.Sides)),
		Beta:          codegen.PermutationBeta(k),
		Gamma:         codegen.PermutationGamma(k),
		ReadSelector:  arg.Sides[0].Selector,
		Reads:         arg.Sides[0].Values,
		WriteSelector: arg.Sides[j].Selector,
		Writes:        arg.Sides[j].Values,
	}
}
