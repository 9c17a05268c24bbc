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
package copies

import (
	"fmt"

	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/codegen"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/consensys/go-pilcom/pkg/util"
)

// Strategy determines how copy constraints are compiled.
type Strategy uint8

const (
	// NONE means the VM has no copy constraints.
	NONE Strategy = iota
	// DIRECT compiles each copy into an equality identity.
	DIRECT
	// FOLDED compiles each copy into a degenerate permutation argument.
	FOLDED
)

func (s Strategy) String() string {
	switch s {
	case DIRECT:
		return "direct"
	case FOLDED:
		return "folded"
	default:
		return "none"
	}
}

// Output of the copy builder.
type Output struct {
	// Strategy chosen for this VM.
	Strategy Strategy
	// Relations holds the copy relation under the direct strategy.
	Relations []codegen.RelationInfo
	// Folded holds one permutation argument per copy under the folded
	// strategy.
	Folded []codegen.PermutationArgument
	// Artifact holding the copy relation, or empty.
	Artifact artifact.Artifact
}

// Choose determines the strategy for a given number of copy constraints.  Copies
// are folded into permutation arguments only when there are more of them than
// the configured threshold, and a zero threshold disables folding.
func Choose(copies int, cfg config.Config) Strategy {
	switch {
	case copies == 0:
		return NONE
	case cfg.CopyBatchThreshold > 0 && uint(copies) > cfg.CopyBatchThreshold:
		return FOLDED
	default:
		return DIRECT
	}
}

// Build compiles the copy constraints of a VM.  The strategy is a function of
// the IR and the configuration only.
func Build(vm *ir.VM, cfg config.Config) (Output, error) {
	var out = Output{Strategy: Choose(len(vm.Copies()), cfg)}
	//
	for i, c := range vm.Copies() {
		construct := ir.CopyConstruct(i)
		//
		for _, e := range []ir.Expr{c.Selector, c.Left.Access(), c.Right.Access()} {
			if err := vm.CheckExpr(e, construct); err != nil {
				return Output{}, err
			}
		}
	}
	//
	switch out.Strategy {
	case DIRECT:
		return direct(vm, cfg)
	case FOLDED:
		out.Folded = fold(vm)
	}
	//
	return out, nil
}

func direct(vm *ir.VM, cfg config.Config) (Output, error) {
	rel := codegen.RelationInfo{
		Name: "copy",
		Type: codegen.CopyRelationType,
		Doc:  fmt.Sprintf("evaluates %d copy constraints as direct equalities.", len(vm.Copies())),
	}
	//
	for i, c := range vm.Copies() {
		var (
			left  = c.Left.Access()
			right = c.Right.Access()
			expr  = ir.Difference(left, right)
		)
		//
		if c.Selector != nil {
			expr = ir.Product(c.Selector, expr)
		}
		//
		rel.Subrelations = append(rel.Subrelations, codegen.Subrelation{
			Label:               fmt.Sprintf("copy#%d", i),
			Comment:             fmt.Sprintf("%s = %s", codegen.String(left, vm), codegen.String(right, vm)),
			Construct:           ir.CopyConstruct(i),
			Expr:                expr,
			Degree:              expr.Degree(),
			LinearlyIndependent: true,
		})
	}
	//
	if err := codegen.CheckDegrees(vm.Name(), rel, cfg.MaxDegree); err != nil {
		return Output{}, err
	}
	//
	file := codegen.NewGoFile(artifact.COPIES, util.PackageName(vm.Name()))
	codegen.EmitRelations(file, codegen.NewNaming(vm), []codegen.RelationInfo{rel})
	//
	art, err := file.Artifact()
	//
	return Output{DIRECT, []codegen.RelationInfo{rel}, nil, art}, err
}

// Each copy becomes the permutation (copy_row_index, left) = (copy_row_index,
// right) over the rows selected by the copy.  Pairing each value with its row
// number forces equality row by row.
func fold(vm *ir.VM) []codegen.PermutationArgument {
	var (
		folded = make([]codegen.PermutationArgument, len(vm.Copies()))
		row    = codegen.Helper(codegen.COPY_ROW_INDEX)
	)
	//
	for i, c := range vm.Copies() {
		folded[i] = codegen.PermutationArgument{
			Construct: ir.CopyConstruct(i),
			Sides: []codegen.PermutationSide{
				{Selector: c.Selector, Values: []ir.Expr{row, c.Left.Access()}},
				{Selector: c.Selector, Values: []ir.Expr{row, c.Right.Access()}},
			},
		}
	}
	//
	return folded
}
