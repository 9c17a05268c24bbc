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

	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/codegen"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/consensys/go-pilcom/pkg/util"
)

// Output of the permutation builder.
type Output struct {
	// Relations of each permutation argument, in argument order.
	Relations []codegen.RelationInfo
	// Helpers synthesized: shared precomputed columns first, then the helpers
	// of each argument in argument order.
	Helpers []codegen.HelperColumn
	// Challenges drawn for the permutations, in the order they are squeezed.
	Challenges []string
	// Arguments is the number of permutation arguments compiled, including
	// those folded from copy constraints.
	Arguments int
	// Artifact holding the generated permutation relations and helper
	// computations, or empty.
	Artifact artifact.Artifact
}

// Build compiles the permutation arguments of a VM, followed by any arguments
// folded from copy constraints.  Every argument k receives its own challenges
// and helper columns, named by k alone.
func Build(vm *ir.VM, cfg config.Config, folded []codegen.PermutationArgument) (Output, error) {
	var (
		out    Output
		fields = codegen.NewNaming(vm)
		args   []codegen.PermutationArgument
	)
	//
	for k, perm := range vm.Permutations() {
		arg, err := translate(vm, k, perm)
		if err != nil {
			return Output{}, err
		}
		//
		args = append(args, arg)
	}
	//
	args = append(args, folded...)
	out.Arguments = len(args)
	//
	if len(args) == 0 {
		return out, nil
	}
	//
	var builder protocolBuilder
	//
	switch cfg.PermutationProtocol {
	case config.GRAND_PRODUCT:
		builder = &grandProduct{}
		//
		out.Helpers = append(out.Helpers,
			codegen.HelperColumn{Name: codegen.LAGRANGE_FIRST, Role: codegen.PRECOMPUTED},
			codegen.HelperColumn{Name: codegen.LAGRANGE_LAST, Role: codegen.PRECOMPUTED})
	case config.LOG_DERIVATIVE:
		builder = &logDerivative{}
	default:
		return Output{}, fmt.Errorf("unsupported permutation protocol \"%s\"", cfg.PermutationProtocol)
	}
	//
	if len(folded) > 0 {
		out.Helpers = append(out.Helpers, codegen.HelperColumn{Name: codegen.COPY_ROW_INDEX, Role: codegen.PRECOMPUTED})
	}
	//
	file := codegen.NewGoFile(artifact.PERMUTATIONS, util.PackageName(vm.Name()))
	//
	for k, arg := range args {
		rel, helpers := builder.compile(k, arg)
		//
		if err := codegen.CheckDegrees(vm.Name(), rel, cfg.MaxDegree); err != nil {
			return Output{}, err
		}
		//
		beta, gamma := codegen.PermutationChallenges(k)
		out.Relations = append(out.Relations, rel)
		out.Helpers = append(out.Helpers, helpers...)
		out.Challenges = append(out.Challenges, beta, gamma)
	}
	//
	codegen.EmitRelations(file, fields, out.Relations)
	//
	for k, arg := range args {
		builder.emitCompute(file, fields, k, arg)
	}
	//
	var err error
	out.Artifact, err = file.Artifact()
	//
	return out, err
}

// Check and translate a declared permutation argument.
func translate(vm *ir.VM, k int, perm ir.Permutation) (codegen.PermutationArgument, error) {
	var (
		construct = ir.PermutationConstruct(k, perm.Name)
		arg       = codegen.PermutationArgument{Construct: construct}
	)
	//
	if len(perm.Sides) < 2 {
		return arg, ir.Errorf(ir.ArityMismatch, construct, "expected at least two sides, found %d",
			len(perm.Sides)).At(vm.Name())
	}
	//
	for j, side := range perm.Sides {
		if len(side.Columns) == 0 {
			return arg, ir.Errorf(ir.ArityMismatch, construct, "side %d is empty", j).At(vm.Name())
		} else if len(side.Columns) != len(perm.Sides[0].Columns) {
			return arg, ir.Errorf(ir.ArityMismatch, construct, "side %d has arity %d, whilst side 0 has arity %d",
				j, len(side.Columns), len(perm.Sides[0].Columns)).At(vm.Name())
		} else if err := vm.CheckExpr(side.Selector, construct); err != nil {
			return arg, err
		}
		//
		values := make([]ir.Expr, len(side.Columns))
		//
		for i := range side.Columns {
			values[i] = &side.Columns[i]
			//
			if err := vm.CheckExpr(values[i], construct); err != nil {
				return arg, err
			}
		}
		//
		arg.Sides = append(arg.Sides, codegen.PermutationSide{Selector: side.Selector, Values: values})
	}
	//
	return arg, nil
}

// protocolBuilder compiles a single permutation argument under some protocol.
type protocolBuilder interface {
	compile(k int, arg codegen.PermutationArgument) (codegen.RelationInfo, []codegen.HelperColumn)
	emitCompute(file *codegen.GoFile, fields codegen.FieldMap, k int, arg codegen.PermutationArgument)
}

func relationOf(k int, arg codegen.PermutationArgument, protocol string) codegen.RelationInfo {
	return codegen.RelationInfo{
		Name: codegen.PermutationName(k),
		Type: codegen.RelationType(fmt.Sprintf("permutation_%d", k)),
		Doc:  fmt.Sprintf("evaluates %s with %d sides using a %s argument.", arg.Construct, len(arg.Sides), protocol),
	}
}
