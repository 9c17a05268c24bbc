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
package lookup

import (
	"fmt"

	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/codegen"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/consensys/go-pilcom/pkg/util"
)

// Output of the lookup builder.
type Output struct {
	// Relations of each lookup, in lookup order.
	Relations []codegen.RelationInfo
	// Helpers synthesized, exactly one per lookup.
	Helpers []codegen.HelperColumn
	// Challenges drawn for the lookups, in the order they are squeezed.
	Challenges []string
	// Artifact holding the generated lookup relations and helper computations,
	// or empty if the VM declares no lookups.
	Artifact artifact.Artifact
}

// Build compiles the lookup arguments of a VM using the logarithmic derivative
// protocol.  Every lookup receives exactly one inverse helper column,
// regardless of its arity, and its own pair of challenges.
func Build(vm *ir.VM, cfg config.Config) (Output, error) {
	var (
		out    Output
		args   []codegen.LogDerivative
		fields = codegen.NewNaming(vm)
	)
	//
	if cfg.LookupProtocol != config.LOG_DERIVATIVE {
		return out, fmt.Errorf("unsupported lookup protocol \"%s\"", cfg.LookupProtocol)
	}
	//
	for k, l := range vm.Lookups() {
		construct := ir.LookupConstruct(k, l.Name)
		//
		if err := check(vm, l, construct); err != nil {
			return Output{}, err
		}
		//
		arg := translate(k, l)
		rel := codegen.RelationInfo{
			Name:         codegen.LookupName(k),
			Type:         codegen.RelationType(codegen.LookupName(k)),
			Doc:          fmt.Sprintf("evaluates %s of arity %d.", construct, len(l.Inputs)),
			Subrelations: arg.Subrelations(codegen.LookupName(k), construct),
		}
		//
		if err := codegen.CheckDegrees(vm.Name(), rel, cfg.MaxDegree); err != nil {
			return Output{}, err
		}
		//
		beta, gamma := codegen.LookupChallenges(k)
		out.Relations = append(out.Relations, rel)
		out.Helpers = append(out.Helpers, arg.Helper(construct))
		out.Challenges = append(out.Challenges, beta, gamma)
		args = append(args, arg)
	}
	//
	if len(args) == 0 {
		return out, nil
	}
	//
	file := codegen.NewGoFile(artifact.LOOKUPS, util.PackageName(vm.Name()))
	codegen.EmitRelations(file, fields, out.Relations)
	//
	for k := range args {
		args[k].EmitCompute(file, fields, fmt.Sprintf("the inverse helper of %s.",
			ir.LookupConstruct(k, vm.Lookups()[k].Name)))
	}
	//
	var err error
	out.Artifact, err = file.Artifact()
	//
	return out, err
}

func check(vm *ir.VM, l ir.Lookup, construct string) error {
	if len(l.Inputs) != len(l.Table) {
		return ir.Errorf(ir.ArityMismatch, construct, "%d inputs looked up in table of arity %d",
			len(l.Inputs), len(l.Table)).At(vm.Name())
	} else if len(l.Inputs) == 0 {
		return ir.Errorf(ir.ArityMismatch, construct, "empty lookup").At(vm.Name())
	}
	//
	exprs := []ir.Expr{l.Selector, l.TableSelector}
	exprs = append(exprs, l.Inputs...)
	exprs = append(exprs, l.Table...)
	//
	if l.Counts.HasValue() {
		exprs = append(exprs, ir.Col(l.Counts.Unwrap()))
	}
	//
	for _, e := range exprs {
		if err := vm.CheckExpr(e, construct); err != nil {
			return err
		}
	}
	//
	return nil
}

func translate(k int, l ir.Lookup) codegen.LogDerivative {
	var counts ir.Expr
	//
	if l.Counts.HasValue() {
		counts = ir.Col(l.Counts.Unwrap())
	}
	//
	return codegen.LogDerivative{
		Inverse:       codegen.LookupInverse(k),
		Beta:          codegen.LookupBeta(k),
		Gamma:         codegen.LookupGamma(k),
		ReadSelector:  l.Selector,
		Reads:         l.Inputs,
		WriteSelector: l.TableSelector,
		Writes:        l.Table,
		Counts:        counts,
	}
}
