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
package relation

import (
	"fmt"

	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/codegen"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/consensys/go-pilcom/pkg/util"
)

// Output of the relation builder.
type Output struct {
	// Relations in declaration order.  The index of a relation in this slice is
	// its relation index.
	Relations []codegen.RelationInfo
	// Artifact holding the generated relation types, or empty if the VM
	// declares no relations.
	Artifact artifact.Artifact
}

// SubrelationCount returns the total number of sub-identities across all
// relations.
func (p *Output) SubrelationCount() int {
	var n int
	//
	for _, r := range p.Relations {
		n += len(r.Subrelations)
	}
	//
	return n
}

// Build compiles the declared relations of a VM.  Relations are indexed in
// declaration order, and each identity becomes one linearly independent
// sub-identity whose body is its selector multiplied by its expression.
func Build(vm *ir.VM, cfg config.Config) (Output, error) {
	var (
		relations = make([]codegen.RelationInfo, 0, len(vm.Relations()))
		types     = make(map[string]string)
	)
	//
	for _, r := range vm.Relations() {
		info, err := translate(vm, r, cfg)
		if err != nil {
			return Output{}, err
		}
		//
		if other, ok := types[info.Type]; ok {
			return Output{}, ir.Errorf(ir.NamingCollision, ir.RelationConstruct(r.Name),
				"type %s already generated for relation \"%s\"", info.Type, other).At(vm.Name())
		}
		//
		types[info.Type] = r.Name
		relations = append(relations, info)
	}
	//
	if len(relations) == 0 {
		return Output{}, nil
	}
	//
	file := codegen.NewGoFile(artifact.RELATIONS, util.PackageName(vm.Name()))
	codegen.EmitRelations(file, codegen.NewNaming(vm), relations)
	//
	art, err := file.Artifact()
	//
	return Output{relations, art}, err
}

func translate(vm *ir.VM, r ir.Relation, cfg config.Config) (codegen.RelationInfo, error) {
	var construct = ir.RelationConstruct(r.Name)
	//
	if len(r.Identities) == 0 {
		return codegen.RelationInfo{}, ir.Errorf(ir.EmptyRelation, construct, "relation has no identities").At(vm.Name())
	} else if util.SanitizeName(r.Name) == "" {
		return codegen.RelationInfo{}, ir.Errorf(ir.NamingCollision, construct,
			"relation name has no identifier characters").At(vm.Name())
	}
	//
	info := codegen.RelationInfo{
		Name: r.Name,
		Type: codegen.RelationType(r.Name),
		Doc:  fmt.Sprintf("evaluates the %d identities of relation \"%s\".", len(r.Identities), r.Name),
	}
	//
	for i, id := range r.Identities {
		identity := ir.IdentityConstruct(r.Name, i)
		//
		if err := vm.CheckExpr(id.Selector, identity); err != nil {
			return info, err
		} else if err := vm.CheckExpr(id.Expr, identity); err != nil {
			return info, err
		}
		//
		info.Subrelations = append(info.Subrelations, codegen.Subrelation{
			Label:               fmt.Sprintf("%s#%d", r.Name, i),
			Comment:             codegen.String(id.Expr, vm),
			Construct:           identity,
			Expr:                id.Body(),
			Degree:              id.EffectiveDegree(),
			LinearlyIndependent: true,
		})
	}
	//
	return info, codegen.CheckDegrees(vm.Name(), info, cfg.MaxDegree)
}
