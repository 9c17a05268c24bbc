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
package flavor

import (
	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/codegen"
	"github.com/consensys/go-pilcom/pkg/backend/composer"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/backend/copies"
	"github.com/consensys/go-pilcom/pkg/backend/lookup"
	"github.com/consensys/go-pilcom/pkg/backend/permutation"
	"github.com/consensys/go-pilcom/pkg/backend/relation"
	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/consensys/go-pilcom/pkg/util"
	"github.com/google/uuid"
)

// Inputs gathers the outputs of every builder on which the flavor depends.
type Inputs struct {
	Relations    relation.Output
	Lookups      lookup.Output
	Copies       copies.Output
	Permutations permutation.Output
	Composer     composer.Output
}

// Flavor is the complete shape of a VM: its column enumeration, relations and
// argument counts.  Every artifact generated after the flavor treats it as a
// read-only contract.
type Flavor struct {
	// VM from which this flavor was derived.
	VM string
	// Package of the generated artifacts.
	Package string
	// Config under which this flavor was derived.
	Config config.Config
	// Columns in enumeration order.
	Columns []codegen.ColumnInfo
	// Shifted holds the positions of shifted columns within Columns.
	Shifted []int
	// Counts of columns per kind.
	Counts composer.Counts
	// Relations in registry order: declared relations, lookups, copies, then
	// permutations.
	Relations []codegen.RelationInfo
	// NumLookups is the number of lookup arguments.
	NumLookups int
	// NumPermutations is the number of permutation arguments, including those
	// folded from copies.
	NumPermutations int
	// Challenges drawn for lookup and permutation arguments, in squeeze order.
	Challenges []string
	// BundleID is a name based UUID identifying the VM and configuration.
	BundleID string
}

// Build merges the outputs of the column-producing builders and the composer
// into a flavor, and generates its artifact.
func Build(vm *ir.VM, cfg config.Config, in Inputs) (*Flavor, artifact.Artifact, error) {
	var f = &Flavor{
		VM:              vm.Name(),
		Package:         util.PackageName(vm.Name()),
		Config:          cfg,
		Columns:         in.Composer.Columns,
		Shifted:         in.Composer.Shifted,
		Counts:          in.Composer.Counts,
		NumLookups:      len(vm.Lookups()),
		NumPermutations: in.Permutations.Arguments,
		BundleID:        BundleID(vm, cfg),
	}
	//
	f.Relations = append(f.Relations, in.Relations.Relations...)
	f.Relations = append(f.Relations, in.Lookups.Relations...)
	f.Relations = append(f.Relations, in.Copies.Relations...)
	f.Relations = append(f.Relations, in.Permutations.Relations...)
	f.Challenges = append(f.Challenges, in.Lookups.Challenges...)
	f.Challenges = append(f.Challenges, in.Permutations.Challenges...)
	//
	types := make(map[string]string)
	//
	for _, r := range f.Relations {
		if other, ok := types[r.Type]; ok {
			return nil, artifact.Artifact{}, ir.Errorf(ir.NamingCollision, ir.RelationConstruct(r.Name),
				"type %s already generated for relation \"%s\"", r.Type, other).At(vm.Name())
		}
		//
		types[r.Type] = r.Name
	}
	//
	art, err := emit(f)
	//
	return f, art, err
}

// BundleID computes the identifier of the bundle generated for a VM under a
// given configuration.
func BundleID(vm *ir.VM, cfg config.Config) string {
	fingerprint := vm.Fingerprint()
	name := append(fingerprint[:], []byte(cfg.String())...)
	//
	return uuid.NewSHA1(uuid.NameSpaceOID, name).String()
}

// NumColumns returns the number of columns in the enumeration.
func (p *Flavor) NumColumns() int {
	return len(p.Columns)
}

// NumAllEntities returns the number of columns plus the number of shifted
// columns, which is the length of the claimed evaluation vector.
func (p *Flavor) NumAllEntities() int {
	return len(p.Columns) + len(p.Shifted)
}

// HasAccumulators determines whether any permutation is compiled into running
// products, which need a free row at the end of the circuit.
func (p *Flavor) HasAccumulators() bool {
	return p.NumPermutations > 0 && p.Config.PermutationProtocol == config.GRAND_PRODUCT
}

// Subrelations returns every sub-identity, in registry order.
func (p *Flavor) Subrelations() []codegen.Subrelation {
	var subs []codegen.Subrelation
	//
	for _, r := range p.Relations {
		subs = append(subs, r.Subrelations...)
	}
	//
	return subs
}

// NumSubrelations returns the total number of sub-identities.
func (p *Flavor) NumSubrelations() int {
	return len(p.Subrelations())
}

// Offsets returns the position of the first sub-identity of each relation
// within the batched evaluation vector.
func (p *Flavor) Offsets() []int {
	var (
		offsets = make([]int, len(p.Relations))
		offset  int
	)
	//
	for i, r := range p.Relations {
		offsets[i] = offset
		offset += len(r.Subrelations)
	}
	//
	return offsets
}

// MaxPartialLength returns the largest partial length of any sub-identity.
func (p *Flavor) MaxPartialLength() uint {
	var length uint
	//
	for _, r := range p.Relations {
		for _, l := range r.PartialLengths() {
			length = max(length, l)
		}
	}
	//
	return length
}

// ColumnsWith returns the positions of all columns having one of the given
// roles, in enumeration order.
func (p *Flavor) ColumnsWith(roles ...codegen.ColumnRole) []int {
	var positions []int
	//
	for i, c := range p.Columns {
		for _, r := range roles {
			if c.Role == r {
				positions = append(positions, i)
				break
			}
		}
	}
	//
	return positions
}

// KeyColumns returns the positions of the columns committed in the keys.
func (p *Flavor) KeyColumns() []int {
	return p.ColumnsWith(codegen.FIXED, codegen.PRECOMPUTED)
}

// WireColumns returns the positions of the columns committed by the prover
// before any challenge is drawn.
func (p *Flavor) WireColumns() []int {
	return p.ColumnsWith(codegen.WITNESS, codegen.PUBLIC)
}

// DerivedColumns returns the positions of the columns committed by the prover
// after the argument challenges are drawn.
func (p *Flavor) DerivedColumns() []int {
	return p.ColumnsWith(codegen.DERIVED)
}
