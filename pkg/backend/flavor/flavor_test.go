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
	"testing"

	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/codegen"
	"github.com/consensys/go-pilcom/pkg/backend/composer"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/backend/copies"
	"github.com/consensys/go-pilcom/pkg/backend/lookup"
	"github.com/consensys/go-pilcom/pkg/backend/permutation"
	"github.com/consensys/go-pilcom/pkg/backend/relation"
	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Flavor_01(t *testing.T) {
	cfg := config.Default()
	cfg.CopyBatchThreshold = 0
	//
	f, art := checkFlavor(t, testVM(t), cfg)
	// Declared relations, lookups, copies and then permutations.
	assert.Equal(t, []string{"r", "lookup_0", "copy", "perm_0"}, relationNames(f))
	assert.Equal(t, 1, f.NumLookups)
	assert.Equal(t, 1, f.NumPermutations)
	assert.Equal(t, []string{"lookup_0_beta", "lookup_0_gamma", "perm_0_beta", "perm_0_gamma"}, f.Challenges)
	assert.Equal(t, "test", f.Package)
	assert.Contains(t, string(art.Content), "NumLookups               = 1")
}

func Test_Flavor_02(t *testing.T) {
	cfg := config.Default()
	cfg.CopyBatchThreshold = 1
	//
	f, _ := checkFlavor(t, testVM(t), cfg)
	// Both copies are folded into permutation arguments.
	assert.Equal(t, []string{"r", "lookup_0", "perm_0", "perm_1", "perm_2"}, relationNames(f))
	assert.Equal(t, 3, f.NumPermutations)
	assert.Len(t, f.Challenges, 8)
}

func Test_Flavor_03(t *testing.T) {
	f, _ := checkFlavor(t, testVM(t), config.Default())
	//
	assert.Equal(t, len(f.Columns)+len(f.Shifted), f.NumAllEntities())
	assert.Equal(t, f.KeyColumns(), f.ColumnsWith(codegen.FIXED, codegen.PRECOMPUTED))
	assert.Len(t, f.Offsets(), len(f.Relations))
	// Offsets partition the sub-identities.
	var total int
	//
	for i, r := range f.Relations {
		assert.Equal(t, total, f.Offsets()[i])
		total += len(r.Subrelations)
	}
	//
	assert.Equal(t, f.NumSubrelations(), total)
	// Every column is committed exactly once.
	assert.Equal(t, len(f.Columns), len(f.KeyColumns())+len(f.WireColumns())+len(f.DerivedColumns()))
	// Challenges squeezed before sumcheck end with the gate challenge.
	challenges := ArgumentChallenges(f)
	assert.Len(t, challenges, len(f.Challenges)+f.NumSubrelations())
	assert.Equal(t, codegen.GATE_CHALLENGE, challenges[len(challenges)-1])
}

func Test_BundleID_01(t *testing.T) {
	var (
		vm  = testVM(t)
		cfg = config.Default()
		id  = BundleID(vm, cfg)
	)
	//
	assert.Equal(t, id, BundleID(testVM(t), cfg))
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	// The configuration is part of the identity.
	cfg.TranscriptHash = config.KECCAK256
	assert.NotEqual(t, id, BundleID(vm, cfg))
}

// ============================================================================
// Helpers
// ============================================================================

func checkFlavor(t *testing.T, vm *ir.VM, cfg config.Config) (*Flavor, artifact.Artifact) {
	t.Helper()
	//
	rels, err := relation.Build(vm, cfg)
	require.NoError(t, err)
	lookups, err := lookup.Build(vm, cfg)
	require.NoError(t, err)
	cps, err := copies.Build(vm, cfg)
	require.NoError(t, err)
	perms, err := permutation.Build(vm, cfg, cps.Folded)
	require.NoError(t, err)
	comp, err := composer.Build(vm, cfg, lookups.Helpers, perms.Helpers)
	require.NoError(t, err)
	//
	f, art, err := Build(vm, cfg, Inputs{rels, lookups, cps, perms, comp})
	require.NoError(t, err)
	assert.Equal(t, artifact.FLAVOR, art.Name)
	assert.Equal(t, BundleID(vm, cfg), f.BundleID)
	assert.Contains(t, string(art.Content), f.BundleID)
	//
	return f, art
}

func relationNames(f *Flavor) []string {
	var names []string
	//
	for _, r := range f.Relations {
		names = append(names, r.Name)
	}
	//
	return names
}

// A VM exercising one relation, lookup and permutation, plus two copies.
func testVM(t *testing.T) *ir.VM {
	var (
		b     = ir.NewBuilder("test")
		x     = b.AddColumn("x", ir.WITNESS)
		y     = b.AddColumn("y", ir.WITNESS)
		s     = b.AddColumn("s", ir.FIXED)
		table = b.AddColumn("table", ir.FIXED)
		r     = b.AddRelation("r")
	)
	//
	b.AddIdentity(r, ir.Product(ir.Col(s), ir.Difference(ir.Col(x), ir.Col(y))), nil, 0)
	b.AddLookup(ir.Lookup{Inputs: []ir.Expr{ir.Col(x)}, Table: []ir.Expr{ir.Col(table)}})
	b.AddPermutation(ir.Permutation{Sides: []ir.PermutationSide{
		{Columns: []ir.ColumnAccess{{Column: x}}},
		{Columns: []ir.ColumnAccess{{Column: y}}},
	}})
	b.AddCopy(ir.Copy{Left: ir.Cell{Column: x, Offset: 1}, Right: ir.Cell{Column: y}})
	b.AddCopy(ir.Copy{Left: ir.Cell{Column: y}, Right: ir.Cell{Column: x}, Selector: ir.Col(s)})
	//
	vm, err := b.Build()
	require.NoError(t, err)
	//
	return vm
}
