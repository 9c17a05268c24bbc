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
	"errors"
	"testing"

	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/codegen"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Permutation_01(t *testing.T) {
	out := checkBuild(t, pairVM(t, 1), config.Default(), nil)
	//
	assert.Equal(t, []string{"lagrange_first", "lagrange_last", "perm_0_z"}, names(out.Helpers))
	assert.Equal(t, []string{"perm_0_beta", "perm_0_gamma"}, out.Challenges)
	assert.Equal(t, "perm_0", out.Relations[0].Name)
	assert.Len(t, out.Relations[0].Subrelations, 2)
	assert.Equal(t, artifact.PERMUTATIONS, out.Artifact.Name)
	assert.Contains(t, string(out.Artifact.Content), codegen.ComputeFunction("perm_0_z"))
}

func Test_Permutation_02(t *testing.T) {
	// Two permutations over the same columns are kept apart.
	out := checkBuild(t, pairVM(t, 2), config.Default(), nil)
	//
	assert.Equal(t, []string{"lagrange_first", "lagrange_last", "perm_0_z", "perm_1_z"}, names(out.Helpers))
	assert.Equal(t, []string{"perm_0_beta", "perm_0_gamma", "perm_1_beta", "perm_1_gamma"}, out.Challenges)
	assert.Equal(t, ir.PermutationConstruct(0, ""), out.Helpers[2].Construct)
	assert.Equal(t, ir.PermutationConstruct(1, ""), out.Helpers[3].Construct)
}

func Test_Permutation_03(t *testing.T) {
	var (
		b = ir.NewBuilder("three")
		x = b.AddColumn("x", ir.WITNESS)
		y = b.AddColumn("y", ir.WITNESS)
		z = b.AddColumn("z", ir.WITNESS)
	)
	//
	b.AddPermutation(ir.Permutation{Name: "xyz", Sides: sides(x, y, z)})
	//
	out := checkBuild(t, build(t, b), config.Default(), nil)
	assert.Equal(t, []string{"lagrange_first", "lagrange_last", "perm_0_z_1", "perm_0_z_2"}, names(out.Helpers))
	assert.Len(t, out.Relations[0].Subrelations, 4)
	//
	for _, h := range out.Helpers[2:] {
		assert.True(t, h.Shifted)
		assert.Equal(t, codegen.DERIVED, h.Role)
	}
}

func Test_Permutation_04(t *testing.T) {
	cfg := config.Default()
	cfg.PermutationProtocol = config.LOG_DERIVATIVE
	//
	out := checkBuild(t, pairVM(t, 2), cfg, nil)
	// No precomputed columns are needed.
	assert.Equal(t, []string{"perm_0_inv", "perm_1_inv"}, names(out.Helpers))
	assert.Equal(t, []string{"perm_0_beta", "perm_0_gamma", "perm_1_beta", "perm_1_gamma"}, out.Challenges)
}

func Test_Permutation_05(t *testing.T) {
	// Folded arguments follow the declared ones.
	folded := []codegen.PermutationArgument{{
		Construct: ir.CopyConstruct(0),
		Sides: []codegen.PermutationSide{
			{Values: []ir.Expr{codegen.Helper(codegen.COPY_ROW_INDEX), ir.Col(0)}},
			{Values: []ir.Expr{codegen.Helper(codegen.COPY_ROW_INDEX), ir.Col(1)}},
		},
	}}
	//
	out := checkBuild(t, pairVM(t, 1), config.Default(), folded)
	assert.Equal(t, 2, out.Arguments)
	assert.Equal(t, []string{"lagrange_first", "lagrange_last", "copy_row_index", "perm_0_z", "perm_1_z"},
		names(out.Helpers))
	assert.Equal(t, ir.CopyConstruct(0), out.Helpers[4].Construct)
}

func Test_Permutation_06(t *testing.T) {
	b := ir.NewBuilder("none")
	b.AddColumn("x", ir.WITNESS)
	//
	out := checkBuild(t, build(t, b), config.Default(), nil)
	assert.Empty(t, out.Helpers)
	assert.Empty(t, out.Relations)
	assert.True(t, out.Artifact.Empty())
}

func Test_Permutation_07(t *testing.T) {
	b := ir.NewBuilder("single")
	x := b.AddColumn("x", ir.WITNESS)
	b.AddPermutation(ir.Permutation{Sides: sides(x)})
	//
	checkError(t, b, config.Default(), ir.ArityMismatch)
}

func Test_Permutation_08(t *testing.T) {
	var (
		b = ir.NewBuilder("arity")
		x = b.AddColumn("x", ir.WITNESS)
		y = b.AddColumn("y", ir.WITNESS)
	)
	//
	b.AddPermutation(ir.Permutation{Sides: []ir.PermutationSide{
		{Columns: []ir.ColumnAccess{{Column: x}, {Column: y}}},
		{Columns: []ir.ColumnAccess{{Column: y}}},
	}})
	//
	checkError(t, b, config.Default(), ir.ArityMismatch)
}

func Test_Permutation_09(t *testing.T) {
	var (
		b = ir.NewBuilder("shift")
		x = b.AddColumn("x", ir.WITNESS)
		y = b.AddColumn("y", ir.WITNESS)
	)
	//
	b.AddPermutation(ir.Permutation{Sides: []ir.PermutationSide{
		{Columns: []ir.ColumnAccess{{Column: x, Shift: 2}}},
		{Columns: []ir.ColumnAccess{{Column: y}}},
	}})
	//
	checkError(t, b, config.Default(), ir.UnsupportedShift)
}

func Test_Permutation_10(t *testing.T) {
	// A selector of high degree pushes the grand product beyond the maximum.
	var (
		b = ir.NewBuilder("degree")
		x = b.AddColumn("x", ir.WITNESS)
		y = b.AddColumn("y", ir.WITNESS)
		s = ir.Power(ir.Col(x), 4)
	)
	//
	b.AddPermutation(ir.Permutation{Sides: []ir.PermutationSide{
		{Columns: []ir.ColumnAccess{{Column: x}}, Selector: s},
		{Columns: []ir.ColumnAccess{{Column: y}}},
	}})
	//
	checkError(t, b, config.Default(), ir.UnsupportedDegree)
}

// ============================================================================
// Helpers
// ============================================================================

func checkBuild(t *testing.T, vm *ir.VM, cfg config.Config, folded []codegen.PermutationArgument) Output {
	t.Helper()
	//
	out, err := Build(vm, cfg, folded)
	require.NoError(t, err)
	require.Equal(t, len(vm.Permutations())+len(folded), out.Arguments)
	require.Len(t, out.Relations, out.Arguments)
	require.Len(t, out.Challenges, 2*out.Arguments)
	//
	return out
}

// Construct a VM with n two-sided permutations over the same pair of columns.
func pairVM(t *testing.T, n int) *ir.VM {
	var (
		b = ir.NewBuilder("pairs")
		x = b.AddColumn("x", ir.WITNESS)
		y = b.AddColumn("y", ir.WITNESS)
	)
	//
	for k := 0; k < n; k++ {
		b.AddPermutation(ir.Permutation{Sides: sides(x, y)})
	}
	//
	return build(t, b)
}

func sides(columns ...ir.ColumnId) []ir.PermutationSide {
	var sides []ir.PermutationSide
	//
	for _, c := range columns {
		sides = append(sides, ir.PermutationSide{Columns: []ir.ColumnAccess{{Column: c}}})
	}
	//
	return sides
}

func names(helpers []codegen.HelperColumn) []string {
	var names []string
	//
	for _, h := range helpers {
		names = append(names, h.Name)
	}
	//
	return names
}

func build(t *testing.T, b *ir.Builder) *ir.VM {
	vm, err := b.Build()
	require.NoError(t, err)
	//
	return vm
}

func checkError(t *testing.T, b *ir.Builder, cfg config.Config, kind ir.ErrorKind) {
	t.Helper()
	//
	_, err := Build(build(t, b), cfg, nil)
	//
	var irErr *ir.Error
	if !errors.Is(err, kind) {
		t.Fatalf("expected %s error, got %v", kind, err)
	} else if !errors.As(err, &irErr) || irErr.VM == "" {
		t.Errorf("error does not identify its VM: %v", err)
	}
}
