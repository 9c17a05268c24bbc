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
package composer

import (
	"errors"
	"testing"

	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/codegen"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	lookupHelpers = []codegen.HelperColumn{
		{Name: "lookup_0_inv", Role: codegen.DERIVED, Construct: ir.LookupConstruct(0, "")},
	}
	permutationHelpers = []codegen.HelperColumn{
		{Name: codegen.LAGRANGE_FIRST, Role: codegen.PRECOMPUTED},
		{Name: codegen.LAGRANGE_LAST, Role: codegen.PRECOMPUTED},
		{Name: "perm_0_z", Role: codegen.DERIVED, Shifted: true, Construct: ir.PermutationConstruct(0, "")},
	}
)

func Test_Composer_01(t *testing.T) {
	out, err := Build(declaredVM(t, "c", "a", "b"), config.Default(), lookupHelpers, permutationHelpers)
	require.NoError(t, err)
	// Declared columns in declaration order, then lookup helpers, then
	// permutation helpers.
	expected := []string{"c", "a", "b", "lookup_0_inv", "lagrange_first", "lagrange_last", "perm_0_z"}
	if diff := cmp.Diff(expected, out.Names()); diff != "" {
		t.Errorf("unexpected enumeration (-expected +actual):\n%s", diff)
	}
	//
	assert.Equal(t, Counts{Fixed: 1, Witness: 2, Precomputed: 2, Derived: 2, LookupHelpers: 1,
		PermutationHelpers: 3}, out.Counts)
	assert.Equal(t, 7, out.Counts.Total())
	assert.Equal(t, []int{1, 6}, out.Shifted)
	assert.Equal(t, []int{0, 4, 5}, out.KeyColumns())
	assert.Equal(t, artifact.COMPOSER, out.Artifact.Name)
	assert.Contains(t, string(out.Artifact.Content), "KeyColumns = [NumKeyColumns]int{ColC, ColLagrangeFirst, ColLagrangeLast}")
}

func Test_Composer_02(t *testing.T) {
	// Enumeration is a function of the IR alone.
	for i := 0; i < 3; i++ {
		a, err := Build(declaredVM(t, "x", "y"), config.Default(), lookupHelpers, permutationHelpers)
		require.NoError(t, err)
		b, err := Build(declaredVM(t, "x", "y"), config.Default(), lookupHelpers, permutationHelpers)
		require.NoError(t, err)
		//
		assert.Equal(t, a.Artifact.Digest(), b.Artifact.Digest())
	}
}

func Test_Composer_03(t *testing.T) {
	// Distinct names which sanitize identically.
	checkError(t, declaredVM(t, "x.y", "x_y"), nil, ir.DuplicateColumn)
}

func Test_Composer_04(t *testing.T) {
	// A declared column clashing with a helper.
	checkError(t, declaredVM(t, "lookup_0_inv"), lookupHelpers, ir.DuplicateColumn)
}

func Test_Composer_05(t *testing.T) {
	// A column shadowing a method of the generated container.
	checkError(t, declaredVM(t, "size"), nil, ir.NamingCollision)
}

func Test_Composer_06(t *testing.T) {
	// A shifted column whose shift field is another column.
	var (
		b = ir.NewBuilder("shift")
		x = b.AddColumn("x", ir.WITNESS)
		_ = b.AddColumn("x_shift", ir.WITNESS)
		r = b.AddRelation("next")
	)
	//
	b.AddIdentity(r, ir.Difference(&ir.ColumnAccess{Column: x, Shift: 1}, ir.Col(x)), nil, 0)
	//
	vm, err := b.Build()
	require.NoError(t, err)
	checkError(t, vm, nil, ir.NamingCollision)
}

func Test_Composer_07(t *testing.T) {
	checkError(t, declaredVM(t, "***"), nil, ir.NamingCollision)
}

// ============================================================================
// Helpers
// ============================================================================

// Construct a VM declaring the given columns, the first of which is fixed.
// The second column, if any, is read at the next row.
func declaredVM(t *testing.T, names ...string) *ir.VM {
	var (
		b   = ir.NewBuilder("composer")
		ids []ir.ColumnId
	)
	//
	for i, name := range names {
		kind := ir.WITNESS
		if i == 0 {
			kind = ir.FIXED
		}
		//
		ids = append(ids, b.AddColumn(name, kind))
	}
	//
	if len(ids) > 1 {
		r := b.AddRelation("step")
		b.AddIdentity(r, ir.Difference(&ir.ColumnAccess{Column: ids[1], Shift: 1}, ir.Col(ids[0])), nil, 0)
	}
	//
	vm, err := b.Build()
	require.NoError(t, err)
	//
	return vm
}

func checkError(t *testing.T, vm *ir.VM, helpers []codegen.HelperColumn, kind ir.ErrorKind) {
	t.Helper()
	//
	_, err := Build(vm, config.Default(), helpers, nil)
	//
	var irErr *ir.Error
	if !errors.Is(err, kind) {
		t.Fatalf("expected %s error, got %v", kind, err)
	} else if !errors.As(err, &irErr) || irErr.VM != vm.Name() {
		t.Errorf("error does not identify its VM: %v", err)
	}
}
