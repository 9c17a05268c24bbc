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
	"errors"
	"testing"

	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/codegen"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/consensys/go-pilcom/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Lookup_01(t *testing.T) {
	out := checkLookups(t, 1, 1)
	//
	assert.Equal(t, []string{"lookup_0_beta", "lookup_0_gamma"}, out.Challenges)
	assert.Equal(t, "lookup_0", out.Relations[0].Name)
	assert.Equal(t, artifact.LOOKUPS, out.Artifact.Name)
	assert.Contains(t, string(out.Artifact.Content), codegen.ComputeFunction("lookup_0_inv"))
}

func Test_Lookup_02(t *testing.T) {
	// Exactly one helper per lookup, whatever its arity.
	for arity := 1; arity <= 4; arity++ {
		checkLookups(t, 3, arity)
	}
}

func Test_Lookup_03(t *testing.T) {
	var (
		b      = ir.NewBuilder("counts")
		a      = b.AddColumn("a", ir.WITNESS)
		table  = b.AddColumn("table", ir.FIXED)
		counts = b.AddColumn("counts", ir.WITNESS)
	)
	//
	b.AddLookup(ir.Lookup{Inputs: []ir.Expr{ir.Col(a)}, Table: []ir.Expr{ir.Col(table)},
		Counts: util.Some(counts)})
	//
	out, err := Build(build(t, b), config.Default())
	require.NoError(t, err)
	require.Len(t, out.Helpers, 1)
	// The inverse is dependent on the counts
	assert.Contains(t, string(out.Artifact.Content), "Counts")
}

func Test_Lookup_04(t *testing.T) {
	b := ir.NewBuilder("none")
	b.AddColumn("a", ir.WITNESS)
	//
	out, err := Build(build(t, b), config.Default())
	require.NoError(t, err)
	assert.Empty(t, out.Helpers)
	assert.Empty(t, out.Challenges)
	assert.True(t, out.Artifact.Empty())
}

func Test_Lookup_05(t *testing.T) {
	b := ir.NewBuilder("arity")
	a := b.AddColumn("a", ir.WITNESS)
	b.AddLookup(ir.Lookup{Inputs: []ir.Expr{ir.Col(a), ir.Col(a)}, Table: []ir.Expr{ir.Col(a)}})
	//
	checkError(t, b, config.Default(), ir.ArityMismatch)
}

func Test_Lookup_06(t *testing.T) {
	b := ir.NewBuilder("empty")
	b.AddColumn("a", ir.WITNESS)
	b.AddLookup(ir.Lookup{})
	//
	checkError(t, b, config.Default(), ir.ArityMismatch)
}

func Test_Lookup_07(t *testing.T) {
	b := ir.NewBuilder("dangling")
	a := b.AddColumn("a", ir.WITNESS)
	b.AddLookup(ir.Lookup{Inputs: []ir.Expr{ir.Col(a)}, Table: []ir.Expr{ir.Col(a + 1)}})
	//
	checkError(t, b, config.Default(), ir.UnknownColumnReference)
}

func Test_Lookup_08(t *testing.T) {
	cfg := config.Default()
	cfg.LookupProtocol = config.GRAND_PRODUCT
	//
	_, err := Build(lookupVM(t, 1, 1), cfg)
	assert.Error(t, err)
}

func Test_Lookup_09(t *testing.T) {
	// Degree of the inverse check is bounded by the maximum degree.
	b := ir.NewBuilder("degree")
	a := b.AddColumn("a", ir.WITNESS)
	t2 := b.AddColumn("t", ir.FIXED)
	b.AddLookup(ir.Lookup{Selector: ir.Power(ir.Col(a), 4), Inputs: []ir.Expr{ir.Power(ir.Col(a), 2)},
		Table: []ir.Expr{ir.Col(t2)}})
	//
	checkError(t, b, config.Default(), ir.UnsupportedDegree)
}

// ============================================================================
// Helpers
// ============================================================================

func checkLookups(t *testing.T, n int, arity int) Output {
	t.Helper()
	//
	out, err := Build(lookupVM(t, n, arity), config.Default())
	require.NoError(t, err)
	require.Len(t, out.Helpers, n)
	require.Len(t, out.Relations, n)
	require.Len(t, out.Challenges, 2*n)
	//
	for k, h := range out.Helpers {
		assert.Equal(t, codegen.LookupInverse(k), h.Name)
		assert.Equal(t, codegen.DERIVED, h.Role)
	}
	//
	return out
}

// Construct a VM with n lookups of a given arity, all over the same columns.
func lookupVM(t *testing.T, n int, arity int) *ir.VM {
	var (
		b      = ir.NewBuilder("lookups")
		inputs []ir.Expr
		table  []ir.Expr
	)
	//
	for i := 0; i < arity; i++ {
		inputs = append(inputs, ir.Col(b.AddColumn("in_"+string(rune('a'+i)), ir.WITNESS)))
		table = append(table, ir.Col(b.AddColumn("table_"+string(rune('a'+i)), ir.FIXED)))
	}
	//
	for k := 0; k < n; k++ {
		b.AddLookup(ir.Lookup{Inputs: inputs, Table: table})
	}
	//
	return build(t, b)
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
	_, err := Build(build(t, b), cfg)
	//
	var irErr *ir.Error
	if !errors.Is(err, kind) {
		t.Fatalf("expected %s error, got %v", kind, err)
	} else if !errors.As(err, &irErr) || irErr.VM == "" {
		t.Errorf("error does not identify its VM: %v", err)
	}
}
