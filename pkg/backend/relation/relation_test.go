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
	"errors"
	"math"
	"testing"

	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Relation_01(t *testing.T) {
	var (
		b = ir.NewBuilder("rels")
		x = b.AddColumn("x", ir.WITNESS)
		s = b.AddColumn("s", ir.FIXED)
		r = b.AddRelation("zeta")
		q = b.AddRelation("alpha")
	)
	// Declared degree exceeds the degree of the body.
	b.AddIdentity(r, ir.Col(x), nil, 3)
	b.AddIdentity(r, ir.Product(ir.Col(x), ir.Col(x)), ir.Col(s), 0)
	b.AddIdentity(q, ir.Difference(&ir.ColumnAccess{Column: x, Shift: 1}, ir.Col(x)), nil, 0)
	//
	out, err := Build(build(t, b), config.Default())
	require.NoError(t, err)
	// Relations keep declaration order, not name order.
	require.Len(t, out.Relations, 2)
	assert.Equal(t, "zeta", out.Relations[0].Name)
	assert.Equal(t, "ZetaRelation", out.Relations[0].Type)
	assert.Equal(t, "alpha", out.Relations[1].Name)
	assert.Equal(t, 3, out.SubrelationCount())
	//
	assert.Equal(t, []uint{4, 4}, out.Relations[0].PartialLengths())
	assert.Equal(t, "zeta#1", out.Relations[0].Subrelations[1].Label)
	assert.Equal(t, ir.IdentityConstruct("zeta", 1), out.Relations[0].Subrelations[1].Construct)
	assert.Equal(t, artifact.RELATIONS, out.Artifact.Name)
	assert.Contains(t, string(out.Artifact.Content), "type ZetaRelation struct")
}

func Test_Relation_02(t *testing.T) {
	b := ir.NewBuilder("none")
	b.AddColumn("x", ir.WITNESS)
	//
	out, err := Build(build(t, b), config.Default())
	require.NoError(t, err)
	assert.Empty(t, out.Relations)
	assert.True(t, out.Artifact.Empty())
}

func Test_Relation_03(t *testing.T) {
	b := ir.NewBuilder("empty")
	b.AddColumn("x", ir.WITNESS)
	b.AddRelation("nothing")
	//
	checkError(t, b, config.Default(), ir.EmptyRelation)
}

func Test_Relation_04(t *testing.T) {
	b := ir.NewBuilder("degree")
	x := b.AddColumn("x", ir.WITNESS)
	r := b.AddRelation("high")
	b.AddIdentity(r, ir.Power(ir.Col(x), 6), nil, 0)
	//
	checkError(t, b, config.Default(), ir.UnsupportedDegree)
	// A larger maximum accepts it.
	cfg := config.Default()
	cfg.MaxDegree = 6
	//
	b = ir.NewBuilder("degree")
	x = b.AddColumn("x", ir.WITNESS)
	r = b.AddRelation("high")
	b.AddIdentity(r, ir.Power(ir.Col(x), 6), nil, 0)
	//
	_, err := Build(build(t, b), cfg)
	assert.NoError(t, err)
}

func Test_Relation_05(t *testing.T) {
	b := ir.NewBuilder("declared")
	x := b.AddColumn("x", ir.WITNESS)
	r := b.AddRelation("r")
	b.AddIdentity(r, ir.Col(x), nil, 6)
	//
	checkError(t, b, config.Default(), ir.UnsupportedDegree)
}

func Test_Relation_06(t *testing.T) {
	// Distinct relations generating the same type.
	b := ir.NewBuilder("types")
	x := b.AddColumn("x", ir.WITNESS)
	//
	for _, name := range []string{"add.op", "add_op"} {
		b.AddIdentity(b.AddRelation(name), ir.Col(x), nil, 0)
	}
	//
	checkError(t, b, config.Default(), ir.NamingCollision)
}

func Test_Relation_07(t *testing.T) {
	b := ir.NewBuilder("dangling")
	x := b.AddColumn("x", ir.WITNESS)
	b.AddIdentity(b.AddRelation("r"), ir.Col(x+1), nil, 0)
	//
	checkError(t, b, config.Default(), ir.UnknownColumnReference)
}

func Test_Relation_08(t *testing.T) {
	b := ir.NewBuilder("shift")
	x := b.AddColumn("x", ir.WITNESS)
	b.AddIdentity(b.AddRelation("r"), &ir.ColumnAccess{Column: x, Shift: -1}, nil, 0)
	//
	checkError(t, b, config.Default(), ir.UnsupportedShift)
}

func Test_Relation_09(t *testing.T) {
	// Degrees which overflow a machine word are still rejected.
	for _, e := range []func(x, y ir.ColumnId) ir.Expr{
		func(x, y ir.ColumnId) ir.Expr { return ir.Power(ir.Product(ir.Col(x), ir.Col(y)), 1<<63) },
		func(x, y ir.ColumnId) ir.Expr { return ir.Power(ir.Col(x), math.MaxUint64) },
		func(x, y ir.ColumnId) ir.Expr {
			big := ir.Power(ir.Col(x), math.MaxUint64)
			return ir.Product(big, big, ir.Col(y))
		},
	} {
		b := ir.NewBuilder("overflow")
		x := b.AddColumn("x", ir.WITNESS)
		y := b.AddColumn("y", ir.WITNESS)
		b.AddIdentity(b.AddRelation("r"), e(x, y), nil, 0)
		//
		checkError(t, b, config.Default(), ir.UnsupportedDegree)
	}
}

// ============================================================================
// Helpers
// ============================================================================

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
