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
	"errors"
	"testing"

	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/codegen"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Choose_01(t *testing.T) {
	cfg := config.Default()
	//
	assert.Equal(t, NONE, Choose(0, cfg))
	assert.Equal(t, DIRECT, Choose(1, cfg))
	assert.Equal(t, DIRECT, Choose(int(cfg.CopyBatchThreshold), cfg))
	assert.Equal(t, FOLDED, Choose(int(cfg.CopyBatchThreshold)+1, cfg))
}

func Test_Choose_02(t *testing.T) {
	// A zero threshold disables folding.
	cfg := config.Default()
	cfg.CopyBatchThreshold = 0
	//
	assert.Equal(t, DIRECT, Choose(1000, cfg))
	assert.Equal(t, NONE, Choose(0, cfg))
}

func Test_Copies_01(t *testing.T) {
	out, err := Build(copyVM(t, 3), config.Default())
	require.NoError(t, err)
	//
	assert.Equal(t, DIRECT, out.Strategy)
	assert.Empty(t, out.Folded)
	require.Len(t, out.Relations, 1)
	assert.Equal(t, codegen.CopyRelationType, out.Relations[0].Type)
	assert.Equal(t, artifact.COPIES, out.Artifact.Name)
	//
	for i, s := range out.Relations[0].Subrelations {
		assert.Equal(t, ir.CopyConstruct(i), s.Construct)
		assert.True(t, s.LinearlyIndependent)
	}
	// Selected copy has degree two, the others degree one.
	assert.Equal(t, []uint{2, 2, 3}, out.Relations[0].PartialLengths())
}

func Test_Copies_02(t *testing.T) {
	cfg := config.Default()
	cfg.CopyBatchThreshold = 1
	//
	out, err := Build(copyVM(t, 3), cfg)
	require.NoError(t, err)
	//
	assert.Equal(t, FOLDED, out.Strategy)
	assert.Empty(t, out.Relations)
	assert.True(t, out.Artifact.Empty())
	require.Len(t, out.Folded, 3)
	//
	for i, arg := range out.Folded {
		assert.Equal(t, ir.CopyConstruct(i), arg.Construct)
		require.Len(t, arg.Sides, 2)
		// Both sides pair the row index with the copied cell.
		for _, side := range arg.Sides {
			require.Len(t, side.Values, 2)
			assert.Equal(t, codegen.Helper(codegen.COPY_ROW_INDEX), side.Values[0])
		}
	}
	//
	assert.NotNil(t, out.Folded[2].Sides[0].Selector)
}

func Test_Copies_03(t *testing.T) {
	b := ir.NewBuilder("none")
	b.AddColumn("x", ir.WITNESS)
	//
	out, err := Build(build(t, b), config.Default())
	require.NoError(t, err)
	assert.Equal(t, NONE, out.Strategy)
	assert.True(t, out.Artifact.Empty())
}

func Test_Copies_04(t *testing.T) {
	var (
		b = ir.NewBuilder("shift")
		x = b.AddColumn("x", ir.WITNESS)
		y = b.AddColumn("y", ir.WITNESS)
	)
	//
	b.AddCopy(ir.Copy{Left: ir.Cell{Column: x, Offset: 2}, Right: ir.Cell{Column: y}})
	//
	checkError(t, b, config.Default(), ir.UnsupportedShift)
}

func Test_Copies_05(t *testing.T) {
	b := ir.NewBuilder("dangling")
	x := b.AddColumn("x", ir.WITNESS)
	b.AddCopy(ir.Copy{Left: ir.Cell{Column: x}, Right: ir.Cell{Column: x + 1}})
	//
	checkError(t, b, config.Default(), ir.UnknownColumnReference)
}

func Test_Copies_06(t *testing.T) {
	var (
		b = ir.NewBuilder("degree")
		x = b.AddColumn("x", ir.WITNESS)
		y = b.AddColumn("y", ir.WITNESS)
	)
	//
	b.AddCopy(ir.Copy{Left: ir.Cell{Column: x}, Right: ir.Cell{Column: y}, Selector: ir.Power(ir.Col(x), 5)})
	//
	checkError(t, b, config.Default(), ir.UnsupportedDegree)
}

// ============================================================================
// Helpers
// ============================================================================

// Construct a VM with n copies between two columns, the last of which is
// selected.
func copyVM(t *testing.T, n int) *ir.VM {
	var (
		b = ir.NewBuilder("copies")
		x = b.AddColumn("x", ir.WITNESS)
		y = b.AddColumn("y", ir.WITNESS)
		s = b.AddColumn("s", ir.FIXED)
	)
	//
	for i := 0; i < n; i++ {
		c := ir.Copy{Left: ir.Cell{Column: x, Offset: i % 2}, Right: ir.Cell{Column: y}}
		//
		if i == n-1 {
			c.Selector = ir.Col(s)
		}
		//
		b.AddCopy(c)
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
