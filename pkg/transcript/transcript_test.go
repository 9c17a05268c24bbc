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
package transcript

import (
	"bytes"
	"testing"

	"github.com/consensys/go-pilcom/pkg/backend"
	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/backend/protocol"
	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parity_01(t *testing.T) {
	checkParity(t, lookupVM(t), config.Default())
}

func Test_Parity_02(t *testing.T) {
	checkParity(t, permutationVM(t), config.Default())
}

func Test_Parity_03(t *testing.T) {
	cfg := config.Default()
	cfg.PermutationProtocol = config.LOG_DERIVATIVE
	cfg.TranscriptHash = config.KECCAK256
	//
	checkParity(t, permutationVM(t), cfg)
}

func Test_Parity_04(t *testing.T) {
	cfg := config.Default()
	cfg.TranscriptHash = config.BLAKE2B
	//
	checkParity(t, lookupVM(t), cfg)
}

func Test_Parity_05(t *testing.T) {
	// Swapping two squeezes in the verifier must be detected.
	bundle := compile(t, permutationVM(t), config.Default())
	prv, _ := bundle.Artifact(artifact.PROVER)
	vrf, _ := bundle.Artifact(artifact.VERIFIER)
	//
	swapped := bytes.Replace(vrf.Content, []byte(`"perm_0_beta"`), []byte(`"@tmp"`), -1)
	swapped = bytes.Replace(swapped, []byte(`"perm_0_gamma"`), []byte(`"perm_0_beta"`), -1)
	swapped = bytes.Replace(swapped, []byte(`"@tmp"`), []byte(`"perm_0_gamma"`), -1)
	// Code still matches its (equally swapped) manifest, but not the prover.
	err := CheckParity(Prover(prv.Content), Verifier(swapped), config.SHA256, 2)
	assert.Error(t, err)
}

func Test_Parity_06(t *testing.T) {
	// A verifier whose code no longer matches its manifest is detected.
	bundle := compile(t, lookupVM(t), config.Default())
	vrf, _ := bundle.Artifact(artifact.VERIFIER)
	//
	_, err := Verifier(bytes.Replace(vrf.Content, []byte(`v.absorb("lookup_0_beta", "circuit_size"`),
		[]byte(`v.absorb("lookup_0_beta", "size"`), 1)).Entries()
	assert.Error(t, err)
}

func Test_Replay_01(t *testing.T) {
	entries := []Entry{
		{0, protocol.ABSORB, "a", "x", false},
		{0, protocol.SQUEEZE, "a", "a", false},
		{1, protocol.ABSORB, "u_%d", "x_%d", true},
		{1, protocol.SQUEEZE, "u_%d", "u_%d", true},
	}
	//
	expanded := Expand(entries, 2)
	assert.Equal(t, []string{"a", "u_0", "u_1"}, Squeezes(expanded))
	assert.Equal(t, "x_1", expanded[4].Label)
	//
	h, err := NewHash(config.SHA256)
	require.NoError(t, err)
	//
	challenges, err := Replay(entries, 2, h, LabelData)
	require.NoError(t, err)
	assert.Len(t, challenges, 3)
	assert.False(t, challenges[1].Value.Equal(&challenges[2].Value))
}

func Test_Replay_02(t *testing.T) {
	// Absorbing into a challenge already squeezed fails.
	entries := []Entry{
		{0, protocol.SQUEEZE, "a", "a", false},
		{0, protocol.ABSORB, "a", "x", false},
		{0, protocol.SQUEEZE, "b", "b", false},
	}
	//
	h, err := NewHash(config.KECCAK256)
	require.NoError(t, err)
	//
	_, err = Replay(entries, 0, h, LabelData)
	assert.Error(t, err)
}

func Test_Replay_03(t *testing.T) {
	_, err := NewHash("md5")
	assert.Error(t, err)
}

func Test_Schedule_01(t *testing.T) {
	bundle := compile(t, lookupVM(t), config.Default())
	prv, _ := bundle.Artifact(artifact.PROVER)
	//
	manifest, err := ParseManifest(prv.Content, "ProverManifest")
	require.NoError(t, err)
	// The manifest records the schedule exactly, rounds included.
	assert.Empty(t, Compare(FromSchedule(bundle.Schedule), manifest))
	assert.Equal(t, FromSchedule(bundle.Schedule), manifest)
	assert.NoError(t, bundle.Schedule.Check())
	//
	assert.Equal(t, []string{"lookup_0_beta", "lookup_0_gamma", "alpha_0", "gate_challenge",
		"sumcheck_u_0", "sumcheck_u_1", "pcs_rho", "pcs_z"}, bundle.Schedule.Squeezes(2))
}

// ============================================================================
// Helpers
// ============================================================================

func checkParity(t *testing.T, vm *ir.VM, cfg config.Config) {
	t.Helper()
	//
	bundle := compile(t, vm, cfg)
	prv, ok := bundle.Artifact(artifact.PROVER)
	require.True(t, ok)
	vrf, ok := bundle.Artifact(artifact.VERIFIER)
	require.True(t, ok)
	//
	for _, logN := range []int{1, 3, 8} {
		assert.NoError(t, CheckParity(Prover(prv.Content), Verifier(vrf.Content), cfg.TranscriptHash, logN))
	}
}

func compile(t *testing.T, vm *ir.VM, cfg config.Config) *backend.Bundle {
	t.Helper()
	//
	bundle, err := backend.Compile(vm, cfg)
	require.NoError(t, err)
	//
	return bundle
}

func lookupVM(t *testing.T) *ir.VM {
	b := ir.NewBuilder("lookup")
	a := b.AddColumn("a", ir.WITNESS)
	c := b.AddColumn("b", ir.FIXED)
	b.AddLookup(ir.Lookup{Inputs: []ir.Expr{ir.Col(a)}, Table: []ir.Expr{ir.Col(c)}})
	//
	vm, err := b.Build()
	require.NoError(t, err)
	//
	return vm
}

func permutationVM(t *testing.T) *ir.VM {
	b := ir.NewBuilder("perm")
	x := b.AddColumn("x", ir.WITNESS)
	y := b.AddColumn("y", ir.WITNESS)
	z := b.AddColumn("z", ir.PUBLIC)
	r := b.AddRelation("bool")
	b.AddIdentity(r, ir.Product(ir.Col(z), ir.Difference(ir.Col(z), ir.Const64(1))), nil, 0)
	b.AddPermutation(ir.Permutation{Sides: []ir.PermutationSide{
		{Columns: []ir.ColumnAccess{{Column: x}}},
		{Columns: []ir.ColumnAccess{{Column: y}}},
		{Columns: []ir.ColumnAccess{{Column: z}}, Selector: ir.Col(z)},
	}})
	//
	vm, err := b.Build()
	require.NoError(t, err)
	//
	return vm
}
