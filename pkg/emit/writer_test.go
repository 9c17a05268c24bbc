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
package emit

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/consensys/go-pilcom/pkg/backend"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_FileWriter_01(t *testing.T) {
	var (
		dir    = t.TempDir()
		bundle = compileMul(t)
		writer = NewFileWriter(dir, nil)
	)
	//
	stats, err := writer.Write(bundle)
	require.NoError(t, err)
	assert.Equal(t, Stats{Written: len(bundle.Artifacts)}, stats)
	//
	for _, a := range bundle.Artifacts {
		path := writer.Path(a)
		assert.Equal(t, filepath.Join(dir, bundle.Flavor.Package, a.Name), path)
		//
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "Code generated by "+GENERATOR)
		assert.Contains(t, string(content), COPYRIGHT_HOLDER)
		//
		_, err = parser.ParseFile(token.NewFileSet(), path, content, parser.ParseComments)
		assert.NoError(t, err, "%s", path)
	}
}

func Test_FileWriter_02(t *testing.T) {
	var (
		dir    = t.TempDir()
		bundle = compileMul(t)
	)
	//
	manifest, err := OpenManifest(filepath.Join(dir, "manifest.db"))
	require.NoError(t, err)
	defer manifest.Close()
	//
	writer := NewFileWriter(filepath.Join(dir, "out"), manifest)
	n := len(bundle.Artifacts)
	// First write
	stats, err := writer.Write(bundle)
	require.NoError(t, err)
	assert.Equal(t, Stats{Written: n}, stats)
	// Nothing changed
	stats, err = writer.Write(bundle)
	require.NoError(t, err)
	assert.Equal(t, Stats{Skipped: n}, stats)
	// Missing files are rewritten
	require.NoError(t, os.Remove(writer.Path(bundle.Artifacts[0])))
	stats, err = writer.Write(bundle)
	require.NoError(t, err)
	assert.Equal(t, Stats{Written: 1, Skipped: n - 1}, stats)
	//
	records, err := manifest.Records()
	require.NoError(t, err)
	require.Len(t, records, n)
	//
	for _, r := range records {
		a, ok := bundle.Artifact(r.Name)
		require.True(t, ok, "unexpected record %v", r)
		assert.Equal(t, "mul", r.VM)
		assert.Equal(t, a.Digest(), r.Digest)
		assert.Equal(t, bundle.ID(), r.Bundle)
	}
}

func Test_FileWriter_03(t *testing.T) {
	// Changed artifacts are rewritten.
	var dir = t.TempDir()
	//
	manifest, err := OpenManifest(filepath.Join(dir, "manifest.db"))
	require.NoError(t, err)
	defer manifest.Close()
	//
	writer := NewFileWriter(dir, manifest)
	bundle := compileMul(t)
	_, err = writer.Write(bundle)
	require.NoError(t, err)
	//
	cfg := config.Default()
	cfg.TranscriptHash = config.KECCAK256
	changed, err := backend.Compile(mulVM(t), cfg)
	require.NoError(t, err)
	//
	stats, err := writer.Write(changed)
	require.NoError(t, err)
	assert.Positive(t, stats.Written)
	//
	digest, ok, err := manifest.Digest("mul", changed.Artifacts[0].Name)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, changed.Artifacts[0].Digest(), digest)
	//
	_, ok, err = manifest.Digest("other", changed.Artifacts[0].Name)
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_FileWriter_04(t *testing.T) {
	// Artifacts no longer generated are removed, other files are kept.
	var dir = t.TempDir()
	//
	manifest, err := OpenManifest(filepath.Join(dir, "manifest.db"))
	require.NoError(t, err)
	defer manifest.Close()
	//
	writer := NewFileWriter(filepath.Join(dir, "out"), manifest)
	_, err = writer.Write(compileMul(t))
	require.NoError(t, err)
	//
	pkgDir := filepath.Join(dir, "out", "mul")
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "extra.go"), []byte("package mul\n"), 0644))
	// Same package, but without a lookup
	b := ir.NewBuilder("mul")
	a := b.AddColumn("a", ir.FIXED)
	c := b.AddColumn("b", ir.FIXED)
	b.AddIdentity(b.AddRelation("mul"), ir.Difference(ir.Product(ir.Col(a), ir.Col(c)), ir.Const64(1)), nil, 0)
	vm, err := b.Build()
	require.NoError(t, err)
	//
	bundle, err := backend.Compile(vm, config.Default())
	require.NoError(t, err)
	//
	stats, err := writer.Write(bundle)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Removed)
	//
	_, err = os.Stat(filepath.Join(pkgDir, "lookups.go"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(filepath.Join(pkgDir, "extra.go"))
	assert.NoError(t, err)
	//
	_, ok, err := manifest.Digest("mul", "lookups.go")
	require.NoError(t, err)
	assert.False(t, ok)
}

func compileMul(t *testing.T) *backend.Bundle {
	bundle, err := backend.Compile(mulVM(t), config.Default())
	require.NoError(t, err)
	//
	return bundle
}

func mulVM(t *testing.T) *ir.VM {
	b := ir.NewBuilder("mul")
	a := b.AddColumn("a", ir.FIXED)
	c := b.AddColumn("b", ir.FIXED)
	r := b.AddRelation("mul")
	b.AddIdentity(r, ir.Difference(ir.Product(ir.Col(a), ir.Col(c)), ir.Const64(1)), nil, 0)
	b.AddLookup(ir.Lookup{Inputs: []ir.Expr{ir.Col(a)}, Table: []ir.Expr{ir.Col(c)}})
	//
	vm, err := b.Build()
	require.NoError(t, err)
	//
	return vm
}
