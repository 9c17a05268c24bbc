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
package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/consensys/go-pilcom/pkg/backend"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/irfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mulFile = "../../testdata/mul.yaml"

func Test_EnclosingLine_01(t *testing.T) {
	text := "abc\ndef\nghi"
	//
	checkEnclosingLine(t, text, 0, "abc", 0, 1)
	checkEnclosingLine(t, text, 5, "def", 4, 2)
	checkEnclosingLine(t, text, 10, "ghi", 8, 3)
	// Beyond the end of the text
	checkEnclosingLine(t, text, 20, "ghi", 8, 3)
}

func Test_Convert_01(t *testing.T) {
	var dir = t.TempDir()
	//
	for _, ext := range []string{"json", "cbor", "cue", "yaml"} {
		output := filepath.Join(dir, "mul."+ext)
		require.NoError(t, convert(mulFile, output))
		// Check original and converted files agree
		checkSameVMs(t, mulFile, output)
	}
}

func Test_Convert_02(t *testing.T) {
	err := convert("../../testdata/missing.yaml", filepath.Join(t.TempDir(), "out.json"))
	assert.Error(t, err)
}

func Test_Inspect_01(t *testing.T) {
	var buf bytes.Buffer
	//
	file, err := irfile.Read(mulFile)
	require.NoError(t, err)
	vms, err := file.Translate()
	require.NoError(t, err)
	bundle, err := backend.Compile(vms[0], config.Default())
	require.NoError(t, err)
	//
	printFlavor(&buf, bundle.Flavor, 60)
	//
	output := buf.String()
	assert.Contains(t, output, `vm "mul"`)
	assert.Contains(t, output, "lookup_0_inv")
	assert.Contains(t, output, "3 columns, 2 relations, 1 lookups, 0 permutations")
	// Every line of a table fits within the width
	for _, line := range strings.Split(output, "\n") {
		if strings.HasSuffix(line, "|") {
			assert.LessOrEqual(t, len(line), 60, "line too long: %s", line)
		}
	}
}

func Test_MaxCellWidth_01(t *testing.T) {
	assert.Equal(t, uint(21), maxCellWidth(120, 5))
	assert.Equal(t, uint(1), maxCellWidth(10, 5))
}

func checkEnclosingLine(t *testing.T, text string, index int, line string, offset int, num int) {
	t.Helper()
	//
	l, o, n := findEnclosingLine(index, text)
	//
	if l != line || o != offset || n != num {
		t.Errorf("index %d: expected (%s,%d,%d), got (%s,%d,%d)", index, line, offset, num, l, o, n)
	}
}

func checkSameVMs(t *testing.T, left string, right string) {
	t.Helper()
	//
	leftFile, err := irfile.Read(left)
	require.NoError(t, err)
	rightFile, err := irfile.Read(right)
	require.NoError(t, err)
	//
	leftVMs, err := leftFile.Translate()
	require.NoError(t, err)
	rightVMs, err := rightFile.Translate()
	require.NoError(t, err)
	require.Len(t, rightVMs, len(leftVMs))
	//
	for i := range leftVMs {
		assert.Equal(t, leftVMs[i].String(), rightVMs[i].String())
	}
}

func Test_Version_01(t *testing.T) {
	assert.Equal(t, "v1.2.3", versionString("v1.2.3"))
	assert.NotEmpty(t, versionString(""))
}
