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
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Config_01(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func Test_Config_02(t *testing.T) {
	cfg := Default()
	cfg.LookupProtocol = GRAND_PRODUCT
	assert.ErrorContains(t, cfg.Validate(), "lookup_protocol")
}

func Test_Config_03(t *testing.T) {
	cfg := Default()
	cfg.TranscriptHash = "md5"
	assert.ErrorContains(t, cfg.Validate(), "transcript_hash")
}

func Test_Config_04(t *testing.T) {
	cfg := Default()
	cfg.MaxDegree = 1
	assert.ErrorContains(t, cfg.Validate(), "max_degree")
}

func Test_Config_05(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "pilcom.yaml")
	contents := "max_degree: 3\npermutation_protocol: logderivative\n"
	require.NoError(t, os.WriteFile(filename, []byte(contents), 0o644))
	//
	cfg, err := Load(filename)
	require.NoError(t, err)
	//
	assert.Equal(t, uint(3), cfg.MaxDegree)
	assert.Equal(t, LOG_DERIVATIVE, cfg.PermutationProtocol)
	// Unspecified fields keep their defaults
	assert.Equal(t, uint(8), cfg.CopyBatchThreshold)
	assert.Equal(t, SHA256, cfg.TranscriptHash)
}

func Test_Config_06(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "pilcom.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("lookup_protocol: plookup\n"), 0o644))
	//
	_, err := Load(filename)
	assert.Error(t, err)
}

func Test_Config_07(t *testing.T) {
	a, b := Default(), Default()
	assert.Equal(t, a.String(), b.String())
	//
	b.CopyBatchThreshold = 0
	assert.NotEqual(t, a.String(), b.String())
}
