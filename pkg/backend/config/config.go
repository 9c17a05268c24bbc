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
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	// LOG_DERIVATIVE identifies the logarithmic derivative protocol.
	LOG_DERIVATIVE = "logderivative"
	// GRAND_PRODUCT identifies the grand product protocol.
	GRAND_PRODUCT = "grandproduct"
	// SHA256 transcript hash.
	SHA256 = "sha256"
	// KECCAK256 transcript hash.
	KECCAK256 = "keccak256"
	// BLAKE2B transcript hash.
	BLAKE2B = "blake2b"
	// DEFAULT_RUNTIME is the import path of the proving runtime which generated
	// code calls into.
	DEFAULT_RUNTIME = "github.com/consensys/go-pilcom-runtime/honk"
)

var (
	lookupProtocols      = []string{LOG_DERIVATIVE}
	permutationProtocols = []string{GRAND_PRODUCT, LOG_DERIVATIVE}
	transcriptHashes     = []string{SHA256, KECCAK256, BLAKE2B}
)

// Config captures the parameters of the target proof system which are not
// determined by a VM itself.
type Config struct {
	// MaxDegree is the maximum degree of any identity.
	MaxDegree uint `yaml:"max_degree"`
	// LookupProtocol used for lookup arguments.
	LookupProtocol string `yaml:"lookup_protocol"`
	// PermutationProtocol used for permutation arguments.
	PermutationProtocol string `yaml:"permutation_protocol"`
	// CopyBatchThreshold is the number of copy constraints beyond which copies
	// are folded into permutation arguments.  Zero disables folding.
	CopyBatchThreshold uint `yaml:"copy_batch_threshold"`
	// RuntimeImport is the import path of the proving runtime.
	RuntimeImport string `yaml:"runtime_import"`
	// TranscriptHash is the hash function underlying the Fiat-Shamir
	// transcript.
	TranscriptHash string `yaml:"transcript_hash"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		MaxDegree:           5,
		LookupProtocol:      LOG_DERIVATIVE,
		PermutationProtocol: GRAND_PRODUCT,
		CopyBatchThreshold:  8,
		RuntimeImport:       DEFAULT_RUNTIME,
		TranscriptHash:      SHA256,
	}
}

// Load reads a configuration from a YAML file.  Fields absent from the file
// retain their default values.
func Load(filename string) (Config, error) {
	cfg := Default()
	//
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return cfg, err
	}
	//
	if err := yaml.Unmarshal(bytes, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", filename, err)
	}
	//
	return cfg, cfg.Validate()
}

// Validate checks every field holds a supported value.
func (c Config) Validate() error {
	switch {
	case c.MaxDegree < 2:
		return fmt.Errorf("max_degree must be at least 2 (was %d)", c.MaxDegree)
	case !slices.Contains(lookupProtocols, c.LookupProtocol):
		return fmt.Errorf("unsupported lookup_protocol \"%s\" (expected one of %v)", c.LookupProtocol, lookupProtocols)
	case !slices.Contains(permutationProtocols, c.PermutationProtocol):
		return fmt.Errorf("unsupported permutation_protocol \"%s\" (expected one of %v)",
			c.PermutationProtocol, permutationProtocols)
	case !slices.Contains(transcriptHashes, c.TranscriptHash):
		return fmt.Errorf("unsupported transcript_hash \"%s\" (expected one of %v)", c.TranscriptHash, transcriptHashes)
	case c.RuntimeImport == "":
		return fmt.Errorf("runtime_import cannot be empty")
	}
	//
	return nil
}

// String returns a canonical representation of this configuration, which
// contributes to the identity of generated bundles.
func (c Config) String() string {
	return fmt.Sprintf("max_degree=%d;lookup=%s;permutation=%s;copy_batch=%d;runtime=%s;hash=%s",
		c.MaxDegree, c.LookupProtocol, c.PermutationProtocol, c.CopyBatchThreshold, c.RuntimeImport, c.TranscriptHash)
}
