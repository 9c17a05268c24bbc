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
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
)

// Well-known artifact names.
const (
	FLAVOR       = "flavor.go"
	RELATIONS    = "relations.go"
	LOOKUPS      = "lookups.go"
	PERMUTATIONS = "permutations.go"
	COPIES       = "copies.go"
	COMPOSER     = "composer.go"
	CIRCUIT      = "circuit_builder.go"
	PROVER       = "prover.go"
	VERIFIER     = "verifier.go"
)

// Names returns every well-known artifact name, in the order in which a bundle
// holds them.
func Names() []string {
	return []string{FLAVOR, RELATIONS, LOOKUPS, PERMUTATIONS, COPIES, COMPOSER, CIRCUIT, PROVER, VERIFIER}
}

// Artifact is a single generated Go source file.  Artifacts are complete
// (package clause and imports included) and formatted, but carry no licence
// header or file location; both are decided when the artifact is written.
type Artifact struct {
	// Name of this artifact, such as "flavor.go".
	Name string
	// Package to which this artifact belongs.
	Package string
	// Content of this artifact.
	Content []byte
}

// Digest returns a hex encoded SHA-256 digest of this artifact's content.
func (p Artifact) Digest() string {
	sum := sha256.Sum256(p.Content)
	return hex.EncodeToString(sum[:])
}

// Empty checks whether this artifact was produced at all.  Builders for
// constructs which a VM does not use produce empty artifacts.
func (p Artifact) Empty() bool {
	return p.Name == ""
}
