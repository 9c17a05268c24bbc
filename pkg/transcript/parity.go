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
	"fmt"

	"github.com/consensys/go-pilcom/pkg/backend/prover"
	"github.com/consensys/go-pilcom/pkg/backend/verifier"
)

// Party is one side of the protocol, as generated.
type Party struct {
	// Name of this party, used in diagnostics.
	Name string
	// Source of the generated artifact.
	Source []byte
	// Manifest is the name of the manifest variable.
	Manifest string
	// Function performing the protocol.
	Function string
}

// Prover describes a generated prover artifact.
func Prover(src []byte) Party {
	return Party{"prover", src, prover.MANIFEST, "Prove"}
}

// Verifier describes a generated verifier artifact.
func Verifier(src []byte) Party {
	return Party{"verifier", src, verifier.MANIFEST, "Verify"}
}

// Entries returns the manifest of a party, after checking that its code
// performs exactly the operations its manifest records.
func (p Party) Entries() ([]Entry, error) {
	manifest, err := ParseManifest(p.Source, p.Manifest)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}
	//
	calls, err := ExtractCalls(p.Source, p.Function)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}
	//
	if diff := Compare(manifest, calls); diff != "" {
		return nil, fmt.Errorf("%s code diverges from its manifest (-manifest +code):\n%s", p.Name, diff)
	}
	//
	return manifest, nil
}

// CheckParity checks that two parties derive identical challenge sequences.
// Each party's code is first checked against its own manifest, and then both
// manifests are replayed through a transcript using the given hash, for a
// given number of sumcheck rounds.
func CheckParity(left Party, right Party, hashName string, logN int) error {
	leftEntries, err := left.Entries()
	if err != nil {
		return err
	}
	//
	rightEntries, err := right.Entries()
	if err != nil {
		return err
	}
	//
	if diff := Compare(leftEntries, rightEntries); diff != "" {
		return fmt.Errorf("%s and %s transcripts differ (-%s +%s):\n%s", left.Name, right.Name, left.Name,
			right.Name, diff)
	}
	//
	leftChallenges, err := replay(left.Name, leftEntries, hashName, logN)
	if err != nil {
		return err
	}
	//
	rightChallenges, err := replay(right.Name, rightEntries, hashName, logN)
	if err != nil {
		return err
	}
	//
	if diff := CompareChallenges(leftChallenges, rightChallenges); diff != "" {
		return fmt.Errorf("%s and %s derive different challenges:\n%s", left.Name, right.Name, diff)
	}
	//
	return nil
}

func replay(name string, entries []Entry, hashName string, logN int) ([]Challenge, error) {
	h, err := NewHash(hashName)
	if err != nil {
		return nil, err
	}
	//
	challenges, err := Replay(entries, logN, h, LabelData)
	if err != nil {
		return nil, fmt.Errorf("replaying %s transcript: %w", name, err)
	}
	//
	return challenges, nil
}
