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
	"crypto/sha256"
	"fmt"
	"hash"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	fiatshamir "github.com/consensys/gnark-crypto/fiat-shamir"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/backend/protocol"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Entry is a single transcript operation, as recorded in a generated manifest
// or extracted from generated code.
type Entry struct {
	// Round of this operation, or -1 when unknown.
	Round int
	// Op is either an absorption or a squeeze.
	Op protocol.Op
	// Challenge squeezed, or to which absorbed data is bound.
	Challenge string
	// Label of the data absorbed, or the challenge squeezed.
	Label string
	// Repeated operations occur once per sumcheck round, and their challenge
	// and label are formats taking the round number.
	Repeated bool
}

func (p Entry) String() string {
	return protocol.Step{Round: p.Round, Op: p.Op, Challenge: p.Challenge, Label: p.Label,
		Repeated: p.Repeated}.String()
}

// Challenge is a challenge derived by replaying a transcript.
type Challenge struct {
	Name  string
	Value fr.Element
}

// FromSchedule converts a schedule into manifest entries.
func FromSchedule(schedule protocol.Schedule) []Entry {
	var entries = make([]Entry, len(schedule.Steps))
	//
	for i, s := range schedule.Steps {
		entries[i] = Entry{s.Round, s.Op, s.Challenge, s.Label, s.Repeated}
	}
	//
	return entries
}

// Expand unrolls repeated entries for a given number of sumcheck rounds.
// Consecutive repeated entries form a single loop body.
func Expand(entries []Entry, logN int) []Entry {
	var expanded []Entry
	//
	for i := 0; i < len(entries); {
		if !entries[i].Repeated {
			expanded = append(expanded, entries[i])
			i++
			//
			continue
		}
		// Determine extent of loop body
		j := i
		for j < len(entries) && entries[j].Repeated {
			j++
		}
		//
		for r := 0; r < logN; r++ {
			for _, e := range entries[i:j] {
				expanded = append(expanded, Entry{e.Round, e.Op, fmt.Sprintf(e.Challenge, r),
					fmt.Sprintf(e.Label, r), false})
			}
		}
		//
		i = j
	}
	//
	return expanded
}

// Squeezes returns the challenges squeezed by a sequence of concrete entries,
// in order.
func Squeezes(entries []Entry) []string {
	var challenges []string
	//
	for _, e := range entries {
		if e.Op == protocol.SQUEEZE {
			challenges = append(challenges, e.Challenge)
		}
	}
	//
	return challenges
}

// Replay runs a sequence of entries through a fiat-shamir transcript, after
// expanding repeated entries.  The data absorbed for each entry is provided by
// the data function.  The transcript enforces that data is only bound to a
// challenge not yet squeezed, and that challenges are squeezed in order.
func Replay(entries []Entry, logN int, h hash.Hash, data func(Entry) []byte) ([]Challenge, error) {
	var (
		expanded   = Expand(entries, logN)
		transcript = fiatshamir.NewTranscript(h, Squeezes(expanded)...)
		challenges []Challenge
	)
	//
	for i, e := range expanded {
		if e.Op == protocol.ABSORB {
			if err := transcript.Bind(e.Challenge, data(e)); err != nil {
				return nil, fmt.Errorf("step %d (%s): %w", i, e, err)
			}
			//
			continue
		}
		//
		bytes, err := transcript.ComputeChallenge(e.Challenge)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, e, err)
		}
		//
		var value fr.Element
		value.SetBytes(bytes)
		challenges = append(challenges, Challenge{e.Challenge, value})
	}
	//
	return challenges, nil
}

// LabelData is a data function which absorbs the label of each entry, which
// suffices to distinguish every absorption.
func LabelData(e Entry) []byte {
	return []byte(e.Label)
}

// Compare two sequences of entries, ignoring rounds (which cannot be recovered
// from code).  Returns a readable diff, or the empty string when they match.
func Compare(expected []Entry, actual []Entry) string {
	return cmp.Diff(expected, actual, cmpopts.IgnoreFields(Entry{}, "Round"), cmpopts.EquateEmpty())
}

// CompareChallenges compares two challenge sequences, returning a readable
// diff or the empty string when they match.
func CompareChallenges(expected []Challenge, actual []Challenge) string {
	return cmp.Diff(expected, actual, cmp.Comparer(func(l, r fr.Element) bool { return l.Equal(&r) }))
}

// NewHash constructs the transcript hash named in a configuration.
func NewHash(name string) (hash.Hash, error) {
	switch name {
	case config.SHA256:
		return sha256.New(), nil
	case config.KECCAK256:
		return sha3.NewLegacyKeccak256(), nil
	case config.BLAKE2B:
		return blake2b.New256(nil)
	}
	//
	return nil, fmt.Errorf("unknown transcript hash \"%s\"", name)
}
