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
package protocol

import (
	"fmt"
	"strings"

	"github.com/consensys/go-pilcom/pkg/backend/codegen"
	"github.com/consensys/go-pilcom/pkg/backend/flavor"
)

// Rounds of the protocol.
const (
	// WIRE_ROUND absorbs the circuit size, public inputs and every commitment
	// made before any challenge is drawn.
	WIRE_ROUND = iota
	// ARGUMENT_ROUND draws the challenges of every lookup and permutation.
	ARGUMENT_ROUND
	// DERIVED_ROUND absorbs the commitments to the derived helper columns.
	DERIVED_ROUND
	// BATCHING_ROUND draws the batching challenges and the gate challenge.
	BATCHING_ROUND
	// SUMCHECK_ROUND runs every round of the sumcheck.
	SUMCHECK_ROUND
	// OPENING_ROUND runs the polynomial commitment opening.
	OPENING_ROUND
)

// Op is either an absorption into, or a squeeze from, the transcript.
type Op uint8

const (
	// ABSORB binds data to the next challenge.
	ABSORB Op = iota
	// SQUEEZE derives a challenge.
	SQUEEZE
)

func (p Op) String() string {
	if p == ABSORB {
		return "absorb"
	}
	//
	return "squeeze"
}

// ParseOp parses the string form of an operation.
func ParseOp(text string) (Op, error) {
	switch text {
	case "absorb":
		return ABSORB, nil
	case "squeeze":
		return SQUEEZE, nil
	}
	//
	return 0, fmt.Errorf("unknown transcript operation \"%s\"", text)
}

// Kind identifies what a step absorbs or squeezes, such that a builder knows
// which code to generate for it.
type Kind uint8

// Kinds of steps.
const (
	CIRCUIT_SIZE Kind = iota
	PUBLIC_INPUTS
	FIXED_COMMITMENT
	WIRE_COMMITMENT
	ARGUMENT_CHALLENGE
	DERIVED_COMMITMENT
	ALPHA
	GATE_CHALLENGE
	SUMCHECK_UNIVARIATE
	SUMCHECK_CHALLENGE
	SUMCHECK_EVALUATIONS
	PCS_RHO
	PCS_QUOTIENT
	PCS_Z
)

// Step is a single transcript operation.  Data absorbed is always bound to
// the next challenge squeezed.
type Step struct {
	// Round to which this step belongs.
	Round int
	// Op determines whether this step absorbs or squeezes.
	Op Op
	// Challenge squeezed, or to which absorbed data is bound.
	Challenge string
	// Label of the data absorbed.  For squeezes, this is the challenge itself.
	Label string
	// Repeated steps occur once per sumcheck round, and their challenge and
	// label are formats taking the round number.
	Repeated bool
	// Kind of this step.
	Kind Kind
	// Index of the column or challenge to which this step refers, where
	// applicable.  For commitments, this is the position of the column within
	// the flavor enumeration.  For argument challenges and alphas, this is the
	// position in squeeze order.
	Index int
}

func (p Step) String() string {
	var builder strings.Builder
	//
	fmt.Fprintf(&builder, "%d %s %s", p.Round, p.Op, p.Challenge)
	//
	if p.Op == ABSORB {
		fmt.Fprintf(&builder, " %s", p.Label)
	}
	//
	if p.Repeated {
		builder.WriteString(" (repeated)")
	}
	//
	return builder.String()
}

// Schedule is the complete sequence of transcript operations of a flavor.  The
// prover and the verifier are generated by walking the same schedule, hence
// derive challenges in the same order.
type Schedule struct {
	Steps []Step
}

// NewSchedule derives the schedule of a flavor.
func NewSchedule(f *flavor.Flavor) Schedule {
	var (
		steps      []Step
		challenges = flavor.ArgumentChallenges(f)
		// The challenge to which absorbed data is currently bound
		next = challenges[0]
	)
	//
	absorb := func(round int, kind Kind, index int, label string) {
		steps = append(steps, Step{round, ABSORB, next, label, false, kind, index})
	}
	// Round 0
	absorb(WIRE_ROUND, CIRCUIT_SIZE, 0, codegen.CIRCUIT_SIZE)
	absorb(WIRE_ROUND, PUBLIC_INPUTS, 0, codegen.PUBLIC_INPUTS)
	//
	for _, i := range f.KeyColumns() {
		absorb(WIRE_ROUND, FIXED_COMMITMENT, i, f.Columns[i].Name)
	}
	//
	for _, i := range f.WireColumns() {
		absorb(WIRE_ROUND, WIRE_COMMITMENT, i, f.Columns[i].Name)
	}
	// Round 1
	for i, c := range f.Challenges {
		steps = append(steps, Step{ARGUMENT_ROUND, SQUEEZE, c, c, false, ARGUMENT_CHALLENGE, i})
	}
	//
	next = challenges[len(f.Challenges)]
	// Round 2
	for _, i := range f.DerivedColumns() {
		absorb(DERIVED_ROUND, DERIVED_COMMITMENT, i, f.Columns[i].Name)
	}
	// Round 3
	for i, c := range challenges[len(f.Challenges) : len(challenges)-1] {
		steps = append(steps, Step{BATCHING_ROUND, SQUEEZE, c, c, false, ALPHA, i})
	}
	//
	steps = append(steps, Step{BATCHING_ROUND, SQUEEZE, codegen.GATE_CHALLENGE, codegen.GATE_CHALLENGE, false,
		GATE_CHALLENGE, 0})
	// Round 4
	steps = append(steps,
		Step{SUMCHECK_ROUND, ABSORB, codegen.SUMCHECK_CHALLENGE, codegen.SUMCHECK_UNIVARIATE, true,
			SUMCHECK_UNIVARIATE, 0},
		Step{SUMCHECK_ROUND, SQUEEZE, codegen.SUMCHECK_CHALLENGE, codegen.SUMCHECK_CHALLENGE, true,
			SUMCHECK_CHALLENGE, 0},
		Step{SUMCHECK_ROUND, ABSORB, codegen.PCS_RHO, codegen.SUMCHECK_EVALUATIONS, false,
			SUMCHECK_EVALUATIONS, 0})
	// Round 5
	steps = append(steps,
		Step{OPENING_ROUND, SQUEEZE, codegen.PCS_RHO, codegen.PCS_RHO, false, PCS_RHO, 0},
		Step{OPENING_ROUND, ABSORB, codegen.PCS_Z, codegen.PCS_QUOTIENT, false, PCS_QUOTIENT, 0},
		Step{OPENING_ROUND, SQUEEZE, codegen.PCS_Z, codegen.PCS_Z, false, PCS_Z, 0})
	//
	return Schedule{steps}
}

// Round returns the steps of a given round.
func (p Schedule) Round(round int) []Step {
	var steps []Step
	//
	for _, s := range p.Steps {
		if s.Round == round {
			steps = append(steps, s)
		}
	}
	//
	return steps
}

// Squeezes returns the challenges squeezed, in order, with repeated challenges
// expanded for a given number of sumcheck rounds.
func (p Schedule) Squeezes(logN int) []string {
	var challenges []string
	//
	for _, s := range p.Steps {
		if s.Op != SQUEEZE {
			continue
		} else if !s.Repeated {
			challenges = append(challenges, s.Challenge)
			continue
		}
		//
		for r := 0; r < logN; r++ {
			challenges = append(challenges, fmt.Sprintf(s.Challenge, r))
		}
	}
	//
	return challenges
}

// Check that every absorption is bound to a challenge which is squeezed
// later, and that no challenge is squeezed twice.
func (p Schedule) Check() error {
	var squeezed = make(map[string]bool)
	//
	for i, s := range p.Steps {
		if s.Op == SQUEEZE {
			if squeezed[s.Challenge] {
				return fmt.Errorf("challenge %s squeezed twice (step %d)", s.Challenge, i)
			}
			//
			squeezed[s.Challenge] = true
			//
			continue
		}
		//
		if squeezed[s.Challenge] {
			return fmt.Errorf("%s bound to challenge %s after it was squeezed (step %d)", s.Label, s.Challenge, i)
		} else if !p.squeezedAfter(i, s.Challenge) {
			return fmt.Errorf("%s bound to challenge %s which is never squeezed (step %d)", s.Label, s.Challenge, i)
		}
	}
	//
	return nil
}

func (p Schedule) squeezedAfter(index int, challenge string) bool {
	for _, s := range p.Steps[index+1:] {
		if s.Op == SQUEEZE && s.Challenge == challenge {
			return true
		}
	}
	//
	return false
}

// Manifest writes the schedule as the literal of a generated manifest
// variable.
func (p Schedule) Manifest(out *codegen.GoFile, name string, doc string) {
	body := out.Body()
	//
	body.Linef("// %s %s", name, codegen.OneLine(doc))
	body.Linef("var %s = []ManifestEntry{", name)
	//
	for _, s := range p.Steps {
		body.Linef("\t{Round: %d, Op: %q, Challenge: %q, Label: %q, Repeated: %t},",
			s.Round, s.Op, s.Challenge, s.Label, s.Repeated)
	}
	//
	body.Line("}")
	body.Line()
}
