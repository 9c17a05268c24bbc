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
package verifier

import (
	"fmt"
	"strings"

	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/codegen"
	"github.com/consensys/go-pilcom/pkg/backend/flavor"
	"github.com/consensys/go-pilcom/pkg/backend/protocol"
	"github.com/consensys/go-pilcom/pkg/util"
)

// MANIFEST is the name of the generated variable recording the transcript
// operations of the verifier.
const MANIFEST = "VerifierManifest"

// Variable holding the verifier within the generated Verify function.
const party = "v"

// Build generates the verifier of a flavor, which follows the given schedule.
// The verifier recomputes every challenge from the proof, checks each sumcheck
// round against the running target, checks the claimed evaluations against
// the batched relations and finally checks the opening.
func Build(f *flavor.Flavor, schedule protocol.Schedule) (artifact.Artifact, error) {
	var (
		file = codegen.NewGoFile(artifact.VERIFIER, f.Package)
		out  = file.Body()
		body = out.Indent()
	)
	//
	if err := schedule.Check(); err != nil {
		return artifact.Artifact{}, fmt.Errorf("vm \"%s\": %w", f.VM, err)
	}
	//
	file.Import("", "fmt")
	file.Import("", "math/bits")
	file.Import("", codegen.FR_IMPORT)
	file.Import(codegen.RUNTIME_ALIAS, f.Config.RuntimeImport)
	//
	schedule.Manifest(file, MANIFEST, "records every transcript operation of Verify, in order.")
	protocol.EmitTranscript(file, "verifier")
	//
	out.Line("// Verify checks a proof against a verification key and the public inputs.")
	out.Line("func Verify(vk *VerificationKey, proof *Proof, publicInputs []fr.Element) error {")
	body.Line("var (")
	body.Line("\tsize   = vk.CircuitSize")
	body.Line("\tlogN   = bits.TrailingZeros(uint(size))")
	body.Linef("\t%s      = newVerifier(logN)", party)
	body.Line("\tparams RelationParameters")
	body.Line(")")
	body.Line("//")
	body.Line("if size < 2 || size&(size-1) != 0 {")
	body.Line("\treturn fmt.Errorf(\"invalid circuit size %d\", size)")
	body.Line("} else if len(proof.SumcheckUnivariates) != logN {")
	body.Line("\treturn fmt.Errorf(\"expected %d sumcheck univariates, found %d\", logN, len(proof.SumcheckUnivariates))")
	body.Line("} else if len(proof.ClaimedEvaluations) != NumAllEntities {")
	body.Line("\treturn fmt.Errorf(\"expected %d claimed evaluations, found %d\", NumAllEntities, " +
		"len(proof.ClaimedEvaluations))")
	body.Line("}")
	//
	round := -1
	//
	for _, step := range schedule.Steps {
		if step.Round != round {
			round = step.Round
			body.Linef("// Round %d", round)
			openRound(&body, round)
		}
		//
		emitStep(&body, f, step)
	}
	//
	body.Linef("if %s.err != nil {", party)
	body.Linef("\treturn %s.err", party)
	body.Line("}")
	body.Line("//")
	body.Linef("commitments := []honk.Commitment{%s}", strings.Join(commitments(f), ", "))
	body.Line("//")
	body.Line("return honk.VerifyOpening(vk.OpeningKey, commitments, ShiftedColumns[:], proof.ClaimedEvaluations, u,")
	body.Line("\trho, z, proof.PcsQuotient, proof.PcsOpening)")
	out.Line("}")
	//
	return file.Artifact()
}

// Commitments of every column, in enumeration order.
func commitments(f *flavor.Flavor) []string {
	var items = make([]string, len(f.Columns))
	//
	for i, c := range f.Columns {
		if c.Role.InKey() {
			items[i] = fmt.Sprintf("vk.FixedCommitments[%d]", protocol.KeyPosition(f, i))
		} else {
			items[i] = fmt.Sprintf("proof.%s", flavor.CommitmentField(c))
		}
	}
	//
	return items
}

func openRound(out *util.IndentBuilder, round int) {
	switch round {
	case protocol.BATCHING_ROUND:
		out.Line("alphas := make([]fr.Element, 0, NumSubrelations)")
	case protocol.SUMCHECK_ROUND:
		out.Line("var (")
		out.Line("\ttarget fr.Element")
		out.Line("\tu      = make([]fr.Element, logN)")
		out.Line(")")
	}
}

func emitStep(out *util.IndentBuilder, f *flavor.Flavor, step protocol.Step) {
	switch step.Kind {
	case protocol.CIRCUIT_SIZE:
		out.Line(protocol.Absorb(party, step, "encodeSize(size)"))
	case protocol.PUBLIC_INPUTS:
		out.Line(protocol.Absorb(party, step, "encodeElements(publicInputs)"))
	case protocol.FIXED_COMMITMENT:
		data := fmt.Sprintf("vk.FixedCommitments[%d].Bytes()", protocol.KeyPosition(f, step.Index))
		out.Line(protocol.Absorb(party, step, data))
	case protocol.WIRE_COMMITMENT, protocol.DERIVED_COMMITMENT:
		field := flavor.CommitmentField(f.Columns[step.Index])
		out.Line(protocol.Absorb(party, step, fmt.Sprintf("proof.%s.Bytes()", field)))
	case protocol.ARGUMENT_CHALLENGE:
		out.Linef("params.%s = %s", protocol.ChallengeTarget(f, step.Index), protocol.Squeeze(party, step))
	case protocol.ALPHA:
		out.Linef("alphas = append(alphas, %s)", protocol.Squeeze(party, step))
	case protocol.GATE_CHALLENGE:
		out.Linef("gate := %s", protocol.Squeeze(party, step))
	case protocol.SUMCHECK_UNIVARIATE:
		out.Line("//")
		out.Line("for r := 0; r < logN; r++ {")
		out.Line("\tunivariate := proof.SumcheckUnivariates[r]")
		out.Line("\t//")
		out.Line("\tif sum := univariate.SumOverHypercube(); !sum.Equal(&target) {")
		out.Line("\t\treturn fmt.Errorf(\"sumcheck round %d inconsistent with previous round\", r)")
		out.Line("\t}")
		out.Line("\t//")
		out.Linef("\t%s.%s(fmt.Sprintf(%q, r), fmt.Sprintf(%q, r), univariate.Bytes())", party,
			protocol.ABSORB_METHOD, step.Challenge, step.Label)
	case protocol.SUMCHECK_CHALLENGE:
		out.Linef("\tu[r] = %s.%s(fmt.Sprintf(%q, r))", party, protocol.SQUEEZE_METHOD, step.Challenge)
		out.Line("\ttarget = univariate.Evaluate(u[r])")
		out.Line("}")
		out.Line("//")
	case protocol.SUMCHECK_EVALUATIONS:
		out.Linef("if %s.err != nil {", party)
		out.Linef("\treturn %s.err", party)
		out.Line("}")
		out.Line("//")
		out.Line("var evals [NumSubrelations]fr.Element")
		out.Line("AccumulateClaimed(evals[:], proof.ClaimedEvaluations, &params, honk.PowPolynomialEvaluation(gate, u))")
		out.Line("//")
		out.Line("if batched := BatchSubrelations(evals[:], alphas); !batched.Equal(&target) {")
		out.Line("\treturn fmt.Errorf(\"claimed evaluations do not satisfy the relations\")")
		out.Line("}")
		out.Line("//")
		out.Line(protocol.Absorb(party, step, "encodeElements(proof.ClaimedEvaluations)"))
	case protocol.PCS_RHO:
		out.Linef("rho := %s", protocol.Squeeze(party, step))
	case protocol.PCS_QUOTIENT:
		out.Line(protocol.Absorb(party, step, "proof.PcsQuotient.Bytes()"))
	case protocol.PCS_Z:
		out.Linef("z := %s", protocol.Squeeze(party, step))
	default:
		panic(fmt.Sprintf("unknown transcript step %s", step))
	}
}
