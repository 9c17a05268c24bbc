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
package prover

import (
	"fmt"

	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/codegen"
	"github.com/consensys/go-pilcom/pkg/backend/flavor"
	"github.com/consensys/go-pilcom/pkg/backend/protocol"
	"github.com/consensys/go-pilcom/pkg/util"
)

// MANIFEST is the name of the generated variable recording the transcript
// operations of the prover.
const MANIFEST = "ProverManifest"

// Variable holding the prover within the generated Prove function.
const party = "p"

// Build generates the prover of a flavor, which follows the given schedule.
func Build(f *flavor.Flavor, schedule protocol.Schedule) (artifact.Artifact, error) {
	var (
		file = codegen.NewGoFile(artifact.PROVER, f.Package)
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
	schedule.Manifest(file, MANIFEST, "records every transcript operation of Prove, in order.")
	protocol.EmitTranscript(file, "prover")
	//
	out.Line("// Prove generates a proof that the given polynomials satisfy every relation.  Helper")
	out.Line("// columns are computed in place.")
	out.Line("func Prove(pk *ProvingKey, polys *ProverPolynomials, publicInputs []fr.Element) (*Proof, error) {")
	body.Line("var (")
	body.Line("\tsize   = polys.Size()")
	body.Line("\tlogN   = bits.TrailingZeros(uint(size))")
	body.Linef("\t%s      = newProver(logN)", party)
	body.Line("\tproof  = &Proof{}")
	body.Line("\tparams RelationParameters")
	body.Line(")")
	body.Line("//")
	body.Line("if size != pk.CircuitSize {")
	body.Line("\treturn nil, fmt.Errorf(\"circuit size %d differs from proving key (%d)\", size, pk.CircuitSize)")
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
	body.Linef("\treturn nil, %s.err", party)
	body.Line("}")
	body.Line("//")
	body.Line("return proof, nil")
	out.Line("}")
	//
	return file.Artifact()
}

func openRound(out *util.IndentBuilder, round int) {
	switch round {
	case protocol.DERIVED_ROUND:
		out.Line("ComputeHelperColumns(polys, &params)")
	case protocol.BATCHING_ROUND:
		out.Line("alphas := make([]fr.Element, 0, NumSubrelations)")
	case protocol.SUMCHECK_ROUND:
		out.Line("evaluate := func(in []fr.Element, scaling fr.Element) fr.Element {")
		out.Line("\tvar evals [NumSubrelations]fr.Element")
		out.Line("\tAccumulateClaimed(evals[:], in, &params, scaling)")
		out.Line("\t//")
		out.Line("\treturn BatchSubrelations(evals[:], alphas)")
		out.Line("}")
		out.Line("sumcheck := honk.NewSumcheckProver(polys.All(), ShiftedColumns[:], honk.SumcheckParams{")
		out.Line("\tAlphas:           alphas,")
		out.Line("\tGateChallenge:    gate,")
		out.Line("\tMaxPartialLength: MaxPartialRelationLength,")
		out.Line("}, evaluate)")
		out.Line("u := make([]fr.Element, logN)")
	}
}

func emitStep(out *util.IndentBuilder, f *flavor.Flavor, step protocol.Step) {
	switch step.Kind {
	case protocol.CIRCUIT_SIZE:
		out.Line(protocol.Absorb(party, step, "encodeSize(size)"))
	case protocol.PUBLIC_INPUTS:
		out.Line(protocol.Absorb(party, step, "encodeElements(publicInputs)"))
	case protocol.FIXED_COMMITMENT:
		data := fmt.Sprintf("pk.FixedCommitments[%d].Bytes()", protocol.KeyPosition(f, step.Index))
		out.Line(protocol.Absorb(party, step, data))
	case protocol.WIRE_COMMITMENT, protocol.DERIVED_COMMITMENT:
		var (
			column = f.Columns[step.Index]
			field  = flavor.CommitmentField(column)
		)
		//
		out.Linef("proof.%s = pk.CommitmentKey.Commit(polys.%s)", field, column.Field)
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
		out.Line("\tunivariate := sumcheck.RoundUnivariate(r)")
		out.Line("\tproof.SumcheckUnivariates = append(proof.SumcheckUnivariates, univariate)")
		out.Linef("\t%s.%s(fmt.Sprintf(%q, r), fmt.Sprintf(%q, r), univariate.Bytes())", party,
			protocol.ABSORB_METHOD, step.Challenge, step.Label)
	case protocol.SUMCHECK_CHALLENGE:
		out.Linef("\tu[r] = %s.%s(fmt.Sprintf(%q, r))", party, protocol.SQUEEZE_METHOD, step.Challenge)
		out.Line("\tsumcheck.Fold(u[r])")
		out.Line("}")
		out.Line("//")
	case protocol.SUMCHECK_EVALUATIONS:
		out.Line("proof.ClaimedEvaluations = sumcheck.ClaimedEvaluations()")
		out.Line(protocol.Absorb(party, step, "encodeElements(proof.ClaimedEvaluations)"))
	case protocol.PCS_RHO:
		out.Linef("rho := %s", protocol.Squeeze(party, step))
		out.Line("opening := honk.NewOpeningProver(pk.CommitmentKey, polys.All(), ShiftedColumns[:], u, rho)")
	case protocol.PCS_QUOTIENT:
		out.Line("proof.PcsQuotient = opening.Quotient()")
		out.Line(protocol.Absorb(party, step, "proof.PcsQuotient.Bytes()"))
	case protocol.PCS_Z:
		out.Linef("z := %s", protocol.Squeeze(party, step))
		out.Line("proof.PcsOpening = opening.Finalize(z)")
	default:
		panic(fmt.Sprintf("unknown transcript step %s", step))
	}
}
