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
// Package honk is a minimal stand-in for the proving runtime, sufficient to
// build generated packages and check circuits.  Commitments are plain hashes
// and no proof it produces is sound.
package honk

import (
	"crypto/sha256"
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Commitment to a single polynomial.
type Commitment struct {
	digest [sha256.Size]byte
}

// Bytes returns the encoding of this commitment.
func (c Commitment) Bytes() []byte {
	return c.digest[:]
}

// CommitmentKey commits to polynomials.
type CommitmentKey struct{}

// Commit hashes the evaluations of a polynomial.
func (CommitmentKey) Commit(poly []fr.Element) Commitment {
	h := sha256.New()
	//
	for i := range poly {
		b := poly[i].Bytes()
		h.Write(b[:])
	}
	//
	var c Commitment
	//
	copy(c.digest[:], h.Sum(nil))
	//
	return c
}

// OpeningKey verifies openings.
type OpeningKey struct{}

// OpeningProof is the final message of an opening.
type OpeningProof struct{}

// Univariate holds the coefficients of a sumcheck round polynomial.
type Univariate []fr.Element

// Bytes returns the encoding of this univariate.
func (u Univariate) Bytes() []byte {
	var out []byte
	//
	for i := range u {
		b := u[i].Bytes()
		out = append(out, b[:]...)
	}
	//
	return out
}

// Evaluate this univariate at a point.
func (u Univariate) Evaluate(x fr.Element) fr.Element {
	var acc fr.Element
	//
	for i := len(u) - 1; i >= 0; i-- {
		acc.Mul(&acc, &x)
		acc.Add(&acc, &u[i])
	}
	//
	return acc
}

// SumOverHypercube returns u(0) + u(1).
func (u Univariate) SumOverHypercube() fr.Element {
	var zero, one fr.Element
	//
	one.SetOne()
	//
	a, b := u.Evaluate(zero), u.Evaluate(one)
	a.Add(&a, &b)
	//
	return a
}

// SumcheckParams configures a sumcheck prover.
type SumcheckParams struct {
	Alphas           []fr.Element
	GateChallenge    fr.Element
	MaxPartialLength int
}

// SumcheckProver produces round univariates.
type SumcheckProver struct {
	polys [][]fr.Element
}

// NewSumcheckProver constructs a sumcheck prover over a set of polynomials.
func NewSumcheckProver(polys [][]fr.Element, shifted []int, params SumcheckParams,
	evaluate func([]fr.Element, fr.Element) fr.Element) *SumcheckProver {
	return &SumcheckProver{polys}
}

// RoundUnivariate returns the univariate of a given round.
func (p *SumcheckProver) RoundUnivariate(round int) Univariate {
	return Univariate{}
}

// Fold binds the variable of the current round.
func (p *SumcheckProver) Fold(u fr.Element) {}

// ClaimedEvaluations returns one evaluation per polynomial.
func (p *SumcheckProver) ClaimedEvaluations() []fr.Element {
	return make([]fr.Element, len(p.polys))
}

// PowPolynomialEvaluation evaluates the gate separator at a point.
func PowPolynomialEvaluation(gate fr.Element, u []fr.Element) fr.Element {
	return fr.One()
}

// OpeningProver opens polynomials at the sumcheck point.
type OpeningProver struct{}

// NewOpeningProver constructs an opening prover.
func NewOpeningProver(ck CommitmentKey, polys [][]fr.Element, shifted []int, u []fr.Element,
	rho fr.Element) *OpeningProver {
	return &OpeningProver{}
}

// Quotient returns the commitment to the batched quotient.
func (p *OpeningProver) Quotient() Commitment {
	return Commitment{}
}

// Finalize completes the opening.
func (p *OpeningProver) Finalize(z fr.Element) OpeningProof {
	return OpeningProof{}
}

// VerifyOpening always fails, since openings are not implemented.
func VerifyOpening(ok OpeningKey, commitments []Commitment, shifted []int, evals []fr.Element, u []fr.Element,
	rho fr.Element, z fr.Element, quotient Commitment, opening OpeningProof) error {
	return errors.New("openings are not supported")
}
