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
package flavor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-pilcom/pkg/backend/artifact"
	"github.com/consensys/go-pilcom/pkg/backend/codegen"
	"github.com/consensys/go-pilcom/pkg/backend/config"
	"github.com/consensys/go-pilcom/pkg/util"
)

func emit(f *Flavor) (artifact.Artifact, error) {
	var file = codegen.NewGoFile(artifact.FLAVOR, f.Package)
	//
	file.Doc(fmt.Sprintf("Package %s implements the proving system of vm \"%s\".", f.Package, codegen.OneLine(f.VM)))
	file.Import("", "encoding/binary")
	file.Import("", "fmt")
	file.Import("", "hash")
	file.Import("", codegen.FR_IMPORT)
	file.Import(codegen.RUNTIME_ALIAS, f.Config.RuntimeImport)
	//
	out := file.Body()
	//
	out.Line("// BundleID identifies the vm and configuration from which this package was generated.")
	out.Linef("const BundleID = %q", f.BundleID)
	out.Line()
	emitIndices(out, f)
	emitShape(out, f)
	emitLabels(out, f)
	emitRegistry(out, f)
	emitRow(out, f)
	emitPolynomials(out, f)
	emitParameters(out, f)
	emitProof(out, f)
	emitTranscript(file, f)
	//
	return file.Artifact()
}

func emitIndices(out *util.IndentBuilder, f *Flavor) {
	out.Line("// Positions of columns within the flavor enumeration, followed by the positions of")
	out.Line("// shifted columns within the claimed evaluations.")
	out.Line("const (")
	//
	for i, c := range f.Columns {
		out.Linef("\t%s = %d", codegen.ColumnConst(c.Field), i)
	}
	//
	for i, s := range f.Shifted {
		out.Linef("\t%s = %d", codegen.ColumnConst(codegen.ShiftField(f.Columns[s].Field)), len(f.Columns)+i)
	}
	//
	out.Line(")")
	out.Line()
}

func emitShape(out *util.IndentBuilder, f *Flavor) {
	out.Line("// Shape of this flavor.")
	out.Line("const (")
	out.Linef("\tNumFixed                 = %d", f.Counts.Fixed)
	out.Linef("\tNumWitness               = %d", f.Counts.Witness)
	out.Linef("\tNumPublic                = %d", f.Counts.Public)
	out.Linef("\tNumPrecomputed           = %d", f.Counts.Precomputed)
	out.Linef("\tNumDerived               = %d", f.Counts.Derived)
	out.Linef("\tNumLookupHelpers         = %d", f.Counts.LookupHelpers)
	out.Linef("\tNumPermutationHelpers    = %d", f.Counts.PermutationHelpers)
	out.Linef("\tNumColumns               = %d", f.NumColumns())
	out.Linef("\tNumShifted               = %d", len(f.Shifted))
	out.Linef("\tNumAllEntities           = %d", f.NumAllEntities())
	out.Linef("\tNumLookups               = %d", f.NumLookups)
	out.Linef("\tNumPermutations          = %d", f.NumPermutations)
	out.Linef("\tNumSubrelations          = %d", f.NumSubrelations())
	out.Linef("\tMaxPartialRelationLength = %d", f.MaxPartialLength())
	out.Line(")")
	out.Line()
}

func emitLabels(out *util.IndentBuilder, f *Flavor) {
	var (
		columns     []string
		shifted     []string
		subrelation []string
		independent []string
	)
	//
	for _, c := range f.Columns {
		columns = append(columns, strconv.Quote(c.Name))
	}
	//
	for _, s := range f.Shifted {
		shifted = append(shifted, codegen.ColumnConst(f.Columns[s].Field))
	}
	//
	for _, s := range f.Subrelations() {
		subrelation = append(subrelation, strconv.Quote(s.Label))
		independent = append(independent, strconv.FormatBool(s.LinearlyIndependent))
	}
	//
	out.Line("// ColumnLabels names every column, in enumeration order.")
	writeArray(out, "ColumnLabels", "NumColumns", "string", columns)
	out.Line("// ShiftedColumns identifies the columns read at the next row.")
	writeArray(out, "ShiftedColumns", "NumShifted", "int", shifted)
	out.Line("// SubrelationLabels names every sub-identity, in registry order.")
	writeArray(out, "SubrelationLabels", "NumSubrelations", "string", subrelation)
	out.Line("// SubrelationLinearlyIndependent determines which sub-identities must vanish row by row.")
	writeArray(out, "SubrelationLinearlyIndependent", "NumSubrelations", "bool", independent)
}

func emitRegistry(out *util.IndentBuilder, f *Flavor) {
	out.Line("// Relation is implemented by every generated relation.")
	out.Line("type Relation interface {")
	out.Line("\tName() string")
	out.Line("\tSubrelationPartialLengths() []int")
	out.Line("\tAccumulate(evals []fr.Element, in *Row, params *RelationParameters, scaling fr.Element)")
	out.Line("\tAccumulateClaimed(evals []fr.Element, in []fr.Element, params *RelationParameters, scaling fr.Element)")
	out.Line("}")
	out.Line()
	out.Line("// RelationInfo locates the sub-identities of a relation within the batched evaluations.")
	out.Line("type RelationInfo struct {")
	out.Line("\tRelation     Relation")
	out.Line("\tOffset       int")
	out.Line("\tSubrelations int")
	out.Line("}")
	out.Line()
	out.Line("// Relations lists every relation in registry order.")
	out.Line("var Relations = []RelationInfo{")
	//
	offsets := f.Offsets()
	//
	for i, r := range f.Relations {
		out.Linef("\t{%s{}, %d, %d},", r.Type, offsets[i], len(r.Subrelations))
	}
	//
	out.Line("}")
	out.Line()
	//
	for _, method := range []string{"Relations", "Claimed"} {
		input, call := "*Row", "Accumulate"
		if method == "Claimed" {
			input, call = "[]fr.Element", "AccumulateClaimed"
		}
		//
		out.Linef("// Accumulate%s evaluates every relation, writing each sub-identity to its position in evals.", method)
		out.Linef("func Accumulate%s(evals []fr.Element, in %s, params *RelationParameters, scaling fr.Element) {",
			method, input)
		out.Line("\tfor _, r := range Relations {")
		out.Linef("\t\tr.Relation.%s(evals[r.Offset:r.Offset+r.Subrelations], in, params, scaling)", call)
		out.Line("\t}")
		out.Line("}")
		out.Line()
	}
	//
	out.Line("// BatchSubrelations combines sub-identity evaluations, weighting sub-identity i+1 by alphas[i].")
	out.Line("func BatchSubrelations(evals []fr.Element, alphas []fr.Element) fr.Element {")
	out.Line("\tvar result fr.Element")
	out.Line("\t//")
	out.Line("\tfor i := range evals {")
	out.Line("\t\tif i == 0 {")
	out.Line("\t\t\tresult.Set(&evals[0])")
	out.Line("\t\t\tcontinue")
	out.Line("\t\t}")
	out.Line("\t\t//")
	out.Line("\t\tvar term fr.Element")
	out.Line("\t\tterm.Mul(&evals[i], &alphas[i-1])")
	out.Line("\t\tresult.Add(&result, &term)")
	out.Line("\t}")
	out.Line("\t//")
	out.Line("\treturn result")
	out.Line("}")
	out.Line()
}

func emitRow(out *util.IndentBuilder, f *Flavor) {
	out.Line("// Row holds the value of every column, and every shifted column, at a single row.")
	out.Line("type Row struct {")
	//
	for _, c := range f.Columns {
		out.Linef("\t%s fr.Element", c.Field)
	}
	//
	for _, s := range f.Shifted {
		out.Linef("\t%s fr.Element", codegen.ShiftField(f.Columns[s].Field))
	}
	//
	out.Line("}")
	out.Line()
	out.Line("// RowFromEvaluations constructs a row from claimed evaluations in flavor order.")
	out.Line("func RowFromEvaluations(evals []fr.Element) *Row {")
	out.Line("\treturn &Row{")
	//
	for _, field := range entityFields(f) {
		out.Linef("\t\t%s: evals[%s],", field, codegen.ColumnConst(field))
	}
	//
	out.Line("\t}")
	out.Line("}")
	out.Line()
}

func emitPolynomials(out *util.IndentBuilder, f *Flavor) {
	var all []string
	//
	out.Line("// ProverPolynomials holds every column as its evaluations over the boolean hypercube.")
	out.Line("type ProverPolynomials struct {")
	out.Line("\tsize int")
	//
	for _, c := range f.Columns {
		out.Linef("\t%s []fr.Element", c.Field)
		all = append(all, "p."+c.Field)
	}
	//
	out.Line("}")
	out.Line()
	out.Line("// NewProverPolynomials allocates zeroed polynomials of a given size.")
	out.Line("func NewProverPolynomials(size int) *ProverPolynomials {")
	out.Line("\treturn &ProverPolynomials{")
	out.Line("\t\tsize: size,")
	//
	for _, c := range f.Columns {
		out.Linef("\t\t%s: make([]fr.Element, size),", c.Field)
	}
	//
	out.Line("\t}")
	out.Line("}")
	out.Line()
	out.Line("// Size returns the number of rows.")
	out.Line("func (p *ProverPolynomials) Size() int { return p.size }")
	out.Line()
	out.Line("// All returns every column, in enumeration order.")
	out.Line("func (p *ProverPolynomials) All() [][]fr.Element {")
	out.Linef("\treturn [][]fr.Element{%s}", strings.Join(all, ", "))
	out.Line("}")
	out.Line()
	out.Line("// Row returns the values of every column at row i.  Shifted columns read row i+1,")
	out.Line("// and are zero on the last row.")
	out.Line("func (p *ProverPolynomials) Row(i int) *Row {")
	out.Line("\trow := &Row{")
	//
	for _, c := range f.Columns {
		out.Linef("\t\t%s: p.%s[i],", c.Field, c.Field)
	}
	//
	out.Line("\t}")
	//
	if len(f.Shifted) > 0 {
		out.Line("\t//")
		out.Line("\tif i+1 < p.size {")
		//
		for _, s := range f.Shifted {
			field := f.Columns[s].Field
			out.Linef("\t\trow.%s = p.%s[i+1]", codegen.ShiftField(field), field)
		}
		//
		out.Line("\t}")
	}
	//
	out.Line("\t//")
	out.Line("\treturn row")
	out.Line("}")
	out.Line()
	out.Line("// ComputeHelperColumns computes every derived column, once the argument challenges are known.")
	out.Line("func ComputeHelperColumns(polys *ProverPolynomials, params *RelationParameters) {")
	//
	for _, i := range f.DerivedColumns() {
		out.Linef("\t%s(polys, params)", codegen.ComputeFunction(f.Columns[i].Name))
	}
	//
	out.Line("}")
	out.Line()
}

func emitParameters(out *util.IndentBuilder, f *Flavor) {
	out.Line("// RelationParameters holds the challenges of every lookup and permutation argument.")
	out.Line("type RelationParameters struct {")
	out.Linef("\t%s [NumLookups]fr.Element", codegen.LOOKUP_BETA)
	out.Linef("\t%s [NumLookups]fr.Element", codegen.LOOKUP_GAMMA)
	out.Linef("\t%s [NumPermutations]fr.Element", codegen.PERMUTATION_BETA)
	out.Linef("\t%s [NumPermutations]fr.Element", codegen.PERMUTATION_GAMMA)
	out.Line("}")
	out.Line()
}

func emitProof(out *util.IndentBuilder, f *Flavor) {
	out.Line("// Proof holds the commitments and evaluations produced by the prover.")
	out.Line("type Proof struct {")
	//
	for _, i := range append(f.WireColumns(), f.DerivedColumns()...) {
		out.Linef("\t%s honk.Commitment", CommitmentField(f.Columns[i]))
	}
	//
	out.Line("\tSumcheckUnivariates []honk.Univariate")
	out.Line("\tClaimedEvaluations  []fr.Element")
	out.Line("\tPcsQuotient         honk.Commitment")
	out.Line("\tPcsOpening          honk.OpeningProof")
	out.Line("}")
	out.Line()
	out.Line("// ManifestEntry records a single transcript operation.")
	out.Line("type ManifestEntry struct {")
	out.Line("\tRound     int")
	out.Line("\tOp        string")
	out.Line("\tChallenge string")
	out.Line("\tLabel     string")
	out.Line("\tRepeated  bool")
	out.Line("}")
	out.Line()
}

func emitTranscript(file *codegen.GoFile, f *Flavor) {
	var (
		out        = file.Body()
		challenges []string
	)
	//
	for _, c := range ArgumentChallenges(f) {
		challenges = append(challenges, strconv.Quote(c))
	}
	//
	out.Line("// TranscriptChallenges lists every challenge, in the order both prover and verifier derive them.")
	out.Line("func TranscriptChallenges(logN int) []string {")
	out.Linef("\tchallenges := []string{%s}", strings.Join(challenges, ", "))
	out.Line("\t//")
	out.Line("\tfor r := 0; r < logN; r++ {")
	out.Linef("\t\tchallenges = append(challenges, fmt.Sprintf(%q, r))", codegen.SUMCHECK_CHALLENGE)
	out.Line("\t}")
	out.Line("\t//")
	out.Linef("\treturn append(challenges, %q, %q)", codegen.PCS_RHO, codegen.PCS_Z)
	out.Line("}")
	out.Line()
	out.Line("func encodeSize(n int) []byte {")
	out.Line("\treturn binary.BigEndian.AppendUint64(nil, uint64(n))")
	out.Line("}")
	out.Line()
	out.Line("func encodeElements(elements []fr.Element) []byte {")
	out.Line("\tbytes := make([]byte, 0, len(elements)*fr.Bytes)")
	out.Line("\t//")
	out.Line("\tfor i := range elements {")
	out.Line("\t\tb := elements[i].Bytes()")
	out.Line("\t\tbytes = append(bytes, b[:]...)")
	out.Line("\t}")
	out.Line("\t//")
	out.Line("\treturn bytes")
	out.Line("}")
	out.Line()
	out.Line("func newTranscriptHash() hash.Hash {")
	//
	switch f.Config.TranscriptHash {
	case config.KECCAK256:
		file.Import("", "golang.org/x/crypto/sha3")
		out.Line("\treturn sha3.NewLegacyKeccak256()")
	case config.BLAKE2B:
		file.Import("", "golang.org/x/crypto/blake2b")
		out.Line("\th, err := blake2b.New256(nil)")
		out.Line("\tif err != nil {")
		out.Line("\t\tpanic(err)")
		out.Line("\t}")
		out.Line("\t//")
		out.Line("\treturn h")
	default:
		file.Import("", "crypto/sha256")
		out.Line("\treturn sha256.New()")
	}
	//
	out.Line("}")
}

// ArgumentChallenges returns the challenges squeezed before the sumcheck, in
// order: argument challenges, then the batching challenges and the gate
// challenge.
func ArgumentChallenges(f *Flavor) []string {
	challenges := append([]string{}, f.Challenges...)
	//
	for i := 0; i+1 < f.NumSubrelations(); i++ {
		challenges = append(challenges, codegen.Alpha(i))
	}
	//
	return append(challenges, codegen.GATE_CHALLENGE)
}

// CommitmentField is the field of the generated Proof holding the commitment
// to a column.
func CommitmentField(c codegen.ColumnInfo) string {
	return c.Field + "Commitment"
}

// Every field of Row, in claimed evaluation order.
func entityFields(f *Flavor) []string {
	var fields []string
	//
	for _, c := range f.Columns {
		fields = append(fields, c.Field)
	}
	//
	for _, s := range f.Shifted {
		fields = append(fields, codegen.ShiftField(f.Columns[s].Field))
	}
	//
	return fields
}

func writeArray(out *util.IndentBuilder, name string, size string, elem string, values []string) {
	out.Linef("var %s = [%s]%s{%s}", name, size, elem, strings.Join(values, ", "))
	out.Line()
}
