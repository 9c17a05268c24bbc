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
	"slices"

	"github.com/consensys/go-pilcom/pkg/backend/codegen"
	"github.com/consensys/go-pilcom/pkg/backend/flavor"
	"github.com/consensys/go-pilcom/pkg/util"
)

// Names of the generated transcript methods.  The parity check recognises
// transcript operations by these names.
const (
	ABSORB_METHOD  = "absorb"
	SQUEEZE_METHOD = "squeeze"
)

// ChallengeTarget returns the field of the generated RelationParameters to
// which the ith argument challenge is assigned, such as "LookupGamma[1]".
func ChallengeTarget(f *flavor.Flavor, i int) string {
	if i < 2*f.NumLookups {
		if i%2 == 0 {
			return fmt.Sprintf("%s[%d]", codegen.LOOKUP_BETA, i/2)
		}
		//
		return fmt.Sprintf("%s[%d]", codegen.LOOKUP_GAMMA, i/2)
	}
	//
	i -= 2 * f.NumLookups
	//
	if i%2 == 0 {
		return fmt.Sprintf("%s[%d]", codegen.PERMUTATION_BETA, i/2)
	}
	//
	return fmt.Sprintf("%s[%d]", codegen.PERMUTATION_GAMMA, i/2)
}

// KeyPosition returns the position of a column within the committed key
// columns.
func KeyPosition(f *flavor.Flavor, column int) int {
	return slices.Index(f.KeyColumns(), column)
}

// EmitTranscript writes a party type wrapping a fiat-shamir transcript, along
// with its constructor and its absorb and squeeze methods.  Errors are sticky:
// once an operation fails every subsequent one is skipped, and the first error
// is retained.
func EmitTranscript(file *codegen.GoFile, party string) {
	out := file.Body()
	//
	file.Import("", "fmt")
	file.Import("", codegen.FR_IMPORT)
	file.Import("fiatshamir", codegen.FIAT_SHAMIR_IMPORT)
	//
	out.Linef("type %s struct {", party)
	out.Line("\ttranscript *fiatshamir.Transcript")
	out.Line("\terr        error")
	out.Line("}")
	out.Line()
	out.Linef("func new%s(logN int) *%s {", util.ToPascalCase(party), party)
	out.Linef("\treturn &%s{transcript: fiatshamir.NewTranscript(newTranscriptHash(), TranscriptChallenges(logN)...)}",
		party)
	out.Line("}")
	out.Line()
	out.Line("// Bind data to the next challenge.")
	out.Linef("func (p *%s) %s(challenge string, label string, data []byte) {", party, ABSORB_METHOD)
	out.Line("\tif p.err != nil {")
	out.Line("\t\treturn")
	out.Line("\t}")
	out.Line("\t//")
	out.Line("\tif err := p.transcript.Bind(challenge, data); err != nil {")
	out.Line("\t\tp.err = fmt.Errorf(\"absorbing %s: %w\", label, err)")
	out.Line("\t}")
	out.Line("}")
	out.Line()
	out.Line("// Derive a challenge, as a field element.")
	out.Linef("func (p *%s) %s(challenge string) fr.Element {", party, SQUEEZE_METHOD)
	out.Line("\tvar element fr.Element")
	out.Line("\t//")
	out.Line("\tif p.err != nil {")
	out.Line("\t\treturn element")
	out.Line("\t}")
	out.Line("\t//")
	out.Line("\tbytes, err := p.transcript.ComputeChallenge(challenge)")
	out.Line("\tif err != nil {")
	out.Line("\t\tp.err = fmt.Errorf(\"squeezing %s: %w\", challenge, err)")
	out.Line("\t\treturn element")
	out.Line("\t}")
	out.Line("\t//")
	out.Line("\telement.SetBytes(bytes)")
	out.Line("\t//")
	out.Line("\treturn element")
	out.Line("}")
	out.Line()
}

// Absorb returns the generated call absorbing data for a non-repeated step.
func Absorb(party string, step Step, data string) string {
	return fmt.Sprintf("%s.%s(%q, %q, %s)", party, ABSORB_METHOD, step.Challenge, step.Label, data)
}

// Squeeze returns the generated call squeezing the challenge of a
// non-repeated step.
func Squeeze(party string, step Step) string {
	return fmt.Sprintf("%s.%s(%q)", party, SQUEEZE_METHOD, step.Challenge)
}
