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
package irfile

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
)

// SCHEMA constrains CUE files and supplies defaults for optional fields.
// Definitions are closed, hence unknown fields are rejected.
const SCHEMA = `
#File: {
	version: string
	vms: [...#VM]
}

#VM: {
	name:    string & != ""
	columns: [...#Column]
	relations:    *[] | [...#Relation]
	lookups:      *[] | [...#Lookup]
	permutations: *[] | [...#Permutation]
	copies:       *[] | [...#Copy]
}

#Column: {
	name: string & != ""
	kind: "fixed" | "witness" | "commit" | "public"
}

#Relation: {
	name: string
	identities: [...#Identity]
}

#Identity: {
	expr:     string & != ""
	selector: *"" | string
	degree:   *0 | int & >=0
}

#Lookup: {
	name:           *"" | string
	selector:       *"" | string
	inputs:         [...string]
	table_selector: *"" | string
	table:          [...string]
	counts:         *"" | string
}

#Permutation: {
	name: *"" | string
	sides: [...#Side]
}

#Side: {
	selector: *"" | string
	columns: [...string]
}

#Copy: {
	left:     #Cell
	right:    #Cell
	selector: *"" | string
}

#Cell: {
	column: string & != ""
	offset: *0 | int
}
`

func decodeCue(data []byte, file *File) error {
	ctx := cuecontext.New()
	//
	schema := ctx.CompileString(SCHEMA).LookupPath(cue.ParsePath("#File"))
	if err := schema.Err(); err != nil {
		return err
	}
	//
	value := ctx.CompileBytes(data)
	if err := value.Err(); err != nil {
		return err
	}
	//
	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return err
	}
	//
	return unified.Decode(file)
}

func encodeCue(file *File) ([]byte, error) {
	value := cuecontext.New().Encode(file)
	if err := value.Err(); err != nil {
		return nil, err
	}
	//
	return format.Node(value.Syntax())
}
