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
	"fmt"

	"github.com/blang/semver/v4"
)

// VERSION is the format version written by Encode.
const VERSION = "1.0.0"

// SUPPORTED is the range of format versions which can be read.
const SUPPORTED = ">=1.0.0 <2.0.0"

var supported = semver.MustParseRange(SUPPORTED)

// File is the serialised form of one or more VMs.  The same shape is used for
// every encoding, with expressions written as S-expressions.
type File struct {
	Version string `json:"version" yaml:"version" cbor:"version"`
	VMs     []VM   `json:"vms" yaml:"vms" cbor:"vms"`
}

// VM is the serialised form of a single virtual machine.
type VM struct {
	Name         string        `json:"name" yaml:"name" cbor:"name"`
	Columns      []Column      `json:"columns" yaml:"columns" cbor:"columns"`
	Relations    []Relation    `json:"relations,omitempty" yaml:"relations,omitempty" cbor:"relations,omitempty"`
	Lookups      []Lookup      `json:"lookups,omitempty" yaml:"lookups,omitempty" cbor:"lookups,omitempty"`
	Permutations []Permutation `json:"permutations,omitempty" yaml:"permutations,omitempty" cbor:"permutations,omitempty"`
	Copies       []Copy        `json:"copies,omitempty" yaml:"copies,omitempty" cbor:"copies,omitempty"`
}

// Column declares a column by name and kind ("fixed", "witness" or "public").
type Column struct {
	Name string `json:"name" yaml:"name" cbor:"name"`
	Kind string `json:"kind" yaml:"kind" cbor:"kind"`
}

// Relation groups a set of identities.
type Relation struct {
	Name       string     `json:"name" yaml:"name" cbor:"name"`
	Identities []Identity `json:"identities" yaml:"identities" cbor:"identities"`
}

// Identity is a single polynomial identity.  An empty selector means the
// identity is always active, and a zero degree means it is inferred.
type Identity struct {
	Expr     string `json:"expr" yaml:"expr" cbor:"expr"`
	Selector string `json:"selector,omitempty" yaml:"selector,omitempty" cbor:"selector,omitempty"`
	Degree   uint   `json:"degree,omitempty" yaml:"degree,omitempty" cbor:"degree,omitempty"`
}

// Lookup is a lookup argument.  Counts optionally names the column holding the
// multiplicities of table rows.
type Lookup struct {
	Name          string   `json:"name,omitempty" yaml:"name,omitempty" cbor:"name,omitempty"`
	Selector      string   `json:"selector,omitempty" yaml:"selector,omitempty" cbor:"selector,omitempty"`
	Inputs        []string `json:"inputs" yaml:"inputs" cbor:"inputs"`
	TableSelector string   `json:"table_selector,omitempty" yaml:"table_selector,omitempty" cbor:"table_selector,omitempty"`
	Table         []string `json:"table" yaml:"table" cbor:"table"`
	Counts        string   `json:"counts,omitempty" yaml:"counts,omitempty" cbor:"counts,omitempty"`
}

// Permutation is a permutation argument between two or more sides.
type Permutation struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty" cbor:"name,omitempty"`
	Sides []Side `json:"sides" yaml:"sides" cbor:"sides"`
}

// Side is one side of a permutation.  Columns are (possibly shifted) column
// accesses.
type Side struct {
	Selector string   `json:"selector,omitempty" yaml:"selector,omitempty" cbor:"selector,omitempty"`
	Columns  []string `json:"columns" yaml:"columns" cbor:"columns"`
}

// Copy is a copy constraint between two cells.
type Copy struct {
	Left     Cell   `json:"left" yaml:"left" cbor:"left"`
	Right    Cell   `json:"right" yaml:"right" cbor:"right"`
	Selector string `json:"selector,omitempty" yaml:"selector,omitempty" cbor:"selector,omitempty"`
}

// Cell identifies a column at a row offset.
type Cell struct {
	Column string `json:"column" yaml:"column" cbor:"column"`
	Offset int    `json:"offset,omitempty" yaml:"offset,omitempty" cbor:"offset,omitempty"`
}

// CheckVersion checks that a file was written in a supported version of the
// format.
func (p *File) CheckVersion() error {
	v, err := semver.ParseTolerant(p.Version)
	if err != nil {
		return fmt.Errorf("invalid version \"%s\": %w", p.Version, err)
	} else if !supported(v) {
		return fmt.Errorf("unsupported version %s (expected %s)", v, SUPPORTED)
	}
	//
	return nil
}
