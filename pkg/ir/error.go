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
package ir

import (
	"fmt"
)

// ErrorKind classifies the reasons for which a VM cannot be compiled.  Every
// kind is itself an error, such that errors.Is(err, ir.UnsupportedDegree) can be
// used to test the kind of a returned *Error.
type ErrorKind uint8

const (
	// UnsupportedDegree indicates an identity whose degree exceeds the maximum
	// constraint degree of the proof system.
	UnsupportedDegree ErrorKind = iota + 1
	// EmptyRelation indicates a declared relation without identities.
	EmptyRelation
	// UnknownColumnReference indicates a reference to an undeclared column.
	UnknownColumnReference
	// ArityMismatch indicates tuples of differing length within a lookup or
	// permutation argument.
	ArityMismatch
	// DuplicateColumn indicates two columns resolving to the same name.
	DuplicateColumn
	// NamingCollision indicates two distinct names resolving to the same
	// generated identifier.
	NamingCollision
	// UnsupportedShift indicates a column access at a row shift other than the
	// current or next row.
	UnsupportedShift
)

var errorKindNames = map[ErrorKind]string{
	UnsupportedDegree:      "UnsupportedDegree",
	EmptyRelation:          "EmptyRelation",
	UnknownColumnReference: "UnknownColumnReference",
	ArityMismatch:          "ArityMismatch",
	DuplicateColumn:        "DuplicateColumn",
	NamingCollision:        "NamingCollision",
	UnsupportedShift:       "UnsupportedShift",
}

func (k ErrorKind) Error() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	//
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Error is a structured compilation error which identifies the offending VM and
// declaration, such that it can be located in the original constraint
// specification.
type Error struct {
	// Kind of this error
	Kind ErrorKind
	// VM in which this error arose
	VM string
	// Construct describes the offending declaration, for example `relation
	// "mul" identity #0`.
	Construct string
	// Message gives further detail.
	Message string
}

// Errorf constructs a new error of the given kind for a given construct.  The VM
// is filled in later via At.
func Errorf(kind ErrorKind, construct string, format string, args ...any) *Error {
	return &Error{kind, "", construct, fmt.Sprintf(format, args...)}
}

// At sets the VM in which this error arose, returning the error itself.
func (e *Error) At(vm string) *Error {
	e.VM = vm
	return e
}

func (e *Error) Error() string {
	var msg = e.Kind.Error()
	//
	if e.VM != "" {
		msg = fmt.Sprintf("%s in vm \"%s\"", msg, e.VM)
	}
	//
	if e.Construct != "" {
		msg = fmt.Sprintf("%s at %s", msg, e.Construct)
	}
	//
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	//
	return msg
}

// Unwrap exposes the kind of this error to errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind
}

// ============================================================================
// Construct descriptions
// ============================================================================

// ColumnConstruct describes a column declaration.
func ColumnConstruct(name string) string {
	return fmt.Sprintf("column \"%s\"", name)
}

// RelationConstruct describes a relation declaration.
func RelationConstruct(name string) string {
	return fmt.Sprintf("relation \"%s\"", name)
}

// IdentityConstruct describes an identity within a relation.
func IdentityConstruct(relation string, index int) string {
	return fmt.Sprintf("relation \"%s\" identity #%d", relation, index)
}

// LookupConstruct describes a lookup argument.
func LookupConstruct(index int, name string) string {
	return describeArgument("lookup", index, name)
}

// PermutationConstruct describes a permutation argument.
func PermutationConstruct(index int, name string) string {
	return describeArgument("permutation", index, name)
}

// CopyConstruct describes a copy constraint.
func CopyConstruct(index int) string {
	return fmt.Sprintf("copy #%d", index)
}

func describeArgument(kind string, index int, name string) string {
	if name == "" {
		return fmt.Sprintf("%s #%d", kind, index)
	}
	//
	return fmt.Sprintf("%s #%d (\"%s\")", kind, index, name)
}
