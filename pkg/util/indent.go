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
package util

import (
	"fmt"
	"strings"
)

// IndentBuilder is a string builder which supports indentation.  Derived
// builders returned from Indent() share the same underlying buffer.
type IndentBuilder struct {
	indent  uint
	builder *strings.Builder
}

// NewIndentBuilder constructs a builder at indentation level zero.
func NewIndentBuilder() IndentBuilder {
	return IndentBuilder{0, &strings.Builder{}}
}

// Indent returns a builder writing one level deeper into the same buffer.
func (p *IndentBuilder) Indent() IndentBuilder {
	return IndentBuilder{p.indent + 1, p.builder}
}

// WriteString writes a raw string without indentation.
func (p *IndentBuilder) WriteString(raw string) {
	p.builder.WriteString(raw)
}

// WriteIndentedString writes the current indentation followed by the given
// pieces.
func (p *IndentBuilder) WriteIndentedString(pieces ...string) {
	p.WriteIndent()
	//
	for _, s := range pieces {
		p.builder.WriteString(s)
	}
}

// Line writes an indented line made up of the given pieces.
func (p *IndentBuilder) Line(pieces ...string) {
	p.WriteIndentedString(pieces...)
	p.builder.WriteString("\n")
}

// Linef writes an indented, formatted line.
func (p *IndentBuilder) Linef(format string, args ...any) {
	p.Line(fmt.Sprintf(format, args...))
}

// WriteIndent writes the current indentation.
func (p *IndentBuilder) WriteIndent() {
	for i := uint(0); i < p.indent; i++ {
		p.builder.WriteString("\t")
	}
}

// String returns everything written so far.
func (p *IndentBuilder) String() string {
	return p.builder.String()
}
