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
	"go/token"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// SanitizeName converts a source identifier into a lower snake case name which
// is safe to use in generated artifacts.  The input is first brought into
// Unicode normal form C, so that visually identical names written with
// different code point sequences map to the same result.  Case changes
// ("selOpAdd") and any character other than an ASCII letter or digit start a
// new word.  A name starting with a digit is prefixed with "c_".  The result is
// empty only when the input contains no letter or digit.
func SanitizeName(name string) string {
	var words []string
	//
	for _, w := range splitWords(norm.NFC.String(name)) {
		if w != "" {
			words = append(words, strings.ToLower(w))
		}
	}
	//
	result := strings.Join(words, "_")
	//
	if result != "" && result[0] >= '0' && result[0] <= '9' {
		return "c_" + result
	}
	//
	return result
}

// ToPascalCase converts a sanitized snake case name into an exported Go
// identifier, for example "lookup_0_inv" becomes "Lookup0Inv".
func ToPascalCase(name string) string {
	var (
		builder strings.Builder
		title   = cases.Title(language.Und, cases.NoLower)
	)
	//
	for _, w := range strings.Split(name, "_") {
		builder.WriteString(title.String(w))
	}
	//
	return builder.String()
}

// ToCamelCase converts a sanitized snake case name into an unexported Go
// identifier, for example "lookup_0_inv" becomes "lookup0Inv".
func ToCamelCase(name string) string {
	pascal := []rune(ToPascalCase(name))
	//
	if len(pascal) > 0 {
		pascal[0] = unicode.ToLower(pascal[0])
	}
	//
	return string(pascal)
}

// PackageName derives a Go package name for a VM.  Package names are lower case
// without separators; a name which collides with a Go keyword gains the suffix
// "vm".
func PackageName(vm string) string {
	name := strings.ReplaceAll(SanitizeName(vm), "_", "")
	//
	if name == "" {
		return "vm"
	} else if token.IsKeyword(name) || name[0] >= '0' && name[0] <= '9' {
		return name + "vm"
	}
	//
	return name
}

// Split a name into words at separators and at lower-to-upper case changes.
func splitWords(name string) []string {
	var (
		words []string
		word  []rune
		lower bool
	)
	//
	flush := func() {
		words = append(words, string(word))
		word = word[:0]
	}
	//
	for _, r := range name {
		switch {
		case r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)):
			flush()

			lower = false
		case unicode.IsUpper(r) && lower:
			flush()

			word = append(word, r)
			lower = false
		default:
			word = append(word, r)
			lower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	//
	flush()
	//
	return words
}
