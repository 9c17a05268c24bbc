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
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func Test_SanitizeName_01(t *testing.T) {
	checkSanitize(t, "a", "a")
	checkSanitize(t, "lookup_0_inv", "lookup_0_inv")
	checkSanitize(t, "x.y", "x_y")
	checkSanitize(t, "x__y", "x_y")
	checkSanitize(t, "_x_", "x")
	checkSanitize(t, "Main.SEL", "main_sel")
	checkSanitize(t, "selOpAdd", "sel_op_add")
	checkSanitize(t, "running sum", "running_sum")
	checkSanitize(t, "0x", "c_0x")
	checkSanitize(t, "...", "")
}

func Test_SanitizeName_02(t *testing.T) {
	// Composed and decomposed forms agree.
	checkSanitize(t, "cafe\u0301", SanitizeName("caf\u00e9"))
}

func Test_Casing_01(t *testing.T) {
	checkString(t, "Lookup0Inv", ToPascalCase("lookup_0_inv"))
	checkString(t, "lookup0Inv", ToCamelCase("lookup_0_inv"))
	checkString(t, "XShift", ToPascalCase("x_shift"))
	checkString(t, "", ToCamelCase(""))
}

func Test_PackageName_01(t *testing.T) {
	checkString(t, "mul", PackageName("mul"))
	checkString(t, "runningsum", PackageName("running sum"))
	checkString(t, "rangevm", PackageName("range"))
	checkString(t, "c0", PackageName("0"))
	checkString(t, "vm", PackageName("!!"))
}

func Test_SanitizeName_Property(t *testing.T) {
	properties := gopter.NewProperties(nil)
	//
	properties.Property("sanitize is idempotent", prop.ForAll(
		func(name string) bool {
			once := SanitizeName(name)
			return SanitizeName(once) == once
		},
		gen.AnyString(),
	))
	//
	properties.Property("sanitized names are identifiers", prop.ForAll(
		func(name string) bool {
			for _, r := range SanitizeName(name) {
				if !(r == '_' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
					return false
				}
			}
			//
			return true
		},
		gen.AnyString(),
	))
	//
	properties.TestingRun(t)
}

func Test_Order_01(t *testing.T) {
	keys := SortedKeys(map[string]int{"b": 1, "c": 2, "a": 3})
	checkString(t, "[a b c]", fmt.Sprint(keys))
	//
	checkString(t, "[3 1 2]", fmt.Sprint(FirstOccurrence([]int{3, 1, 3, 2, 1})))
	//
	dups := Duplicates([]string{"x", "y", "x", "z", "y"})
	checkString(t, "[{0 2} {1 4}]", fmt.Sprint(dups))
}

func checkSanitize(t *testing.T, name string, expected string) {
	t.Helper()
	//
	if actual := SanitizeName(name); actual != expected {
		t.Errorf("sanitizing \"%s\": expected \"%s\", got \"%s\"", name, expected, actual)
	}
}

func checkString(t *testing.T, expected string, actual string) {
	t.Helper()
	//
	if expected != actual {
		t.Errorf("expected \"%s\", got \"%s\"", expected, actual)
	}
}
