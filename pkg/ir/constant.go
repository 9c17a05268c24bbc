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
	"strconv"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/go-pilcom/pkg/sexp"
)

// Constant represents a constant field element within an expression.
type Constant struct{ Value fr.Element }

// Const constructs a constant expression from a field element.
func Const(val fr.Element) Expr {
	return &Constant{val}
}

// Const64 constructs a constant expression from a uint64.
func Const64(val uint64) Expr {
	return &Constant{fr.NewElement(val)}
}

// Degree implementation for Expr interface.
func (p *Constant) Degree() uint { return 0 }

// Lisp implementation for Expr interface.  Constants whose negation is a small
// number are printed as negative numbers, so that "-1" survives a round trip
// through its printed form.
func (p *Constant) Lisp(mapping ColumnMap) sexp.SExp {
	return sexp.NewSymbol(ConstantString(p.Value))
}

// Visit implementation for Expr interface.
func (p *Constant) Visit(fn func(Expr)) { fn(p) }

// ConstantString renders a field element as a decimal number, using a negative
// number when that is shorter.
func ConstantString(val fr.Element) string {
	var neg fr.Element
	//
	neg.Neg(&val)
	//
	if !val.IsUint64() && neg.IsUint64() {
		return "-" + strconv.FormatUint(neg.Uint64(), 10)
	}
	//
	return val.String()
}

func uintString(val uint64) string {
	return strconv.FormatUint(val, 10)
}
