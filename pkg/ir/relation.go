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

// Identity is a polynomial expression which must evaluate to zero on every row
// where its selector is active.
type Identity struct {
	// Expr which must vanish.
	Expr Expr
	// Selector determining on which rows this identity is active.  A nil
	// selector is always active.
	Selector Expr
	// Degree declared for this identity, or zero if the degree is inferred.
	Degree uint
}

// Body returns the expression actually constrained, namely the selector
// multiplied by the expression.
func (p *Identity) Body() Expr {
	if p.Selector == nil {
		return p.Expr
	}
	//
	return Product(p.Selector, p.Expr)
}

// EffectiveDegree returns the degree of this identity, which is the larger of
// its declared degree and the degree of its body.
func (p *Identity) EffectiveDegree() uint {
	return max(p.Degree, p.Body().Degree())
}

// Relation is a named group of identities.  The index of a relation is its
// position in declaration order.
type Relation struct {
	Name       string
	Index      uint
	Identities []Identity
}

// MaxDegree returns the largest effective degree of any identity in this
// relation.
func (p *Relation) MaxDegree() uint {
	var degree uint
	//
	for i := range p.Identities {
		degree = max(degree, p.Identities[i].EffectiveDegree())
	}
	//
	return degree
}
