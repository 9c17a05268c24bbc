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
package codegen

import (
	"fmt"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/consensys/go-pilcom/pkg/util"
)

// Accessor renders a read of a column field, at either the current or the next
// row.  The rendered operand must be addressable.
type Accessor func(field string, shifted bool) string

// RowAccess reads columns from a *Row variable, as in "in.A".
func RowAccess(in string) Accessor {
	return func(field string, shifted bool) string {
		if shifted {
			field = ShiftField(field)
		}
		//
		return fmt.Sprintf("%s.%s", in, field)
	}
}

// ClaimedAccess reads columns from a flat evaluation vector, as in "in[ColA]".
func ClaimedAccess(in string) Accessor {
	return func(field string, shifted bool) string {
		if shifted {
			field = ShiftField(field)
		}
		//
		return fmt.Sprintf("%s[%s]", in, ColumnConst(field))
	}
}

// FieldMap determines the generated field of a declared column.
type FieldMap interface {
	Field(ir.ColumnId) string
}

// Emitter translates expressions into straight-line Go code over fr.Element.
// Every intermediate value is held in a fresh temporary, hence the code
// generated for a single expression is in static single assignment form.
// Temporaries are numbered from zero, and an emitter should therefore be used
// for at most one Go block.
type Emitter struct {
	out    util.IndentBuilder
	fields FieldMap
	access Accessor
	params string
	next   uint
}

// NewEmitter constructs an emitter writing into a given builder, reading
// columns via the given accessor and challenges from the given parameters
// variable.
func NewEmitter(out util.IndentBuilder, fields FieldMap, access Accessor, params string) *Emitter {
	return &Emitter{out, fields, access, params, 0}
}

// Emit writes the code computing an expression, and returns the addressable
// operand holding its value.
func (p *Emitter) Emit(expr ir.Expr) string {
	switch e := expr.(type) {
	case *ir.ColumnAccess:
		return p.access(p.fields.Field(e.Column), e.Shift != 0)
	case *HelperAccess:
		return p.access(Field(e.Name), e.Shift != 0)
	case *Challenge:
		return fmt.Sprintf("%s.%s[%d]", p.params, e.Field, e.Index)
	case *ir.Constant:
		return p.constant(e.Value)
	case *ir.Add:
		return p.fold("Add", e.Args, 0)
	case *ir.Sub:
		return p.fold("Sub", e.Args, 0)
	case *ir.Mul:
		return p.fold("Mul", e.Args, 1)
	case *ir.Neg:
		arg := p.Emit(e.Arg)
		tmp := p.declare()
		p.out.Linef("%s.Neg(&%s)", tmp, arg)
		//
		return tmp
	case *ir.Exp:
		return p.power(e.Arg, e.Pow)
	}
	//
	panic(fmt.Sprintf("unknown expression encountered (%T)", expr))
}

// Accumulate writes the code adding an expression, optionally multiplied by a
// scaling factor, into a target.
func (p *Emitter) Accumulate(target string, expr ir.Expr, scaling string) {
	val := p.Emit(expr)
	//
	if scaling != "" {
		tmp := p.declare()
		p.out.Linef("%s.Mul(&%s, &%s)", tmp, val, scaling)
		val = tmp
	}
	//
	p.out.Linef("%s.Add(&%s, &%s)", target, target, val)
}

// Assign writes the code assigning the value of an expression to a target.
func (p *Emitter) Assign(target string, expr ir.Expr) {
	p.out.Linef("%s = %s", target, p.Emit(expr))
}

func (p *Emitter) fold(op string, args []ir.Expr, unit uint64) string {
	switch len(args) {
	case 0:
		return p.constant(fr.NewElement(unit))
	case 1:
		return p.Emit(args[0])
	}
	//
	operands := make([]string, len(args))
	for i, arg := range args {
		operands[i] = p.Emit(arg)
	}
	//
	tmp := p.declare()
	p.out.Linef("%s.%s(&%s, &%s)", tmp, op, operands[0], operands[1])
	//
	for _, operand := range operands[2:] {
		p.out.Linef("%s.%s(&%s, &%s)", tmp, op, tmp, operand)
	}
	//
	return tmp
}

// Raise an expression to a constant power by square-and-multiply.
func (p *Emitter) power(arg ir.Expr, pow uint64) string {
	if pow == 0 {
		return p.constant(fr.One())
	}
	//
	base := p.Emit(arg)
	//
	if pow == 1 {
		return base
	}
	//
	tmp := p.declare()
	p.out.Linef("%s.Set(&%s)", tmp, base)
	//
	for i := bits.Len64(pow) - 2; i >= 0; i-- {
		p.out.Linef("%s.Square(&%s)", tmp, tmp)
		//
		if (pow>>uint(i))&1 == 1 {
			p.out.Linef("%s.Mul(&%s, &%s)", tmp, tmp, base)
		}
	}
	//
	return tmp
}

func (p *Emitter) constant(val fr.Element) string {
	var (
		tmp = p.fresh()
		neg fr.Element
	)
	//
	neg.Neg(&val)
	//
	switch {
	case val.IsUint64():
		p.out.Linef("%s := fr.NewElement(%d)", tmp, val.Uint64())
	case neg.IsUint64():
		p.out.Linef("%s := fr.NewElement(%d)", tmp, neg.Uint64())
		p.out.Linef("%s.Neg(&%s)", tmp, tmp)
	default:
		// Limbs are written in Montgomery form, exactly as held by fr.Element.
		p.out.Linef("%s := fr.Element{0x%x, 0x%x, 0x%x, 0x%x}", tmp, val[0], val[1], val[2], val[3])
	}
	//
	return tmp
}

func (p *Emitter) declare() string {
	tmp := p.fresh()
	p.out.Linef("var %s fr.Element", tmp)
	//
	return tmp
}

func (p *Emitter) fresh() string {
	tmp := fmt.Sprintf("t%d", p.next)
	p.next++
	//
	return tmp
}
