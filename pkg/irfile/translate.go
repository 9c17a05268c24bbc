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

	"github.com/consensys/go-pilcom/pkg/ir"
	"github.com/consensys/go-pilcom/pkg/util"
)

// Translate every VM of this file.  Translation stops at the first VM
// which cannot be translated.
func (p *File) Translate() ([]*ir.VM, error) {
	var vms = make([]*ir.VM, len(p.VMs))
	//
	for i := range p.VMs {
		vm, err := p.VMs[i].Translate()
		if err != nil {
			return nil, err
		}
		//
		vms[i] = vm
	}
	//
	return vms, nil
}

// Translate this VM into its internal representation.  Names are resolved
// against the declared columns, irrespective of declaration order.  Errors
// identify the offending declaration.
func (p *VM) Translate() (*ir.VM, error) {
	b := ir.NewBuilder(p.Name)
	//
	for _, c := range p.Columns {
		kind, err := ir.ParseColumnKind(c.Kind)
		if err != nil {
			return nil, p.errorf("column \"%s\": %w", c.Name, err)
		}
		//
		b.AddColumn(c.Name, kind)
	}
	//
	for _, r := range p.Relations {
		if err := p.translateRelation(b, r); err != nil {
			return nil, err
		}
	}
	//
	for i, l := range p.Lookups {
		lookup, err := translateLookup(b, l)
		if err != nil {
			return nil, p.errorf("lookup #%d: %w", i, err)
		}
		//
		b.AddLookup(lookup)
	}
	//
	for i, perm := range p.Permutations {
		permutation, err := translatePermutation(b, perm)
		if err != nil {
			return nil, p.errorf("permutation #%d: %w", i, err)
		}
		//
		b.AddPermutation(permutation)
	}
	//
	for i, c := range p.Copies {
		cp, err := translateCopy(b, c)
		if err != nil {
			return nil, p.errorf("copy #%d: %w", i, err)
		}
		//
		b.AddCopy(cp)
	}
	//
	return b.Build()
}

func (p *VM) translateRelation(b *ir.Builder, r Relation) error {
	index := b.AddRelation(r.Name)
	//
	for i, id := range r.Identities {
		expr, err := ir.ParseExpr(id.Expr, b)
		if err != nil {
			return p.errorf("relation \"%s\" identity #%d: %w", r.Name, i, err)
		}
		//
		selector, err := optionalExpr(id.Selector, b)
		if err != nil {
			return p.errorf("relation \"%s\" identity #%d selector: %w", r.Name, i, err)
		}
		//
		b.AddIdentity(index, expr, selector, id.Degree)
	}
	//
	return nil
}

func translateLookup(b *ir.Builder, l Lookup) (ir.Lookup, error) {
	var (
		lookup = ir.Lookup{Name: l.Name, Counts: util.None[ir.ColumnId]()}
		err    error
	)
	//
	if lookup.Selector, err = optionalExpr(l.Selector, b); err != nil {
		return lookup, err
	} else if lookup.Inputs, err = exprs(l.Inputs, b); err != nil {
		return lookup, err
	} else if lookup.TableSelector, err = optionalExpr(l.TableSelector, b); err != nil {
		return lookup, err
	} else if lookup.Table, err = exprs(l.Table, b); err != nil {
		return lookup, err
	}
	//
	if l.Counts != "" {
		id, ok := b.ColumnByName(l.Counts)
		if !ok {
			return lookup, fmt.Errorf("unknown counts column \"%s\"", l.Counts)
		}
		//
		lookup.Counts = util.Some(id)
	}
	//
	return lookup, nil
}

func translatePermutation(b *ir.Builder, perm Permutation) (ir.Permutation, error) {
	var permutation = ir.Permutation{Name: perm.Name}
	//
	for i, side := range perm.Sides {
		selector, err := optionalExpr(side.Selector, b)
		if err != nil {
			return permutation, fmt.Errorf("side #%d: %w", i, err)
		}
		//
		columns := make([]ir.ColumnAccess, len(side.Columns))
		//
		for j, text := range side.Columns {
			if columns[j], err = ir.ParseColumnAccess(text, b); err != nil {
				return permutation, fmt.Errorf("side #%d: %w", i, err)
			}
		}
		//
		permutation.Sides = append(permutation.Sides, ir.PermutationSide{Selector: selector, Columns: columns})
	}
	//
	return permutation, nil
}

func translateCopy(b *ir.Builder, c Copy) (ir.Copy, error) {
	var (
		cp  ir.Copy
		err error
	)
	//
	if cp.Left, err = translateCell(b, c.Left); err != nil {
		return cp, err
	} else if cp.Right, err = translateCell(b, c.Right); err != nil {
		return cp, err
	}
	//
	cp.Selector, err = optionalExpr(c.Selector, b)
	//
	return cp, err
}

func translateCell(b *ir.Builder, c Cell) (ir.Cell, error) {
	id, ok := b.ColumnByName(c.Column)
	if !ok {
		return ir.Cell{}, fmt.Errorf("unknown column \"%s\"", c.Column)
	}
	//
	return ir.Cell{Column: id, Offset: c.Offset}, nil
}

func optionalExpr(text string, b *ir.Builder) (ir.Expr, error) {
	if text == "" {
		return nil, nil
	}
	//
	return ir.ParseExpr(text, b)
}

func exprs(texts []string, b *ir.Builder) ([]ir.Expr, error) {
	var (
		res = make([]ir.Expr, len(texts))
		err error
	)
	//
	for i, text := range texts {
		if res[i], err = ir.ParseExpr(text, b); err != nil {
			return nil, err
		}
	}
	//
	return res, nil
}

func (p *VM) errorf(format string, args ...any) error {
	return fmt.Errorf("vm \"%s\": %w", p.Name, fmt.Errorf(format, args...))
}

// FromVM converts a VM back into its serialised form.  Helper columns are never
// part of a VM, hence every column is declared.
func FromVM(vm *ir.VM) VM {
	var res = VM{Name: vm.Name()}
	//
	for _, c := range vm.Columns() {
		res.Columns = append(res.Columns, Column{c.Name, c.Kind.String()})
	}
	//
	for _, r := range vm.Relations() {
		relation := Relation{Name: r.Name}
		//
		for _, id := range r.Identities {
			relation.Identities = append(relation.Identities,
				Identity{ir.ExprString(id.Expr, vm), optionalString(id.Selector, vm), id.Degree})
		}
		//
		res.Relations = append(res.Relations, relation)
	}
	//
	for _, l := range vm.Lookups() {
		lookup := Lookup{
			Name:          l.Name,
			Selector:      optionalString(l.Selector, vm),
			Inputs:        exprStrings(l.Inputs, vm),
			TableSelector: optionalString(l.TableSelector, vm),
			Table:         exprStrings(l.Table, vm),
		}
		//
		if l.Counts.HasValue() {
			lookup.Counts = vm.ColumnName(l.Counts.Unwrap())
		}
		//
		res.Lookups = append(res.Lookups, lookup)
	}
	//
	for _, perm := range vm.Permutations() {
		permutation := Permutation{Name: perm.Name}
		//
		for _, side := range perm.Sides {
			columns := make([]string, len(side.Columns))
			for i := range side.Columns {
				columns[i] = ir.ExprString(&side.Columns[i], vm)
			}
			//
			permutation.Sides = append(permutation.Sides, Side{optionalString(side.Selector, vm), columns})
		}
		//
		res.Permutations = append(res.Permutations, permutation)
	}
	//
	for _, c := range vm.Copies() {
		res.Copies = append(res.Copies, Copy{
			Left:     Cell{vm.ColumnName(c.Left.Column), c.Left.Offset},
			Right:    Cell{vm.ColumnName(c.Right.Column), c.Right.Offset},
			Selector: optionalString(c.Selector, vm),
		})
	}
	//
	return res
}

func optionalString(e ir.Expr, vm *ir.VM) string {
	if e == nil {
		return ""
	}
	//
	return ir.ExprString(e, vm)
}

func exprStrings(es []ir.Expr, vm *ir.VM) []string {
	var res = make([]string, len(es))
	//
	for i, e := range es {
		res[i] = ir.ExprString(e, vm)
	}
	//
	return res
}
