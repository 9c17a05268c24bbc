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
	"crypto/sha256"
	"fmt"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// VM is the validated, immutable constraint specification of a single virtual
// machine.  Columns are held in an arena and referenced everywhere else by
// handle.
type VM struct {
	name         string
	columns      []Column
	relations    []Relation
	lookups      []Lookup
	permutations []Permutation
	copies       []Copy
	byName       map[string]ColumnId
}

// Name returns the name of this VM.
func (p *VM) Name() string { return p.name }

// Columns returns the declared columns of this VM in declaration order.
func (p *VM) Columns() []Column { return p.columns }

// Column returns the column with a given handle.
func (p *VM) Column(id ColumnId) Column { return p.columns[id] }

// ColumnName returns the name of the column with a given handle, or a
// placeholder for a dangling handle.
func (p *VM) ColumnName(id ColumnId) string {
	if id < uint(len(p.columns)) {
		return p.columns[id].Name
	}
	//
	return fmt.Sprintf("#%d", id)
}

// ColumnByName looks up a column handle by its name.
func (p *VM) ColumnByName(name string) (ColumnId, bool) {
	id, ok := p.byName[name]
	return id, ok
}

// Relations returns the relations of this VM in declaration order.
func (p *VM) Relations() []Relation { return p.relations }

// Lookups returns the lookup arguments of this VM in declaration order.
func (p *VM) Lookups() []Lookup { return p.lookups }

// Permutations returns the permutation arguments of this VM in declaration
// order.
func (p *VM) Permutations() []Permutation { return p.permutations }

// Copies returns the copy constraints of this VM in declaration order.
func (p *VM) Copies() []Copy { return p.copies }

// ColumnsOfKind returns the handles of all columns of a given kind, in
// declaration order.
func (p *VM) ColumnsOfKind(kind ColumnKind) []ColumnId {
	var ids []ColumnId
	//
	for _, c := range p.columns {
		if c.Kind == kind {
			ids = append(ids, c.Index)
		}
	}
	//
	return ids
}

// CheckExpr checks that every column accessed by an expression is declared,
// and is accessed at a supported row shift.  The returned error is annotated
// with this VM and the given construct.
func (p *VM) CheckExpr(e Expr, construct string) error {
	if e == nil {
		return nil
	}
	//
	for _, access := range Accesses(e) {
		if access.Column >= uint(len(p.columns)) {
			return Errorf(UnknownColumnReference, construct,
				"column handle %d is not declared", access.Column).At(p.name)
		} else if access.Shift != 0 && access.Shift != 1 {
			return Errorf(UnsupportedShift, construct,
				"column \"%s\" accessed at shift %d", p.ColumnName(access.Column), access.Shift).At(p.name)
		}
	}
	//
	return nil
}

// ReferencedColumns returns the set of columns accessed by any identity or
// argument of this VM.
func (p *VM) ReferencedColumns() *bitset.BitSet {
	referenced := bitset.New(uint(len(p.columns)))
	//
	p.visitAccesses(func(a *ColumnAccess) {
		referenced.Set(a.Column)
	})
	//
	return referenced
}

// Shifts returns the set of columns which are accessed at the next row
// anywhere in this VM.
func (p *VM) Shifts() *bitset.BitSet {
	shifted := bitset.New(uint(len(p.columns)))
	//
	p.visitAccesses(func(a *ColumnAccess) {
		if a.Shift != 0 {
			shifted.Set(a.Column)
		}
	})
	//
	return shifted
}

// Fingerprint returns a digest of the canonical printed form of this VM.  Two
// VMs with the same fingerprint generate the same artifacts.
func (p *VM) Fingerprint() [32]byte {
	return sha256.Sum256([]byte(p.String()))
}

// Exprs returns every top-level expression of this VM, in canonical order.
func (p *VM) Exprs() []Expr {
	var exprs []Expr
	//
	add := func(es ...Expr) {
		for _, e := range es {
			if e != nil {
				exprs = append(exprs, e)
			}
		}
	}
	//
	for _, r := range p.relations {
		for _, id := range r.Identities {
			add(id.Selector, id.Expr)
		}
	}
	//
	for _, l := range p.lookups {
		add(l.Selector)
		add(l.Inputs...)
		add(l.TableSelector)
		add(l.Table...)
		//
		if l.Counts.HasValue() {
			add(Col(l.Counts.Unwrap()))
		}
	}
	//
	for _, perm := range p.permutations {
		for _, side := range perm.Sides {
			add(side.Selector)
			//
			for i := range side.Columns {
				add(&side.Columns[i])
			}
		}
	}
	//
	for _, c := range p.copies {
		add(c.Selector, c.Left.Access(), c.Right.Access())
	}
	//
	return exprs
}

func (p *VM) visitAccesses(fn func(*ColumnAccess)) {
	for _, e := range p.Exprs() {
		for _, a := range Accesses(e) {
			if a.Column < uint(len(p.columns)) {
				fn(a)
			}
		}
	}
}

// ============================================================================
// Builder
// ============================================================================

// Builder incrementally constructs a VM.  Columns and relations are assigned
// handles in the order they are added.
type Builder struct {
	vm    VM
	dups  []string
	built bool
}

// NewBuilder constructs a builder for a VM of the given name.
func NewBuilder(name string) *Builder {
	return &Builder{vm: VM{name: name, byName: make(map[string]ColumnId)}}
}

// AddColumn declares a new column, returning its handle.
func (p *Builder) AddColumn(name string, kind ColumnKind) ColumnId {
	id := ColumnId(len(p.vm.columns))
	//
	if _, ok := p.vm.byName[name]; ok {
		p.dups = append(p.dups, name)
	} else {
		p.vm.byName[name] = id
	}
	//
	p.vm.columns = append(p.vm.columns, Column{name, kind, id})
	//
	return id
}

// ColumnByName looks up a previously declared column.
func (p *Builder) ColumnByName(name string) (ColumnId, bool) {
	return p.vm.ColumnByName(name)
}

// ColumnName implements ColumnMap for the columns declared so far.
func (p *Builder) ColumnName(id ColumnId) string {
	return p.vm.ColumnName(id)
}

// AddRelation declares a new (initially empty) relation, returning its index.
func (p *Builder) AddRelation(name string) uint {
	index := uint(len(p.vm.relations))
	p.vm.relations = append(p.vm.relations, Relation{Name: name, Index: index})
	//
	return index
}

// AddIdentity adds an identity to a previously declared relation.  A nil
// selector means the identity is always active, and a zero degree means it is
// inferred.
func (p *Builder) AddIdentity(relation uint, expr Expr, selector Expr, degree uint) {
	r := &p.vm.relations[relation]
	r.Identities = append(r.Identities, Identity{expr, selector, degree})
}

// AddLookup adds a lookup argument.
func (p *Builder) AddLookup(lookup Lookup) {
	p.vm.lookups = append(p.vm.lookups, lookup)
}

// AddPermutation adds a permutation argument.
func (p *Builder) AddPermutation(perm Permutation) {
	p.vm.permutations = append(p.vm.permutations, perm)
}

// AddCopy adds a copy constraint.
func (p *Builder) AddCopy(c Copy) {
	p.vm.copies = append(p.vm.copies, c)
}

// Build finalises the VM.  This fails only if two columns were declared with
// the same name, since columns are identified by name.  All other checks are
// the responsibility of the individual backend stages.
func (p *Builder) Build() (*VM, error) {
	if p.built {
		panic("vm already built")
	} else if len(p.dups) > 0 {
		return nil, Errorf(DuplicateColumn, ColumnConstruct(p.dups[0]), "column declared more than once").At(p.vm.name)
	}
	//
	p.built = true
	vm := p.vm
	vm.columns = slices.Clip(vm.columns)
	//
	return &vm, nil
}
