/*
 * Val - The value-oriented programming language
 *
 * Copyright Hylo Project Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sema

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hylo-lang/val/ast"
	"github.com/hylo-lang/val/common/orderedmap"
)

func TestCanonicalExpandsAliases(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	product := b.productType("Point")
	alias := b.typeAlias("P", b.nameType("Point"))

	relations := NewRelations()

	aliasType := &TypeAliasType{
		Decl:    alias,
		Aliased: &ProductType{Decl: product},
	}

	canonical := relations.Canonical(aliasType)
	assert.True(t, canonical.Equal(&ProductType{Decl: product}))
}

func TestCanonicalDeduplicatesSumElements(t *testing.T) {

	t.Parallel()

	relations := NewRelations()

	sum := &SumType{
		Elements: []Type{TheAnyType, TheAnyType, TheNeverType},
	}
	canonical := relations.Canonical(sum)

	canonicalSum, ok := canonical.(*SumType)
	require.True(t, ok)
	assert.Len(t, canonicalSum.Elements, 2)

	// a one-element sum collapses to its element
	single := &SumType{Elements: []Type{TheAnyType, TheAnyType}}
	assert.True(t, relations.Canonical(single).Equal(TheAnyType))
}

func TestCanonicalNormalizesBoundGenericArgumentOrder(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	first := b.genericParameter("T")
	second := b.genericParameter("U")
	box := b.genericProductType("Pair", []*ast.GenericParameterDecl{first, second})
	base := &ProductType{Decl: box}

	forward := &orderedmap.OrderedMap[*ast.GenericParameterDecl, CompileTimeValue]{}
	forward.Set(first, TypeValue{Type: TheAnyType})
	forward.Set(second, TypeValue{Type: TheNeverType})

	backward := &orderedmap.OrderedMap[*ast.GenericParameterDecl, CompileTimeValue]{}
	backward.Set(second, TypeValue{Type: TheNeverType})
	backward.Set(first, TypeValue{Type: TheAnyType})

	relations := NewRelations()
	left := relations.Canonical(&BoundGenericType{Base: base, Arguments: forward})
	right := relations.Canonical(&BoundGenericType{Base: base, Arguments: backward})

	assert.True(t, left.Equal(right))

	// canonical argument order follows parameter declaration order
	leftBound := left.(*BoundGenericType)
	assert.Equal(t, first, leftBound.Arguments.Oldest().Key)
}

func TestCanonicalIsIdempotent(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	product := b.productType("Point")
	alias := b.typeAlias("P", b.nameType("Point"))

	relations := NewRelations()

	subjects := []Type{
		TheAnyType,
		&ProductType{Decl: product},
		&TypeAliasType{Decl: alias, Aliased: &ProductType{Decl: product}},
		&SumType{Elements: []Type{TheAnyType, TheAnyType, TheNeverType}},
		&TupleType{
			Elements: []TupleTypeElement{
				{Type: &TypeAliasType{Decl: alias, Aliased: TheNeverType}},
			},
		},
	}

	for _, subject := range subjects {
		once := relations.Canonical(subject)
		twice := relations.Canonical(once)
		assert.True(t, once.Equal(twice), "canonical not idempotent for %s", subject)
	}
}

func TestConformanceRegistrationIsUniquePerScope(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	product := b.productType("Point")
	trait := b.trait("Drawable", nil)

	relations := NewRelations()
	model := &ProductType{Decl: product}
	traitType := &TraitType{Decl: trait}

	first := &Conformance{
		Model: model,
		Trait: traitType,
		Scope: ast.ScopeID(1),
	}
	_, ok := relations.Register(first)
	require.True(t, ok)

	second := &Conformance{
		Model: model,
		Trait: traitType,
		Scope: ast.ScopeID(1),
	}
	existing, ok := relations.Register(second)
	assert.False(t, ok)
	assert.Same(t, first, existing)

	// a different exposition scope is allowed
	third := &Conformance{
		Model: model,
		Trait: traitType,
		Scope: ast.ScopeID(2),
	}
	_, ok = relations.Register(third)
	assert.True(t, ok)
}

func TestRefinementClosure(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	a := b.trait("A", nil)
	middle := b.trait("B", nil)
	c := b.trait("C", nil)

	relations := NewRelations()
	relations.RegisterRefinement(c, &TraitType{Decl: middle})
	relations.RegisterRefinement(middle, &TraitType{Decl: a})

	closure := relations.RefinementClosure(c)
	require.Len(t, closure, 2)
	assert.Equal(t, middle, closure[0].Decl)
	assert.Equal(t, a, closure[1].Decl)
}

func TestSharedRelationsConcurrentReads(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	product := b.productType("Point")
	alias := b.typeAlias("P", b.nameType("Point"))
	trait := b.trait("Drawable", nil)

	relations := NewRelations()
	model := &ProductType{Decl: product}
	_, ok := relations.Register(&Conformance{
		Model: model,
		Trait: &TraitType{Decl: trait},
	})
	require.True(t, ok)

	shared := NewSharedRelations(relations)

	aliasType := &TypeAliasType{Decl: alias, Aliased: model}

	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				shared.Read(func(r *Relations) {
					canonical := r.Canonical(aliasType)
					assert.True(t, canonical.Equal(model))

					conformances := r.AllConformances(model)
					assert.Len(t, conformances, 1)
				})
			}
		}()
	}
	wg.Wait()
}
