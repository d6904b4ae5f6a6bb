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
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/hylo-lang/val/ast"
)

// typeFromSeed deterministically builds a small type term from a seed,
// drawing leaves from the given pool.
func typeFromSeed(seed int64, leaves []Type) Type {
	if seed < 0 {
		seed = -seed
	}
	leaf := leaves[seed%int64(len(leaves))]

	switch (seed / 7) % 4 {
	case 0:
		return leaf
	case 1:
		return &TupleType{
			Elements: []TupleTypeElement{
				{Label: "a", Type: leaf},
				{Label: "b", Type: typeFromSeed(seed/13, leaves)},
			},
		}
	case 2:
		return &SumType{
			Elements: []Type{leaf, typeFromSeed(seed/13, leaves)},
		}
	default:
		return &LambdaType{
			Environment: VoidType,
			Inputs: []CallableParameter{
				{Type: &ParameterType{
					Convention: ast.AccessEffectLet,
					Bare:       leaf,
				}},
			},
			Output: typeFromSeed(seed/13, leaves),
		}
	}
}

// TestCanonicalizationIsIdempotentProperty checks
// canonical(canonical(t)) == canonical(t) over generated type terms.
func TestCanonicalizationIsIdempotentProperty(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	product := b.productType("Point")
	alias := b.typeAlias("P", b.nameType("Point"))

	leaves := []Type{
		TheAnyType,
		TheNeverType,
		&ProductType{Decl: product},
		&TypeAliasType{Decl: alias, Aliased: &ProductType{Decl: product}},
	}

	relations := NewRelations()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("canonicalization is idempotent", prop.ForAll(
		func(seed int64) bool {
			subject := typeFromSeed(seed, leaves)
			once := relations.Canonical(subject)
			twice := relations.Canonical(once)
			return once.Equal(twice)
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}

// TestSpecializationCompositionProperty checks
// specialize(specialize(t, a), b) == specialize(t, a ∪ b) for
// substitutions with disjoint domains and closed ranges.
func TestSpecializationCompositionProperty(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	first := b.genericParameter("T")
	second := b.genericParameter("U")

	leaves := []Type{
		TheAnyType,
		&GenericParameterType{Decl: first},
		&GenericParameterType{Decl: second},
	}

	substitutionA := Specializations{
		first: TypeValue{Type: TheNeverType},
	}
	substitutionB := Specializations{
		second: TypeValue{Type: TheAnyType},
	}
	combined := Specializations{
		first:  TypeValue{Type: TheNeverType},
		second: TypeValue{Type: TheAnyType},
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("specialization composes", prop.ForAll(
		func(seed int64) bool {
			subject := typeFromSeed(seed, leaves)
			sequential := Specialize(Specialize(subject, substitutionA), substitutionB)
			direct := Specialize(subject, combined)
			return sequential.Equal(direct)
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
