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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hylo-lang/val/ast"
)

func TestTypeFlagsPropagation(t *testing.T) {

	t.Parallel()

	variable := NewTypeVariable(1, 0)

	tuple := &TupleType{
		Elements: []TupleTypeElement{
			{Type: variable},
			{Type: TheAnyType},
		},
	}
	assert.True(t, tuple.Flags().HasVariable())
	assert.False(t, tuple.Flags().HasError())

	withError := &TupleType{
		Elements: []TupleTypeElement{
			{Type: TheErrorType},
		},
	}
	assert.True(t, withError.Flags().HasError())

	lambda := &LambdaType{
		Environment: VoidType,
		Inputs: []CallableParameter{
			{Type: &ParameterType{
				Convention: ast.AccessEffectLet,
				Bare:       variable,
			}},
		},
		Output: TheAnyType,
	}
	assert.True(t, lambda.Flags().HasVariable())
}

func TestTypeVariablePacking(t *testing.T) {

	t.Parallel()

	variable := NewTypeVariable(42, 7)
	assert.Equal(t, uint64(42), variable.Identifier())
	assert.Equal(t, uint8(7), variable.Context())

	other := NewTypeVariable(42, 7)
	assert.True(t, variable.Equal(other))
	assert.False(t, variable.Equal(NewTypeVariable(42, 8)))
}

func TestAccessEffectSet(t *testing.T) {

	t.Parallel()

	set := NewAccessEffectSet(ast.AccessEffectInout, ast.AccessEffectLet)
	assert.True(t, set.Contains(ast.AccessEffectLet))
	assert.True(t, set.Contains(ast.AccessEffectInout))
	assert.False(t, set.Contains(ast.AccessEffectSink))
	assert.Equal(t, 2, set.Len())

	var order []ast.AccessEffect
	set.Foreach(func(effect ast.AccessEffect) {
		order = append(order, effect)
	})
	assert.Equal(t,
		[]ast.AccessEffect{ast.AccessEffectLet, ast.AccessEffectInout},
		order,
	)
}

func TestSumTypeEqualIsSetEquality(t *testing.T) {

	t.Parallel()

	a := &SumType{Elements: []Type{TheAnyType, TheNeverType}}
	b := &SumType{Elements: []Type{TheNeverType, TheAnyType}}
	assert.True(t, a.Equal(b))

	c := &SumType{Elements: []Type{TheAnyType, TheAnyType}}
	assert.False(t, a.Equal(&SumType{Elements: []Type{TheAnyType}}))
	assert.True(t, c.Equal(&SumType{Elements: []Type{TheAnyType, TheAnyType}}))
}

func TestMethodBundleVariantType(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	product := b.productType("Counter")
	receiver := &ProductType{Decl: product}

	bundle := &MethodBundleType{
		Receiver: receiver,
		Output: &TupleType{
			Elements: []TupleTypeElement{
				{Type: receiver},
				{Type: TheAnyType},
			},
		},
		Variants: NewAccessEffectSet(ast.AccessEffectLet, ast.AccessEffectInout),
	}

	letVariant, ok := bundle.VariantType(ast.AccessEffectLet)
	require.True(t, ok)
	assert.True(t, letVariant.Output.Equal(bundle.Output))

	inoutVariant, ok := bundle.VariantType(ast.AccessEffectInout)
	require.True(t, ok)
	assert.True(t, inoutVariant.Output.Equal(TheAnyType))
	assert.Equal(t, ast.AccessEffectInout, inoutVariant.ReceiverEffect)
}

func TestMethodBundleVariantTypeIllFormed(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	receiver := &ProductType{Decl: b.productType("Counter")}

	// a non-void, non-pair output makes mutating variants ill-formed
	bundle := &MethodBundleType{
		Receiver: receiver,
		Output:   TheAnyType,
		Variants: NewAccessEffectSet(ast.AccessEffectInout),
	}
	_, ok := bundle.VariantType(ast.AccessEffectInout)
	assert.False(t, ok)

	// a void output is allowed
	voidBundle := &MethodBundleType{
		Receiver: receiver,
		Output:   VoidType,
		Variants: NewAccessEffectSet(ast.AccessEffectSet),
	}
	variant, ok := voidBundle.VariantType(ast.AccessEffectSet)
	require.True(t, ok)
	assert.True(t, variant.Output.Equal(VoidType))
}

func TestSpecialize(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	parameter := b.genericParameter("T")
	parameterType := &GenericParameterType{Decl: parameter}

	tuple := &TupleType{
		Elements: []TupleTypeElement{
			{Type: parameterType},
			{Type: TheAnyType},
		},
	}

	specialized := Specialize(tuple, Specializations{
		parameter: TypeValue{Type: TheNeverType},
	})

	expected := &TupleType{
		Elements: []TupleTypeElement{
			{Type: TheNeverType},
			{Type: TheAnyType},
		},
	}
	assert.True(t, specialized.Equal(expected))
}

func TestSpecializeSkolemIsRigid(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	parameter := b.genericParameter("T")
	skolem := &SkolemType{Base: &GenericParameterType{Decl: parameter}}

	specialized := Specialize(skolem, Specializations{
		parameter: TypeValue{Type: TheNeverType},
	})
	assert.True(t, specialized.Equal(skolem))
}

func TestSubstituteVariables(t *testing.T) {

	t.Parallel()

	first := NewTypeVariable(1, 0)
	second := NewTypeVariable(2, 0)

	// chained assignments resolve transitively
	substitutions := map[uint64]Type{
		first.raw:  second,
		second.raw: TheAnyType,
	}

	tuple := &TupleType{
		Elements: []TupleTypeElement{{Type: first}},
	}
	result := SubstituteVariables(tuple, substitutions)
	assert.True(t, result.Equal(&TupleType{
		Elements: []TupleTypeElement{{Type: TheAnyType}},
	}))
	assert.False(t, result.Flags().HasVariable())
}
