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
	"github.com/hylo-lang/val/ast"
)

// Names of the core library's special declarations.
const (
	BoolTypeName          = "Bool"
	IntTypeName           = "Int"
	MovableTraitName      = "Movable"
	CopyableTraitName     = "Copyable"
	DestructibleTraitName = "Destructible"
)

var builtinTypesByName = map[string]*BuiltinType{
	"ptr":     {Kind: BuiltinKindPointer},
	"word":    {Kind: BuiltinKindWord},
	"i1":      {Kind: BuiltinKindI1},
	"i8":      {Kind: BuiltinKindI8},
	"i32":     {Kind: BuiltinKindI32},
	"i64":     {Kind: BuiltinKindI64},
	"float64": {Kind: BuiltinKindFloat64},
}

// builtinFunctionTypes lists the functions of the built-in module.
var builtinFunctionTypes = map[string]*LambdaType{
	"trap": {
		Output: TheNeverType,
	},
	"address": {
		Inputs: []CallableParameter{
			{Label: "of", Type: &ParameterType{
				Convention: ast.AccessEffectLet,
				Bare:       TheAnyType,
			}},
		},
		Output: builtinTypesByName["ptr"],
	},
	"add_word": {
		Inputs: []CallableParameter{
			{Type: &ParameterType{
				Convention: ast.AccessEffectLet,
				Bare:       builtinTypesByName["word"],
			}},
			{Type: &ParameterType{
				Convention: ast.AccessEffectLet,
				Bare:       builtinTypesByName["word"],
			}},
		},
		Output: builtinTypesByName["word"],
	},
	"sub_word": {
		Inputs: []CallableParameter{
			{Type: &ParameterType{
				Convention: ast.AccessEffectLet,
				Bare:       builtinTypesByName["word"],
			}},
			{Type: &ParameterType{
				Convention: ast.AccessEffectLet,
				Bare:       builtinTypesByName["word"],
			}},
		},
		Output: builtinTypesByName["word"],
	},
	"zeroinitializer": {
		Output: builtinTypesByName["word"],
	},
}

// BuiltinTypeNamed returns the built-in type with the given name.
func BuiltinTypeNamed(name string) (Type, bool) {
	t, ok := builtinTypesByName[name]
	return t, ok
}

// BuiltinFunctionNamed returns the type of the built-in function with
// the given name.
func BuiltinFunctionNamed(name string) (Type, bool) {
	t, ok := builtinFunctionTypes[name]
	return t, ok
}

// coreLibrary caches the special declarations of the core library.
type coreLibrary struct {
	boolDecl         *ast.ProductTypeDecl
	intDecl          *ast.ProductTypeDecl
	movableDecl      *ast.TraitDecl
	copyableDecl     *ast.TraitDecl
	destructibleDecl *ast.TraitDecl
}

// discoverCoreLibrary scans the configured core library module for its
// well-known declarations.
func (c *Checker) discoverCoreLibrary() {
	module := c.Config.CoreLibrary
	if module == nil {
		return
	}

	for _, unit := range module.Sources {
		for _, decl := range unit.Decls {
			switch decl := decl.(type) {
			case *ast.ProductTypeDecl:
				switch decl.Identifier.Identifier {
				case BoolTypeName:
					c.core.boolDecl = decl
				case IntTypeName:
					c.core.intDecl = decl
				}
			case *ast.TraitDecl:
				switch decl.Identifier.Identifier {
				case MovableTraitName:
					c.core.movableDecl = decl
				case CopyableTraitName:
					c.core.copyableDecl = decl
				case DestructibleTraitName:
					c.core.destructibleDecl = decl
				}
			}
		}
	}
}

// coreBoolType returns the core library's Bool type, if available.
func (c *Checker) coreBoolType() (Type, bool) {
	if c.core.boolDecl == nil {
		return nil, false
	}
	return &ProductType{Decl: c.core.boolDecl}, true
}

// coreIntType returns the core library's Int type, if available.
func (c *Checker) coreIntType() (Type, bool) {
	if c.core.intDecl == nil {
		return nil, false
	}
	return &ProductType{Decl: c.core.intDecl}, true
}

// builtinTraitKind classifies a trait as one of the synthesizable
// built-in traits.
type builtinTraitKind int

const (
	builtinTraitNone builtinTraitKind = iota
	builtinTraitMovable
	builtinTraitCopyable
	builtinTraitDestructible
)

func (c *Checker) classifyBuiltinTrait(trait *TraitType) builtinTraitKind {
	switch trait.Decl {
	case nil:
		return builtinTraitNone
	case c.core.movableDecl:
		return builtinTraitMovable
	case c.core.copyableDecl:
		return builtinTraitCopyable
	case c.core.destructibleDecl:
		return builtinTraitDestructible
	}

	// without a core library, classify by name so synthesis still
	// applies to user-supplied stand-ins
	if c.Config.CoreLibrary == nil {
		switch trait.Decl.Identifier.Identifier {
		case MovableTraitName:
			return builtinTraitMovable
		case CopyableTraitName:
			return builtinTraitCopyable
		case DestructibleTraitName:
			return builtinTraitDestructible
		}
	}

	return builtinTraitNone
}
