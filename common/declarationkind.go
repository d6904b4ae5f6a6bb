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

package common

type DeclarationKind int

const (
	DeclarationKindUnknown DeclarationKind = iota
	DeclarationKindModule
	DeclarationKindNamespace
	DeclarationKindImport
	DeclarationKindProductType
	DeclarationKindTrait
	DeclarationKindTypeAlias
	DeclarationKindExtension
	DeclarationKindConformance
	DeclarationKindBinding
	DeclarationKindVariable
	DeclarationKindFunction
	DeclarationKindInitializer
	DeclarationKindMemberwiseInitializer
	DeclarationKindMethodBundle
	DeclarationKindMethodVariant
	DeclarationKindSubscript
	DeclarationKindSubscriptVariant
	DeclarationKindParameter
	DeclarationKindGenericParameter
	DeclarationKindAssociatedType
	DeclarationKindAssociatedValue
	DeclarationKindOperator
	DeclarationKindSelf
)

func (k DeclarationKind) IsTypeDeclaration() bool {
	switch k {
	case DeclarationKindProductType,
		DeclarationKindTrait,
		DeclarationKindTypeAlias,
		DeclarationKindGenericParameter,
		DeclarationKindAssociatedType:

		return true

	default:
		return false
	}
}

// IsOverloadable returns true if several declarations of this kind
// may share a name in the same scope.
func (k DeclarationKind) IsOverloadable() bool {
	switch k {
	case DeclarationKindFunction,
		DeclarationKindInitializer,
		DeclarationKindMemberwiseInitializer,
		DeclarationKindMethodBundle,
		DeclarationKindSubscript:

		return true

	default:
		return false
	}
}

func (k DeclarationKind) Name() string {
	switch k {
	case DeclarationKindModule:
		return "module"
	case DeclarationKindNamespace:
		return "namespace"
	case DeclarationKindImport:
		return "import"
	case DeclarationKindProductType:
		return "product type"
	case DeclarationKindTrait:
		return "trait"
	case DeclarationKindTypeAlias:
		return "type alias"
	case DeclarationKindExtension:
		return "extension"
	case DeclarationKindConformance:
		return "conformance"
	case DeclarationKindBinding:
		return "binding"
	case DeclarationKindVariable:
		return "variable"
	case DeclarationKindFunction:
		return "function"
	case DeclarationKindInitializer:
		return "initializer"
	case DeclarationKindMemberwiseInitializer:
		return "memberwise initializer"
	case DeclarationKindMethodBundle:
		return "method bundle"
	case DeclarationKindMethodVariant:
		return "method variant"
	case DeclarationKindSubscript:
		return "subscript"
	case DeclarationKindSubscriptVariant:
		return "subscript variant"
	case DeclarationKindParameter:
		return "parameter"
	case DeclarationKindGenericParameter:
		return "generic parameter"
	case DeclarationKindAssociatedType:
		return "associated type"
	case DeclarationKindAssociatedValue:
		return "associated value"
	case DeclarationKindOperator:
		return "operator"
	case DeclarationKindSelf:
		return "Self"
	}

	return "unknown"
}
