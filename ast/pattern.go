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

package ast

import (
	"github.com/hylo-lang/val/common"
)

// Pattern is implemented by all pattern nodes.
type Pattern interface {
	Node
	isPattern()
}

// BindingPattern is the top-level pattern of a binding declaration:
// an introducer, a subpattern, and an optional type annotation.
type BindingPattern struct {
	NodeMeta
	Introducer BindingIntroducer
	Subpattern Pattern
	Annotation TypeExpr
}

func (*BindingPattern) isPattern() {}

// NamePattern introduces a single variable. It doubles as the
// declaration of that variable.
type NamePattern struct {
	NodeMeta
	Identifier Identifier
}

func (*NamePattern) isPattern() {}

func (*NamePattern) isDeclaration() {}

func (*NamePattern) DeclarationKind() common.DeclarationKind {
	return common.DeclarationKindVariable
}

func (p *NamePattern) DeclarationIdentifier() *Identifier {
	return &p.Identifier
}

// TuplePattern

type TuplePatternElement struct {
	Label   string
	Pattern Pattern
}

type TuplePattern struct {
	NodeMeta
	Elements []TuplePatternElement
}

func (*TuplePattern) isPattern() {}

// WildcardPattern

type WildcardPattern struct {
	NodeMeta
}

func (*WildcardPattern) isPattern() {}

// Names returns the name patterns introduced by the given pattern,
// in source order.
func Names(pattern Pattern) []*NamePattern {
	var names []*NamePattern
	var collect func(Pattern)
	collect = func(p Pattern) {
		switch p := p.(type) {
		case *BindingPattern:
			collect(p.Subpattern)
		case *NamePattern:
			names = append(names, p)
		case *TuplePattern:
			for _, element := range p.Elements {
				collect(element.Pattern)
			}
		case *WildcardPattern:
			// no names
		}
	}
	collect(pattern)
	return names
}
