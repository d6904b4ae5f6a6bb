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
	"strings"

	"github.com/turbolent/prettier"
)

// TypeExpr is implemented by all type expression nodes.
type TypeExpr interface {
	Node
	isTypeExpr()
	Doc() prettier.Doc
}

// NameTypeExpr is a (possibly qualified, possibly parameterized) type name.
type NameTypeExpr struct {
	NodeMeta
	Domain     TypeExpr
	Identifier Identifier
	Arguments  []TypeArgument
}

func (*NameTypeExpr) isTypeExpr() {}

func (t *NameTypeExpr) Doc() prettier.Doc {
	var doc prettier.Concat
	if t.Domain != nil {
		doc = append(doc, t.Domain.Doc(), prettier.Text("."))
	}
	doc = append(doc, prettier.Text(t.Identifier.Identifier))
	if len(t.Arguments) > 0 {
		doc = append(doc, prettier.Text("<"))
		for i, argument := range t.Arguments {
			if i > 0 {
				doc = append(doc, prettier.Text(", "))
			}
			if argument.Type != nil {
				doc = append(doc, argument.Type.Doc())
			} else {
				doc = append(doc, prettier.Text("_"))
			}
		}
		doc = append(doc, prettier.Text(">"))
	}
	return doc
}

func (t *NameTypeExpr) String() string {
	return renderDoc(t.Doc())
}

// TupleTypeExpr

type TupleTypeElement struct {
	Label string
	Type  TypeExpr
}

type TupleTypeExpr struct {
	NodeMeta
	Elements []TupleTypeElement
}

func (*TupleTypeExpr) isTypeExpr() {}

func (t *TupleTypeExpr) Doc() prettier.Doc {
	doc := prettier.Concat{prettier.Text("{")}
	for i, element := range t.Elements {
		if i > 0 {
			doc = append(doc, prettier.Text(", "))
		}
		if element.Label != "" {
			doc = append(doc, prettier.Text(element.Label), prettier.Text(": "))
		}
		doc = append(doc, element.Type.Doc())
	}
	return append(doc, prettier.Text("}"))
}

// LambdaTypeExpr is an arrow type.

type LambdaTypeParameter struct {
	Label string
	Type  *ParameterTypeExpr
}

type LambdaTypeExpr struct {
	NodeMeta
	// Environment is the explicit environment type, or nil for thin lambdas.
	Environment    TypeExpr
	ReceiverEffect AccessEffect
	Inputs         []LambdaTypeParameter
	Output         TypeExpr
}

func (*LambdaTypeExpr) isTypeExpr() {}

func (t *LambdaTypeExpr) Doc() prettier.Doc {
	doc := prettier.Concat{prettier.Text("(")}
	for i, input := range t.Inputs {
		if i > 0 {
			doc = append(doc, prettier.Text(", "))
		}
		if input.Label != "" {
			doc = append(doc, prettier.Text(input.Label), prettier.Text(": "))
		}
		doc = append(doc, input.Type.Doc())
	}
	return append(doc,
		prettier.Text(") -> "),
		t.Output.Doc(),
	)
}

// SumTypeExpr

type SumTypeExpr struct {
	NodeMeta
	Elements []TypeExpr
}

func (*SumTypeExpr) isTypeExpr() {}

func (t *SumTypeExpr) Doc() prettier.Doc {
	var doc prettier.Concat
	for i, element := range t.Elements {
		if i > 0 {
			doc = append(doc, prettier.Text(" | "))
		}
		doc = append(doc, element.Doc())
	}
	return doc
}

// ExistentialTypeExpr is an interface type: `any T & U where ...`.

type ExistentialTypeExpr struct {
	NodeMeta
	Traits      []*NameTypeExpr
	WhereClause *WhereClause
}

func (*ExistentialTypeExpr) isTypeExpr() {}

func (t *ExistentialTypeExpr) Doc() prettier.Doc {
	doc := prettier.Concat{prettier.Text("any ")}
	for i, trait := range t.Traits {
		if i > 0 {
			doc = append(doc, prettier.Text(" & "))
		}
		doc = append(doc, trait.Doc())
	}
	return doc
}

// ConformanceLensTypeExpr views a subject through a trait: `T::P`.

type ConformanceLensTypeExpr struct {
	NodeMeta
	Subject TypeExpr
	Lens    TypeExpr
}

func (*ConformanceLensTypeExpr) isTypeExpr() {}

func (t *ConformanceLensTypeExpr) Doc() prettier.Doc {
	return prettier.Concat{
		t.Subject.Doc(),
		prettier.Text("::"),
		t.Lens.Doc(),
	}
}

// RemoteTypeExpr is a projected borrow: `remote let T`.

type RemoteTypeExpr struct {
	NodeMeta
	Effect  AccessEffect
	Operand TypeExpr
}

func (*RemoteTypeExpr) isTypeExpr() {}

func (t *RemoteTypeExpr) Doc() prettier.Doc {
	return prettier.Concat{
		prettier.Text("remote "),
		prettier.Text(t.Effect.Keyword()),
		prettier.Text(" "),
		t.Operand.Doc(),
	}
}

// ParameterTypeExpr is a parameter annotation: a passing convention
// and a bare type.

type ParameterTypeExpr struct {
	NodeMeta
	Convention AccessEffect
	Bare       TypeExpr
}

func (*ParameterTypeExpr) isTypeExpr() {}

func (t *ParameterTypeExpr) Doc() prettier.Doc {
	return prettier.Concat{
		prettier.Text(t.Convention.Keyword()),
		prettier.Text(" "),
		t.Bare.Doc(),
	}
}

// WildcardTypeExpr is `_` in type position.

type WildcardTypeExpr struct {
	NodeMeta
}

func (*WildcardTypeExpr) isTypeExpr() {}

func (t *WildcardTypeExpr) Doc() prettier.Doc {
	return prettier.Text("_")
}

func renderDoc(doc prettier.Doc) string {
	var b strings.Builder
	prettier.Prettier(&b, doc, 80, "    ")
	return b.String()
}
