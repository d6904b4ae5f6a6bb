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

	"github.com/stretchr/testify/require"

	"github.com/hylo-lang/val/ast"
)

// builder constructs test programs with distinct source positions per
// node.
type builder struct {
	program *ast.Program
	line    int
}

func newBuilder() *builder {
	return &builder{program: ast.NewProgram()}
}

func (b *builder) rng() ast.Range {
	b.line++
	return ast.Range{
		StartPos: ast.Position{Offset: b.line * 100, Line: b.line, Column: 0},
		EndPos:   ast.Position{Offset: b.line*100 + 10, Line: b.line, Column: 10},
	}
}

func (b *builder) meta() ast.NodeMeta {
	return ast.NodeMeta{Range: b.rng()}
}

func (b *builder) ident(name string) ast.Identifier {
	return ast.NewIdentifier(name, b.rng().StartPos)
}

func reg[T ast.Node](b *builder, node T) T {
	return ast.Register(b.program, node)
}

func (b *builder) module(name string, decls ...ast.Declaration) *ast.ModuleDecl {
	module := reg(b, &ast.ModuleDecl{
		NodeMeta:   b.meta(),
		Identifier: b.ident(name),
	})
	unit := reg(b, &ast.TranslationUnit{
		NodeMeta: b.meta(),
		Module:   module,
		Decls:    decls,
	})
	module.Sources = []*ast.TranslationUnit{unit}
	b.program.AddModule(module)
	return module
}

func (b *builder) nameType(name string, arguments ...ast.TypeArgument) *ast.NameTypeExpr {
	return reg(b, &ast.NameTypeExpr{
		NodeMeta:   b.meta(),
		Identifier: b.ident(name),
		Arguments:  arguments,
	})
}

func (b *builder) typeArg(t ast.TypeExpr) ast.TypeArgument {
	return ast.TypeArgument{Type: t}
}

func (b *builder) productType(name string, members ...ast.Declaration) *ast.ProductTypeDecl {
	return reg(b, &ast.ProductTypeDecl{
		NodeMeta:   b.meta(),
		Identifier: b.ident(name),
		Members:    members,
	})
}

func (b *builder) genericProductType(
	name string,
	parameters []*ast.GenericParameterDecl,
	members ...ast.Declaration,
) *ast.ProductTypeDecl {
	return reg(b, &ast.ProductTypeDecl{
		NodeMeta:      b.meta(),
		Identifier:    b.ident(name),
		GenericClause: &ast.GenericClause{Parameters: parameters},
		Members:       members,
	})
}

func (b *builder) genericParameter(name string, annotations ...*ast.NameTypeExpr) *ast.GenericParameterDecl {
	return reg(b, &ast.GenericParameterDecl{
		NodeMeta:    b.meta(),
		Identifier:  b.ident(name),
		Annotations: annotations,
	})
}

func (b *builder) trait(name string, refinements []*ast.NameTypeExpr, members ...ast.Declaration) *ast.TraitDecl {
	trait := reg(b, &ast.TraitDecl{
		NodeMeta:    b.meta(),
		Identifier:  b.ident(name),
		Refinements: refinements,
		Members:     members,
	})
	trait.SelfParameter = reg(b, &ast.GenericParameterDecl{
		NodeMeta:   b.meta(),
		Identifier: b.ident(SelfTypeIdentifier),
	})
	return trait
}

func (b *builder) typeAlias(name string, aliased ast.TypeExpr) *ast.TypeAliasDecl {
	return reg(b, &ast.TypeAliasDecl{
		NodeMeta:   b.meta(),
		Identifier: b.ident(name),
		Aliased:    aliased,
	})
}

func (b *builder) parameter(label, name string, convention ast.AccessEffect, annotation ast.TypeExpr) *ast.ParameterDecl {
	var parameterType *ast.ParameterTypeExpr
	if annotation != nil {
		parameterType = reg(b, &ast.ParameterTypeExpr{
			NodeMeta:   b.meta(),
			Convention: convention,
			Bare:       annotation,
		})
	}
	return reg(b, &ast.ParameterDecl{
		NodeMeta:   b.meta(),
		Label:      label,
		Identifier: b.ident(name),
		Annotation: parameterType,
	})
}

func (b *builder) function(
	name string,
	parameters []*ast.ParameterDecl,
	output ast.TypeExpr,
	body *ast.FunctionBody,
) *ast.FunctionDecl {
	return reg(b, &ast.FunctionDecl{
		NodeMeta:   b.meta(),
		Identifier: b.ident(name),
		Parameters: parameters,
		Output:     output,
		Body:       body,
	})
}

func (b *builder) exprBody(expr ast.Expression) *ast.FunctionBody {
	return &ast.FunctionBody{Expr: expr}
}

func (b *builder) blockBody(statements ...ast.Statement) *ast.FunctionBody {
	return &ast.FunctionBody{
		Block: reg(b, &ast.BraceStmt{
			NodeMeta:   b.meta(),
			Statements: statements,
		}),
	}
}

func (b *builder) binding(
	introducer ast.BindingIntroducer,
	name string,
	annotation ast.TypeExpr,
	initializer ast.Expression,
) *ast.BindingDecl {
	namePattern := reg(b, &ast.NamePattern{
		NodeMeta:   b.meta(),
		Identifier: b.ident(name),
	})
	pattern := reg(b, &ast.BindingPattern{
		NodeMeta:   b.meta(),
		Introducer: introducer,
		Subpattern: namePattern,
		Annotation: annotation,
	})
	return reg(b, &ast.BindingDecl{
		NodeMeta:    b.meta(),
		Pattern:     pattern,
		Initializer: initializer,
	})
}

func (b *builder) nameExpr(name string, arguments ...ast.TypeArgument) *ast.NameExpr {
	return reg(b, &ast.NameExpr{
		NodeMeta:   b.meta(),
		Identifier: b.ident(name),
		Arguments:  arguments,
	})
}

func (b *builder) call(callee ast.Expression, arguments ...ast.Argument) *ast.CallExpr {
	return reg(b, &ast.CallExpr{
		NodeMeta:  b.meta(),
		Callee:    callee,
		Arguments: arguments,
	})
}

func (b *builder) arg(label string, value ast.Expression) ast.Argument {
	return ast.Argument{Label: label, Value: value}
}

func (b *builder) intLit(value string) *ast.IntegerLiteralExpr {
	return reg(b, &ast.IntegerLiteralExpr{
		NodeMeta: b.meta(),
		Value:    value,
	})
}

func (b *builder) exprStmt(expr ast.Expression) *ast.ExprStmt {
	return reg(b, &ast.ExprStmt{
		NodeMeta: b.meta(),
		Expr:     expr,
	})
}

func (b *builder) declStmt(decl ast.Declaration) *ast.DeclStmt {
	return reg(b, &ast.DeclStmt{
		NodeMeta: b.meta(),
		Decl:     decl,
	})
}

func (b *builder) returnStmt(value ast.Expression) *ast.ReturnStmt {
	return reg(b, &ast.ReturnStmt{
		NodeMeta: b.meta(),
		Value:    value,
	})
}

// checkProgram builds the scope tree and runs the checker.
func (b *builder) checkProgram(t *testing.T, config *Config) *Checker {
	t.Helper()

	scopes := ast.NewScopeTree(b.program)
	checker, err := NewChecker(b.program, scopes, config)
	require.NoError(t, err)

	_ = checker.Check()
	return checker
}

// diagnosticCodes extracts the codes of all reported diagnostics.
func diagnosticCodes(checker *Checker) []DiagnosticCode {
	var codes []DiagnosticCode
	for _, diagnostic := range checker.Diagnostics() {
		codes = append(codes, diagnostic.Code())
	}
	return codes
}

func requireNoErrorDiagnostics(t *testing.T, checker *Checker) {
	t.Helper()
	for _, diagnostic := range checker.Diagnostics() {
		if diagnostic.Severity() == SeverityError {
			t.Fatalf("unexpected error diagnostic: %s", FormatDiagnostic(diagnostic))
		}
	}
}
