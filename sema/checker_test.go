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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hylo-lang/val/ast"
)

// buildSampleModule assembles a module exercising most declaration
// kinds.
func buildSampleModule(b *builder) *ast.ModuleDecl {
	intType := b.productType("Int")
	trait := b.trait("Drawable", nil)

	field := b.binding(ast.BindingIntroducerVar, "x", b.nameType("Int"), nil)
	method := b.function("read", nil, b.nameType("Int"), b.exprBody(
		ast.Register(b.program, &ast.NameExpr{
			NodeMeta:   b.meta(),
			DomainKind: ast.NameDomainImplicit,
			Identifier: b.ident("x"),
		}),
	))
	point := b.productType("Point", field, method)
	point.Conformances = []*ast.NameTypeExpr{b.nameType("Drawable")}

	alias := b.typeAlias("P", b.nameType("Point"))

	helper := b.function(
		"make_int",
		nil,
		b.nameType("Int"),
		b.blockBody(),
	)

	local := b.binding(ast.BindingIntroducerLet, "n", nil, b.call(b.nameExpr("make_int")))
	entry := b.function("main", nil, nil, b.blockBody(b.declStmt(local)))

	return b.module("main", intType, trait, point, alias, helper, entry)
}

// TestAllDeclarationsDone checks that after checking, every reachable
// declaration's request is done.
func TestAllDeclarationsDone(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	module := buildSampleModule(b)

	checker := b.checkProgram(t, nil)
	requireNoErrorDiagnostics(t, checker)

	ast.Walk(module, func(node ast.Node) bool {
		decl, ok := node.(ast.Declaration)
		if !ok {
			return true
		}
		switch decl.(type) {
		case *ast.ModuleDecl, *ast.TranslationUnit:
			return true
		}
		state := checker.Elaboration.DeclRequest(decl.ID())
		assert.Equal(t,
			DeclRequestDone,
			state,
			"declaration %d (%s) is %s",
			decl.ID(),
			decl.DeclarationKind().Name(),
			state.Name(),
		)
		return true
	})
}

// TestDeclTypesContainNoVariables checks that no completed declaration
// type contains a unification variable.
func TestDeclTypesContainNoVariables(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	module := buildSampleModule(b)

	checker := b.checkProgram(t, nil)
	requireNoErrorDiagnostics(t, checker)

	ast.Walk(module, func(node ast.Node) bool {
		decl, ok := node.(ast.Declaration)
		if !ok {
			return true
		}
		if declType, present := checker.Elaboration.DeclType(decl.ID()); present {
			assert.False(t,
				declType.Flags().HasVariable(),
				"declaration %d has variable in type %s",
				decl.ID(),
				declType,
			)
		}
		return true
	})
}

// TestCheckIsIdempotent checks that re-checking adds no diagnostics.
func TestCheckIsIdempotent(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	buildSampleModule(b)

	checker := b.checkProgram(t, nil)
	countAfterFirst := len(checker.Diagnostics())

	_ = checker.Check()
	assert.Equal(t, countAfterFirst, len(checker.Diagnostics()))
}

// TestDirectReferenceCarriesGenericArguments checks that a reference to
// a generic declaration binds an argument for each parameter.
func TestDirectReferenceCarriesGenericArguments(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	intType := b.productType("Int")
	parameter := b.genericParameter("T")
	box := b.genericProductType("Box", []*ast.GenericParameterDecl{parameter})

	expr := b.nameExpr("Box", b.typeArg(b.nameType("Int")))
	caller := b.function("main", nil, nil, b.blockBody(b.exprStmt(expr)))
	b.module("main", intType, box, caller)

	checker := b.checkProgram(t, nil)

	reference, ok := checker.Elaboration.ReferredDecl(expr.ID())
	require.True(t, ok)
	assert.Equal(t, DeclReferenceDirect, reference.Kind)
	require.NotNil(t, reference.Arguments)
	assert.True(t, reference.Arguments.Contains(parameter))
}

// TestImportsAreRecorded checks that import declarations resolve to
// modules and are recorded per translation unit.
func TestImportsAreRecorded(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	library := b.module("library", b.productType("Widget"))

	importDecl := ast.Register(b.program, &ast.ImportDecl{
		NodeMeta:   b.meta(),
		Identifier: b.ident("library"),
	})
	main := b.module("main")
	main.Sources[0].Imports = []*ast.ImportDecl{importDecl}

	// rebuild the scope tree to include the import
	checker := b.checkProgram(t, nil)
	requireNoErrorDiagnostics(t, checker)

	imports := checker.Elaboration.Imports(main.Sources[0].ID())
	require.Len(t, imports, 1)
	assert.Equal(t, library, imports[0])
}

// TestImportedNamesResolve checks that a name from an imported module
// resolves in the importing translation unit.
func TestImportedNamesResolve(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	widget := b.productType("Widget")
	b.module("library", widget)

	importDecl := ast.Register(b.program, &ast.ImportDecl{
		NodeMeta:   b.meta(),
		Identifier: b.ident("library"),
	})
	use := b.binding(ast.BindingIntroducerLet, "w", b.nameType("Widget"), nil)
	entry := b.function("main", nil, nil, b.blockBody(b.declStmt(use)))
	main := b.module("main", entry)
	main.Sources[0].Imports = []*ast.ImportDecl{importDecl}

	checker := b.checkProgram(t, nil)
	requireNoErrorDiagnostics(t, checker)

	names := ast.Names(use.Pattern)
	require.Len(t, names, 1)
	bound, ok := checker.Elaboration.DeclType(names[0].ID())
	require.True(t, ok)
	assert.True(t, bound.Equal(&ProductType{Decl: widget}))
}

// TestInferenceTraceIsWritten checks that the solver trace is emitted
// for expressions overlapping the configured site.
func TestInferenceTraceIsWritten(t *testing.T) {

	t.Parallel()

	b := newBuilder()
	intType := b.productType("Int")
	helper := b.function("make_int", nil, b.nameType("Int"), b.blockBody())

	call := b.call(b.nameExpr("make_int"))
	local := b.binding(ast.BindingIntroducerLet, "n", nil, call)
	entry := b.function("main", nil, nil, b.blockBody(b.declStmt(local)))
	b.module("main", intType, helper, entry)

	var trace strings.Builder
	site := call.StartPosition()
	checker := b.checkProgram(t, &Config{
		InferenceTracingSite: &site,
		TraceWriter:          &trace,
	})
	requireNoErrorDiagnostics(t, checker)

	assert.Contains(t, trace.String(), "[solve]")
}
