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

// ScopeID identifies a lexical scope. The zero value identifies no scope.
type ScopeID uint32

const ScopeIDInvalid ScopeID = 0

// ScopeTree is the lexical scope tree of a program: which node introduces
// which scope, which scope contains which node, and the ordered list of
// declarations directly contained in each scope.
type ScopeTree struct {
	program      *Program
	parentOf     []ScopeID
	introducerOf []Node
	declsIn      [][]Declaration
	scopeOfNode  map[NodeID]ScopeID
	introducedBy map[NodeID]ScopeID
	moduleOf     map[NodeID]*ModuleDecl
	unitOf       map[NodeID]*TranslationUnit
}

// NewScopeTree builds the scope tree of the given program.
func NewScopeTree(program *Program) *ScopeTree {
	tree := &ScopeTree{
		program:      program,
		scopeOfNode:  map[NodeID]ScopeID{},
		introducedBy: map[NodeID]ScopeID{},
		moduleOf:     map[NodeID]*ModuleDecl{},
		unitOf:       map[NodeID]*TranslationUnit{},
	}
	for _, module := range program.Modules {
		tree.visit(module, ScopeIDInvalid, module, nil)
	}
	return tree
}

func (t *ScopeTree) newScope(parent ScopeID, introducer Node) ScopeID {
	t.parentOf = append(t.parentOf, parent)
	t.introducerOf = append(t.introducerOf, introducer)
	t.declsIn = append(t.declsIn, nil)
	id := ScopeID(len(t.parentOf))
	t.introducedBy[introducer.ID()] = id
	return id
}

func introducesScope(node Node) bool {
	switch node.(type) {
	case *ModuleDecl,
		*TranslationUnit,
		*NamespaceDecl,
		*ProductTypeDecl,
		*TraitDecl,
		*TypeAliasDecl,
		*ExtensionDecl,
		*ConformanceDecl,
		*FunctionDecl,
		*InitializerDecl,
		*MethodBundleDecl,
		*MethodVariantDecl,
		*SubscriptDecl,
		*SubscriptVariantDecl,
		*BraceStmt:

		return true

	default:
		return false
	}
}

func (t *ScopeTree) visit(
	node Node,
	enclosing ScopeID,
	module *ModuleDecl,
	unit *TranslationUnit,
) {
	if translationUnit, ok := node.(*TranslationUnit); ok {
		unit = translationUnit
	}

	t.scopeOfNode[node.ID()] = enclosing
	t.moduleOf[node.ID()] = module
	t.unitOf[node.ID()] = unit

	if declaration, ok := node.(Declaration); ok && enclosing != ScopeIDInvalid {
		if _, isUnit := node.(*TranslationUnit); !isUnit {
			index := enclosing - 1
			t.declsIn[index] = append(t.declsIn[index], declaration)
		}
	}

	inner := enclosing
	if introducesScope(node) {
		inner = t.newScope(enclosing, node)
	}

	for _, child := range Children(node) {
		t.visit(child, inner, module, unit)
	}
}

// Parent returns the parent of the given scope,
// or ScopeIDInvalid for a root scope.
func (t *ScopeTree) Parent(scope ScopeID) ScopeID {
	if scope == ScopeIDInvalid {
		return ScopeIDInvalid
	}
	return t.parentOf[scope-1]
}

// Introducer returns the node which introduced the given scope.
func (t *ScopeTree) Introducer(scope ScopeID) Node {
	if scope == ScopeIDInvalid {
		return nil
	}
	return t.introducerOf[scope-1]
}

// ScopeIntroducedBy returns the scope introduced by the given node, if any.
func (t *ScopeTree) ScopeIntroducedBy(node NodeID) (ScopeID, bool) {
	scope, ok := t.introducedBy[node]
	return scope, ok
}

// ContainingScope returns the innermost scope containing the given node.
// For a scope introducer, that is the scope the introducer itself
// appears in, not the introduced scope.
func (t *ScopeTree) ContainingScope(node NodeID) ScopeID {
	return t.scopeOfNode[node]
}

// DeclarationsIn returns the declarations directly contained in the given
// scope, in source order.
func (t *ScopeTree) DeclarationsIn(scope ScopeID) []Declaration {
	if scope == ScopeIDInvalid {
		return nil
	}
	return t.declsIn[scope-1]
}

// Contains returns true if outer contains inner, or outer == inner.
func (t *ScopeTree) Contains(outer, inner ScopeID) bool {
	for scope := inner; scope != ScopeIDInvalid; scope = t.Parent(scope) {
		if scope == outer {
			return true
		}
	}
	return false
}

// IsContainedIn returns true if the given node lies within the subtree
// of the given declaration.
func (t *ScopeTree) IsContainedIn(node NodeID, decl Declaration) bool {
	if node == decl.ID() {
		return true
	}
	declScope, ok := t.ScopeIntroducedBy(decl.ID())
	if !ok {
		return false
	}
	return t.Contains(declScope, t.ContainingScope(node))
}

// ModuleOf returns the module containing the given node.
func (t *ScopeTree) ModuleOf(node NodeID) *ModuleDecl {
	return t.moduleOf[node]
}

// TranslationUnitOf returns the translation unit containing the given node,
// or nil for nodes outside any source file.
func (t *ScopeTree) TranslationUnitOf(node NodeID) *TranslationUnit {
	return t.unitOf[node]
}

// Program returns the program this tree was built for.
func (t *ScopeTree) Program() *Program {
	return t.program
}
