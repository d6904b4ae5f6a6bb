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
	"io"

	"github.com/hylo-lang/val/ast"
)

// Config holds the checker's options.
type Config struct {
	// BuiltinModuleVisible makes the name `Builtin` resolve to the
	// built-in module.
	BuiltinModuleVisible bool
	// InferenceTracingSite enables a textual solver trace for
	// expressions overlapping the given position.
	InferenceTracingSite *ast.Position
	// TraceWriter receives the solver trace. Defaults to io.Discard.
	TraceWriter io.Writer
	// PositionInfoEnabled records typed occurrences for position
	// queries.
	PositionInfoEnabled bool
	// CoreLibrary is the standard library module, if loaded. Its
	// `Bool`, `Movable`, `Copyable`, and `Destructible` traits and
	// standard types are resolvable without explicit import.
	CoreLibrary *ast.ModuleDecl
}
