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
	"fmt"

	"github.com/k0kubun/pp/v3"

	"github.com/hylo-lang/val/ast"
)

// traceEnabledAt reports whether the configured tracing site overlaps
// the given expression range.
func (c *Checker) traceEnabledAt(site ast.Range) bool {
	tracingSite := c.Config.InferenceTracingSite
	if tracingSite == nil {
		return false
	}
	return site.ContainsPosition(*tracingSite) ||
		(site.StartPos.Line <= tracingSite.Line &&
			tracingSite.Line <= site.EndPos.Line)
}

// traceStep emits one solver step to the configured trace writer.
func (s *solver) traceStep(constraint Constraint) {
	if !s.shared.trace {
		return
	}

	writer := s.checker().Config.TraceWriter
	fmt.Fprintf(
		writer,
		"[solve] score=%d worklist=%d stalled=%d  %s\n",
		s.score,
		len(s.worklist),
		len(s.stalled),
		constraint,
	)

	if len(s.substitutions) > 0 {
		printer := pp.New()
		printer.SetOutput(writer)
		printer.SetColoringEnabled(false)
		assignments := map[uint64]string{}
		for raw, t := range s.substitutions { //nolint:maprange
			assignments[raw>>typeVariableContextBits] = t.String()
		}
		printer.Println(assignments)
	}
}
