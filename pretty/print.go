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

package pretty

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora/v4"

	"github.com/hylo-lang/val/sema"
)

// DiagnosticPrettyPrinter renders the checker's structured diagnostics
// with source excerpts, carets, and optional color.
type DiagnosticPrettyPrinter struct {
	writer   io.Writer
	colorize bool
}

func NewDiagnosticPrettyPrinter(writer io.Writer, colorize bool) DiagnosticPrettyPrinter {
	return DiagnosticPrettyPrinter{
		writer:   writer,
		colorize: colorize,
	}
}

func (p DiagnosticPrettyPrinter) color(value any, colorizer func(any) aurora.Value) string {
	if p.colorize {
		return colorizer(value).String()
	}
	return fmt.Sprint(value)
}

// PrettyPrintDiagnostic writes one diagnostic, with the excerpted
// source line when the code is available.
func (p DiagnosticPrettyPrinter) PrettyPrintDiagnostic(
	diagnostic sema.Diagnostic,
	code string,
) error {
	severity := diagnostic.Severity().Name()
	var severityColored string
	if diagnostic.Severity() == sema.SeverityWarning {
		severityColored = p.color(severity, func(v any) aurora.Value {
			return aurora.Yellow(v).Bold()
		})
	} else {
		severityColored = p.color(severity, func(v any) aurora.Value {
			return aurora.Red(v).Bold()
		})
	}

	message := diagnostic.Error()
	if secondary, ok := diagnostic.(sema.HasSecondaryMessage); ok {
		message = fmt.Sprintf("%s: %s", message, secondary.SecondaryMessage())
	}

	_, err := fmt.Fprintf(
		p.writer,
		"%s: %s\n --> %s\n",
		severityColored,
		p.color(message, func(v any) aurora.Value { return aurora.Bold(v) }),
		diagnostic.StartPosition(),
	)
	if err != nil {
		return err
	}

	if code != "" {
		if err := p.printExcerpt(diagnostic, code); err != nil {
			return err
		}
	}

	if withNotes, ok := diagnostic.(sema.HasNotes); ok {
		for _, note := range withNotes.DiagnosticNotes() {
			_, err := fmt.Fprintf(
				p.writer,
				"  %s: %s (%s)\n",
				p.color("note", func(v any) aurora.Value { return aurora.Cyan(v) }),
				note.Message,
				note.StartPosition(),
			)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (p DiagnosticPrettyPrinter) printExcerpt(
	diagnostic sema.Diagnostic,
	code string,
) error {
	start := diagnostic.StartPosition()
	lines := strings.Split(code, "\n")
	if start.Line < 1 || start.Line > len(lines) {
		return nil
	}
	line := lines[start.Line-1]

	prefix := fmt.Sprintf("%d | ", start.Line)
	if _, err := fmt.Fprintf(p.writer, "%s%s\n", prefix, line); err != nil {
		return err
	}

	caretCount := 1
	end := diagnostic.EndPosition()
	if end.Line == start.Line && end.Column >= start.Column {
		caretCount = end.Column - start.Column + 1
	}
	carets := strings.Repeat("^", caretCount)

	_, err := fmt.Fprintf(
		p.writer,
		"%s%s\n",
		strings.Repeat(" ", len(prefix)+start.Column),
		p.color(carets, func(v any) aurora.Value { return aurora.Red(v).Bold() }),
	)
	return err
}

// PrettyPrintDiagnostics renders a whole diagnostic list.
func (p DiagnosticPrettyPrinter) PrettyPrintDiagnostics(
	diagnostics []sema.Diagnostic,
	code string,
) error {
	for i, diagnostic := range diagnostics {
		if i > 0 {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				return err
			}
		}
		if err := p.PrettyPrintDiagnostic(diagnostic, code); err != nil {
			return err
		}
	}
	return nil
}
