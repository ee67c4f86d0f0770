// Placeholder resolution for step prompts.
//
// Later plan steps may reference earlier outputs with {{step_N_output}}
// tokens. Resolution is a single deterministic pass over the template:
// tokens with a recorded output are replaced, everything else (unknown
// references, malformed tokens, stray braces) stays literal. Replacement
// values are never rescanned, so outputs containing token-like text do not
// trigger recursive substitution.

package orchestration

import (
	"fmt"
	"strings"
)

const (
	placeholderOpen  = "{{"
	placeholderClose = "}}"

	stepTokenPrefix = "step_"
	stepTokenSuffix = "_output"
)

// StepOutputKey returns the outputs key for a 1-based step position.
func StepOutputKey(position int) string {
	return fmt.Sprintf("%s%d%s", stepTokenPrefix, position, stepTokenSuffix)
}

// ResolvePlaceholders replaces every {{step_N_output}} token that has a
// recorded output. Unresolved references are intentional passthrough, not
// an error: a prompt referencing a step that has not produced output keeps
// the token as literal text.
func ResolvePlaceholders(template string, outputs map[string]string) string {
	if !strings.Contains(template, placeholderOpen) {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))

	rest := template
	for {
		open := strings.Index(rest, placeholderOpen)
		if open == -1 {
			b.WriteString(rest)
			return b.String()
		}

		inner := rest[open+len(placeholderOpen):]
		closing := strings.Index(inner, placeholderClose)
		if closing == -1 {
			b.WriteString(rest)
			return b.String()
		}

		token := inner[:closing]
		if value, ok := outputs[token]; ok && isStepToken(token) {
			b.WriteString(rest[:open])
			b.WriteString(value)
			rest = inner[closing+len(placeholderClose):]
			continue
		}

		// Not a resolvable token. Emit through the opener and rescan just
		// past it so an opener nested inside stray braces still resolves.
		b.WriteString(rest[:open+len(placeholderOpen)])
		rest = inner
	}
}

// isStepToken reports whether token has the form step_N_output with a
// decimal N.
func isStepToken(token string) bool {
	if !strings.HasPrefix(token, stepTokenPrefix) || !strings.HasSuffix(token, stepTokenSuffix) {
		return false
	}
	digits := token[len(stepTokenPrefix) : len(token)-len(stepTokenSuffix)]
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
