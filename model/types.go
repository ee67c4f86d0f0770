// Package model provides domain types shared across packages.
package model

import (
	"fmt"
	"strings"
)

// Capability identifies one of the fixed specialized behaviors a plan step
// can be bound to. The set is closed: the dispatcher rejects names outside
// it, while the planner passes unknown names through untouched so rejection
// happens in exactly one place.
type Capability string

const (
	// CapabilityKnowledge answers from previously ingested documents.
	CapabilityKnowledge Capability = "Knowledge"
	// CapabilityWebSearch produces a simulated web search response.
	CapabilityWebSearch Capability = "WebSearch"
	// CapabilityCodeGeneration produces a single fenced code block.
	CapabilityCodeGeneration Capability = "CodeGeneration"
	// CapabilitySummarization condenses a document or the prompt itself.
	CapabilitySummarization Capability = "Summarization"
	// CapabilityImageAnalysis describes an attached image.
	CapabilityImageAnalysis Capability = "ImageAnalysis"
)

// String returns the string representation of the capability.
func (c Capability) String() string {
	return string(c)
}

// ParseCapability parses a string into a Capability.
func ParseCapability(s string) (Capability, error) {
	switch strings.ToLower(s) {
	case "knowledge":
		return CapabilityKnowledge, nil
	case "websearch":
		return CapabilityWebSearch, nil
	case "codegeneration":
		return CapabilityCodeGeneration, nil
	case "summarization":
		return CapabilitySummarization, nil
	case "imageanalysis":
		return CapabilityImageAnalysis, nil
	default:
		return "", fmt.Errorf("unknown capability: %s", s)
	}
}

// AllCapabilities returns the fixed capability set in prompt order.
func AllCapabilities() []Capability {
	return []Capability{
		CapabilityKnowledge,
		CapabilityWebSearch,
		CapabilityCodeGeneration,
		CapabilitySummarization,
		CapabilityImageAnalysis,
	}
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "user":
		return RoleUser, nil
	case "assistant":
		return RoleAssistant, nil
	default:
		return "", fmt.Errorf("unknown role: %s", s)
	}
}

// ConversationTurn is one utterance in a session's history.
// Immutable once appended; the planner consumes a bounded recent suffix.
type ConversationTurn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
	// Capability records which capability produced an assistant turn
	// (empty for user turns and plain assistant messages).
	Capability Capability `json:"capability,omitempty"`
}

// UserTurn creates a user conversation turn.
func UserTurn(text string) ConversationTurn {
	return ConversationTurn{Role: RoleUser, Text: text}
}

// AssistantTurn creates an assistant conversation turn attributed to a capability.
func AssistantTurn(text string, capability Capability) ConversationTurn {
	return ConversationTurn{Role: RoleAssistant, Text: text, Capability: capability}
}

// Step is a single plan step: a capability name and a prompt template.
// The template may reference earlier outputs with {{step_N_output}} markers.
// Field tags match the planner's wire format.
type Step struct {
	Agent  Capability `json:"agent"`
	Prompt string     `json:"prompt"`
}

// Plan is an ordered sequence of steps. A plan returned by the planner is
// never empty and is never mutated by the executor.
type Plan struct {
	Steps []Step
}

// Len returns the number of steps.
func (p Plan) Len() int {
	return len(p.Steps)
}

// Source is one retrieved chunk attached to a knowledge answer.
type Source struct {
	SourceID string `json:"source_id"`
	Text     string `json:"text"`
}

// StepResult is the outcome of dispatching one plan step. Soft failures
// (unknown capability, missing image, failed collaborator call) are still
// StepResults; Failed marks them so callers can render them distinctly.
type StepResult struct {
	Agent   Capability `json:"agent"`
	Text    string     `json:"text"`
	Sources []Source   `json:"sources,omitempty"`
	Failed  bool       `json:"failed,omitempty"`
}

// FailedResult creates a soft-failure step result with an explanation.
func FailedResult(agent Capability, format string, args ...interface{}) StepResult {
	return StepResult{
		Agent:  agent,
		Text:   fmt.Sprintf(format, args...),
		Failed: true,
	}
}
