// Planner - decomposes a user request into an ordered capability plan.
//
// Information Hiding:
// - Planning prompt construction hidden
// - Plan JSON parsing and fallback policy hidden
// - History windowing hidden

package orchestration

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/capability"
	jsonutil "github.com/ArihantKhaitan/Enterprise-Agentic-Platform/internal/json"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/llm"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/model"
)

// DefaultHistoryWindow is the number of trailing conversation turns the
// planner includes in its prompt.
const DefaultHistoryWindow = 4

// Planner asks the language model for a plan and guarantees a valid,
// non-empty one: any model failure or unparseable response degrades to a
// single WebSearch step carrying the original request.
type Planner struct {
	client        *llm.Client
	registry      *capability.Registry
	historyWindow int
	verbose       bool
}

// NewPlanner creates a planner over the given client and capability registry.
func NewPlanner(client *llm.Client, registry *capability.Registry) *Planner {
	return &Planner{
		client:        client,
		registry:      registry,
		historyWindow: DefaultHistoryWindow,
	}
}

// HistoryWindow sets how many trailing conversation turns the prompt includes.
func (p *Planner) HistoryWindow(turns int) *Planner {
	if turns >= 0 {
		p.historyWindow = turns
	}
	return p
}

// Verbose enables logging of fallback decisions.
func (p *Planner) Verbose(enabled bool) *Planner {
	p.verbose = enabled
	return p
}

// CreatePlan builds a plan for the request. It never fails: collaborator
// errors and malformed responses yield the fallback plan. Capability names
// inside a parsed plan are passed through unvalidated; the executor rejects
// unknown ones per step.
func (p *Planner) CreatePlan(ctx context.Context, request string, history []model.ConversationTurn) model.Plan {
	response, err := p.client.Chat(ctx, []llm.ChatMessage{
		llm.SystemMessage(p.systemPrompt()),
		llm.UserMessage(p.userPrompt(request, history)),
	})
	if err != nil {
		if p.verbose {
			log.Printf("planner: falling back to single-step plan: %v", err)
		}
		return FallbackPlan(request)
	}

	steps, err := jsonutil.ExtractJSONFromResponse[[]model.Step](response)
	if err != nil || len(steps) == 0 {
		if p.verbose {
			log.Printf("planner: response was not a usable plan, falling back (parse error: %v)", err)
		}
		return FallbackPlan(request)
	}

	return model.Plan{Steps: steps}
}

// FallbackPlan is the guaranteed single-step plan: a WebSearch step carrying
// the original request verbatim.
func FallbackPlan(request string) model.Plan {
	return model.Plan{Steps: []model.Step{
		{Agent: model.CapabilityWebSearch, Prompt: request},
	}}
}

func (p *Planner) systemPrompt() string {
	return fmt.Sprintf(`You are a planning assistant that decomposes a user request into an ordered list of steps, each handled by one specialized capability.

Available capabilities:
%s

You MUST respond with a JSON array only, in this EXACT format:
[
  {"agent": "Knowledge", "prompt": "what does the uploaded report say about revenue?"},
  {"agent": "Summarization", "prompt": "summarize {{step_1_output}}"}
]

RULES:
- "agent" must be one of the capability names listed above
- "prompt" must be a plain text string, never a nested object
- A later step may reference an earlier step's output with {{step_N_output}}, where N is the 1-based index of that step
- Use the fewest steps that satisfy the request; one step is usually enough
- Do not wrap the JSON in markdown code blocks. No extra text.`,
		p.registry.Describe())
}

func (p *Planner) userPrompt(request string, history []model.ConversationTurn) string {
	return fmt.Sprintf("Conversation so far:\n%s\n\nRequest: %s",
		renderHistory(history, p.historyWindow), request)
}

// renderHistory renders the trailing window of turns as plain text.
func renderHistory(history []model.ConversationTurn, window int) string {
	if len(history) > window {
		history = history[len(history)-window:]
	}
	if len(history) == 0 {
		return "(none)"
	}

	lines := make([]string, 0, len(history))
	for _, turn := range history {
		role := "User"
		if turn.Role == model.RoleAssistant {
			role = "Assistant"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, turn.Text))
	}
	return strings.Join(lines, "\n")
}
