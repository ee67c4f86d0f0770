// Package orchestration turns user requests into executed plans.
//
// The Planner asks the language model to decompose a request into ordered
// capability steps; the Executor runs those steps strictly in order,
// resolving references to earlier outputs along the way.
package orchestration

import (
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/llm"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/model"
)

// TokenStats tracks token usage across one planning-and-execution run.
type TokenStats struct {
	PromptTokens     uint32 `json:"prompt_tokens"`
	CompletionTokens uint32 `json:"completion_tokens"`
	TotalTokens      uint32 `json:"total_tokens"`
	LLMCalls         int    `json:"llm_calls"`
}

// AddUsage adds token usage from an LLM call.
func (ts *TokenStats) AddUsage(usage *llm.TokenUsage) {
	if usage == nil {
		return
	}
	ts.PromptTokens += usage.PromptTokens
	ts.CompletionTokens += usage.CompletionTokens
	ts.TotalTokens += usage.TotalTokens
}

// StatsFromUsage builds TokenStats from a client's accumulated usage.
func StatsFromUsage(usage llm.TokenUsage, calls int) TokenStats {
	return TokenStats{
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
		LLMCalls:         calls,
	}
}

// Result is the outcome of executing a plan. Soft step failures are recorded
// in Results and do not abort execution, so a Result with failed steps is
// still a completed run.
type Result struct {
	// Plan is the plan that was executed.
	Plan model.Plan

	// Results holds one StepResult per executed step, in plan order. On
	// cancellation it holds the results produced before the abort.
	Results []model.StepResult

	// Stats is populated by the caller that owns the language-model client;
	// the executor itself does not talk to the model.
	Stats TokenStats

	// ElapsedMs is the wall-clock execution time.
	ElapsedMs uint64
}

// Final returns the last step's result, which is the overall answer.
// Prior results stay visible in Results but are not re-surfaced.
func (r Result) Final() model.StepResult {
	if len(r.Results) == 0 {
		return model.StepResult{}
	}
	return r.Results[len(r.Results)-1]
}

// FailedSteps counts the soft-failed steps in the run.
func (r Result) FailedSteps() int {
	count := 0
	for _, res := range r.Results {
		if res.Failed {
			count++
		}
	}
	return count
}
