// Executor - runs plan steps strictly in order.
//
// Information Hiding:
// - Step output tracking hidden
// - Placeholder resolution pass hidden (see template.go)
// - Progress emission hidden behind ProgressSink

package orchestration

import (
	"context"
	"log"
	"time"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/capability"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/llm"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/model"
)

// Executor drives a plan through the capability registry. Steps run
// sequentially because later prompts may reference earlier outputs.
//
// Failure policy: soft step failures (unknown capability, missing image,
// collaborator errors inside a handler) are recorded as failed StepResults
// and execution continues, since later steps may not depend on the failed
// one. Only context cancellation aborts the run.
//
// Not safe for concurrent use - use separate instances for concurrent plans.
type Executor struct {
	registry *capability.Registry
	sink     ProgressSink
	verbose  bool
}

// NewExecutor creates an executor over the given capability registry.
func NewExecutor(registry *capability.Registry) *Executor {
	return &Executor{
		registry: registry,
		sink:     NopSink{},
	}
}

// WithProgress directs progress notifications to the given sink.
func (e *Executor) WithProgress(sink ProgressSink) *Executor {
	if sink != nil {
		e.sink = sink
	}
	return e
}

// Verbose enables per-step logging.
func (e *Executor) Verbose(enabled bool) *Executor {
	e.verbose = enabled
	return e
}

// Execute runs every step of the plan in order. The optional image is
// forwarded to each dispatched step; handlers that do not use images ignore
// it. On cancellation the partial Result is returned alongside the context
// error; otherwise the Result covers every step.
func (e *Executor) Execute(ctx context.Context, plan model.Plan, image *llm.ImageData) (Result, error) {
	start := time.Now()
	total := plan.Len()
	outputs := make(map[string]string, total)
	results := make([]model.StepResult, 0, total)

	for i, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return e.finish(plan, results, start), err
		}

		resolved := ResolvePlaceholders(step.Prompt, outputs)
		event := ProgressEvent{
			Current: i + 1,
			Total:   total,
			Agent:   step.Agent,
			Task:    resolved,
		}
		e.sink.StepStarted(event)

		result, err := e.registry.Dispatch(ctx, step.Agent, capability.Input{
			Prompt: resolved,
			Image:  image,
		})
		if err != nil {
			return e.finish(plan, results, start), err
		}

		// Soft failures still record their explanation as the step output,
		// so later references resolve to it rather than dangling.
		outputs[StepOutputKey(i+1)] = result.Text
		results = append(results, result)
		e.sink.StepCompleted(event, result)

		if e.verbose {
			status := "completed"
			if result.Failed {
				status = "failed"
			}
			log.Printf("executor: step %d/%d (%s) %s", i+1, total, step.Agent, status)
		}
	}

	return e.finish(plan, results, start), nil
}

func (e *Executor) finish(plan model.Plan, results []model.StepResult, start time.Time) Result {
	return Result{
		Plan:      plan,
		Results:   results,
		ElapsedMs: uint64(time.Since(start).Milliseconds()),
	}
}
