// Progress notifications emitted while a plan runs.

package orchestration

import (
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/model"
)

// ProgressEvent identifies the step the executor is about to dispatch.
type ProgressEvent struct {
	// Current is the 1-based step position.
	Current int

	// Total is the number of steps in the plan.
	Total int

	// Agent is the capability the step is bound to.
	Agent model.Capability

	// Task is the step's prompt after placeholder resolution.
	Task string
}

// ProgressSink receives execution progress. StepStarted fires before each
// dispatch; StepCompleted fires when the step has produced its result and
// supersedes the matching StepStarted notification.
type ProgressSink interface {
	StepStarted(event ProgressEvent)
	StepCompleted(event ProgressEvent, result model.StepResult)
}

// NopSink discards all progress notifications.
type NopSink struct{}

// StepStarted implements ProgressSink.
func (NopSink) StepStarted(ProgressEvent) {}

// StepCompleted implements ProgressSink.
func (NopSink) StepCompleted(ProgressEvent, model.StepResult) {}

// Verify NopSink implements ProgressSink
var _ ProgressSink = NopSink{}
