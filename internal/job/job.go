// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package job runs one conversion off the caller's goroutine and reports
// its lifecycle as an ordered event stream: started, progress at process
// launch, progress at completion (success only), then a terminal completed
// event carrying the outcome. The progress values are cosmetic; pandoc
// exposes no progress protocol.
package job

import (
	"github.com/queball1999/QConvert/pkg/types"
)

// EventKind tags an event in a job's stream.
type EventKind string

const (
	// EventStarted is emitted once, before the process is launched.
	EventStarted EventKind = "started"

	// EventProgress carries a coarse progress value (50 at launch, 100 on
	// success). The failure path never reaches 100.
	EventProgress EventKind = "progress"

	// EventCompleted is the terminal event; it carries the outcome. The
	// event channel is closed after it.
	EventCompleted EventKind = "completed"
)

// Progress values emitted around the single external process invocation.
const (
	ProgressLaunched = 50
	ProgressDone     = 100
)

// Event is one entry in a job's lifecycle stream.
type Event struct {
	Kind     EventKind
	Progress int
	Outcome  types.ConversionOutcome
}

// Executor runs one request to completion. *pandoc.Runner satisfies it;
// tests substitute fakes.
type Executor interface {
	Run(req types.ConversionRequest) types.ConversionOutcome
}

// Start executes req on its own goroutine and returns the event channel.
// At most four events are delivered, in order, and the channel is closed
// after the completed event. The channel is buffered for the full stream,
// so a consumer that only wants the outcome may drain at its leisure
// without blocking the worker. There is no cancellation once started.
func Start(exec Executor, req types.ConversionRequest) <-chan Event {
	events := make(chan Event, 4)
	go func() {
		defer close(events)
		events <- Event{Kind: EventStarted}
		events <- Event{Kind: EventProgress, Progress: ProgressLaunched}
		outcome := exec.Run(req)
		if outcome.Succeeded {
			events <- Event{Kind: EventProgress, Progress: ProgressDone}
		}
		events <- Event{Kind: EventCompleted, Outcome: outcome}
	}()
	return events
}

// Run executes req synchronously: it starts a job, forwards each event to
// observe (when non-nil), and returns the terminal outcome. The next job
// cannot start before the previous process has terminated, which is the
// mutual exclusion bulk mode relies on.
func Run(exec Executor, req types.ConversionRequest, observe func(Event)) types.ConversionOutcome {
	var outcome types.ConversionOutcome
	for ev := range Start(exec, req) {
		if observe != nil {
			observe(ev)
		}
		if ev.Kind == EventCompleted {
			outcome = ev.Outcome
		}
	}
	return outcome
}
