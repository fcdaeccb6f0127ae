// Package task runs long external-tool operations on a worker goroutine and
// reports progress as an ordered stream of events.
//
// The worker owns every subprocess it starts. Callers only observe events:
// zero or more log lines followed by exactly one terminal event, after which
// the channel is closed. Cancellation is carried by the context passed to
// Start and is checked between steps.
package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes log events from the terminal event.
type Kind int

const (
	KindLog Kind = iota
	KindDone
)

// Event is a single progress notification.
type Event struct {
	TaskID string
	Kind   Kind
	Line   string
	Err    error
	Time   time.Time
}

// Succeeded reports whether a terminal event carries no error.
func (e Event) Succeeded() bool {
	return e.Kind == KindDone && e.Err == nil
}

// Logf emits a log line from inside a task body.
type Logf func(format string, args ...any)

// Func is the body of a task.
type Func func(ctx context.Context, logf Logf) error

// Task is a running operation.
type Task struct {
	ID     string
	Name   string
	events chan Event
}

const eventBuffer = 64

// Start launches fn on a new goroutine. Consumers must drain Events (or call
// Wait) so the worker is never blocked on a full channel.
func Start(ctx context.Context, name string, fn Func) *Task {
	if ctx == nil {
		ctx = context.Background()
	}
	t := &Task{
		ID:     uuid.NewString(),
		Name:   name,
		events: make(chan Event, eventBuffer),
	}

	go func() {
		defer close(t.events)
		var err error
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%s: panic: %v", name, r)
				}
			}()
			err = fn(ctx, t.logf)
		}()
		t.events <- Event{TaskID: t.ID, Kind: KindDone, Err: err, Time: time.Now()}
	}()

	return t
}

// Failed returns a task that immediately ends with err.
func Failed(name string, err error) *Task {
	return Start(context.Background(), name, func(context.Context, Logf) error { return err })
}

func (t *Task) logf(format string, args ...any) {
	t.events <- Event{TaskID: t.ID, Kind: KindLog, Line: fmt.Sprintf(format, args...), Time: time.Now()}
}

// Events returns the receive-only event stream.
func (t *Task) Events() <-chan Event {
	return t.events
}

// Wait drains the remaining events, forwarding log lines to onLine when it is
// non-nil, and returns the terminal error.
func (t *Task) Wait(onLine func(string)) error {
	var final error
	sawDone := false
	for ev := range t.events {
		switch ev.Kind {
		case KindLog:
			if onLine != nil {
				onLine(ev.Line)
			}
		case KindDone:
			sawDone = true
			final = ev.Err
		}
	}
	if !sawDone {
		return errors.New("task ended without a result")
	}
	return final
}
