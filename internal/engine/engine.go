package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoSim-25-26J-441/teso/pkg/logger"
)

// Handler processes one event
type Handler func(*Engine, *Event) error

// Engine is a single-threaded discrete-event simulation loop
type Engine struct {
	queue     *EventQueue
	handlers  map[EventType]Handler
	logger    *slog.Logger
	now       float64
	processed int64
	stopped   bool
}

// NewEngine creates an engine with its clock at zero
func NewEngine() *Engine {
	return &Engine{
		queue:    NewEventQueue(),
		handlers: make(map[EventType]Handler),
		logger:   logger.Default,
	}
}

// SetLogger sets the engine's logger
func (e *Engine) SetLogger(l *slog.Logger) {
	e.logger = l
}

// RegisterHandler registers an event handler
func (e *Engine) RegisterHandler(eventType EventType, handler Handler) {
	e.handlers[eventType] = handler
}

// ScheduleAt schedules an event at an absolute simulation time. Times in
// the past are moved to the current time.
func (e *Engine) ScheduleAt(eventType EventType, at float64, data any) {
	if at < e.now {
		at = e.now
	}
	e.queue.Schedule(&Event{Type: eventType, Time: at, Data: data})
}

// ScheduleAfter schedules an event delay time units from now
func (e *Engine) ScheduleAfter(eventType EventType, delay float64, data any) {
	e.ScheduleAt(eventType, e.now+delay, data)
}

// Now returns the simulation clock
func (e *Engine) Now() float64 { return e.now }

// Processed returns the number of handled events
func (e *Engine) Processed() int64 { return e.processed }

// Pending returns the number of queued events
func (e *Engine) Pending() int { return e.queue.Size() }

// Stop ends Run after the current event
func (e *Engine) Stop() { e.stopped = true }

// Run processes events in time order until the queue drains, a handler
// calls Stop, or ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.stopped = false
	for !e.stopped && !e.queue.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return err
		}

		event := e.queue.Next()

		handler, ok := e.handlers[event.Type]
		if !ok {
			return fmt.Errorf("no handler registered for event type %q", event.Type)
		}

		e.now = event.Time
		if err := handler(e, event); err != nil {
			return fmt.Errorf("handling %s at t=%g: %w", event.Type, event.Time, err)
		}
		e.processed++
	}

	e.logger.Debug("simulation finished",
		"sim_time", e.now,
		"events_processed", e.processed,
		"pending", e.queue.Size())
	return nil
}
