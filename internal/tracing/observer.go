// Package tracing exports a study as OpenTelemetry spans: one span for the
// study and one child span per evaluated trial, probes included.
package tracing

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/GoSim-25-26J-441/teso/internal/study"
	"github.com/GoSim-25-26J-441/teso/internal/trial"
)

const instrumentationName = "github.com/GoSim-25-26J-441/teso/internal/tracing"

// Observer turns driver callbacks into spans
type Observer struct {
	tracer trace.Tracer

	mu       sync.Mutex
	ctx      context.Context
	studySp  trace.Span
	trialSp  trace.Span
	trialIdx int
}

// NewObserver creates an observer using tracers from tp
func NewObserver(tp trace.TracerProvider) *Observer {
	return &Observer{tracer: tp.Tracer(instrumentationName)}
}

func (o *Observer) StudyStarted(info study.Info) {
	o.mu.Lock()
	defer o.mu.Unlock()

	names := make([]string, len(info.Variables))
	for i, v := range info.Variables {
		names[i] = v.Name()
	}
	o.ctx, o.studySp = o.tracer.Start(context.Background(), "study",
		trace.WithAttributes(
			attribute.String("study.id", info.ID),
			attribute.String("study.direction", info.Direction.String()),
			attribute.Int("study.n_trials", info.NTrials),
			attribute.String("study.schedule", info.Schedule),
			attribute.Int64("study.seed", int64(info.Seed)),
			attribute.StringSlice("study.variables", names),
		))
}

func (o *Observer) TrialStarted(t *trial.Trial, noise float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ctx == nil {
		return
	}
	// a previous probe that was rejected never reaches TrialFinished
	o.endTrial()
	_, o.trialSp = o.tracer.Start(o.ctx, "trial",
		trace.WithAttributes(
			attribute.Int("trial.index", t.Index()),
			attribute.String("trial.phase", t.Phase().String()),
			attribute.String("trial.signature", t.Signature()),
			attribute.Float64("trial.noise", noise),
		))
	o.trialIdx = t.Index()
}

func (o *Observer) TrialFinished(t *trial.Trial, snap study.Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.trialSp == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.Bool("trial.improved", snap.Improved),
		attribute.Bool("trial.forced", t.Forced()),
		attribute.Int("search.no_improve", snap.NoImprove),
		attribute.Int("search.elite_size", snap.EliteSize),
		attribute.Int("search.tabu_size", snap.TabuSize),
	}
	if t.Failed() {
		o.trialSp.SetStatus(codes.Error, t.Err().Error())
	} else {
		res := t.Result()
		attrs = append(attrs,
			attribute.Float64("trial.mean", res.Mean),
			attribute.Int("trial.replications", res.Replications))
	}
	o.trialSp.SetAttributes(attrs...)
	o.endTrial()
}

func (o *Observer) Notable(ev study.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sp := o.studySp
	if o.trialSp != nil && o.trialIdx == ev.Trial {
		sp = o.trialSp
	}
	if sp == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.Int("trial.index", ev.Trial),
		attribute.Int("attempt", ev.Attempt),
		attribute.String("signature", ev.Signature),
	}
	if ev.Err != nil {
		attrs = append(attrs, attribute.String("error", ev.Err.Error()))
	} else {
		attrs = append(attrs, attribute.Float64("mean", ev.Mean))
	}
	sp.AddEvent(string(ev.Kind), trace.WithAttributes(attrs...))
}

func (o *Observer) StudyFinished(res *study.Result) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.endTrial()
	if o.studySp == nil {
		return
	}
	o.studySp.SetAttributes(
		attribute.String("study.stop_reason", string(res.StopReason)),
		attribute.Int("study.trials", res.Trials),
		attribute.Int("study.evaluations", res.Evaluations),
		attribute.Int("study.probes", res.Probes),
		attribute.Bool("study.converged", res.Converged),
	)
	if res.HasBest {
		o.studySp.SetAttributes(attribute.Float64("study.best", res.Best.Result.Mean))
	}
	if res.StopReason == study.StopError {
		o.studySp.SetStatus(codes.Error, "study aborted")
	}
	o.studySp.End()
	o.studySp = nil
	o.ctx = nil
}

func (o *Observer) endTrial() {
	if o.trialSp != nil {
		o.trialSp.End()
		o.trialSp = nil
	}
}
