package study

import (
	"log/slog"

	"github.com/GoSim-25-26J-441/teso/internal/trial"
)

// LogObserver reports study progress through slog
type LogObserver struct {
	log *slog.Logger
}

// NewLogObserver creates a log observer writing to l
func NewLogObserver(l *slog.Logger) *LogObserver {
	return &LogObserver{log: l}
}

func (o *LogObserver) StudyStarted(info Info) {
	names := make([]string, len(info.Variables))
	for i, v := range info.Variables {
		names[i] = v.String()
	}
	o.log.Info("starting optimization",
		"study_id", info.ID,
		"direction", info.Direction.String(),
		"n_trials", info.NTrials,
		"noise_schedule", info.Schedule,
		"seed", info.Seed,
		"variables", names)
}

func (o *LogObserver) TrialStarted(t *trial.Trial, noise float64) {
	o.log.Debug("trial started",
		"trial", t.Index(),
		"phase", t.Phase().String(),
		"noise", noise,
		"params", t.Params())
}

func (o *LogObserver) TrialFinished(t *trial.Trial, snap Snapshot) {
	if t.Failed() {
		o.log.Warn("trial failed",
			"trial", t.Index(),
			"params", t.Params(),
			"error", t.Err())
		return
	}
	res := t.Result()
	attrs := []any{
		"trial", t.Index(),
		"phase", t.Phase().String(),
		"value", res.Mean,
		"replications", res.Replications,
		"params", t.Params(),
		"elapsed", t.Elapsed(),
	}
	// json handlers reject NaN
	if res.Replications > 1 {
		attrs = append(attrs, "std", res.Std())
	}
	if snap.HasBest {
		attrs = append(attrs, "best_trial", snap.Best.TrialIndex, "best_value", snap.Best.Result.Mean)
	}
	o.log.Info("trial finished", attrs...)
}

func (o *LogObserver) Notable(ev Event) {
	switch ev.Kind {
	case EventForcedAcceptance:
		o.log.Warn("accepting tabu candidate after retry budget",
			"trial", ev.Trial, "attempts", ev.Attempt, "signature", ev.Signature)
	case EventAspiration:
		o.log.Info("tabu candidate accepted by aspiration",
			"trial", ev.Trial, "signature", ev.Signature, "value", ev.Mean)
	case EventEvaluationFailed:
		o.log.Warn("evaluation failed", "trial", ev.Trial, "signature", ev.Signature, "error", ev.Err)
	default:
		o.log.Debug("tabu candidate rejected", "trial", ev.Trial, "attempt", ev.Attempt, "signature", ev.Signature)
	}
}

func (o *LogObserver) StudyFinished(res *Result) {
	if res.StopReason == StopNoImprovement {
		o.log.Info("stopping early: no improvement", "trials", res.Trials)
	}

	attrs := []any{
		"study_id", res.StudyID,
		"stop_reason", string(res.StopReason),
		"trials", res.Trials,
		"evaluations", res.Evaluations,
		"duration", res.Duration,
	}
	if res.HasBest {
		attrs = append(attrs,
			"best_trial", res.Best.TrialIndex,
			"best_value", res.Best.Result.Mean,
			"best_params", res.Best.Candidate.Params())
	}
	if sum, err := Summarize(res.Elite); err == nil {
		attrs = append(attrs,
			"elite_size", sum.Count,
			"elite_min", sum.Min,
			"elite_median", sum.Median,
			"elite_max", sum.Max)
	}
	o.log.Info("optimization finished", attrs...)
}
