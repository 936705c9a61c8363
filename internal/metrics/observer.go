package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/GoSim-25-26J-441/teso/internal/study"
	"github.com/GoSim-25-26J-441/teso/internal/trial"
)

// Observer exports study progress as Prometheus metrics
type Observer struct {
	trialsTotal      *prometheus.CounterVec
	eventsTotal      *prometheus.CounterVec
	trialDuration    prometheus.Histogram
	lastValue        prometheus.Gauge
	bestValue        prometheus.Gauge
	noise            prometheus.Gauge
	noImprove        prometheus.Gauge
	eliteSize        prometheus.Gauge
	tabuSize         prometheus.Gauge
	studiesCompleted *prometheus.CounterVec
}

// NewObserver registers the study metrics with reg
func NewObserver(reg prometheus.Registerer) *Observer {
	f := promauto.With(reg)
	return &Observer{
		trialsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "teso_trials_total",
			Help: "Accepted trials by phase and outcome",
		}, []string{"phase", "outcome"}),
		eventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "teso_events_total",
			Help: "Notable search events by kind",
		}, []string{"kind"}),
		trialDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "teso_trial_duration_seconds",
			Help:    "Wall time spent evaluating one trial",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
		}),
		lastValue: f.NewGauge(prometheus.GaugeOpts{
			Name: "teso_last_trial_value",
			Help: "Mean objective of the most recent successful trial",
		}),
		bestValue: f.NewGauge(prometheus.GaugeOpts{
			Name: "teso_best_value",
			Help: "Mean objective of the best trial so far",
		}),
		noise: f.NewGauge(prometheus.GaugeOpts{
			Name: "teso_noise",
			Help: "Current perturbation magnitude",
		}),
		noImprove: f.NewGauge(prometheus.GaugeOpts{
			Name: "teso_no_improve_trials",
			Help: "Trials since the last strict improvement",
		}),
		eliteSize: f.NewGauge(prometheus.GaugeOpts{
			Name: "teso_elite_size",
			Help: "Entries in the elite archive",
		}),
		tabuSize: f.NewGauge(prometheus.GaugeOpts{
			Name: "teso_tabu_size",
			Help: "Signatures currently tabu",
		}),
		studiesCompleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "teso_studies_completed_total",
			Help: "Finished studies by stop reason",
		}, []string{"reason"}),
	}
}

func (o *Observer) StudyStarted(study.Info) {
	o.noImprove.Set(0)
	o.eliteSize.Set(0)
	o.tabuSize.Set(0)
}

func (o *Observer) TrialStarted(_ *trial.Trial, noise float64) {
	o.noise.Set(noise)
}

func (o *Observer) TrialFinished(t *trial.Trial, snap study.Snapshot) {
	outcome := "ok"
	switch {
	case t.Failed():
		outcome = "failed"
	case t.Forced():
		outcome = "forced"
	}
	o.trialsTotal.WithLabelValues(t.Phase().String(), outcome).Inc()
	o.trialDuration.Observe(t.Elapsed().Seconds())
	if !t.Failed() {
		o.lastValue.Set(t.Result().Mean)
	}
	if snap.HasBest {
		o.bestValue.Set(snap.Best.Result.Mean)
	}
	o.noise.Set(snap.Noise)
	o.noImprove.Set(float64(snap.NoImprove))
	o.eliteSize.Set(float64(snap.EliteSize))
	o.tabuSize.Set(float64(snap.TabuSize))
}

func (o *Observer) Notable(ev study.Event) {
	o.eventsTotal.WithLabelValues(string(ev.Kind)).Inc()
}

func (o *Observer) StudyFinished(res *study.Result) {
	o.studiesCompleted.WithLabelValues(string(res.StopReason)).Inc()
}
