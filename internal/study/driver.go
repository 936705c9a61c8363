package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GoSim-25-26J-441/teso/internal/memory"
	"github.com/GoSim-25-26J-441/teso/internal/space"
	"github.com/GoSim-25-26J-441/teso/internal/trial"
	"github.com/GoSim-25-26J-441/teso/pkg/config"
	"github.com/GoSim-25-26J-441/teso/pkg/logger"
	"github.com/GoSim-25-26J-441/teso/pkg/utils"
)

// Step records one accepted trial
type Step struct {
	Trial     int
	Phase     trial.Phase
	Signature string
	Params    map[string]any
	Result    trial.Result
	Failed    bool
	Forced    bool
	Improved  bool
	Noise     float64
	BestMean  float64
	Elapsed   time.Duration
}

// Result is the outcome of Optimize
type Result struct {
	StudyID     string
	Best        memory.Entry
	HasBest     bool
	Elite       []memory.Entry
	Trials      int
	Evaluations int
	Probes      int
	Converged   bool
	StopReason  StopReason
	History     []Step
	Duration    time.Duration
}

// Option customises a Driver
type Option func(*Driver)

// WithObserver attaches an observer
func WithObserver(o Observer) Option {
	return func(d *Driver) {
		d.observers = append(d.observers, o)
	}
}

// WithLogger sets the logger used by the verbose log observer
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithRandSource replaces the random source derived from random_state
func WithRandSource(rng *utils.RandSource) Option {
	return func(d *Driver) {
		d.rng = rng
	}
}

// WithSchedule replaces the noise schedule built from the config
func WithSchedule(s NoiseSchedule) Option {
	return func(d *Driver) {
		d.schedule = s
	}
}

// Driver runs the tabu-enhanced search loop. One Driver runs one study at
// a time; the snapshot getters are safe to call from other goroutines.
type Driver struct {
	cfg       config.Study
	dir       trial.Direction
	space     *space.Space
	schedule  NoiseSchedule
	rng       *utils.RandSource
	logger    *slog.Logger
	observers []Observer

	mu          sync.RWMutex
	id          string
	running     bool
	state       State
	tabu        *memory.TabuList
	elite       *memory.Elite
	iteration   int
	noise       float64
	noImprove   int
	best        memory.Entry
	hasBest     bool
	evaluations int
	probes      int
	history     []Step
}

// New validates cfg and creates a driver over its declared variables
func New(cfg config.Study, opts ...Option) (*Driver, error) {
	if err := config.Validate(&cfg); err != nil {
		return nil, err
	}
	dir, err := trial.ParseDirection(cfg.Direction)
	if err != nil {
		return nil, err
	}
	sp, err := space.FromSpecs(cfg.Variables)
	if err != nil {
		return nil, err
	}
	sp.SetSignatureDigits(cfg.SignatureDigits)

	d := &Driver{
		cfg:   cfg,
		dir:   dir,
		space: sp,
		state: StateInit,
		tabu:  memory.NewTabuList(),
		elite: memory.NewElite(cfg.EliteCapacity, dir),
		noise: cfg.InitialNoise,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.schedule == nil {
		d.schedule, err = NewNoiseSchedule(cfg.NoiseDecay, cfg.InitialNoise, cfg.FinalNoise, cfg.NTrials)
		if err != nil {
			return nil, err
		}
	}
	if d.rng == nil {
		if cfg.RandomState != nil {
			d.rng = utils.NewRandSource(*cfg.RandomState)
		} else {
			d.rng = utils.NewTimeSeededRandSource()
		}
	}
	if d.logger == nil {
		d.logger = logger.Default
	}
	if cfg.Verbose {
		d.observers = append(d.observers, NewLogObserver(d.logger))
	}

	return d, nil
}

// AddVariable declares another decision variable. It fails while a study runs.
func (d *Driver) AddVariable(v *space.Variable) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return ErrRunning
	}
	return d.space.Add(v)
}

// Space returns the search space
func (d *Driver) Space() *space.Space { return d.space }

// Direction returns the optimisation sense
func (d *Driver) Direction() trial.Direction { return d.dir }

// Optimize runs the search until the trial budget is spent, max_no_improve
// trials pass without a strict improvement, or ctx is cancelled.
//
// A cancelled run returns the partial result together with the context
// error. A run in which every trial failed returns ErrNoCompletedTrials.
func (d *Driver) Optimize(ctx context.Context, fn trial.Func) (*Result, error) {
	if fn == nil {
		return nil, fmt.Errorf("evaluation function is required")
	}
	if err := d.begin(); err != nil {
		return nil, err
	}
	defer d.end()

	start := time.Now()
	d.notify(func(o Observer) {
		o.StudyStarted(Info{
			ID:        d.ID(),
			Direction: d.dir,
			Variables: d.space.Variables(),
			NTrials:   d.cfg.NTrials,
			Schedule:  d.schedule.Name(),
			Seed:      d.rng.Seed(),
		})
	})

	reason, converged, err := d.loop(ctx, fn)

	d.setState(StateDone)
	res := d.result(reason, converged, time.Since(start))
	d.notify(func(o Observer) { o.StudyFinished(res) })

	if err != nil {
		return res, err
	}
	if !res.HasBest {
		return res, ErrNoCompletedTrials
	}
	return res, nil
}

func (d *Driver) loop(ctx context.Context, fn trial.Func) (StopReason, bool, error) {
	for t := 0; ; t++ {
		if err := ctx.Err(); err != nil {
			return StopCancelled, false, err
		}
		if t >= d.cfg.NTrials {
			return StopBudget, false, nil
		}

		d.advance(t)
		phase := d.choosePhase(t)

		tr, err := d.propose(ctx, fn, t, phase)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return StopCancelled, false, err
			}
			return StopError, false, err
		}

		snap := d.update(tr)
		d.notify(func(o Observer) { o.TrialFinished(tr, snap) })

		d.setState(StateCheckTermination)
		if snap.NoImprove >= d.cfg.MaxNoImprove {
			return StopNoImprovement, true, nil
		}
	}
}

func (d *Driver) begin() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return ErrRunning
	}
	if d.space.Len() == 0 {
		return config.Errorf("variables", "at least one variable must be declared")
	}
	d.running = true
	d.id = uuid.NewString()
	d.state = StateInit
	d.tabu.Reset()
	d.elite.Reset()
	d.iteration = 0
	d.noise = d.schedule.At(0)
	d.noImprove = 0
	d.best = memory.Entry{}
	d.hasBest = false
	d.evaluations = 0
	d.probes = 0
	d.history = nil
	return nil
}

func (d *Driver) end() {
	d.mu.Lock()
	d.running = false
	d.mu.Unlock()
}

// advance moves the schedule and releases expired tabu entries
func (d *Driver) advance(t int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.iteration = t
	d.noise = d.schedule.At(t)
	d.tabu.Expire(t)
}

// choosePhase decides between diversification and intensification. The
// first n_init_points trials and any trial with an empty elite diversify;
// afterwards diversification happens with a probability that decays with
// the noise.
func (d *Driver) choosePhase(t int) trial.Phase {
	phase := trial.PhaseIntensify
	switch {
	case t < d.cfg.NInitPoints:
		phase = trial.PhaseInit
	case d.elite.Len() == 0:
		phase = trial.PhaseDiversify
	default:
		p := 0.0
		if d.cfg.InitialNoise > 0 {
			p = d.cfg.DiversifyProbability * d.noise / d.cfg.InitialNoise
		}
		if d.rng.BernoulliBool(p) {
			phase = trial.PhaseDiversify
		}
	}

	if phase == trial.PhaseIntensify {
		d.setState(StateIntensify)
	} else {
		d.setState(StateDiversify)
	}
	return phase
}

func (d *Driver) generate(phase trial.Phase) (space.Candidate, error) {
	if phase != trial.PhaseIntensify {
		return d.space.Sample(d.rng), nil
	}
	ref := d.elite.Sample(1, d.rng)
	if len(ref) == 0 {
		return d.space.Sample(d.rng), nil
	}
	return d.space.Perturb(ref[0].Candidate, d.noise, d.rng)
}

// propose generates candidates until one is accepted. A tabu candidate is
// evaluated as a probe and accepted if it aspires; once the attempt budget
// is spent the last probe is accepted anyway.
func (d *Driver) propose(ctx context.Context, fn trial.Func, t int, phase trial.Phase) (*trial.Trial, error) {
	for attempt := 1; ; attempt++ {
		cand, err := d.generate(phase)
		if err != nil {
			return nil, err
		}
		tr := trial.New(t, cand, phase)
		sig := tr.Signature()

		if !d.isTabu(sig, t) {
			return tr, d.evaluate(ctx, fn, tr)
		}

		if err := d.evaluate(ctx, fn, tr); err != nil {
			return nil, err
		}
		res := tr.Result()

		best, hasBest := d.Best()
		if !tr.Failed() && memory.Aspires(d.dir, res.Mean, best.Result, hasBest, d.cfg.AspirationTolerance) {
			d.notify(func(o Observer) {
				o.Notable(Event{Kind: EventAspiration, Trial: t, Attempt: attempt, Signature: sig, Mean: res.Mean})
			})
			return tr, nil
		}

		if attempt >= d.cfg.MaxCandidateAttempts {
			tr.MarkForced()
			d.notify(func(o Observer) {
				o.Notable(Event{Kind: EventForcedAcceptance, Trial: t, Attempt: attempt, Signature: sig, Mean: res.Mean, Err: tr.Err()})
			})
			return tr, nil
		}

		d.mu.Lock()
		d.probes++
		d.mu.Unlock()
		d.notify(func(o Observer) {
			o.Notable(Event{Kind: EventTabuRejected, Trial: t, Attempt: attempt, Signature: sig, Mean: res.Mean, Err: tr.Err()})
		})
	}
}

func (d *Driver) isTabu(sig string, t int) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tabu.IsTabu(sig, t)
}

// evaluate runs the trial's replications. Evaluation failures are kept on
// the trial; only context errors are returned.
func (d *Driver) evaluate(ctx context.Context, fn trial.Func, tr *trial.Trial) error {
	d.setState(StateEvaluate)
	plan := trial.NewPlan(d.cfg.NReplications, d.cfg.ParallelReplications, d.rng)

	noise := d.Noise()
	d.notify(func(o Observer) { o.TrialStarted(tr, noise) })

	_, err := trial.Run(ctx, tr, fn, plan)

	d.mu.Lock()
	d.evaluations += plan.Replications()
	d.mu.Unlock()

	if err == nil {
		return nil
	}
	var evalErr *trial.EvaluationError
	if errors.As(err, &evalErr) {
		d.notify(func(o Observer) {
			o.Notable(Event{Kind: EventEvaluationFailed, Trial: tr.Index(), Signature: tr.Signature(), Err: err})
		})
		return nil
	}
	return err
}

// update folds an accepted trial into tabu and elite memory
func (d *Driver) update(tr *trial.Trial) Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = StateUpdateMemory

	t := tr.Index()
	sig := tr.Signature()
	d.tabu.Admit(sig, t, memory.Tenure(d.cfg.TabuTenure, d.cfg.TabuNoiseScaled, d.noise, d.cfg.InitialNoise))

	improved := false
	res := tr.Result()
	if tr.Failed() {
		d.noImprove++
	} else {
		entry := memory.Entry{
			Candidate:  tr.Candidate(),
			Signature:  sig,
			Result:     res,
			TrialIndex: t,
		}
		d.elite.Offer(entry)
		// best follows the pooled archive so repeat visits correct a lucky draw
		top, _ := d.elite.Best()
		if !d.hasBest || d.dir.Better(top.Result.Mean, d.best.Result.Mean) {
			improved = true
			d.noImprove = 0
		} else {
			d.noImprove++
		}
		d.best = top
		d.hasBest = true
	}

	step := Step{
		Trial:     t,
		Phase:     tr.Phase(),
		Signature: sig,
		Params:    tr.Params(),
		Result:    res,
		Failed:    tr.Failed(),
		Forced:    tr.Forced(),
		Improved:  improved,
		Noise:     d.noise,
		Elapsed:   tr.Elapsed(),
	}
	if d.hasBest {
		step.BestMean = d.best.Result.Mean
	}
	d.history = append(d.history, step)

	return Snapshot{
		Iteration: t,
		Noise:     d.noise,
		NoImprove: d.noImprove,
		Best:      d.best,
		HasBest:   d.hasBest,
		Improved:  improved,
		EliteSize: d.elite.Len(),
		TabuSize:  d.tabu.Len(),
	}
}

func (d *Driver) result(reason StopReason, converged bool, elapsed time.Duration) *Result {
	d.mu.RLock()
	defer d.mu.RUnlock()

	history := make([]Step, len(d.history))
	copy(history, d.history)
	return &Result{
		StudyID:     d.id,
		Best:        d.best,
		HasBest:     d.hasBest,
		Elite:       d.elite.Entries(),
		Trials:      len(d.history),
		Evaluations: d.evaluations,
		Probes:      d.probes,
		Converged:   converged,
		StopReason:  reason,
		History:     history,
		Duration:    elapsed,
	}
}

func (d *Driver) notify(fn func(Observer)) {
	for _, o := range d.observers {
		fn(o)
	}
}

func (d *Driver) setState(s State) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// State returns the current state
func (d *Driver) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Best returns the best entry found so far
func (d *Driver) Best() (memory.Entry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.best, d.hasBest
}

// Elite returns a copy of the elite archive, best first
func (d *Driver) Elite() []memory.Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.elite.Entries()
}

// Iteration returns the index of the current trial
func (d *Driver) Iteration() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.iteration
}

// Noise returns the current perturbation magnitude
func (d *Driver) Noise() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.noise
}

// NoImprove returns the number of trials since the last strict improvement
func (d *Driver) NoImprove() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.noImprove
}

// ID returns the identifier of the current or last study run
func (d *Driver) ID() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.id
}
