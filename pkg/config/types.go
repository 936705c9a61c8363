package config

// Direction values accepted by Study.Direction
const (
	DirectionMinimize = "minimize"
	DirectionMaximize = "maximize"
)

// Variable kinds accepted by VariableSpec.Kind
const (
	KindContinuous  = "continuous"
	KindDiscrete    = "discrete"
	KindCategorical = "categorical"
)

// Noise decay laws accepted by Study.NoiseDecay
const (
	DecayLinear      = "linear"
	DecayExponential = "exponential"
)

// Config is the top-level file consumed by the teso CLI
type Config struct {
	LogLevel  string    `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string    `yaml:"log_format" validate:"oneof=json text"`
	Study     Study     `yaml:"study"`
	Model     *MM1Model `yaml:"model,omitempty"`
}

// Study holds every option recognised by the search driver
type Study struct {
	Direction   string `yaml:"direction" validate:"oneof=minimize maximize"`
	NTrials     int    `yaml:"n_trials" validate:"gte=1"`
	NInitPoints int    `yaml:"n_init_points" validate:"gte=0"`

	InitialNoise float64 `yaml:"initial_noise" validate:"gte=0"`
	FinalNoise   float64 `yaml:"final_noise" validate:"gte=0,ltefield=InitialNoise"`
	NoiseDecay   string  `yaml:"noise_decay" validate:"oneof=linear exponential"`

	// RandomState seeds the driver's random source. Nil seeds from the clock.
	RandomState *uint64 `yaml:"random_state,omitempty"`

	NReplications        int `yaml:"n_replications" validate:"gte=1"`
	ParallelReplications int `yaml:"parallel_replications" validate:"gte=0"`
	MaxNoImprove         int `yaml:"max_no_improve" validate:"gte=1"`

	EliteCapacity        int     `yaml:"elite_capacity" validate:"gte=1"`
	TabuTenure           int     `yaml:"tabu_tenure" validate:"gte=0"`
	TabuNoiseScaled      bool    `yaml:"tabu_noise_scaled"`
	AspirationTolerance  float64 `yaml:"aspiration_tolerance" validate:"gte=0"`
	MaxCandidateAttempts int     `yaml:"max_candidate_attempts" validate:"gte=1"`
	DiversifyProbability float64 `yaml:"diversify_probability" validate:"gte=0,lte=1"`

	// SignatureDigits rounds continuous values to this many significant
	// digits when building tabu signatures. Zero keeps exact values.
	SignatureDigits int `yaml:"signature_digits" validate:"gte=0,lte=17"`

	Verbose bool `yaml:"verbose"`

	Variables []VariableSpec `yaml:"variables" validate:"dive"`
}

// VariableSpec declares one decision variable
type VariableSpec struct {
	Name       string   `yaml:"name" validate:"required"`
	Kind       string   `yaml:"kind" validate:"oneof=continuous discrete categorical"`
	Low        float64  `yaml:"low,omitempty"`
	High       float64  `yaml:"high,omitempty"`
	Log        bool     `yaml:"log,omitempty"`
	Categories []string `yaml:"categories,omitempty"`
}

// MM1Model holds the factors of the built-in M/M/1 queue objective
type MM1Model struct {
	Lambda  float64 `yaml:"lambda" validate:"gt=0"`
	Cost    float64 `yaml:"cost" validate:"gte=0"`
	Epsilon float64 `yaml:"epsilon" validate:"gte=0"`
	Warmup  int     `yaml:"warmup" validate:"gte=0"`
	People  int     `yaml:"people" validate:"gte=1"`
}

// DefaultStudy returns the study options used when a key is omitted
func DefaultStudy() Study {
	return Study{
		Direction:            DirectionMinimize,
		NTrials:              100,
		NInitPoints:          10,
		InitialNoise:         0.2,
		FinalNoise:           0.05,
		NoiseDecay:           DecayLinear,
		NReplications:        30,
		ParallelReplications: 1,
		MaxNoImprove:         20,
		EliteCapacity:        10,
		TabuTenure:           20,
		AspirationTolerance:  0,
		MaxCandidateAttempts: 10,
		DiversifyProbability: 0.3,
		Verbose:              true,
	}
}

// DefaultMM1Model returns the factors of the standard M/M/1 problem
func DefaultMM1Model() MM1Model {
	return MM1Model{
		Lambda:  1.5,
		Cost:    0.1,
		Epsilon: 0.001,
		Warmup:  50,
		People:  50,
	}
}

// Default returns a Config populated with defaults
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Study:     DefaultStudy(),
	}
}

// Seeded returns a copy of s with RandomState set to seed
func (s Study) Seeded(seed uint64) Study {
	s.RandomState = &seed
	return s
}
