package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoadConfig loads and parses a configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadStudy loads and parses a bare study file
func LoadStudy(path string) (*Study, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read study file %s: %w", path, err)
	}
	study, err := ParseStudyYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse study file %s: %w", path, err)
	}
	return study, nil
}

// ValidateConfig performs validation on the whole configuration file
func ValidateConfig(cfg *Config) error {
	if err := structErrors(validate.Struct(cfg)); err != nil {
		return err
	}
	return validateStudyRules(&cfg.Study, "study.")
}

// Validate performs validation on the study options. Variable domains
// are checked when the search space is built.
func Validate(s *Study) error {
	if err := structErrors(validate.Struct(s)); err != nil {
		return err
	}
	return validateStudyRules(s, "")
}

// validateStudyRules checks the rules struct tags cannot express
func validateStudyRules(s *Study, prefix string) error {
	if s.NoiseDecay == DecayExponential && s.FinalNoise <= 0 {
		return Errorf(prefix+"final_noise", "exponential decay requires final_noise > 0, got %g", s.FinalNoise)
	}

	names := make(map[string]bool, len(s.Variables))
	for i, v := range s.Variables {
		if names[v.Name] {
			return Errorf(fmt.Sprintf("%svariables[%d].name", prefix, i), "duplicate variable name: %s", v.Name)
		}
		names[v.Name] = true
	}

	return nil
}

// structErrors converts validator output into ConfigurationErrors
func structErrors(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ConfigurationError{Reason: err.Error()}
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, &ConfigurationError{
			Field:  fieldPath(fe.Namespace()),
			Reason: describe(fe),
		})
	}
	return errors.Join(errs...)
}

// fieldPath drops the root struct name from a validator namespace
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", fe.Param(), fe.Value())
	case "ltefield":
		return fmt.Sprintf("must be <= %s, got %v", fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("must be >= %s, got %v", fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("must be > %s, got %v", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be <= %s, got %v", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %s validation (value %v)", fe.Tag(), fe.Value())
	}
}
