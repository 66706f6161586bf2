package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gobwas/glob"
)

var (
	// ErrInvalidFormat indicates an unsupported output format
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrInvalidCapacity indicates a non-positive cache capacity
	ErrInvalidCapacity = errors.New("invalid cache capacity")

	// ErrInvalidWorkers indicates a non-positive worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidDebounce indicates a negative watch debounce
	ErrInvalidDebounce = errors.New("invalid watch debounce")

	// ErrEmptyDBPath indicates a missing database path
	ErrEmptyDBPath = errors.New("empty database path")

	// ErrInvalidPattern indicates a missing or malformed glob pattern
	ErrInvalidPattern = errors.New("invalid path pattern")
)

var (
	validatorInstance *validator.Validate
	validatorOnce     sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInstance = validator.New()
	})
	return validatorInstance
}

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := getValidator().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate config: %w", err)
		}
		for _, ve := range verrs {
			errs = append(errs, fieldError(ve))
		}
	}

	errs = append(errs, validatePatterns("paths.include", cfg.Paths.Include)...)
	errs = append(errs, validatePatterns("paths.ignore", cfg.Paths.Ignore)...)

	return joinErrors(errs)
}

// fieldError maps a struct tag violation to the package's sentinel errors.
func fieldError(ve validator.FieldError) error {
	switch ve.Namespace() {
	case "Config.Docs.Format":
		return fmt.Errorf("%w: must be 'text', 'json' or 'yaml', got '%v'", ErrInvalidFormat, ve.Value())
	case "Config.Cache.Capacity":
		return fmt.Errorf("%w: capacity must be positive, got %v", ErrInvalidCapacity, ve.Value())
	case "Config.Indexer.Workers":
		return fmt.Errorf("%w: workers must be positive, got %v", ErrInvalidWorkers, ve.Value())
	case "Config.Watch.DebounceMS":
		return fmt.Errorf("%w: debounce_ms cannot be negative, got %v", ErrInvalidDebounce, ve.Value())
	case "Config.Storage.DBPath":
		return fmt.Errorf("%w: db_path is required", ErrEmptyDBPath)
	case "Config.Paths.Include":
		return fmt.Errorf("%w: at least one include pattern required", ErrInvalidPattern)
	}
	return fmt.Errorf("%s: failed '%s' validation", ve.Namespace(), ve.Tag())
}

func validatePatterns(key string, patterns []string) []error {
	var errs []error
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Errorf("%w: %s contains an empty pattern", ErrInvalidPattern, key))
			continue
		}
		if _, err := glob.Compile(p, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s pattern '%s': %v", ErrInvalidPattern, key, p, err))
		}
	}
	return errs
}

// joinErrors combines multiple errors into a single error with clear formatting.
// The result still matches every wrapped sentinel with errors.Is.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return &multiError{errs: errs}
}

type multiError struct {
	errs []error
}

func (m *multiError) Error() string {
	msgs := make([]string, 0, len(m.errs))
	for _, err := range m.errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (m *multiError) Unwrap() []error { return m.errs }
