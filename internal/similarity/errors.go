package similarity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInputCount is returned when the input does not hold exactly three texts.
	ErrInvalidInputCount = errors.New("exactly 3 texts are required")
	// ErrEmptyText is returned when any text is empty or whitespace-only.
	ErrEmptyText = errors.New("text must not be empty")
	// ErrProvider matches every *ProviderError.
	ErrProvider = errors.New("embedding provider error")
	// ErrDegenerateVector is returned when an embedding has zero magnitude.
	ErrDegenerateVector = errors.New("zero-magnitude embedding vector")
	// ErrDimensionMismatch is returned when two vectors differ in length.
	ErrDimensionMismatch = errors.New("embedding dimensions differ")
)

// ProviderError reports a failed or malformed embedding provider call.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("embedding provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrProvider) match any ProviderError.
func (e *ProviderError) Is(target error) bool { return target == ErrProvider }
