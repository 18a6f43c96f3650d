package collector

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means a request could not be completed: retries were
	// exhausted or the provider answered with a note instead of data.
	ErrUnavailable = errors.New("data unavailable")

	// ErrDataIntegrity means a successful payload broke a structural guarantee.
	ErrDataIntegrity = errors.New("data integrity violation")

	// ErrInvalidPolicy rejects a retry policy before any request is made.
	ErrInvalidPolicy = errors.New("invalid retry policy")

	// ErrInvalidLimit rejects a news page size outside the provider's bounds.
	ErrInvalidLimit = fmt.Errorf("news limit must be in (0, %d]", MaxNewsLimit)

	// ErrInvalidRange rejects a range whose start is after its end.
	ErrInvalidRange = errors.New("time_from must not be after time_to")

	// ErrUnexpectedStatus is the per-attempt cause for a non-200 response.
	ErrUnexpectedStatus = errors.New("unexpected status code")
)

// ProviderError is an informational or error message the provider returned
// with a 200 status in place of data (rate-limit notes, bad parameters).
type ProviderError struct {
	Function string
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: provider message: %s", e.Function, e.Message)
}

func (e *ProviderError) Unwrap() error { return ErrUnavailable }

// IsUnavailable reports whether err means the data could not be fetched.
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }

// IsDataIntegrity reports whether err is a payload contract violation.
func IsDataIntegrity(err error) bool { return errors.Is(err, ErrDataIntegrity) }

func integrityErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDataIntegrity, fmt.Sprintf(format, args...))
}
