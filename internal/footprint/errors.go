package footprint

import (
	"errors"
	"fmt"
)

var (
	ErrMissingLocation   = errors.New("current location is required")
	ErrSiteNotFound      = errors.New("site not found")
	ErrTooFar            = errors.New("too far from site")
	ErrAlreadyCollected  = errors.New("site already collected")
	ErrFootprintNotFound = errors.New("footprint not found")
	ErrStorageFailure    = errors.New("storage failure")

	// ErrDuplicate is returned by Store.Insert when the (user, site) unique
	// constraint rejects the row.
	ErrDuplicate = errors.New("duplicate footprint")
)

// TooFarError carries the measured distance so clients can tell the user how
// far away they are. errors.Is(err, ErrTooFar) matches it.
type TooFarError struct {
	Distance    int
	MaxDistance int
}

func (e *TooFarError) Error() string {
	return fmt.Sprintf("too far from site: %dm away, must be within %dm", e.Distance, e.MaxDistance)
}

func (e *TooFarError) Is(target error) bool {
	return target == ErrTooFar
}

func storageFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageFailure, op, err)
}
