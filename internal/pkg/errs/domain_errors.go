package errs

import (
	"errors"
	"fmt"

	cr "github.com/cockroachdb/errors"
)

// Error kinds expected during normal operation. Business failures wrap one
// of these so callers can classify with errors.Is regardless of the concrete
// message.
var (
	// ErrValidation: malformed input (non-numeric duration/price/count,
	// non-positive values, empty names).
	ErrValidation = errors.New("validation error")

	// ErrConflict: duplicate identifier, account still referenced, slot key
	// already present.
	ErrConflict = errors.New("conflict")

	// ErrNotFound: unknown person/account/service/duration/index.
	ErrNotFound = errors.New("not found")

	// ErrOccupied: slot not empty.
	ErrOccupied = errors.New("slot occupied")

	// ErrDataIntegrity: unparsable stored date. Recovered locally, logged,
	// record preserved.
	ErrDataIntegrity = errors.New("data integrity error")
)

func Validationf(format string, args ...any) error {
	return kindf(ErrValidation, format, args...)
}

func Conflictf(format string, args ...any) error {
	return kindf(ErrConflict, format, args...)
}

func NotFoundf(format string, args ...any) error {
	return kindf(ErrNotFound, format, args...)
}

func Occupiedf(format string, args ...any) error {
	return kindf(ErrOccupied, format, args...)
}

func DataIntegrityf(format string, args ...any) error {
	return kindf(ErrDataIntegrity, format, args...)
}

// kindf builds "<kind>: <detail>". The kind is wrapped with %w so the plain
// errors.Is sees it as well as Is, and a stack is pinned at the helper's
// caller for diagnostics.
func kindf(kind error, format string, args ...any) error {
	return cr.WithStackDepth(fmt.Errorf("%w: "+format, append([]any{kind}, args...)...), 2)
}
