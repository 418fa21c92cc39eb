package httperr

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// BusinessError is a rule violation detected at the point it happens. The
// status makes the four kinds (not found, forbidden, conflict, transient)
// machine-distinguishable; the code is stable for clients, the message is
// for humans.
type BusinessError struct {
	Status  int
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrNotFound(code, message string) error {
	return BusinessError{Status: http.StatusNotFound, Code: code, Message: message}
}

func ErrForbidden(code, message string) error {
	return BusinessError{Status: http.StatusForbidden, Code: code, Message: message}
}

func ErrConflict(code, message string) error {
	return BusinessError{Status: http.StatusConflict, Code: code, Message: message}
}

// ErrTransient marks store unavailability; it is the only kind callers may
// retry.
func ErrTransient(code, message string) error {
	return BusinessError{Status: http.StatusServiceUnavailable, Code: code, Message: message}
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

func IsBusiness(err error, code string) bool {
	be, ok := AsBusiness(err)
	return ok && be.Code == code
}

// exclusion_violation, raised by the overlap EXCLUDE constraints on
// appointments when two writers race past the application-level check.
const pgExclusionViolation = "23P01"

func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}
