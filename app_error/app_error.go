package app_error

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Kind string

const (
	KindNone              Kind = ""
	KindVersionConflict   Kind = "version_conflict"
	KindInvalidTransition Kind = "invalid_transition"
	KindNotPresiding      Kind = "not_presiding"
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindTransport         Kind = "transport"
	KindFatal             Kind = "fatal"
)

// Categories. Every error returned by the engine wraps exactly one of these.
var (
	ErrVersionConflict   = errors.New("match was updated concurrently, reload and retry")
	ErrInvalidTransition = errors.New("transition not allowed from the current status")
	ErrNotPresiding      = errors.New("caller is not the presiding official")
	ErrValidation        = errors.New("invalid input")
	ErrMatchNotFound     = errors.New("match not found")
	ErrForbidden         = errors.New("caller is not allowed to act on this sector")
	ErrTransport         = errors.New("persistence backend unavailable")
	ErrFatal             = errors.New("fatal backend failure")
)

var (
	ErrInvalidStatus        = fmt.Errorf("%w: invalid status", ErrInvalidTransition)
	ErrAlreadySealed        = fmt.Errorf("%w: match already sealed", ErrInvalidStatus)
	ErrEmptyResultSet       = fmt.Errorf("%w: result set is empty", ErrValidation)
	ErrDuplicateParticipant = fmt.Errorf("%w: participant appears more than once", ErrValidation)
	ErrDuplicatePosition    = fmt.Errorf("%w: position assigned more than once", ErrValidation)
	ErrMissingWinner        = fmt.Errorf("%w: position 1 is required", ErrValidation)
	ErrInvalidPosition      = fmt.Errorf("%w: positions start at 1", ErrValidation)
	ErrUnknownParticipant   = fmt.Errorf("%w: unknown participant", ErrValidation)
	ErrNegativeManualPoints = fmt.Errorf("%w: manual points must be zero or more", ErrValidation)
	ErrUnknownRegime        = fmt.Errorf("%w: unknown scoring regime", ErrValidation)
	ErrKickoffInPast        = fmt.Errorf("%w: kickoff cannot be in the past", ErrValidation)
	ErrDuplicateMatch       = fmt.Errorf("%w: match id already exists", ErrValidation)
)

// Validation wraps a free-form validation message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Transport marks err as a retryable backend failure.
func Transport(err error) error {
	if err == nil || errors.Is(err, ErrTransport) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

// Fatal marks err as a non-retryable backend failure.
func Fatal(err error) error {
	if err == nil || errors.Is(err, ErrFatal) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrFatal, err)
}

func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrVersionConflict):
		return KindVersionConflict
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrNotPresiding):
		return KindNotPresiding
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrMatchNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrTransport):
		return KindTransport
	default:
		return KindFatal
	}
}

// Retryable reports whether the caller may retry the same command, possibly
// after re-reading the match.
func Retryable(err error) bool {
	k := KindOf(err)
	return k == KindVersionConflict || k == KindTransport
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNone:
		return http.StatusOK
	case KindVersionConflict, KindInvalidTransition:
		return http.StatusConflict
	case KindNotPresiding, KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindTransport:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type statusError struct {
	error
	status int
}

func (e statusError) Unwrap() error {
	return e.error
}

func (e statusError) HTTPStatus() int {
	return e.status
}

// WithStatus pins an explicit HTTP status onto err.
func WithStatus(err error, status int) error {
	return statusError{error: err, status: status}
}

// WithHTTPStatus writes err as the response body. An already-sealed match is
// flagged so clients can treat a retried seal as success.
func WithHTTPStatus(c *gin.Context, err error) {
	status := HTTPStatus(err)
	var se statusError
	if errors.As(err, &se) {
		status = se.status
	}
	body := gin.H{"error": err.Error(), "kind": KindOf(err), "retryable": Retryable(err)}
	if errors.Is(err, ErrAlreadySealed) {
		body["already_sealed"] = true
	}
	c.AbortWithStatusJSON(status, body)
}
