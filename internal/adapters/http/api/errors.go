package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	jobqueue "github.com/okian/champsim/internal/adapters/mq/queue"
	"github.com/okian/champsim/internal/adapters/repository"
	service "github.com/okian/champsim/internal/app"
	"github.com/okian/champsim/internal/domain/montecarlo"
	"github.com/okian/champsim/internal/report"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
)

// opError tags an error with the operation that produced it.
type opError struct {
	op   string
	kind error
	err  error
}

func (e *opError) Error() string {
	switch {
	case e.err == nil:
		return fmt.Sprintf("%s: %v", e.op, e.kind)
	case e.kind == nil:
		return fmt.Sprintf("%s: %v", e.op, e.err)
	default:
		return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.err)
	}
}

func (e *opError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.kind != nil {
		out = append(out, e.kind)
	}
	if e.err != nil {
		out = append(out, e.err)
	}
	return out
}

// Wrap tags err with op. It returns nil for a nil err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

// WrapKind tags err with op and a sentinel kind.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, kind: kind, err: err}
}

// NewKind returns an error of the given kind for op.
func NewKind(op string, kind error) error {
	return &opError{op: op, kind: kind}
}

// classify maps an error to an HTTP status and a short error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, montecarlo.ErrInvalidTarget),
		errors.Is(err, montecarlo.ErrInvalidSeasons),
		errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, report.ErrInvalidBins):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, jobqueue.ErrClosed):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, "cancelled"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
