package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Shivanand-hulikatti/eventdesk/internal/apiclient"
)

// Kind classifies a page failure so callers can react without matching
// message text.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindNetwork
	KindNotFound
	KindConflict
	KindCorruptState
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNetwork:
		return "network"
	case KindNotFound:
		return "not-found"
	case KindConflict:
		return "conflict"
	case KindCorruptState:
		return "corrupt-state"
	default:
		return "internal"
	}
}

// Error is returned by every Pages operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or KindInternal if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func invalid(op, format string, args ...any) error {
	return &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf(format, args...)}
}

// errNoSession is the cause of every KindUnauthenticated raised before a
// call is attempted.
var errNoSession = errors.New("not logged in")

var errAlreadyRegistered = errors.New("already registered for this event")

// classify tags an API client failure. Anything that is not a recognised
// status, including transport failures and undecodable bodies, is a
// network failure.
func classify(op string, err error) error {
	kind := KindNetwork
	switch apiclient.StatusCode(err) {
	case http.StatusNotFound:
		kind = KindNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = KindUnauthenticated
	case http.StatusConflict:
		kind = KindConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = KindValidation
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
