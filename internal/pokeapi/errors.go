package pokeapi

import (
	"errors"
	"fmt"
)

// ErrGateway matches every failure returned by the client. Callers that only
// care whether a lookup worked check errors.Is(err, ErrGateway).
var ErrGateway = errors.New("pokeapi: request failed")

// Kind tells gateway failures apart for logs and tests.
type Kind int

const (
	KindNetwork Kind = iota
	KindNotFound
	KindStatus
	KindDecode
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindNotFound:
		return "not_found"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	case KindUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// Error is the single error type returned by the client.
type Error struct {
	Kind   Kind
	URL    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound, KindStatus:
		return fmt.Sprintf("pokeapi: %s: status %d", e.URL, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("pokeapi: %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("pokeapi: %s: %s", e.URL, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrGateway }

// KindOf reports the kind of a gateway error. ok is false for other errors.
func KindOf(err error) (Kind, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return 0, false
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindNotFound
}
