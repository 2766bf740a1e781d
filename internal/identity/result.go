package identity

import (
	"errors"

	"github.com/dastyn/socialauth/internal/domain/repository"
)

// Engine-level errors. Only these kinds ever reach the caller; a store
// uniqueness conflict is recovered inside the resolver and never surfaces.
var (
	// ErrMalformedProfile indicates the provider payload is structurally
	// broken (missing the required external id). Not retryable.
	ErrMalformedProfile = errors.New("malformed provider profile")

	// ErrUnsupportedProvider indicates no normalizer is registered for the
	// requested provider. Configuration error, should not happen at runtime.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrResolutionFailed indicates the account store failed for a reason
	// other than a uniqueness conflict. The user may retry the login.
	ErrResolutionFailed = errors.New("account resolution failed")
)

// ErrorKind classifies a failed resolution for the downstream consumer.
type ErrorKind string

const (
	KindMalformedProfile    ErrorKind = "malformed_profile"
	KindUnsupportedProvider ErrorKind = "unsupported_provider"
	KindResolutionFailed    ErrorKind = "resolution_failed"
)

// Failure carries the kind and cause of a failed resolution.
type Failure struct {
	Kind ErrorKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return string(f.Kind) + ": " + f.Err.Error()
	}
	return string(f.Kind)
}

// Unwrap exposes the cause for errors.Is checks.
func (f *Failure) Unwrap() error { return f.Err }

// Result is the uniform outcome of one resolution, consumed by the
// token-issuance layer. Exactly one of Account or Failure is set.
type Result struct {
	Account *repository.Account
	Failure *Failure
}

// Succeed wraps a resolved account.
func Succeed(a *repository.Account) Result {
	return Result{Account: a}
}

// Fail wraps an error with its kind.
func Fail(kind ErrorKind, err error) Result {
	return Result{Failure: &Failure{Kind: kind, Err: err}}
}

// Ok reports whether the resolution succeeded.
func (r Result) Ok() bool { return r.Failure == nil }

// KindOf maps an engine error to its ErrorKind. Unknown errors are treated
// as resolution failures.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrMalformedProfile):
		return KindMalformedProfile
	case errors.Is(err, ErrUnsupportedProvider):
		return KindUnsupportedProvider
	default:
		return KindResolutionFailed
	}
}
