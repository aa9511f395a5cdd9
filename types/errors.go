package types

import "errors"

var (
	// ErrUnsupportedDirection is returned when native currency bridging is
	// requested on a direction that disallows it.
	ErrUnsupportedDirection = errors.New("bridging native tokens is not supported in this direction")

	// ErrResolutionFailure is returned when counterpart discovery fails.
	ErrResolutionFailure = errors.New("unable to resolve counterpart token")

	// ErrLimitsUnavailable marks a limits computation that was replaced by
	// zero limits.
	ErrLimitsUnavailable = errors.New("token limits unavailable")

	// ErrFeeEstimationDegraded marks a fee estimate that fell back to the
	// unmodified amount.
	ErrFeeEstimationDegraded = errors.New("fee estimation degraded")

	// ErrRelayFailure is returned when the relay transaction is rejected.
	ErrRelayFailure = errors.New("relay transaction failed")

	ErrUnknownDirection = errors.New("unknown bridge direction")
	ErrUnknownChain     = errors.New("unknown chain")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTimeout          = errors.New("timed out")
)
