package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken is the single outcome for every access token
	// verification failure: bad signature, expiry, malformed input, wrong
	// algorithm. Callers are deliberately not told which, so responses
	// cannot be used as a verification oracle.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrInvalidRefreshToken indicates the presented refresh token does not
	// match any active record, has expired, or lost a rotation race. All
	// terminal states collapse here; the client must re-authenticate.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)
