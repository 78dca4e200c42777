package shared

// Cookie names for token transport. The handler that sets the cookies and
// the middleware that reads them both alias these, so the names cannot
// drift apart.
const (
	// AccessTokenCookie carries the short-lived access token.
	AccessTokenCookie = "accessToken"

	// RefreshTokenCookie carries the opaque refresh token.
	RefreshTokenCookie = "refreshToken"
)
