package common

// Cookie names carrying the session tokens issued on login/registration.
const (
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"
)

// UserIDContextKey is the gin context key holding the authenticated user id.
const UserIDContextKey = "userID"
