package common

const (
	// AuthorizationHeaderName carries the bearer access token on inbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the JWT in the Authorization header.
	BearerPrefix = "Bearer "

	// UserIDHeaderName is set on requests forwarded to downstream services
	// once the bearer token has been validated.
	UserIDHeaderName = "X-User-Id"

	// DefaultRole is assigned to every newly registered user.
	DefaultRole = "user"
)
