package common

// AuthorizationHeaderName is the HTTP header carrying the session token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside the Authorization header.
const BearerPrefix = "Bearer "

// Roles carried in token claims.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
