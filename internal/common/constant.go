// Package common contains shared constants and sentinel errors used across
// biblio client components.
package common

// CredentialKey is the metadata key under which the raw credential string
// is persisted between process starts.
const CredentialKey = "token"

// Header names set on every outbound request.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)

// Routes known to the client. AnonymousEntryRoute is where an expired
// session lands; AuthenticatedHomeRoute is where a signed-in user lands.
const (
	AnonymousEntryRoute    = "/"
	SignupRoute            = "/signup"
	AuthenticatedHomeRoute = "/home"
	DashboardRoute         = "/dashboard"
)
