package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CredentialInfo is what can be read from a credential without the
// signing key. None of it is verified.
type CredentialInfo struct {
	Subject   string
	ExpiresAt time.Time
	// Opaque is set when the credential is not a JWT.
	Opaque bool
}

// Expired reports whether the credential carries an expiry in the past.
func (c CredentialInfo) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// InspectCredential decodes the claims of a JWT credential without
// verifying its signature. Non-JWT credentials yield an Opaque result.
func InspectCredential(credential string) CredentialInfo {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return CredentialInfo{Opaque: true}
	}

	var info CredentialInfo
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info
}
