package auth

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the signed payload stored in the session cookie. The
// registered jti carries the server-side session identifier.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionID returns the identifier of the server-side session record.
func (c SessionClaims) SessionID() string {
	return c.ID
}
