package jwt

import "time"

const (
	// The "iss" (issuer) claim identifies the principal that issued the
	// JWT. The "iss" value is a case-sensitive string containing a
	// StringOrURI value. Use of this claim is OPTIONAL.
	// (https://datatracker.ietf.org/doc/html/rfc7519#section-4.1.1)
	ClaimIssuer = "iss"

	// The "sub" (subject) claim identifies the principal that is the
	// subject of the JWT. The claims in a JWT are normally statements
	// about the subject. Use of this claim is OPTIONAL.
	// (https://datatracker.ietf.org/doc/html/rfc7519#section-4.1.2)
	ClaimSubject = "sub"

	// The "aud" (audience) claim identifies the recipients that the JWT is
	// intended for. In the general case, the "aud" value is an array of
	// case-sensitive strings; when the JWT has one audience it MAY be a
	// single string. Use of this claim is OPTIONAL.
	// (https://datatracker.ietf.org/doc/html/rfc7519#section-4.1.3)
	ClaimAudience = "aud"

	// The "exp" (expiration time) claim identifies the expiration time on
	// or after which the JWT MUST NOT be accepted for processing. Its
	// value MUST be a number containing a NumericDate value. Use of this
	// claim is OPTIONAL.
	// (https://datatracker.ietf.org/doc/html/rfc7519#section-4.1.4)
	ClaimExpirationTime = "exp"

	// The "nbf" (not before) claim identifies the time before which the
	// JWT MUST NOT be accepted for processing. Its value MUST be a number
	// containing a NumericDate value. Use of this claim is OPTIONAL.
	// (https://datatracker.ietf.org/doc/html/rfc7519#section-4.1.5)
	ClaimNotBefore = "nbf"

	// The "iat" (issued at) claim identifies the time at which the JWT was
	// issued. Its value MUST be a number containing a NumericDate value.
	// Use of this claim is OPTIONAL.
	// (https://datatracker.ietf.org/doc/html/rfc7519#section-4.1.6)
	ClaimIssuedAt = "iat"

	// The "jti" (JWT ID) claim provides a unique identifier for the JWT.
	// The "jti" value is a case-sensitive string. Use of this claim is
	// OPTIONAL.
	// (https://datatracker.ietf.org/doc/html/rfc7519#section-4.1.7)
	ClaimID = "jti"
)

// Issuer returns the "iss" grant.
func (t *Token) Issuer() (string, error) {
	return t.Grant(ClaimIssuer)
}

// Subject returns the "sub" grant.
func (t *Token) Subject() (string, error) {
	return t.Grant(ClaimSubject)
}

// ID returns the "jti" grant.
func (t *Token) ID() (string, error) {
	return t.Grant(ClaimID)
}

// ExpirationTime returns the "exp" grant as a time.Time value.
func (t *Token) ExpirationTime() (time.Time, error) {
	return t.grantTime(ClaimExpirationTime)
}

// NotBefore returns the "nbf" grant as a time.Time value.
func (t *Token) NotBefore() (time.Time, error) {
	return t.grantTime(ClaimNotBefore)
}

// IssuedAt returns the "iat" grant as a time.Time value.
func (t *Token) IssuedAt() (time.Time, error) {
	return t.grantTime(ClaimIssuedAt)
}

func (t *Token) grantTime(name string) (time.Time, error) {
	v, err := t.GrantInt(name)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(v, 0), nil
}
