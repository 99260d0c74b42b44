// Package jwt implements creation, signing, parsing and validation of
// JSON Web Tokens in JWS compact serialization as defined in RFC 7519
// (https://datatracker.ietf.org/doc/html/rfc7519).
package jwt
