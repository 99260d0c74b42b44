// Package b64url implements the base64url encoding used throughout the
// JWS compact serialization as defined in RFC 7515 section 2
// (https://datatracker.ietf.org/doc/html/rfc7515#section-2).
package b64url

import "encoding/base64"

var (
	encNoPad = base64.URLEncoding.WithPadding(base64.NoPadding)
	encPad   = base64.URLEncoding
)

// Encode encodes data using base64url with no padding. Output never
// contains '=', '+' or '/'. Encoding the empty slice returns "".
func Encode(data []byte) string {
	return encNoPad.EncodeToString(data)
}

// Decode decodes a base64url encoded string. Padding is optional: text
// that isn't already a multiple of four characters is padded with '='
// before decoding, so unpadded (canonical) and padded input both work.
func Decode(text string) ([]byte, error) {
	if n := len(text) % 4; n != 0 {
		text += "===="[:4-n]
	}
	return encPad.DecodeString(text)
}
