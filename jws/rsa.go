package jws

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"hash"
)

var (
	cryptoSHA256 = crypto.SHA256
	cryptoSHA384 = crypto.SHA384
	cryptoSHA512 = crypto.SHA512
)

// rsaStrategy implements RS256/384/512 (RSASSA-PKCS1-v1_5) as defined in
// RFC 7518 section 3.3. key is PEM-encoded: a private key to sign, a
// public key to verify.
type rsaStrategy struct {
	hash     crypto.Hash
	hashFunc func() hash.Hash
}

func (s rsaStrategy) sign(key, signingInput []byte) ([]byte, error) {
	priv, err := ParseRSAPrivateKeyPEM(key)
	if err != nil {
		return nil, err
	}
	return SignRSA(priv, s.hash, s.hashFunc, signingInput)
}

func (s rsaStrategy) verify(key, signingInput, signature []byte) error {
	pub, err := ParseRSAPublicKeyPEM(key)
	if err != nil {
		return err
	}
	return VerifyRSA(pub, s.hash, s.hashFunc, signingInput, signature)
}

// SignRSA signs signingInput with privateKey, hashing with hashFunc and
// tagging the PKCS1v15 signature with hash. It is the typed entry point
// for callers that already hold a parsed *rsa.PrivateKey and want to avoid
// PEM-decoding on every call.
func SignRSA(privateKey *rsa.PrivateKey, hash crypto.Hash, hashFunc func() hash.Hash, signingInput []byte) ([]byte, error) {
	h := hashFunc()
	h.Write(signingInput)
	sig, err := rsa.SignPKCS1v15(rand.Reader, privateKey, hash, h.Sum(nil))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	return sig, nil
}

// VerifyRSA verifies signature over signingInput against publicKey.
func VerifyRSA(publicKey *rsa.PublicKey, hash crypto.Hash, hashFunc func() hash.Hash, signingInput, signature []byte) error {
	h := hashFunc()
	h.Write(signingInput)
	if err := rsa.VerifyPKCS1v15(publicKey, hash, h.Sum(nil), signature); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	return nil
}
