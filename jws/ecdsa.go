package jws

import (
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"
	"hash"
	"math/big"
)

// ecdsaStrategy implements ES256/384/512 as defined in RFC 7518 section
// 3.4. The signature is the fixed-width raw concatenation r||s, never the
// ASN.1/DER form ecdsa.Sign's big.Int pair would otherwise suggest. key is
// PEM-encoded: a private key to sign, a public key to verify.
type ecdsaStrategy struct {
	curveBits int
	hashFunc  func() hash.Hash
}

func (s ecdsaStrategy) sign(key, signingInput []byte) ([]byte, error) {
	priv, err := ParseECPrivateKeyPEM(key)
	if err != nil {
		return nil, err
	}
	return SignECDSA(priv, s.curveBits, s.hashFunc, signingInput)
}

func (s ecdsaStrategy) verify(key, signingInput, signature []byte) error {
	pub, err := ParseECPublicKeyPEM(key)
	if err != nil {
		return err
	}
	return VerifyECDSA(pub, s.curveBits, s.hashFunc, signingInput, signature)
}

func componentSize(curveBits int) int {
	n := curveBits / 8
	if curveBits%8 > 0 {
		n++
	}
	return n
}

// SignECDSA signs signingInput with privateKey, hashing with hashFunc and
// serializing the signature as fixed-width r||s for the given curve bit
// size. It is the typed entry point for callers that already hold a
// parsed *ecdsa.PrivateKey and want to avoid PEM-decoding on every call.
func SignECDSA(privateKey *ecdsa.PrivateKey, curveBits int, hashFunc func() hash.Hash, signingInput []byte) ([]byte, error) {
	if privateKey.Curve.Params().BitSize != curveBits {
		return nil, fmt.Errorf("%w: key curve bit size %d does not match algorithm", ErrInvalid, privateKey.Curve.Params().BitSize)
	}

	h := hashFunc()
	h.Write(signingInput)
	r, s, err := ecdsa.Sign(rand.Reader, privateKey, h.Sum(nil))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, err)
	}

	n := componentSize(curveBits)
	out := make([]byte, 2*n)
	r.FillBytes(out[:n])
	s.FillBytes(out[n:])
	return out, nil
}

// VerifyECDSA verifies a fixed-width r||s signature over signingInput
// against publicKey.
func VerifyECDSA(publicKey *ecdsa.PublicKey, curveBits int, hashFunc func() hash.Hash, signingInput, signature []byte) error {
	if publicKey.Curve.Params().BitSize != curveBits {
		return fmt.Errorf("%w: key curve bit size %d does not match algorithm", ErrInvalid, publicKey.Curve.Params().BitSize)
	}

	n := componentSize(curveBits)
	if len(signature) != 2*n {
		return fmt.Errorf("%w: signature has unexpected length %d", ErrInvalid, len(signature))
	}

	r := new(big.Int).SetBytes(signature[:n])
	s := new(big.Int).SetBytes(signature[n:])

	h := hashFunc()
	h.Write(signingInput)

	if !ecdsa.Verify(publicKey, h.Sum(nil), r, s) {
		return fmt.Errorf("%w: signature mismatch", ErrInvalid)
	}
	return nil
}
