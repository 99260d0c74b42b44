package jws

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
)

func rsaTestKeyPEM(t *testing.T) (privPEM, pubPEM []byte) {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}

	privPEM = pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})

	pubBytes, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	pubPEM = pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubBytes,
	})

	return privPEM, pubPEM
}

func TestRS(t *testing.T) {
	privPEM, pubPEM := rsaTestKeyPEM(t)
	data := []byte("hello, world")

	for _, alg := range []Algorithm{RS256, RS384, RS512} {
		t.Run(string(alg), func(t *testing.T) {
			sig, err := Sign(alg, privPEM, data)
			if err != nil {
				t.Fatal(err)
			}

			if len(sig) != 256 {
				t.Errorf("unexpected signature length: %d", len(sig))
			}

			if err := Verify(alg, pubPEM, data, sig); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestRSTamperedInput(t *testing.T) {
	privPEM, pubPEM := rsaTestKeyPEM(t)

	sig, err := Sign(RS256, privPEM, []byte("hello, world"))
	if err != nil {
		t.Fatal(err)
	}

	if err := Verify(RS256, pubPEM, []byte("hello, world!"), sig); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid but got %v", err)
	}
}

func TestRSMalformedKey(t *testing.T) {
	if _, err := Sign(RS256, []byte("not a PEM key"), []byte("data")); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid but got %v", err)
	}
}
