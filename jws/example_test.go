package jws_test

import (
	"encoding/base64"
	"fmt"

	"github.com/halimath/cjwt/jws"
)

func Example() {
	signingInput := []byte("hello, world")

	sig, err := jws.Sign(jws.HS256, []byte("secret"), signingInput)
	if err != nil {
		panic(err)
	}

	fmt.Println(base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(sig))

	if err := jws.Verify(jws.HS256, []byte("secret"), signingInput, sig); err != nil {
		panic(err)
	}

	fmt.Println("signature ok")

	// Output:
	// cLVE7E3Y71-ng0_laMdt9fPPdbb93vE9eeJCjoda21s
	// signature ok
}
