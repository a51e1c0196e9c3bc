package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomString returns n random bytes as unpadded base64url, suitable for
// probe keys and nonces.
func RandomString(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
