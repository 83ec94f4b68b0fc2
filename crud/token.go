package crud

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

// AccessTokenBytes is the number of random bytes in a generated access token.
const AccessTokenBytes = 32

// bytes generates n random bytes or returns an error. It uses the
// crypto/rand package, so it can be used for secrets like access tokens.
func bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// bytesToString generates a byte slice of size nBytes and then returns a
// string that is the base64 URL encoded version of that byte slice.
func bytesToString(nBytes int) (string, error) {
	b, err := bytes(nBytes)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// newEditToken returns a fresh opaque edit token for a thought.
func newEditToken() string {
	return uuid.NewString()
}
