package repository

import (
	"encoding/base64"
	"errors"
	"unicode/utf8"
)

var errMalformedKey = errors.New("stored key is not valid UTF-8")

// obfuscateKey hides an API key from casual inspection of the database. It
// is base64 of the UTF-8 bytes and gives no protection against anyone who
// can read the file.
func obfuscateKey(key string) string {
	return base64.StdEncoding.EncodeToString([]byte(key))
}

func revealKey(stored string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", errMalformedKey
	}
	return string(raw), nil
}
