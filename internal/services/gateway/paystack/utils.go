package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// Hmac512 is a function to generate HMAC512 hash.
func Hmac512(body, key []byte) string {
	hash := hmac.New(sha512.New, key)
	hash.Write(body)
	return hex.EncodeToString(hash.Sum(nil))
}

func hmacEqual(computed, transported string) bool {
	return subtle.ConstantTimeCompare([]byte(computed), []byte(transported)) == 1
}
