package test

import (
	"math/rand/v2"
	"strings"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomString returns n pseudo-random alphanumeric characters, at least one.
func RandomString(n int) string {
	if n <= 0 {
		n = 1
	}
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(alphanumeric[rand.IntN(len(alphanumeric))])
	}
	return b.String()
}

// RandomEmail returns a lower-case donor address under example.com.
func RandomEmail() string {
	return strings.ToLower(RandomString(12)) + "@example.com"
}
