// Package randompkg provides functionality for generating random test data.
package randompkg

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// Int64Between generates a random integer between min and max inclusive.
func Int64Between(min, max int64) int64 {
	return min + Intn(int(max-min+1))
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder

	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// Merchant generates a random merchant name.
func Merchant() string {
	return String(8)
}

// Amount generates a random transaction amount between 1 and max.
func Amount(max int64) int64 {
	return Int64Between(1, max)
}

// Time generates a random millisecond-precision UTC time in 2019.
func Time() time.Time {
	start := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	return start.Add(time.Duration(Intn(364*24*60*60*1000)) * time.Millisecond)
}
