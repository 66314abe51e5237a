// Package totpx computes RFC 6238 one-time codes for stored TOTP secrets.
package totpx

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/lockbox/internal/common"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// Period is the length of one time slice.
	Period = 30 * time.Second
	// Digits is the number of digits in a code.
	Digits = 6
)

var opts = totp.ValidateOpts{
	Period:    uint(Period / time.Second),
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// Code is a one-time code together with the time left in its slice.
type Code struct {
	Value     string
	Remaining time.Duration
}

// Generate computes the code for the base32 secret at the given instant.
//
// Secrets are accepted in upper or lower case, with or without padding and
// surrounding whitespace. An empty or non-base32 secret yields
// common.ErrBadTotpSecret.
func Generate(secret string, at time.Time) (Code, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return Code{}, common.ErrBadTotpSecret
	}

	value, err := totp.GenerateCodeCustom(secret, at, opts)
	if err != nil {
		return Code{}, fmt.Errorf("%w: %v", common.ErrBadTotpSecret, err)
	}

	return Code{Value: value, Remaining: Remaining(at)}, nil
}

// slice returns the index of the time slice containing at.
func slice(at time.Time) int64 {
	return at.Unix() / int64(Period/time.Second)
}

// Remaining returns how long the slice containing at still lasts, in whole
// seconds (1..30).
func Remaining(at time.Time) time.Duration {
	end := time.Unix((slice(at)+1)*int64(Period/time.Second), 0)
	return end.Sub(at.Truncate(time.Second))
}
