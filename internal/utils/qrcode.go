package utils

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// The QR clock code is a TOTP over a per-restaurant secret, rendered on the
// break-room display and scanned by the staff app. A 30s period with one
// step of skew tolerates display/phone clock drift.

func GenerateQRSecret(restaurantName string) (secret string, otpauthURL string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "PosResto",
		AccountName: restaurantName,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// CurrentQRCode returns the code the display should show right now.
func CurrentQRCode(secret string) (string, error) {
	return totp.GenerateCode(secret, time.Now())
}

func VerifyQRCode(code, secret string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return ok
}
