package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

const referralCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReferralCode returns 8 random uppercase alphanumeric
// characters. Uniqueness is the caller's problem (retry on collision).
func GenerateReferralCode() string {
	b := make([]byte, 8)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referralCodeChars))))
		if err != nil {
			panic(err) // crypto/rand failure is not recoverable
		}
		b[i] = referralCodeChars[n.Int64()]
	}
	return string(b)
}

// GenerateOrderCode embeds the user id and a timestamp plus a random
// salt, so two checkouts by the same user within the same second
// cannot collide.
func GenerateOrderCode(userID uint) string {
	salt := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("VM-%d-%d-%s", userID, time.Now().Unix(), salt)
}

// GenerateRandomNr returns the 6-digit nonce Shopier expects in the
// signed payload.
func GenerateRandomNr() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// GenerateRandomPassword returns a throwaway plaintext for guest
// accounts. It is bcrypt-hashed and never shown to anyone, so the
// account stays unusable until a password reset.
func GenerateRandomPassword() string {
	return uuid.NewString()
}
