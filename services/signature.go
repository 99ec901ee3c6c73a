package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// GenerateSignature signs data for Shopier: HMAC-SHA256 over the raw
// string, base64-encoded.
func GenerateSignature(data, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// CheckoutSignatureData is the string Shopier signs on checkout:
// nonce + order code + price with two decimals + currency code.
func CheckoutSignatureData(randomNr, orderCode string, amount float64, currency int) string {
	return fmt.Sprintf("%s%s%.2f%d", randomNr, orderCode, amount, currency)
}

// CallbackSignatureData is the string Shopier signs on the settlement
// callback: nonce + order code only.
func CallbackSignatureData(randomNr, orderCode string) string {
	return randomNr + orderCode
}

// VerifySignature compares the received signature against the expected
// one on the decoded bytes, in constant time. If either side is not
// valid base64 the raw strings are compared instead, still in constant
// time. This is the only trust boundary on the callback endpoint.
func VerifySignature(received, expected string) bool {
	receivedBytes, errR := base64.StdEncoding.DecodeString(received)
	expectedBytes, errE := base64.StdEncoding.DecodeString(expected)
	if errR != nil || errE != nil {
		return subtle.ConstantTimeCompare([]byte(received), []byte(expected)) == 1
	}
	return subtle.ConstantTimeCompare(receivedBytes, expectedBytes) == 1
}
