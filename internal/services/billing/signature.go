package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrInvalidSignature indicates a payment or webhook signature did not match.
var ErrInvalidSignature = errors.New("invalid signature")

// PaymentSignature computes the hex HMAC-SHA256 signature Razorpay sends
// after a successful subscription payment. The signed message is the payment
// id and the subscription id joined by a pipe.
func PaymentSignature(paymentID, subscriptionID, secret string) string {
	return signHex([]byte(paymentID+"|"+subscriptionID), secret)
}

// VerifyPaymentSignature checks a checkout payment signature in constant
// time.
func VerifyPaymentSignature(paymentID, subscriptionID, signature, secret string) bool {
	expected := PaymentSignature(paymentID, subscriptionID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// WebhookSignature computes the hex HMAC-SHA256 signature of a raw webhook
// body.
func WebhookSignature(body []byte, secret string) string {
	return signHex(body, secret)
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against the
// raw request body in constant time.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	expected := WebhookSignature(body, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func signHex(message []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}
