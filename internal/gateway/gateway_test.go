package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
)

func signedWith(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureMatch(t *testing.T) {
	c := New(Config{KeyID: "rzp_test_key", KeySecret: "topsecret"})

	sig := signedWith("topsecret", "order_123", "pay_456")
	if !c.VerifySignature("order_123", "pay_456", sig) {
		t.Fatal("valid signature rejected")
	}
}

func TestVerifySignatureMismatch(t *testing.T) {
	c := New(Config{KeyID: "rzp_test_key", KeySecret: "topsecret"})

	cases := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
	}{
		{"wrong secret", "order_123", "pay_456", signedWith("othersecret", "order_123", "pay_456")},
		{"swapped ids", "order_123", "pay_456", signedWith("topsecret", "pay_456", "order_123")},
		{"empty signature", "order_123", "pay_456", ""},
		{"garbage", "order_123", "pay_456", "deadbeef"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if c.VerifySignature(tc.orderID, tc.paymentID, tc.signature) {
				t.Fatal("invalid signature accepted")
			}
		})
	}
}

func TestVerifySignatureSensitiveToPayload(t *testing.T) {
	c := New(Config{KeySecret: "topsecret"})

	sig := signedWith("topsecret", "order_123", "pay_456")
	if c.VerifySignature("order_124", "pay_456", sig) {
		t.Fatal("signature for a different order accepted")
	}
}

func TestCreateOrderWithoutCredentials(t *testing.T) {
	c := New(Config{})

	_, err := c.CreateOrder(50000, "INR", "rcpt_1", nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestPublicKey(t *testing.T) {
	c := New(Config{KeyID: "rzp_test_key", KeySecret: "topsecret"})
	if c.PublicKey() != "rzp_test_key" {
		t.Fatalf("PublicKey() = %q", c.PublicKey())
	}
}
