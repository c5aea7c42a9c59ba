package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

var ErrNotConfigured = errors.New("payment gateway credentials are not configured")

type Config struct {
	KeyID     string
	KeySecret string
}

// Client wraps the Razorpay API for order creation and performs the
// callback signature check in-process.
type Client struct {
	keyID     string
	keySecret string
	api       *razorpay.Client
}

func New(cfg Config) *Client {
	c := &Client{keyID: cfg.KeyID, keySecret: cfg.KeySecret}
	if cfg.KeyID != "" && cfg.KeySecret != "" {
		c.api = razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	}
	return c
}

// PublicKey is the key id shared with the checkout front-end.
func (c *Client) PublicKey() string {
	return c.keyID
}

// CreateOrder creates a gateway order for an integer minor-unit amount and
// returns the gateway order id.
func (c *Client) CreateOrder(amountMinor int64, currency, receipt string, notes map[string]string) (string, error) {
	if c.api == nil {
		return "", ErrNotConfigured
	}

	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	order, err := c.api.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create gateway order: %w", err)
	}

	id, ok := order["id"].(string)
	if !ok || id == "" {
		return "", errors.New("gateway response is missing the order id")
	}
	return id, nil
}

// VerifySignature checks a payment callback against
// HMAC-SHA256(secret, orderId + "|" + paymentId) as a hex digest.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return expected == signature
}
