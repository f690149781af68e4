package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"time"
)

// SignatureHeader carries the base64 HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-Signature"

// WebhookPayload is the payment provider's notification.
type WebhookPayload struct {
	Event  string `json:"event"`
	Object struct {
		ID        string            `json:"id"`
		NextDueAt *time.Time        `json:"next_due_at,omitempty"`
		Metadata  map[string]string `json:"metadata"`
	} `json:"object"`
}

// TenantID returns the tenant the provider attached to the payment.
func (p WebhookPayload) TenantID() string {
	return p.Object.Metadata["tenant_id"]
}

// Sign computes the signature of body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook signature in constant time. An empty secret accepts nothing.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(secret, body)), []byte(signature))
}
