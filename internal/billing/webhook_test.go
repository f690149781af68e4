package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"payment.confirmed"}`)
	sig := Sign("whsec", body)

	assert.True(t, VerifySignature("whsec", body, sig))
	assert.False(t, VerifySignature("other", body, sig))
	assert.False(t, VerifySignature("whsec", []byte(`{"event":"payment.missed"}`), sig))
	assert.False(t, VerifySignature("whsec", body, ""))
	assert.False(t, VerifySignature("", body, Sign("", body)))
}

func TestWebhookPayloadTenantID(t *testing.T) {
	var p WebhookPayload
	assert.Empty(t, p.TenantID())
	p.Object.Metadata = map[string]string{"tenant_id": "t1"}
	assert.Equal(t, "t1", p.TenantID())
}
