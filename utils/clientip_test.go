package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/devis", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("X-Real-IP", "10.0.0.1")

	ip := ClientIP(req)
	assert.NotNil(t, ip)
	assert.Equal(t, "203.0.113.7", *ip, "first hop of X-Forwarded-For wins")
}

func TestClientIPFallsBackToRealIP(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/devis", nil)
	req.Header.Set("X-Real-IP", "203.0.113.9")

	ip := ClientIP(req)
	assert.NotNil(t, ip)
	assert.Equal(t, "203.0.113.9", *ip)
}

func TestClientIPNilWithoutHeaders(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/devis", nil)
	assert.Nil(t, ClientIP(req))
}

func TestClientIPTrimsWhitespace(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/devis", nil)
	req.Header.Set("X-Forwarded-For", "  203.0.113.7 , 10.0.0.1")

	ip := ClientIP(req)
	assert.NotNil(t, ip)
	assert.Equal(t, "203.0.113.7", *ip)
}
