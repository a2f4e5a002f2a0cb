package ipchecker

import (
	"net"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	t.Run("addresses inside the subnet pass", func(t *testing.T) {
		checker, err := New("192.168.1.0/24")
		require.NoError(t, err)

		assert.True(t, checker.Check(net.ParseIP("192.168.1.42")))
		assert.False(t, checker.Check(net.ParseIP("10.0.0.1")))
	})

	t.Run("an empty subnet rejects everything", func(t *testing.T) {
		checker, err := New("")
		require.NoError(t, err)

		assert.False(t, checker.Check(net.ParseIP("192.168.1.42")))
	})

	t.Run("a malformed CIDR is rejected at construction", func(t *testing.T) {
		_, err := New("not-a-cidr")
		assert.Error(t, err)
	})
}

func TestGetClientIP(t *testing.T) {
	checker, err := New("192.168.1.0/24")
	require.NoError(t, err)

	t.Run("X-Real-IP wins", func(t *testing.T) {
		request := httptest.NewRequest("GET", "/", nil)
		request.Header.Set("X-Real-IP", "192.168.1.5")
		request.Header.Set("X-Forwarded-For", "10.0.0.1")

		ip, err := checker.GetClientIP(request)
		require.NoError(t, err)
		assert.Equal(t, "192.168.1.5", ip.String())
	})

	t.Run("the first X-Forwarded-For entry is used", func(t *testing.T) {
		request := httptest.NewRequest("GET", "/", nil)
		request.Header.Set("X-Forwarded-For", "192.168.1.7, 10.0.0.1")

		ip, err := checker.GetClientIP(request)
		require.NoError(t, err)
		assert.Equal(t, "192.168.1.7", ip.String())
	})

	t.Run("RemoteAddr is the fallback", func(t *testing.T) {
		request := httptest.NewRequest("GET", "/", nil)
		request.RemoteAddr = "192.168.1.9:54321"

		ip, err := checker.GetClientIP(request)
		require.NoError(t, err)
		assert.Equal(t, "192.168.1.9", ip.String())
	})
}
