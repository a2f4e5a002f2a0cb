package config

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	values, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":8080", values.RunAddr)
	assert.Equal(t, "http://localhost:8080", values.ShortURLBase)
	assert.Equal(t, "info", values.LogLevel)
	assert.Equal(t, "tinyapp_session", values.AuthCookieName)
	assert.Empty(t, values.TrustedSubnet)
}

func TestDefaultSigningKeyIsDecodable(t *testing.T) {
	values, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	key, err := base64.URLEncoding.DecodeString(values.AuthCookieSigningSecretKey)
	require.NoError(t, err)
	assert.NotEmpty(t, key)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":3000")
	t.Setenv("BASE_URL", "http://env-config.example")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("AUTH_COOKIE_NAME", "session_from_env")

	values, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":3000", values.RunAddr)
	assert.Equal(t, "http://env-config.example", values.ShortURLBase)
	assert.Equal(t, "debug", values.LogLevel)
	assert.Equal(t, "session_from_env", values.AuthCookieName)
}

func TestValidation(t *testing.T) {
	t.Run("unknown log level is rejected", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "chatty")

		_, err := New(WithDisableFlagsParsing(true))
		assert.Error(t, err)
	})

	t.Run("malformed run address is rejected", func(t *testing.T) {
		t.Setenv("SERVER_ADDRESS", "not an address")

		_, err := New(WithDisableFlagsParsing(true))
		assert.Error(t, err)
	})
}
