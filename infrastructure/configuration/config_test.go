package configuration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestConfiguration tests the configuration package basic functionality
func TestConfiguration(t *testing.T) {
	t.Run("configuration_struct_exists", func(t *testing.T) {
		require.NotNil(t, &C, "Configuration should not be nil")
		require.NotNil(t, &C.App, "App configuration should exist")
		require.NotNil(t, &C.SocialAPI, "Social API configuration should exist")
	})

	t.Run("configuration_defaults_applied", func(t *testing.T) {
		// init() already ran; defaults must hold even without a config file.
		require.NotZero(t, C.App.Port, "a listen port should always resolve")
		require.NotEmpty(t, C.SocialAPI.BaseURL, "the social API base URL should have a default")
		require.NotEmpty(t, C.SocialAPI.CookieName, "the session cookie name should have a default")
		require.NotZero(t, C.SocialAPI.TimeoutSec, "the request timeout should have a default")
	})
}
