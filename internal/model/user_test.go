package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserSettingsRoundTrip(t *testing.T) {
	u := &User{
		Settings: JSONMap{"theme": "dark", "notifications": true},
	}
	require.NoError(t, u.EncodeSettings())
	require.NotEmpty(t, u.SettingsJSON)

	scanned := &User{SettingsJSON: u.SettingsJSON}
	require.NoError(t, scanned.DecodeSettings())

	assert.Equal(t, "dark", scanned.Settings["theme"])
	assert.Equal(t, true, scanned.Settings["notifications"])
}

func TestUserDecodeSettingsEmptyColumn(t *testing.T) {
	u := &User{SettingsJSON: ""}
	require.NoError(t, u.DecodeSettings())
	assert.Nil(t, u.Settings)
}

func TestUserDecodeSettingsMalformed(t *testing.T) {
	u := &User{SettingsJSON: "{not json"}
	assert.Error(t, u.DecodeSettings())
}
