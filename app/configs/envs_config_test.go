package configs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEnvValidateRequired(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_NAME", "catalog")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("APP_PORT", ":8080")
	t.Setenv("APP_AUTH_KEY", "auth-key")
	t.Setenv("APP_ENC_KEY", "enc-key")

	env := LoadEnv()
	require.NoError(t, env.ValidateRequired())
	require.Equal(t, ":8080", env.Port)
	require.Equal(t, "catalog", env.DBName)

	env.DBName = ""
	err := env.ValidateRequired()
	require.Error(t, err)
	require.Contains(t, err.Error(), "DB_NAME")
}
