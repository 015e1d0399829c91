package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 20, cfg.PaginaTamanhoPadrao)
	assert.Equal(t, 60, cfg.AlertaIntervaloMinutos)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("JWT_SECRET", "segredo")
	t.Setenv("PAGINA_TAMANHO_PADRAO", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, "segredo", cfg.JWTSecret)
	assert.Equal(t, 50, cfg.PaginaTamanhoPadrao)
}

func TestDestinatariosAlerta(t *testing.T) {
	cfg := &Config{AlertaEmailDestino: " estoque@example.com, ,compras@example.com "}
	assert.Equal(t, []string{"estoque@example.com", "compras@example.com"}, cfg.DestinatariosAlerta())

	assert.Empty(t, (&Config{}).DestinatariosAlerta())
}
