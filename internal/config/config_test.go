package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// enDirVacio keeps a developer's .env out of the test.
func enDirVacio(t *testing.T) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	enDirVacio(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "03:00", cfg.VencimientoHora)
	assert.Equal(t, "America/Sao_Paulo", cfg.Location().String())
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL())
	assert.False(t, cfg.Production())
}

func TestLoad_Entorno(t *testing.T) {
	enDirVacio(t)
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("CORS_ORIGINS", "https://pdv.example.com, ,https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Production())
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, []string{"https://pdv.example.com", "https://admin.example.com"}, cfg.Origins())
}

func TestLoad_Invalida(t *testing.T) {
	enDirVacio(t)
	t.Setenv("TIMEZONE", "Marte/Olympus")
	t.Setenv("VENCIMIENTO_HORA", "25:99")
	t.Setenv("WORKER_POOL_SIZE", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TIMEZONE")
	assert.Contains(t, err.Error(), "VENCIMIENTO_HORA")
	assert.Contains(t, err.Error(), "WORKER_POOL_SIZE")
}

func TestLocation_SinLoad(t *testing.T) {
	assert.Equal(t, time.UTC, (&Config{}).Location())
}
