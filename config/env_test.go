package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, NotifyPostgres, c.NotifySource)
	assert.Equal(t, "housecup_changes", c.NotifyChannel)
	assert.Equal(t, 10*time.Second, c.ReconcileInterval)
	assert.Equal(t, ":8000", c.HTTPAddr)
	assert.True(t, c.AllowForceSeal)
	assert.False(t, c.DiscordEnabled())
	assert.Contains(t, c.DSN(), "dbname=postgres")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NOTIFY_SOURCE", "kafka")
	t.Setenv("KAFKA_BROKER", "kafka:9092")
	t.Setenv("RECONCILE_INTERVAL", "1m")
	t.Setenv("ALLOW_FORCE_SEAL", "false")
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, NotifyKafka, c.NotifySource)
	assert.Equal(t, time.Minute, c.ReconcileInterval)
	assert.False(t, c.AllowForceSeal)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	t.Setenv("NOTIFY_SOURCE", "kafka")
	t.Setenv("KAFKA_BROKER", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("NOTIFY_SOURCE", "carrier-pigeon")
	_, err = Load()
	assert.Error(t, err)
}

func TestProductionRequiresJWTSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	_, err = Load()
	assert.NoError(t, err)
}
