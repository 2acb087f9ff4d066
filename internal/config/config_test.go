package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, "game-events", cfg.Kafka.Topic)
	assert.Equal(t, "assignment-engine", cfg.Kafka.GroupID)
	assert.Equal(t, 15*time.Minute, cfg.Reconcile.Interval)
	assert.True(t, cfg.Reconcile.Enabled)
	assert.Equal(t, 2*time.Hour, cfg.Assignment.DefaultGameDuration)
	assert.Equal(t, QualificationPolicyWarn, cfg.Assignment.QualificationPolicy)
	assert.Equal(t, "INDIVIDUAL", cfg.Assignment.DefaultPaymentModel)
	assert.Equal(t, 5*time.Minute, cfg.Assignment.ScheduleCacheTTL)
	assert.Equal(t, "allow_all", cfg.Authz.Mode)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
postgres:
  host: db.internal
  password: ${TEST_PG_PASSWORD}
assignment:
  qualification_policy: block
authz:
  mode: org_match
  denied_actions:
    - game:delete
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("TEST_PG_PASSWORD", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, "secret", cfg.Postgres.Password)
	assert.Equal(t, QualificationPolicyBlock, cfg.Assignment.QualificationPolicy)
	assert.Equal(t, "org_match", cfg.Authz.Mode)
	assert.Equal(t, []string{"game:delete"}, cfg.Authz.DeniedActions)

	// Unset fields still get defaults
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "game-events", cfg.Kafka.Topic)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConnectionString(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "assignments",
		Password: "pw",
		Database: "assignments",
	}
	assert.Equal(t,
		"postgres://assignments:pw@localhost:5432/assignments?sslmode=disable",
		cfg.ConnectionString(),
	)
}
