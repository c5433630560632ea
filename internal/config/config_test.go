package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outletkit/outletkit/internal/types"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := GetDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, types.ModeLocal, cfg.Deployment.Mode)
	assert.Equal(t, "outletkit-organizations", cfg.Storage.OrganizationsDBName)
	assert.Equal(t, "outletkit-data", cfg.Storage.RecordsDBName)
	assert.Equal(t, 1, cfg.Storage.OrganizationsSchemaVersion)
}

func TestValidateRejectsMissingStorageDir(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Storage.Dir = ""
	assert.Error(t, cfg.Validate())
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("OUTLETKIT_STORAGE_DIR", "/tmp/outletkit-test")
	t.Setenv("OUTLETKIT_LOGGING_LEVEL", "debug")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/outletkit-test", cfg.Storage.Dir)
	assert.Equal(t, types.LogLevelDebug, cfg.Logging.Level)
}
