package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/web3-connect/pkg/web3"
)

func TestLoadServerConfigFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, os.WriteFile(file, []byte(`
logging: debug
apiAddr: ":8080"
web3:
  networkID: 4
  mode: production
  injected:
    address: http://localhost:1248
    headers:
      X-Api-Key: secret
`), 0o600))

	config, err := loadServerConfigFromFile(file)
	require.NoError(t, err)

	assert.Equal(t, "debug", config.LoggingLevel)
	assert.Equal(t, ":9090", config.MetricsAddr)
	assert.Equal(t, 10*time.Second, config.ShutdownTimeout)
	require.NotNil(t, config.APIAddr)
	assert.Equal(t, ":8080", *config.APIAddr)

	require.NotNil(t, config.Web3.NetworkID)
	assert.Equal(t, 4, *config.Web3.NetworkID)
	assert.Equal(t, web3.ModeProduction, config.Web3.Mode)
	assert.Equal(t, "infura.io", config.Web3.RemoteHost)
	assert.Equal(t, "REACT_APP_", config.Web3.EnvPrefix)
	require.NotNil(t, config.Web3.Injected)
	assert.Equal(t, "http://localhost:1248", config.Web3.Injected.Address)
	assert.Equal(t, "secret", config.Web3.Injected.Headers["X-Api-Key"])
	assert.Nil(t, config.Web3.Legacy)

	assert.NoError(t, config.Validate())
}

func TestLoadServerConfigFromFile_Missing(t *testing.T) {
	_, err := loadServerConfigFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
