package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/selendra/did-wallet/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintServiceEnv(t *testing.T) {
	config := config.DefaultServiceConfigFromEnv()
	_, err := json.MarshalIndent(config, "", "  ")

	if err != nil {
		t.Fatal(err)
	}
}

func TestDefaultWalletParameters(t *testing.T) {
	cfg := config.DefaultServiceConfigFromEnv()

	assert.Equal(t, config.DefaultScryptN, cfg.Vault.ScryptN)
	assert.Equal(t, uint16(config.DefaultSS58Prefix), cfg.Chain.SS58Prefix)
	assert.Contains(t, cfg.Session.PublicRoutes, cfg.Session.CreateWalletRoute)
	assert.Contains(t, cfg.Session.PublicRoutes, "/profile")
}

func TestApplyConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wallet.toml")

	content := `
[storage]
backend = "badger"
path = "/var/lib/did-wallet"

[vault]
scrypt_n = 262144

[chain]
ss58_prefix = 42
evm_rpc_urls = ["http://127.0.0.1:8545", "http://127.0.0.1:8546"]

[binding]
finalize_timeout = "45s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := config.DefaultServiceConfigFromEnv()
	require.NoError(t, config.ApplyConfigFile(&cfg, path))

	assert.Equal(t, "badger", cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/did-wallet", cfg.Storage.Path)
	assert.Equal(t, 262144, cfg.Vault.ScryptN)
	assert.Equal(t, uint16(42), cfg.Chain.SS58Prefix)
	assert.Equal(t, []string{"http://127.0.0.1:8545", "http://127.0.0.1:8546"}, cfg.Chain.EVMRPCURLs)
	assert.Equal(t, 45*time.Second, cfg.Binding.FinalizeTimeout)

	// untouched keys keep their defaults
	assert.Equal(t, config.DefaultScryptP, cfg.Vault.ScryptP)
}

func TestApplyConfigFileMissing(t *testing.T) {
	cfg := config.DefaultServiceConfigFromEnv()
	err := config.ApplyConfigFile(&cfg, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadDotEnvSkipsMissingFiles(t *testing.T) {
	require.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), ".env.local")))
}
