package command_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/test"
	"github.com/selendra/did-wallet/internal/util/command"
	"github.com/selendra/did-wallet/internal/wallet/session"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithServer(t *testing.T) {
	cfg := test.DefaultTestConfig()
	cfg.Logger.PrettyPrintConsole = false

	var testError = errors.New("test error")

	resultErr := command.WithServer(t.Context(), cfg, func(_ context.Context, s *api.Server) error {
		require.NotNil(t, s.Wallet)
		assert.Nil(t, s.Echo)

		state := s.Wallet.Session().State()
		assert.Equal(t, session.StatusNoWallet, state.Status)

		return testError
	})

	assert.Equal(t, testError, resultErr)
}

func TestWithServerInitError(t *testing.T) {
	cfg := test.DefaultTestConfig()
	cfg.Storage.Backend = "floppy"

	called := false
	err := command.WithServer(t.Context(), cfg, func(_ context.Context, _ *api.Server) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
}

func TestNewSubcommandGroup(t *testing.T) {
	sub := &cobra.Command{Use: "child", Run: func(_ *cobra.Command, _ []string) {}}

	group := command.NewSubcommandGroup("parent", sub)
	assert.Equal(t, "parent", group.Use)
	require.Len(t, group.Commands(), 1)
	assert.Equal(t, "child", group.Commands()[0].Use)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wallet.toml")
	require.NoError(t, writeFile(path, "[storage]\nbackend = \"memory\"\n"))

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String(command.ConfigFlag, "", "")
	cmd.Flags().String(command.EnvFileFlag, "", "")
	require.NoError(t, cmd.Flags().Set(command.ConfigFlag, path))
	require.NoError(t, cmd.Flags().Set(command.EnvFileFlag, filepath.Join(dir, "missing.env")))

	cfg, err := command.LoadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, config.DefaultScryptN, cfg.Vault.ScryptN)
}
