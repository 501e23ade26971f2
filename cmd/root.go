package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/selendra/did-wallet/cmd/bind"
	"github.com/selendra/did-wallet/cmd/probe"
	"github.com/selendra/did-wallet/cmd/server"
	"github.com/selendra/did-wallet/cmd/vault"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/util/command"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     "did-wallet",
	Short:   config.ModuleName,
	Long: fmt.Sprintf(`%v

Device wallet for DID accounts: keeps one encrypted vault, derives the EVM and
native key pairs and binds them on chain.
Configured through ENV, an optional .env file and an optional config file.`, config.ModuleName),
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.PersistentFlags().String(command.ConfigFlag, "", "config file (yaml, toml or json) overriding ENV")
	rootCmd.PersistentFlags().String(command.EnvFileFlag, ".env", ".env file loaded before reading ENV")

	// attach the subcommands
	rootCmd.AddCommand(
		bind.New(),
		probe.New(),
		server.New(),
		vault.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
