package vault

import (
	"context"

	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/i18n"
	"github.com/selendra/did-wallet/internal/util/command"
	"github.com/selendra/did-wallet/internal/wallet"
	"github.com/spf13/cobra"
)

func newUnlock() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Checks the vault password",
		Long: `Asks for the vault password, decrypts the vault and verifies the derived addresses.
Stale remembered addresses are repaired. The key is dropped again when the command exits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := command.LoadConfig(cmd)
			if err != nil {
				return err
			}

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				return unlockVault(ctx, s, wallet.NewTerminalPrompter())
			})
		},
	}
}

func unlockVault(ctx context.Context, s *api.Server, prompter wallet.Prompter) error {
	if err := s.Wallet.InitializeSession(ctx, prompter, wallet.InitOptions{}); err != nil {
		return err
	}

	state := s.Wallet.Session().State()

	prompter.Println(s.I18n.Translate(i18n.MsgUnlocked, s.Config.I18n.DefaultLanguage))
	prompter.Println("EVM address:   ", state.EvmAddress)
	if state.NativeAddress != "" {
		prompter.Println("Native address:", state.NativeAddress)
	}

	return nil
}
