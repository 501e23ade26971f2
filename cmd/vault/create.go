package vault

import (
	"context"

	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/i18n"
	"github.com/selendra/did-wallet/internal/util/command"
	"github.com/selendra/did-wallet/internal/wallet"
	"github.com/selendra/did-wallet/internal/wallet/keystore"
	"github.com/spf13/cobra"
)

func newCreate() *cobra.Command {
	var words int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Creates a new wallet",
		Long: `Generates a recovery phrase, asks for a vault password twice and stores the encrypted vault.
The recovery phrase is printed once and never stored in plain text.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := command.LoadConfig(cmd)
			if err != nil {
				return err
			}

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				return createVault(ctx, s, wallet.NewTerminalPrompter(), words)
			})
		},
	}

	cmd.Flags().IntVar(&words, wordsFlag, 12, "Mnemonic length, 12 or 24.")

	return cmd
}

func createVault(ctx context.Context, s *api.Server, prompter wallet.Prompter, words int) error {
	if s.Wallet.Session().State().VaultExists {
		return keystore.ErrAlreadyExists
	}

	if err := s.Wallet.InitializeSession(ctx, prompter, wallet.InitOptions{CreateIfMissing: true, Words: words}); err != nil {
		return err
	}

	prompter.Println(s.I18n.Translate(i18n.MsgCreated, s.Config.I18n.DefaultLanguage))

	return nil
}
