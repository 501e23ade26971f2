package vault

import (
	"context"
	"fmt"
	"io"

	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/util/command"
	"github.com/spf13/cobra"
)

func newInspect() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Prints the stored vault metadata",
		Long:  `Prints address, id, version and scrypt parameters of the stored vault. No password is needed and nothing is decrypted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := command.LoadConfig(cmd)
			if err != nil {
				return err
			}

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				return inspectVault(ctx, s, cmd.OutOrStdout())
			})
		},
	}
}

func inspectVault(ctx context.Context, s *api.Server, out io.Writer) error {
	vault, err := s.Wallet.Vault(ctx)
	if err != nil {
		return err
	}

	state := s.Wallet.Session().State()

	fmt.Fprintf(out, "address:        0x%s\n", vault.Address)
	fmt.Fprintf(out, "id:             %s\n", vault.ID)
	fmt.Fprintf(out, "version:        %d\n", vault.Version)
	fmt.Fprintf(out, "kdf:            %s (n=%d r=%d p=%d)\n", vault.Crypto.KDF, vault.Crypto.KDFParams.N, vault.Crypto.KDFParams.R, vault.Crypto.KDFParams.P)
	fmt.Fprintf(out, "mnemonic:       %t\n", vault.HasMnemonic())

	if state.NativeAddress != "" {
		fmt.Fprintf(out, "native address: %s\n", state.NativeAddress)
	}

	return nil
}
