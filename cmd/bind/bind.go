package bind

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/i18n"
	"github.com/selendra/did-wallet/internal/util/command"
	"github.com/selendra/did-wallet/internal/wallet"
	"github.com/selendra/did-wallet/internal/wallet/binding"
	"github.com/spf13/cobra"
)

const attemptsFlag = "attempts"

type Options struct {
	// Attempts bounds reruns of the protocol after a retryable failure, 1 disables retries.
	Attempts   uint
	NewBackOff func() backoff.BackOff
}

func New() *cobra.Command {
	var attempts uint

	cmd := &cobra.Command{
		Use:   "bind",
		Short: "Binds the EVM address to the native account",
		Long: `Unlocks the vault from the terminal and submits the one-time claim linking both addresses.
Failures before submission are retried; once a claim was submitted the command never resubmits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := command.LoadConfig(cmd)
			if err != nil {
				return err
			}

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				_, err := bindFromTerminal(ctx, s, wallet.NewTerminalPrompter(), Options{Attempts: attempts})
				return err
			})
		},
	}

	cmd.Flags().UintVar(&attempts, attemptsFlag, 3, "Protocol runs before giving up on retryable failures.")

	return cmd
}

func bindFromTerminal(ctx context.Context, s *api.Server, prompter wallet.Prompter, opts Options) (*binding.Receipt, error) {
	if err := s.Wallet.InitializeSession(ctx, prompter, wallet.InitOptions{}); err != nil {
		return nil, err
	}

	if opts.Attempts == 0 {
		opts.Attempts = 1
	}
	if opts.NewBackOff == nil {
		opts.NewBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			return b
		}
	}

	operation := func() (*binding.Receipt, error) {
		receipt, err := s.Wallet.BindWallet(ctx)
		if err == nil {
			return receipt, nil
		}

		var stageErr *binding.StageError
		if errors.As(err, &stageErr) && stageErr.Retryable() {
			log.Warn().Err(err).Str("stage", string(stageErr.Stage)).Msg("Binding failed, retrying")
			return nil, err
		}

		return nil, backoff.Permanent(err)
	}

	receipt, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(opts.NewBackOff()),
		backoff.WithMaxTries(opts.Attempts),
	)
	if err != nil {
		if stage := binding.FailedStage(err); stage != "" {
			prompter.Println("Binding failed at stage:", string(stage))
		}
		prompter.Println(s.I18n.Translate(api.FromWalletError(err).MessageID, s.Config.I18n.DefaultLanguage))
		return nil, err
	}

	prompter.Println(s.I18n.Translate(i18n.MsgBound, s.Config.I18n.DefaultLanguage, i18n.Data{"BlockHash": receipt.BlockHash.Hex()}))
	prompter.Println("Transaction:", receipt.TxHash.Hex())

	return receipt, nil
}
