package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/api/router"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/util/command"
	"github.com/selendra/did-wallet/internal/wallet"
	"github.com/spf13/cobra"
)

const (
	unlockFlag = "unlock"
	createFlag = "create"
	wordsFlag  = "words"

	shutdownTimeout = 30 * time.Second
)

type Flags struct {
	Unlock bool
	Create bool
	Words  int
}

func New() *cobra.Command {
	var flags Flags

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Starts the server",
		Long: `Starts the HTTP server.

With --unlock the vault password is asked on the terminal before the listener starts.
With --create a new wallet is created when no vault is stored yet.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := command.LoadConfig(cmd)
			if err != nil {
				return err
			}

			return runServer(cmd.Context(), cfg, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.Unlock, unlockFlag, false, "Unlock the vault from the terminal before serving.")
	cmd.Flags().BoolVar(&flags.Create, createFlag, false, "Create a wallet if none is stored (implies --unlock).")
	cmd.Flags().IntVar(&flags.Words, wordsFlag, 12, "Mnemonic length used by --create, 12 or 24.")

	return cmd
}

func runServer(ctx context.Context, cfg config.Server, flags Flags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	command.ConfigureLogger(cfg.Logger)

	s, err := api.InitNewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	if err := router.Init(s); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize router")
	}

	if flags.Unlock || flags.Create {
		opts := wallet.InitOptions{CreateIfMissing: flags.Create, Words: flags.Words}
		if err := s.Wallet.InitializeSession(ctx, wallet.NewTerminalPrompter(), opts); err != nil {
			shutdown(s)
			return err
		}
	} else if err := s.Wallet.Session().Restore(ctx); err != nil {
		shutdown(s)
		return err
	}

	go func() {
		if err := s.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info().Msg("Server closed")
			} else {
				log.Fatal().Err(err).Msg("Failed to start server")
			}
		}
	}()

	log.Info().Str("address", cfg.Echo.ListenAddress).Msg("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdown(s)

	return nil
}

func shutdown(s *api.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		log.Error().Errs("shutdownErrors", errs).Msg("Failed to gracefully shut down server")
	}
}
