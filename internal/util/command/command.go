package command

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/spf13/cobra"
)

const (
	// ConfigFlag and EnvFileFlag are persistent flags of the root command.
	ConfigFlag  = "config"
	EnvFileFlag = "env-file"

	shutdownTimeout = 30 * time.Second
)

// NewSubcommandGroup returns a command that only groups its subcommands.
func NewSubcommandGroup(name string, subCommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: name + " related subcommands",
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				log.Error().Err(err).Msg("Failed to print help")
			}
		},
	}

	cmd.AddCommand(subCommands...)

	return cmd
}

// LoadConfig reads the server config from ENV, the optional .env file and the
// optional config file given through the root command's persistent flags.
func LoadConfig(cmd *cobra.Command) (config.Server, error) {
	envFile, _ := cmd.Flags().GetString(EnvFileFlag)
	if envFile != "" {
		if err := config.LoadDotEnv(envFile); err != nil {
			return config.Server{}, err
		}
	}

	cfg := config.DefaultServiceConfigFromEnv()

	configFile, _ := cmd.Flags().GetString(ConfigFlag)
	if configFile != "" {
		if err := config.ApplyConfigFile(&cfg, configFile); err != nil {
			return config.Server{}, err
		}
	}

	return cfg, nil
}

// ConfigureLogger sets the global zerolog level and output.
func ConfigureLogger(cfg config.LoggerServer) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(cfg.Level)

	if cfg.PrettyPrintConsole {
		log.Logger = log.Output(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = os.Stderr
			w.TimeFormat = "15:04:05"
		}))
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

// WithServer initializes a server without HTTP listener, restores the wallet session
// and runs f. The server is shut down after f returns.
func WithServer(ctx context.Context, cfg config.Server, f func(ctx context.Context, s *api.Server) error) error {
	ConfigureLogger(cfg.Logger)

	s, err := api.InitNewServer(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize server")
		return errors.Wrap(err, "failed to initialize server")
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if errs := s.Shutdown(shutdownCtx); len(errs) > 0 {
			log.Error().Errs("shutdownErrors", errs).Msg("Failed to gracefully shut down server")
		}
	}()

	if err := s.Wallet.Session().Restore(ctx); err != nil {
		return errors.Wrap(err, "failed to restore wallet session")
	}

	return f(ctx, s)
}
