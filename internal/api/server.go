package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dropbox/godropbox/time2"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/i18n"
	"github.com/selendra/did-wallet/internal/metrics"
	"github.com/selendra/did-wallet/internal/storage"
	"github.com/selendra/did-wallet/internal/util"
	"github.com/selendra/did-wallet/internal/wallet"
	"github.com/selendra/did-wallet/internal/wallet/chain"
	"github.com/selendra/did-wallet/internal/wallet/gate"
)

type Router struct {
	Routes           []*echo.Route
	Root             *echo.Group
	Management       *echo.Group
	APIV1Wallet      *echo.Group
	APIV1Preferences *echo.Group
}

// Server is a central struct keeping all the dependencies.
// It is initialized with wire, which handles making the new instances of the components
// in the right order. To add a new component, 3 steps are required:
// - declaring it in this struct
// - adding a provider function in providers.go
// - adding the provider's function name to the arguments of wire.Build() in wire.go
//
// Components labeled as `wire:"-"` will be skipped and have to be initialized after the InitNewServer* call.
// For more information about wire refer to https://pkg.go.dev/github.com/google/wire
type Server struct {
	// skip wire:
	// -> initialized with router.Init(s) function
	Echo   *echo.Echo `wire:"-"`
	Router *Router    `wire:"-"`

	Config  config.Server
	Storage storage.Store
	I18n    *i18n.Service
	Clock   time2.Clock
	Metrics *metrics.Service
	Native  chain.NativeClient
	EVM     chain.EVMClient
	Gate    *gate.Gate
	Wallet  *wallet.Service
}

// newServerWithComponents is used by wire to initialize the server components.
// Components not listed here won't be handled by wire and should be initialized separately.
// Components which shouldn't be handled must be labeled `wire:"-"` in Server struct.
func newServerWithComponents(
	cfg config.Server,
	store storage.Store,
	i18n *i18n.Service,
	clock time2.Clock,
	metrics *metrics.Service,
	native chain.NativeClient,
	evm chain.EVMClient,
	gate *gate.Gate,
	walletService *wallet.Service,
) *Server {
	return &Server{
		Config:  cfg,
		Storage: store,
		I18n:    i18n,
		Clock:   clock,
		Metrics: metrics,
		Native:  native,
		EVM:     evm,
		Gate:    gate,
		Wallet:  walletService,
	}
}

func NewServer(config config.Server) *Server {
	s := &Server{
		Config: config,
	}

	return s
}

func (s *Server) Ready() bool {
	if err := util.IsStructInitialized(s); err != nil {
		log.Debug().Err(err).Msg("Server is not fully initialized")
		return false
	}

	return true
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if err := s.Echo.Start(s.Config.Echo.ListenAddress); err != nil {
		return fmt.Errorf("failed to start echo server: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")

		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	if s.Wallet != nil {
		// the unlocked key must not outlive the process
		if err := s.Wallet.Lock(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to lock wallet session")
			errs = append(errs, err)
		}
	}

	if s.Native != nil {
		log.Debug().Msg("Closing native chain connection")
		s.Native.Close()
	}

	if s.EVM != nil {
		log.Debug().Msg("Closing EVM RPC connections")
		s.EVM.Close()
	}

	if s.Storage != nil {
		log.Debug().Msg("Closing storage")

		if err := s.Storage.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close storage")
			errs = append(errs, err)
		}
	}

	return errs
}
