package common

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/storage"
	"github.com/selendra/did-wallet/internal/util"
)

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/healthy", getHealthyHandler(s))
}

// Health check
// Returns an overview of the storage and chain probes as text/plain.
// Chain probes are informational: the wallet works offline except for binding.
func getHealthyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			return c.String(statusNotReady, "Not ready.")
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), s.Config.Management.ProbeTimeout)
		defer cancel()

		var str strings.Builder
		healthy := true

		if _, err := storage.Has(ctx, s.Storage, storage.KeyEncryptedWallet); err != nil {
			healthy = false
			util.LogFromEchoContext(c).Error().Err(err).Msg("Storage probe failed")
			str.WriteString("storage: " + err.Error() + "\n")
		} else {
			str.WriteString("storage: ok\n")
		}

		if identity, err := s.Native.NetworkIdentity(ctx); err != nil {
			str.WriteString("native chain: " + err.Error() + "\n")
		} else {
			str.WriteString("native chain: ok " + identity.GenesisHash.Hex() + "\n")
		}

		if chainID, err := s.EVM.ChainID(ctx); err != nil {
			str.WriteString("evm chain: " + err.Error() + "\n")
		} else {
			str.WriteString("evm chain: ok " + chainID.String() + "\n")
		}

		str.WriteString(config.GetFormattedBuildArgs() + "\n")

		if !healthy {
			return c.String(statusNotReady, str.String())
		}

		return c.String(http.StatusOK, str.String())
	}
}
