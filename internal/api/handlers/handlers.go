package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/api/handlers/common"
	"github.com/selendra/did-wallet/internal/api/handlers/preferences"
	"github.com/selendra/did-wallet/internal/api/handlers/wallet"
)

func AttachAllRoutes(s *api.Server) {
	// attach our routes
	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetMetricsRoute(s),
		common.GetReadyRoute(s),
		common.GetVersionRoute(s),
		preferences.GetThemeRoute(s),
		preferences.PutThemeRoute(s),
		wallet.DeleteAuthRequestRoute(s),
		wallet.DeleteWalletRoute(s),
		wallet.GetExportVaultRoute(s),
		wallet.GetGateRoute(s),
		wallet.GetStatusRoute(s),
		wallet.PostAuthRequestRoute(s),
		wallet.PostBindRoute(s),
		wallet.PostCreateWalletRoute(s),
		wallet.PostGenerateMnemonicRoute(s),
		wallet.PostImportVaultRoute(s),
		wallet.PostLockWalletRoute(s),
		wallet.PostSignMessageRoute(s),
		wallet.PostUnlockWalletRoute(s),
	}
}
