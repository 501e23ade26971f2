package wallet

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/types"
	"github.com/selendra/did-wallet/internal/util"
	"github.com/selendra/did-wallet/internal/wallet"
)

func GetGateRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.GET("/gate", getGateHandler(s))
}

// getGateHandler tells the UI whether route may render, needs the unlock
// prompt or has to redirect to wallet creation.
func getGateHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		var params types.GetGateParams
		if err := util.BindAndValidateQueryParams(c, &params); err != nil {
			return err
		}

		decision := s.Gate.Decide(wallet.GateInput(s.Wallet.Session().State(), params.Route))

		return util.ValidateAndReturn(c, http.StatusOK, wallet.DecisionToGateResponse(decision))
	}
}
