package wallet_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-openapi/swag"
	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/api/httperrors"
	"github.com/selendra/did-wallet/internal/test"
	"github.com/selendra/did-wallet/internal/types"
	"github.com/selendra/did-wallet/internal/wallet/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testPassword = "correct horse"
)

func createWallet(t *testing.T, s *api.Server, payload test.GenericPayload) *types.CreateWalletResponse {
	t.Helper()

	res := test.PerformRequest(t, s, "POST", "/api/v1/wallet/create", payload, nil)
	require.Equal(t, http.StatusCreated, res.Result().StatusCode, res.Body.String())

	var response types.CreateWalletResponse
	test.ParseResponseAndValidate(t, res, &response)

	return &response
}

func sessionState(t *testing.T, s *api.Server) *types.SessionStateResponse {
	t.Helper()

	res := test.PerformRequest(t, s, "GET", "/api/v1/wallet/status", nil, nil)
	require.Equal(t, http.StatusOK, res.Result().StatusCode)

	var response types.SessionStateResponse
	test.ParseResponseAndValidate(t, res, &response)

	return &response
}

func stepStatuses(response *types.CreateWalletResponse) map[string]string {
	res := make(map[string]string, len(response.Steps))
	for _, step := range response.Steps {
		res[swag.StringValue(step.Name)] = swag.StringValue(step.Status)
	}

	return res
}

func TestPostGenerateMnemonic(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/wallet/mnemonic", test.GenericPayload{"words": 24}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.MnemonicResponse
		test.ParseResponseAndValidate(t, res, &response)
		assert.Len(t, strings.Fields(swag.StringValue(response.Mnemonic)), 24)

		// nothing is stored
		assert.False(t, sessionState(t, s).VaultExists)
	})
}

func TestPostGenerateMnemonicInvalidWords(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/wallet/mnemonic", test.GenericPayload{"words": 13}, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)
	})
}

func TestPostCreateWallet(t *testing.T) {
	test.WithTestServerFakes(t, test.DefaultTestConfig(), func(s *api.Server, fakes *test.Fakes) {
		before := sessionState(t, s)
		assert.Equal(t, "no_wallet", swag.StringValue(before.Status))

		response := createWallet(t, s, test.GenericPayload{
			"password":       testPassword,
			"requestAirdrop": true,
			"bind":           true,
		})

		assert.Len(t, strings.Fields(response.Mnemonic), 12)
		assert.Equal(t, map[string]string{
			"mnemonic": "success",
			"derive":   "success",
			"vault":    "success",
			"session":  "success",
			"airdrop":  "success",
			"bind":     "success",
		}, stepStatuses(response))

		assert.Equal(t, []string{swag.StringValue(response.NativeAddress)}, fakes.Faucet.Addresses)
		assert.NotNil(t, fakes.Chain.Bound(common.HexToAddress(swag.StringValue(response.EvmAddress))))

		state := sessionState(t, s)
		assert.Equal(t, "unlocked", swag.StringValue(state.Status))
		assert.False(t, state.IsLocked)
		assert.True(t, state.VaultExists)
		assert.Equal(t, swag.StringValue(response.EvmAddress), state.EvmAddress)
		assert.NotNil(t, state.UnlockedAt)
	})
}

func TestPostCreateWalletFromMnemonic(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		response := createWallet(t, s, test.GenericPayload{
			"mnemonic": testMnemonic,
			"password": testPassword,
		})

		assert.Empty(t, response.Mnemonic)
		assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", swag.StringValue(response.EvmAddress))
		assert.Equal(t, "skipped", stepStatuses(response)["bind"])
	})
}

func TestPostCreateWalletAirdropFailure(t *testing.T) {
	test.WithTestServerFakes(t, test.DefaultTestConfig(), func(s *api.Server, fakes *test.Fakes) {
		fakes.Faucet.Err = errors.New("faucet down")

		response := createWallet(t, s, test.GenericPayload{
			"password":       testPassword,
			"requestAirdrop": true,
			"bind":           true,
		})

		statuses := stepStatuses(response)
		assert.Equal(t, "failed", statuses["airdrop"])
		assert.Equal(t, "skipped", statuses["bind"])
		assert.Empty(t, fakes.Chain.Calls())
	})
}

func TestPostCreateWalletValidation(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/wallet/create", test.GenericPayload{"password": "short"}, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "POST", "/api/v1/wallet/create", test.GenericPayload{}, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)

		assert.False(t, sessionState(t, s).VaultExists)
	})
}

func TestPostCreateWalletInvalidMnemonic(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/wallet/create", test.GenericPayload{
			"mnemonic": "abandon abandon abandon",
			"password": testPassword,
		}, nil)
		test.RequireHTTPError(t, res, api.ErrInvalidMnemonic)
	})
}

func TestPostCreateWalletTwice(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		createWallet(t, s, test.GenericPayload{"password": testPassword})

		res := test.PerformRequest(t, s, "POST", "/api/v1/wallet/create", test.GenericPayload{"password": testPassword}, nil)
		test.RequireHTTPError(t, res, api.ErrWalletExists)
	})
}

func TestLockUnlock(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		created := createWallet(t, s, test.GenericPayload{"password": testPassword})

		res := test.PerformRequest(t, s, "POST", "/api/v1/wallet/lock", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var locked types.SessionStateResponse
		test.ParseResponseAndValidate(t, res, &locked)
		assert.Equal(t, "locked", swag.StringValue(locked.Status))
		assert.True(t, locked.IsLocked)
		assert.Nil(t, locked.UnlockedAt)
		// public material stays visible while locked
		assert.Equal(t, swag.StringValue(created.EvmAddress), locked.EvmAddress)

		res = test.PerformRequest(t, s, "POST", "/api/v1/wallet/unlock", test.GenericPayload{"password": "wrong password"}, nil)
		test.RequireHTTPError(t, res, api.ErrInvalidPassword)

		res = test.PerformRequest(t, s, "POST", "/api/v1/wallet/unlock", test.GenericPayload{"password": testPassword}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var unlocked types.SessionStateResponse
		test.ParseResponseAndValidate(t, res, &unlocked)
		assert.Equal(t, "unlocked", swag.StringValue(unlocked.Status))
		assert.Equal(t, swag.StringValue(created.NativeAddress), unlocked.NativeAddress)
	})
}

func TestUnlockErrorIsLocalized(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		createWallet(t, s, test.GenericPayload{"password": testPassword})

		headers := http.Header{}
		headers.Set("Accept-Language", "zh-CN,zh;q=0.9")

		res := test.PerformRequest(t, s, "POST", "/api/v1/wallet/unlock", test.GenericPayload{"password": "wrong password"}, headers)
		response := test.RequireHTTPError(t, res, api.ErrInvalidPassword)
		assert.Equal(t, "密码错误。", swag.StringValue(response.Title))

		res = test.PerformRequest(t, s, "POST", "/api/v1/wallet/unlock", test.GenericPayload{"password": "wrong password"}, nil)
		response = test.RequireHTTPError(t, res, api.ErrInvalidPassword)
		assert.Equal(t, "Incorrect password.", swag.StringValue(response.Title))
	})
}

func TestUnlockWithoutWallet(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/wallet/unlock", test.GenericPayload{"password": testPassword}, nil)
		test.RequireHTTPError(t, res, api.ErrNoWallet)
	})
}

func TestSignMessage(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		created := createWallet(t, s, test.GenericPayload{"password": testPassword})

		res := test.PerformRequest(t, s, "POST", "/api/v1/wallet/sign", test.GenericPayload{"message": "hello"}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.SignMessageResponse
		test.ParseResponseAndValidate(t, res, &response)
		assert.Equal(t, swag.StringValue(created.EvmAddress), swag.StringValue(response.Address))
		// 0x + 65 bytes
		assert.Len(t, swag.StringValue(response.Signature), 132)

		res = test.PerformRequest(t, s, "POST", "/api/v1/wallet/lock", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "POST", "/api/v1/wallet/sign", test.GenericPayload{"message": "hello"}, nil)
		test.RequireHTTPError(t, res, api.ErrWalletLocked)
	})
}

func TestGetGate(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		gate := func(route string) types.GateResponse {
			t.Helper()

			res := test.PerformRequest(t, s, "GET", "/api/v1/wallet/gate?route="+route, nil, nil)
			require.Equal(t, http.StatusOK, res.Result().StatusCode)

			var response types.GateResponse
			test.ParseResponseAndValidate(t, res, &response)
			return response
		}

		// no wallet: everything but public routes goes to wallet creation
		assert.Equal(t, types.GateResponse{Redirect: "/createWallet"}, gate("/"))
		assert.Equal(t, types.GateResponse{}, gate("/createWallet"))
		assert.Equal(t, types.GateResponse{}, gate("/profile"))

		createWallet(t, s, test.GenericPayload{"password": testPassword})
		assert.Equal(t, types.GateResponse{}, gate("/"))

		res := test.PerformRequest(t, s, "POST", "/api/v1/wallet/lock", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		assert.Equal(t, types.GateResponse{Prompt: true}, gate("/"))
		assert.Equal(t, types.GateResponse{Prompt: true}, gate("/settings/"))
		assert.Equal(t, types.GateResponse{}, gate("/profile"))
	})
}

func TestGetGateRequiresRoute(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/api/v1/wallet/gate", nil, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)
	})
}

func TestAuthRequest(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		// nothing to unlock
		res := test.PerformRequest(t, s, "POST", "/api/v1/wallet/auth-request", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.False(t, sessionState(t, s).UnlockPromptVisible)

		createWallet(t, s, test.GenericPayload{"password": testPassword})
		res = test.PerformRequest(t, s, "POST", "/api/v1/wallet/lock", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "POST", "/api/v1/wallet/auth-request", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.True(t, sessionState(t, s).UnlockPromptVisible)

		res = test.PerformRequest(t, s, "DELETE", "/api/v1/wallet/auth-request", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.False(t, sessionState(t, s).UnlockPromptVisible)

		// a successful unlock hides the prompt
		res = test.PerformRequest(t, s, "POST", "/api/v1/wallet/auth-request", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		res = test.PerformRequest(t, s, "POST", "/api/v1/wallet/unlock", test.GenericPayload{"password": testPassword}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.False(t, sessionState(t, s).UnlockPromptVisible)
	})
}

func TestPostBind(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		created := createWallet(t, s, test.GenericPayload{"password": testPassword})

		res := test.PerformRequest(t, s, "POST", "/api/v1/wallet/bind", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.BindResponse
		test.ParseResponseAndValidate(t, res, &response)
		assert.Equal(t, swag.StringValue(created.EvmAddress), swag.StringValue(response.EvmAddress))
		assert.Equal(t, swag.StringValue(created.NativeAddress), swag.StringValue(response.NativeAddress))
		assert.Equal(t, int64(test.FakeChainID), response.ChainID)
		assert.Equal(t, test.FakeGenesisHash.Hex(), response.GenesisHash)
		assert.Equal(t, test.FakeBlockHash.Hex(), response.BlockHash)

		res = test.PerformRequest(t, s, "POST", "/api/v1/wallet/bind", nil, nil)
		response2 := test.RequireHTTPError(t, res, api.ErrDuplicateBinding)
		assert.Equal(t, "stage: binding_state", response2.Detail)
	})
}

func TestPostBindFundedAccount(t *testing.T) {
	test.WithTestServerFakes(t, test.DefaultTestConfig(), func(s *api.Server, fakes *test.Fakes) {
		created := createWallet(t, s, test.GenericPayload{"password": testPassword})
		fakes.Chain.SetBalance(common.HexToAddress(swag.StringValue(created.EvmAddress)), 1)

		res := test.PerformRequest(t, s, "POST", "/api/v1/wallet/bind", nil, nil)
		test.RequireHTTPError(t, res, api.ErrAccountReuse)
		assert.NotContains(t, fakes.Chain.Calls(), "submit")
	})
}

func TestPostBindNetworkUnavailable(t *testing.T) {
	test.WithTestServerFakes(t, test.DefaultTestConfig(), func(s *api.Server, fakes *test.Fakes) {
		createWallet(t, s, test.GenericPayload{"password": testPassword})
		fakes.Chain.ConnectErr = errors.Wrap(chain.ErrNetworkUnavailable, "dial tcp: connection refused")

		res := test.PerformRequest(t, s, "POST", "/api/v1/wallet/bind", nil, nil)
		response := test.RequireHTTPError(t, res, api.ErrNetworkUnavailable)
		assert.Equal(t, "stage: connect", response.Detail)
	})
}

func TestPostBindLocked(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		createWallet(t, s, test.GenericPayload{"password": testPassword})

		res := test.PerformRequest(t, s, "POST", "/api/v1/wallet/lock", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "POST", "/api/v1/wallet/bind", nil, nil)
		test.RequireHTTPError(t, res, api.ErrWalletLocked)
	})
}

func TestExportForgetImport(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/api/v1/wallet/export", nil, nil)
		test.RequireHTTPError(t, res, api.ErrNoWallet)

		created := createWallet(t, s, test.GenericPayload{"mnemonic": testMnemonic, "password": testPassword})

		res = test.PerformRequest(t, s, "GET", "/api/v1/wallet/export", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Equal(t,
			`attachment; filename="`+swag.StringValue(created.EvmAddress)+`.json"`,
			res.Result().Header.Get("Content-Disposition"))
		exported := res.Body.Bytes()

		res = test.PerformRequest(t, s, "DELETE", "/api/v1/wallet", nil, nil)
		require.Equal(t, http.StatusNoContent, res.Result().StatusCode)

		state := sessionState(t, s)
		assert.Equal(t, "no_wallet", swag.StringValue(state.Status))
		assert.Empty(t, state.EvmAddress)

		res = test.PerformFileUpload(t, s, "/api/v1/wallet/import", "file", "wallet.json", exported)
		require.Equal(t, http.StatusOK, res.Result().StatusCode, res.Body.String())

		var imported types.SessionStateResponse
		test.ParseResponseAndValidate(t, res, &imported)
		assert.Equal(t, "locked", swag.StringValue(imported.Status))
		assert.True(t, imported.VaultExists)

		res = test.PerformRequest(t, s, "POST", "/api/v1/wallet/unlock", test.GenericPayload{"password": testPassword}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Equal(t, swag.StringValue(created.NativeAddress), sessionState(t, s).NativeAddress)
	})
}

func TestImportRejectsInvalidUploads(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformFileUpload(t, s, "/api/v1/wallet/import", "file", "wallet.json", []byte{})
		test.RequireHTTPError(t, res, httperrors.ErrBadRequestZeroFileSize)

		res = test.PerformFileUpload(t, s, "/api/v1/wallet/import", "file", "wallet.json", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
		test.RequireHTTPError(t, res, httperrors.ErrUnsupportedMediaTypeVaultUpload)

		res = test.PerformFileUpload(t, s, "/api/v1/wallet/import", "file", "wallet.json", []byte(`{"version": 3}`))
		test.RequireHTTPError(t, res, api.ErrVaultCorrupted)

		res = test.PerformRequest(t, s, "POST", "/api/v1/wallet/import", nil, nil)
		require.Equal(t, http.StatusBadRequest, res.Result().StatusCode)

		assert.False(t, sessionState(t, s).VaultExists)
	})
}

func TestForgetKeepsTheme(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "PUT", "/api/v1/preferences/theme", test.GenericPayload{"theme": "dark"}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		createWallet(t, s, test.GenericPayload{"password": testPassword})

		res = test.PerformRequest(t, s, "DELETE", "/api/v1/wallet", nil, nil)
		require.Equal(t, http.StatusNoContent, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "GET", "/api/v1/preferences/theme", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.ThemePayload
		test.ParseResponseAndValidate(t, res, &response)
		assert.Equal(t, "dark", swag.StringValue(response.Theme))
	})
}
