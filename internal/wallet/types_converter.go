package wallet

import (
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/selendra/did-wallet/internal/types"
	"github.com/selendra/did-wallet/internal/wallet/binding"
	"github.com/selendra/did-wallet/internal/wallet/gate"
	"github.com/selendra/did-wallet/internal/wallet/session"
)

// ToCreateWalletResponse converts CreateResult to types.CreateWalletResponse
func (r *CreateResult) ToCreateWalletResponse() *types.CreateWalletResponse {
	steps := make([]*types.WalletStep, 0, len(r.Steps))
	for _, s := range r.Steps {
		steps = append(steps, &types.WalletStep{
			Name:    swag.String(s.Name),
			Status:  swag.String(string(s.Status)),
			Message: s.Message,
		})
	}

	return &types.CreateWalletResponse{
		Mnemonic:      r.Mnemonic,
		EvmAddress:    swag.String(r.EvmAddress),
		NativeAddress: swag.String(r.NativeAddress),
		Steps:         steps,
	}
}

// StateToSessionStateResponse converts session.State to types.SessionStateResponse
func StateToSessionStateResponse(state session.State) *types.SessionStateResponse {
	res := &types.SessionStateResponse{
		Status:              swag.String(string(state.Status)),
		IsLocked:            state.IsLocked,
		CheckingAuth:        state.CheckingAuth,
		UnlockPromptVisible: state.UnlockPromptVisible,
		VaultExists:         state.VaultExists,
		EvmAddress:          state.EvmAddress,
		NativeAddress:       state.NativeAddress,
	}

	if state.UnlockedAt != nil {
		unlockedAt := strfmt.DateTime(*state.UnlockedAt)
		res.UnlockedAt = &unlockedAt
	}

	return res
}

// ReceiptToBindResponse converts binding.Receipt to types.BindResponse
func ReceiptToBindResponse(receipt *binding.Receipt) *types.BindResponse {
	return &types.BindResponse{
		TxHash:        swag.String(receipt.TxHash.Hex()),
		BlockHash:     receipt.BlockHash.Hex(),
		EvmAddress:    swag.String(receipt.EvmAddress.Hex()),
		NativeAddress: swag.String(receipt.NativeAddress),
		//nolint:gosec // chain ids fit in int64
		ChainID:     int64(receipt.Network.ChainID),
		GenesisHash: receipt.Network.GenesisHash.Hex(),
	}
}

func DecisionToGateResponse(d gate.Decision) *types.GateResponse {
	return &types.GateResponse{
		Prompt:   d.Prompt,
		Redirect: d.Redirect,
		Wait:     d.Wait,
	}
}

// GateInput builds the gate input for route from a session snapshot.
func GateInput(state session.State, route string) gate.Input {
	return gate.Input{
		CheckingAuth: state.CheckingAuth,
		VaultExists:  state.VaultExists,
		Unlocked:     !state.IsLocked,
		HasAddresses: state.EvmAddress != "" || state.NativeAddress != "",
		Route:        route,
	}
}
