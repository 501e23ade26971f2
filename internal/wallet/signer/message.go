package signer

import (
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/selendra/did-wallet/internal/wallet/address"
)

// SignMessage signs keccak256("\x19Ethereum Signed Message:\n" + len(message) + message).
func SignMessage(kp *address.EvmKeyPair, message []byte) ([]byte, error) {
	return signHash(kp, accounts.TextHash(message))
}

// RecoverMessageSigner returns the address that produced sig over message.
func RecoverMessageSigner(message []byte, sig []byte) (common.Address, error) {
	return recoverHash(accounts.TextHash(message), sig)
}
