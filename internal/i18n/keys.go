package i18n

// Message ids. Every wallet error maps to exactly one of them.
const (
	MsgGeneric              = "wallet.generic"
	MsgInvalidMnemonic      = "wallet.invalid_mnemonic"
	MsgInvalidPassword      = "wallet.invalid_password"
	MsgVaultCorrupted       = "wallet.vault_corrupted"
	MsgNoWallet             = "wallet.no_wallet"
	MsgWalletExists         = "wallet.exists"
	MsgLocked               = "wallet.locked"
	MsgUnlockInProgress     = "wallet.unlock_in_progress"
	MsgUnlockSuperseded     = "wallet.unlock_superseded"
	MsgNativeKeyUnavailable = "wallet.native_key_unavailable"
	MsgAccountReuse         = "wallet.account_reuse"
	MsgDuplicateBinding     = "wallet.duplicate_binding"
	MsgNetworkUnavailable   = "wallet.network_unavailable"
	MsgTransactionFailed    = "wallet.transaction_failed"
	MsgUnsupportedVault     = "wallet.unsupported_vault"
	MsgFaucetRejected       = "wallet.faucet_rejected"

	MsgUnlocked = "wallet.unlocked"
	MsgLockedOK = "wallet.locked_ok"
	MsgCreated  = "wallet.created"
	MsgBound    = "wallet.bound"
	MsgImported = "wallet.imported"
	MsgForgot   = "wallet.forgot"
)
