package i18n_test

import (
	"testing"

	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func newService(t *testing.T) *i18n.Service {
	t.Helper()

	s, err := i18n.New(config.DefaultServiceConfigFromEnv())
	require.NoError(t, err)

	return s
}

func TestTranslate(t *testing.T) {
	s := newService(t)

	assert.Equal(t, "Incorrect password.", s.Translate(i18n.MsgInvalidPassword, language.English))
	assert.Equal(t, "密码错误。", s.Translate(i18n.MsgInvalidPassword, language.Chinese))
	assert.Equal(t, "Accounts bound in block 0xabc.", s.Translate(i18n.MsgBound, language.English, i18n.Data{"BlockHash": "0xabc"}))

	// unknown languages fall back to the default, unknown keys to the key
	assert.Equal(t, "Wallet locked.", s.Translate(i18n.MsgLockedOK, language.Khmer))
	assert.Equal(t, "wallet.nope", s.Translate("wallet.nope", language.English))
}

func TestParseAcceptLanguage(t *testing.T) {
	s := newService(t)

	assert.Len(t, s.Tags(), 2)
	assert.Equal(t, language.English, s.ParseAcceptLanguage(""))
	assert.Equal(t, language.English, s.ParseAcceptLanguage("en-US,en;q=0.9"))
	assert.Equal(t, language.Chinese, s.ParseAcceptLanguage("zh-CN,zh;q=0.9,en;q=0.8"))
	assert.Equal(t, language.English, s.ParseAcceptLanguage("km-KH"))
	assert.Equal(t, language.English, s.ParseAcceptLanguage("!!invalid"))
}

func TestEveryMessageIsTranslated(t *testing.T) {
	s := newService(t)

	keys := []string{
		i18n.MsgGeneric, i18n.MsgInvalidMnemonic, i18n.MsgInvalidPassword, i18n.MsgVaultCorrupted,
		i18n.MsgNoWallet, i18n.MsgWalletExists, i18n.MsgLocked, i18n.MsgUnlockInProgress,
		i18n.MsgUnlockSuperseded, i18n.MsgNativeKeyUnavailable, i18n.MsgAccountReuse,
		i18n.MsgDuplicateBinding, i18n.MsgNetworkUnavailable, i18n.MsgTransactionFailed,
		i18n.MsgUnsupportedVault, i18n.MsgFaucetRejected, i18n.MsgUnlocked, i18n.MsgLockedOK,
		i18n.MsgCreated, i18n.MsgImported, i18n.MsgForgot,
	}

	for _, tag := range s.Tags() {
		for _, key := range keys {
			assert.NotEqual(t, key, s.Translate(key, tag), "%s/%s", tag, key)
		}
	}
}
