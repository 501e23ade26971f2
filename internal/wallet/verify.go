package wallet

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/storage"
	"github.com/selendra/did-wallet/internal/util"
)

// ErrAddressMismatch is returned when the unlocked key does not belong to the stored vault.
var ErrAddressMismatch = errors.New("unlocked key does not match stored vault address")

// Verification is the outcome of VerifyAddresses.
type Verification struct {
	EvmAddress    string
	NativeAddress string
	// Repaired lists the durable keys that held a stale address and were rewritten.
	Repaired []string
}

// VerifyAddresses checks the unlocked keys against the stored vault and the
// remembered addresses. The vault must match; remembered addresses are only a
// cache and are rewritten when stale.
func (s *Service) VerifyAddresses(ctx context.Context) (*Verification, error) {
	log := util.LogFromContext(ctx).With().Str("component", "address_verification").Logger()

	keys, err := s.session.Keys()
	if err != nil {
		return nil, err
	}
	defer keys.Wipe()

	vault, err := s.keystore.GetKeystore(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get keystore")
	}

	derived := keys.Evm.Address.Hex()
	if !strings.EqualFold(strings.TrimPrefix(vault.Address, "0x"), strings.TrimPrefix(derived, "0x")) {
		log.Warn().
			Str("derived", derived).
			Str("stored", vault.Address).
			Msg("Address verification failed: addresses do not match")
		return nil, ErrAddressMismatch
	}

	v := &Verification{EvmAddress: derived}

	expected := map[string]string{storage.KeyEvmAddress: derived}
	if keys.Native != nil {
		v.NativeAddress = keys.Native.Address
		expected[storage.KeySubstrateAddress] = keys.Native.Address
	}

	for _, key := range []string{storage.KeyEvmAddress, storage.KeySubstrateAddress} {
		want, ok := expected[key]
		if !ok {
			continue
		}

		stored, err := storage.GetString(ctx, s.store, key)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, errors.Wrapf(err, "failed to read %s", key)
		}
		if stored == want {
			continue
		}

		if err := storage.SetString(ctx, s.store, key, want); err != nil {
			log.Error().Err(err).Str("key", key).Msg("Failed to repair stored address")
			return nil, errors.Wrapf(err, "failed to repair %s", key)
		}

		log.Info().Str("key", key).Str("stored", stored).Str("derived", want).Msg("Repaired stored address")
		v.Repaired = append(v.Repaired, key)
	}

	log.Debug().Msg("Address verification successful")

	return v, nil
}
