package chain

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/parser"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	eventExtrinsicSuccess = "System.ExtrinsicSuccess"
	eventExtrinsicFailed  = "System.ExtrinsicFailed"
)

// extrinsicIndex returns the position of the extrinsic with the given blake2b hash in a block.
func extrinsicIndex(extrinsics []types.Extrinsic, hash common.Hash) (uint32, bool) {
	for i, ext := range extrinsics {
		encoded, err := codec.Encode(ext)
		if err != nil {
			continue
		}

		if common.Hash(blake2b.Sum256(encoded)) == hash {
			return uint32(i), true //nolint:gosec // block extrinsic counts fit in uint32
		}
	}

	return 0, false
}

// dispatchResult maps the System events of the extrinsic at index to its outcome.
func dispatchResult(events []*parser.Event, index uint32) error {
	for _, event := range events {
		if event == nil || event.Phase == nil || !event.Phase.IsApplyExtrinsic {
			continue
		}
		if uint32(event.Phase.AsApplyExtrinsic) != index {
			continue
		}

		switch event.Name {
		case eventExtrinsicSuccess:
			return nil
		case eventExtrinsicFailed:
			return errors.Wrapf(ErrDispatchFailed, "extrinsic %d", index)
		}
	}

	return errors.Wrapf(ErrExtrinsicFailed, "no dispatch result for extrinsic %d", index)
}
