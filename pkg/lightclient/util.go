package lightclient

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
)

// unmarshalProof decodes a proof or client message byte string that is
// carried as opaque bytes at the ibc-go boundary but JSON-encoded at rest,
// matching every other wire shape this package persists.
func unmarshalProof(bz []byte, out interface{}) error {
	if err := json.Unmarshal(bz, out); err != nil {
		return errorsmod.Wrapf(ErrDataShape, "decoding proof: %v", err)
	}
	return nil
}
