// Package lightclient re-expresses the Ethereum sync-committee light client
// verifier natively in Go: the same entry points the rust CosmWasm contract
// exposes (instantiate, verify_client_message, check_for_misbehaviour,
// update_state, verify_membership, verify_non_membership, status,
// timestamp_at_height, migrate), operating directly against a
// storetypes.KVStore instead of CosmWasm Storage.
package lightclient

import errorsmod "cosmossdk.io/errors"

const codespace = "ethlightclient"

// Error taxonomy (spec.md §7), registered so callers can recover the class
// with errorsmod.Is/errorsmod.ErrorOf instead of string-matching.
var (
	ErrDataShape      = errorsmod.Register(codespace, 2, "malformed client message or stored state")
	ErrVerification   = errorsmod.Register(codespace, 3, "cryptographic or membership verification failed")
	ErrPolicy         = errorsmod.Register(codespace, 4, "update rejected by client policy")
	ErrFrozen         = errorsmod.Register(codespace, 5, "client is frozen")
	ErrNotImplemented = errorsmod.Register(codespace, 6, "entry point intentionally unimplemented")
)
