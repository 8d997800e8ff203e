package lightclient

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
)

// MigratePayload optionally re-instantiates client/consensus state during a
// migration, mirroring cw-ics08-wasm-eth's migrate MigrateMsg variant that
// carries a fresh InstantiateMsg.
type MigratePayload struct {
	ClientState    json.RawMessage `json:"client_state,omitempty"`
	ConsensusState json.RawMessage `json:"consensus_state,omitempty"`
}

// Migrate implements spec.md 4.8's migrate: refuses unless the running
// binary's version is strictly newer than what is on record, then either
// leaves state untouched or overwrites it with payload's re-instantiate
// data.
func Migrate(store storetypes.KVStore, payload *MigratePayload) error {
	return migrate(store, payload)
}

func migrate(store kvStore, payload *MigratePayload) error {
	current, found := getVersionRecord(store)
	if found && current.Version >= moduleVersion {
		return errorsmod.Wrapf(ErrPolicy, "stored version %s is not older than running version %s", current.Version, moduleVersion)
	}

	if payload != nil && (len(payload.ClientState) > 0 || len(payload.ConsensusState) > 0) {
		if len(payload.ClientState) == 0 || len(payload.ConsensusState) == 0 {
			return errorsmod.Wrap(ErrDataShape, "migrate payload must carry both client_state and consensus_state or neither")
		}
		if err := initialize(store, payload.ClientState, payload.ConsensusState); err != nil {
			return err
		}
		return nil
	}

	return setVersionRecord(store, VersionRecord{Contract: "eth-lightclient", Version: moduleVersion})
}

// VerifyUpgradeAndUpdateState and MigrateClientStore are part of ibc-go's
// exported.ClientState surface for counterparty-chain governance upgrades
// and substore migrations. Neither has a meaningful analogue for an
// Ethereum source chain (there is no governance-driven client upgrade path
// on the execution layer this verifier tracks), so both are reserved hard
// errors rather than silently-accepting no-ops.
func VerifyUpgradeAndUpdateState(storetypes.KVStore, ethtypes.ClientState, ethtypes.ConsensusState, []byte, []byte) error {
	return errorsmod.Wrap(ErrNotImplemented, "upgrade proposals are not supported for Ethereum light clients")
}

func MigrateClientStore(storetypes.KVStore, storetypes.KVStore) error {
	return errorsmod.Wrap(ErrNotImplemented, "substore migration is not supported")
}
