package lightclient

import (
	"encoding/json"
	"fmt"
	"strconv"

	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
)

// kvStore is the slice of storetypes.KVStore this package actually calls.
// Every public entry point takes the full storetypes.KVStore interface (its
// method set is a superset of this one), so production callers pass a real
// cosmos-sdk store unchanged; this narrower type only exists so tests can
// supply a minimal fake.
type kvStore interface {
	Get(key []byte) []byte
	Has(key []byte) bool
	Set(key, value []byte)
	Delete(key []byte)
}

// HostClientStateKey is the storage key the single ClientState record lives
// at, mirroring cw-ics08-wasm-eth's state.rs HOST_CLIENT_STATE_KEY.
const HostClientStateKey = "client_state"

// consensusStateKeyPrefix namespaces per-slot ConsensusState records.
const consensusStateKeyPrefix = "consensus_state/"

// ConsensusDBKey mirrors cw-ics08-wasm-eth's state.rs consensus_db_key(slot).
func ConsensusDBKey(slot uint64) string {
	return consensusStateKeyPrefix + strconv.FormatUint(slot, 10)
}

// versionRecordKey stores a cw2-style {name, version} record so Migrate can
// detect whether a store predates the running binary.
const versionRecordKey = "contract_version"

// VersionRecord is the cw2-style contract version record persisted at
// Initialize and checked at Migrate.
type VersionRecord struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}

func getClientState(store kvStore) (ethtypes.ClientState, error) {
	bz := store.Get([]byte(HostClientStateKey))
	if bz == nil {
		return ethtypes.ClientState{}, errorsmod.Wrap(ErrDataShape, "client state not found")
	}
	var cs ethtypes.ClientState
	if err := json.Unmarshal(bz, &cs); err != nil {
		return ethtypes.ClientState{}, errorsmod.Wrapf(ErrDataShape, "decoding client state: %v", err)
	}
	return cs, nil
}

func setClientState(store kvStore, cs ethtypes.ClientState) error {
	bz, err := json.Marshal(cs)
	if err != nil {
		return errorsmod.Wrapf(ErrDataShape, "encoding client state: %v", err)
	}
	store.Set([]byte(HostClientStateKey), bz)
	return nil
}

func getConsensusState(store kvStore, slot uint64) (ethtypes.ConsensusState, error) {
	key := []byte(ConsensusDBKey(slot))
	bz := store.Get(key)
	if bz == nil {
		return ethtypes.ConsensusState{}, errorsmod.Wrapf(ErrDataShape, "consensus state not found at slot %d", slot)
	}
	var cons ethtypes.ConsensusState
	if err := json.Unmarshal(bz, &cons); err != nil {
		return ethtypes.ConsensusState{}, errorsmod.Wrapf(ErrDataShape, "decoding consensus state at slot %d: %v", slot, err)
	}
	return cons, nil
}

func setConsensusState(store kvStore, cons ethtypes.ConsensusState) error {
	bz, err := json.Marshal(cons)
	if err != nil {
		return errorsmod.Wrapf(ErrDataShape, "encoding consensus state: %v", err)
	}
	store.Set([]byte(ConsensusDBKey(cons.Slot)), bz)
	return nil
}

func getVersionRecord(store kvStore) (VersionRecord, bool) {
	bz := store.Get([]byte(versionRecordKey))
	if bz == nil {
		return VersionRecord{}, false
	}
	var v VersionRecord
	if err := json.Unmarshal(bz, &v); err != nil {
		return VersionRecord{}, false
	}
	return v, true
}

func setVersionRecord(store kvStore, v VersionRecord) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("lightclient: encoding version record: %w", err)
	}
	store.Set([]byte(versionRecordKey), bz)
	return nil
}
