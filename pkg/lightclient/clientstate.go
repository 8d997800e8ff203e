package lightclient

import (
	"encoding/json"
	"time"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"
	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"
	exported "github.com/cosmos/ibc-go/v11/modules/core/exported"

	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
)

// clientStateExpiry bounds how stale the latest trusted slot may be before
// Status reports Expired, mirroring the trusting-period check every ibc-go
// light client performs before it will accept a client as Active.
const clientStateExpiry = 21 * 24 * time.Hour

// Initialize persists the genesis ClientState/ConsensusState pair and a
// version record, the Go equivalent of cw-ics08-wasm-eth's instantiate
// entry point.
func Initialize(store storetypes.KVStore, clientStateBz, consensusStateBz []byte) error {
	return initialize(store, clientStateBz, consensusStateBz)
}

func initialize(store kvStore, clientStateBz, consensusStateBz []byte) error {
	var cs ethtypes.ClientState
	if err := json.Unmarshal(clientStateBz, &cs); err != nil {
		return errorsmod.Wrapf(ErrDataShape, "decoding client state: %v", err)
	}
	var cons ethtypes.ConsensusState
	if err := json.Unmarshal(consensusStateBz, &cons); err != nil {
		return errorsmod.Wrapf(ErrDataShape, "decoding consensus state: %v", err)
	}
	if cons.Slot != cs.LatestSlot {
		return errorsmod.Wrapf(ErrDataShape, "consensus state slot %d does not match client state latest_slot %d", cons.Slot, cs.LatestSlot)
	}
	if err := setClientState(store, cs); err != nil {
		return err
	}
	if err := setConsensusState(store, cons); err != nil {
		return err
	}
	return setVersionRecord(store, VersionRecord{Contract: "eth-lightclient", Version: moduleVersion})
}

// moduleVersion is compared against a stored VersionRecord by Migrate.
const moduleVersion = "v1"

// Status implements spec.md 4.8's status entry point: Frozen is terminal,
// otherwise Expired once the latest trusted slot is older than
// clientStateExpiry relative to now.
func Status(store storetypes.KVStore, now time.Time) (exported.Status, error) {
	return status(store, now)
}

func status(store kvStore, now time.Time) (exported.Status, error) {
	cs, err := getClientState(store)
	if err != nil {
		return "", err
	}
	if cs.IsFrozen {
		return exported.Frozen, nil
	}
	cons, err := getConsensusState(store, cs.LatestSlot)
	if err != nil {
		return "", err
	}
	age := now.Sub(time.Unix(int64(cons.Timestamp), 0))
	if age > clientStateExpiry {
		return exported.Expired, nil
	}
	return exported.Active, nil
}

// GetTimestampAtHeight looks up the consensus state stored at the given
// IBC height's revision height (the finalized slot) and returns its
// execution-block timestamp in nanoseconds, as exported.ClientState
// requires.
func GetTimestampAtHeight(store storetypes.KVStore, height exported.Height) (uint64, error) {
	return getTimestampAtHeight(store, height)
}

func getTimestampAtHeight(store kvStore, height exported.Height) (uint64, error) {
	cons, err := getConsensusState(store, height.GetRevisionHeight())
	if err != nil {
		return 0, err
	}
	return cons.Timestamp * uint64(time.Second), nil
}

// heightFromSlot builds the IBC height this verifier always uses: revision
// number 0 (spec.md never versions the Ethereum chain), revision height the
// finalized slot.
func heightFromSlot(slot uint64) clienttypes.Height {
	return clienttypes.NewHeight(0, slot)
}
