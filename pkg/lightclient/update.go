package lightclient

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"
	exported "github.com/cosmos/ibc-go/v11/modules/core/exported"

	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
)

// DecodeHeader unmarshals a MsgUpdateClient's client message bytes into a
// Header, the shape wasmtypes.ClientMessage.Data carries.
func DecodeHeader(clientMessageBz []byte) (ethtypes.Header, error) {
	var h ethtypes.Header
	if err := json.Unmarshal(clientMessageBz, &h); err != nil {
		return ethtypes.Header{}, errorsmod.Wrapf(ErrDataShape, "decoding header: %v", err)
	}
	return h, nil
}

// UpdateState implements spec.md 4.8's update_state: persist the new
// ConsensusState at the finalized slot, advance latest_slot and
// latest_execution_block_number when the header moves the client forward,
// and rotate the trusted committee record. Callers must have already run
// VerifyClientMessage; UpdateState does not re-verify.
func UpdateState(store storetypes.KVStore, header ethtypes.Header) ([]exported.Height, error) {
	return updateState(store, header)
}

func updateState(store kvStore, header ethtypes.Header) ([]exported.Height, error) {
	cs, err := getClientState(store)
	if err != nil {
		return nil, err
	}
	if cs.IsFrozen {
		return nil, errorsmod.Wrap(ErrFrozen, "client is frozen")
	}

	finalizedSlot := header.FinalizedSlot()
	update := header.ConsensusUpdate

	cons := ethtypes.ConsensusState{
		Slot:        finalizedSlot,
		StateRoot:   arr32(update.FinalizedHeader.Beacon.StateRoot),
		StorageRoot: arr32(header.AccountUpdate.StorageRoot),
		Timestamp:   update.FinalizedHeader.Execution.Timestamp,
	}

	if err := rotateCommittees(store, cs, finalizedSlot, header.ActiveSyncCommittee, &cons); err != nil {
		return nil, err
	}

	if err := setConsensusState(store, cons); err != nil {
		return nil, err
	}

	if finalizedSlot > cs.LatestSlot {
		cs.LatestSlot = finalizedSlot
	}
	if update.FinalizedHeader.Execution.BlockNumber > cs.LatestExecutionBlockNumber {
		cs.LatestExecutionBlockNumber = update.FinalizedHeader.Execution.BlockNumber
	}
	if err := setClientState(store, cs); err != nil {
		return nil, err
	}

	return []exported.Height{heightFromSlot(finalizedSlot)}, nil
}

func rotateCommittees(store kvStore, cs ethtypes.ClientState, finalizedSlot uint64, active ethtypes.ActiveSyncCommittee, cons *ethtypes.ConsensusState) error {
	headerPeriod := cs.ComputeSyncCommitteePeriodAtSlot(finalizedSlot)
	trustedPeriod := cs.ComputeSyncCommitteePeriodAtSlot(cs.LatestSlot)

	if headerPeriod == trustedPeriod {
		trusted, err := getConsensusState(store, cs.LatestSlot)
		if err == nil {
			cons.CurrentSyncCommittee = trusted.CurrentSyncCommittee
			cons.NextSyncCommittee = trusted.NextSyncCommittee
		}
		return nil
	}

	// Crossing into the next period: the committee this header just
	// proved becomes current, there is no next on record yet.
	cons.CurrentSyncCommittee = arr48(active.Committee.AggregatePubkey)
	cons.NextSyncCommittee = nil
	return nil
}

func arr32(b []byte) [32]byte {
	var out [32]byte
	copy(out[:], b)
	return out
}

func arr48(b []byte) [48]byte {
	var out [48]byte
	copy(out[:], b)
	return out
}
