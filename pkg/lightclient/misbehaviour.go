package lightclient

import (
	"bytes"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
)

// Misbehaviour pairs two conflicting Headers offered as evidence, the Go
// shape carried inside a MsgSubmitMisbehaviour's client message.
type Misbehaviour struct {
	HeaderOne ethtypes.Header `json:"header_one"`
	HeaderTwo ethtypes.Header `json:"header_two"`
}

// CheckForMisbehaviour implements spec.md 4.8's check_for_misbehaviour:
// true iff a conflicting consensus state already exists at the header's
// finalized slot with a different state root, or the pair being submitted
// together disagree at the same slot.
func CheckForMisbehaviour(store storetypes.KVStore, m Misbehaviour) (bool, error) {
	return checkForMisbehaviour(store, m)
}

func checkForMisbehaviour(store kvStore, m Misbehaviour) (bool, error) {
	if conflicting(m.HeaderOne, m.HeaderTwo) {
		return true, nil
	}
	for _, h := range []ethtypes.Header{m.HeaderOne, m.HeaderTwo} {
		existing, err := getConsensusState(store, h.FinalizedSlot())
		if err != nil {
			continue
		}
		if existing.StateRoot != arr32(h.ConsensusUpdate.FinalizedHeader.Beacon.StateRoot) {
			return true, nil
		}
	}
	return false, nil
}

func conflicting(a, b ethtypes.Header) bool {
	if a.FinalizedSlot() != b.FinalizedSlot() {
		return false
	}
	return !bytes.Equal(a.ConsensusUpdate.FinalizedHeader.Beacon.StateRoot, b.ConsensusUpdate.FinalizedHeader.Beacon.StateRoot)
}

// UpdateStateOnMisbehaviour implements the terminal transition spec.md
// documents for the client state machine: Active/Expired -> Frozen. Once
// frozen, every other entry point that checks IsFrozen rejects.
func UpdateStateOnMisbehaviour(store storetypes.KVStore) error {
	return freezeClientState(store)
}

func freezeClientState(store kvStore) error {
	cs, err := getClientState(store)
	if err != nil {
		return err
	}
	cs.IsFrozen = true
	if err := setClientState(store, cs); err != nil {
		return errorsmod.Wrap(err, "freezing client state")
	}
	return nil
}
