package lightclient

import (
	"bytes"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
)

// VerifyClientMessage implements spec.md 4.8's verify_client_message: the
// seven checks (a)-(g) a Header must pass before UpdateState will persist
// it. It is read-only: callers run it before UpdateState as ibc-go's
// 02-client module does for every light client.
func VerifyClientMessage(store storetypes.KVStore, header ethtypes.Header) error {
	cs, err := getClientState(store)
	if err != nil {
		return err
	}
	if cs.IsFrozen {
		return errorsmod.Wrap(ErrFrozen, "client is frozen")
	}
	return verifyHeader(store, cs, header)
}

func verifyHeader(store kvStore, cs ethtypes.ClientState, header ethtypes.Header) error {
	update := header.ConsensusUpdate
	attestedBeacon := update.AttestedHeader.Beacon
	finalizedBeacon := update.FinalizedHeader.Beacon

	// (e) signature_slot > attested_header.slot >= finalized_header.slot
	if !(update.SignatureSlot > attestedBeacon.Slot && attestedBeacon.Slot >= finalizedBeacon.Slot) {
		return errorsmod.Wrapf(ErrVerification, "slot ordering violated: signature_slot=%d attested=%d finalized=%d",
			update.SignatureSlot, attestedBeacon.Slot, finalizedBeacon.Slot)
	}

	// (f) the active committee matches the stored trusted committee for
	// the header's period, when one is already on record.
	if err := verifyActiveCommitteeTrusted(store, cs, finalizedBeacon.Slot, header.ActiveSyncCommittee); err != nil {
		return err
	}

	// (a)/(b) sync aggregate signs the attested header, with sufficient
	// participation.
	if err := verifySyncAggregate(cs, header.ActiveSyncCommittee.Committee, update.SyncAggregate, update.SignatureSlot, attestedBeacon); err != nil {
		return err
	}

	// (c) finalized_header is connected to attested_header by its Merkle
	// branch against the attested beacon state root.
	attestedStateRoot := pad32(attestedBeacon.StateRoot)
	finalizedRoot := hashTreeRootBeaconBlockHeader(finalizedBeacon)
	if err := verifyBranch(attestedStateRoot, finalizedRoot, update.FinalityBranch, finalizedRootGIndex); err != nil {
		return errorsmod.Wrap(err, "finality branch")
	}

	// (d) when present, the next sync committee's branch verifies against
	// the attested state root.
	if update.NextSyncCommittee != nil {
		if !header.ActiveSyncCommittee.IsNext() {
			return errorsmod.Wrap(ErrDataShape, "next_sync_committee present but active_sync_committee is not tagged next")
		}
		nextRoot := hashTreeRootSyncCommittee(*update.NextSyncCommittee)
		if err := verifyBranch(attestedStateRoot, nextRoot, update.NextSyncCommitteeBranch, nextSyncCommitteeGIndex); err != nil {
			return errorsmod.Wrap(err, "next sync committee branch")
		}
		if !bytes.Equal(header.ActiveSyncCommittee.Committee.AggregatePubkey, update.NextSyncCommittee.AggregatePubkey) {
			return errorsmod.Wrap(ErrDataShape, "active_sync_committee does not match next_sync_committee")
		}
	}

	// Execution header inclusion: finalized_header.execution is proven
	// into finalized_header.beacon.body_root by its own branch, linking
	// the account proof to a specific execution block.
	executionRoot := hashTreeRootExecutionPayloadHeader(update.FinalizedHeader.Execution)
	if err := verifyBranch(pad32(finalizedBeacon.BodyRoot), executionRoot, update.FinalizedHeader.ExecutionBranch, executionPayloadGIndex); err != nil {
		return errorsmod.Wrap(err, "execution payload branch")
	}

	// (g) account proof roots the IBC contract's storage hash into the
	// execution state root of the finalized header.
	if err := verifyAccountProof(cs, update.FinalizedHeader.Execution, header.AccountUpdate); err != nil {
		return err
	}

	return nil
}

// verifyActiveCommitteeTrusted implements check (f). A header introducing
// the next period's committee is trusted via its branch proof (check d)
// rather than a prior storage record, since nothing has been persisted for
// that committee yet; a same-period header must match the committee
// already on record for the latest trusted consensus state.
func verifyActiveCommitteeTrusted(store kvStore, cs ethtypes.ClientState, finalizedSlot uint64, active ethtypes.ActiveSyncCommittee) error {
	headerPeriod := cs.ComputeSyncCommitteePeriodAtSlot(finalizedSlot)
	trustedPeriod := cs.ComputeSyncCommitteePeriodAtSlot(cs.LatestSlot)

	switch {
	case headerPeriod == trustedPeriod:
		if active.IsNext() {
			return errorsmod.Wrap(ErrDataShape, "header in the trusted period must carry the current committee")
		}
		trusted, err := getConsensusState(store, cs.LatestSlot)
		if err != nil {
			return err
		}
		if !bytes.Equal(active.Committee.AggregatePubkey, trusted.CurrentSyncCommittee[:]) {
			return errorsmod.Wrap(ErrVerification, "active committee does not match the trusted current committee")
		}
	case headerPeriod == trustedPeriod+1:
		if !active.IsNext() {
			return errorsmod.Wrap(ErrDataShape, "header crossing into the next period must carry the next committee")
		}
		// Nothing stored yet for this committee; check (d)'s branch proof
		// against the attested state root is the only trust anchor.
	default:
		return errorsmod.Wrapf(ErrVerification, "header period %d is neither the trusted period %d nor its successor", headerPeriod, trustedPeriod)
	}
	return nil
}
