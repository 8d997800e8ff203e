package lightclient

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
)

func testClientState() ethtypes.ClientState {
	return ethtypes.ClientState{
		SlotsPerEpoch:                8,
		EpochsPerSyncCommitteePeriod: 4,
		LatestSlot:                   32, // period 1 (32 slots per period)
		MinSyncCommitteeParticipants: 1,
	}
}

func TestVerifyActiveCommitteeTrustedSamePeriodMatches(t *testing.T) {
	store := newMemKVStore()
	cs := testClientState()
	agg := make([]byte, 48)
	agg[0] = 7
	require.NoError(t, setConsensusState(store, ethtypes.ConsensusState{
		Slot:                 cs.LatestSlot,
		CurrentSyncCommittee: arr48(agg),
	}))

	active := ethtypes.CurrentSyncCommittee(ethtypes.SyncCommittee{AggregatePubkey: agg})
	err := verifyActiveCommitteeTrusted(store, cs, 40, active) // still period 1
	require.NoError(t, err)
}

func TestVerifyActiveCommitteeTrustedSamePeriodMismatchFails(t *testing.T) {
	store := newMemKVStore()
	cs := testClientState()
	require.NoError(t, setConsensusState(store, ethtypes.ConsensusState{
		Slot:                 cs.LatestSlot,
		CurrentSyncCommittee: [48]byte{1},
	}))

	active := ethtypes.CurrentSyncCommittee(ethtypes.SyncCommittee{AggregatePubkey: make([]byte, 48)})
	err := verifyActiveCommitteeTrusted(store, cs, 40, active)
	require.Error(t, err)
}

func TestVerifyActiveCommitteeTrustedNextPeriodSkipsStorageCheck(t *testing.T) {
	store := newMemKVStore()
	cs := testClientState()

	active := ethtypes.NextSyncCommitteeVariant(ethtypes.SyncCommittee{AggregatePubkey: make([]byte, 48)})
	err := verifyActiveCommitteeTrusted(store, cs, 64, active) // period 2 = trustedPeriod+1
	require.NoError(t, err)
}

func TestVerifyActiveCommitteeTrustedRejectsFarFuturePeriod(t *testing.T) {
	store := newMemKVStore()
	cs := testClientState()

	active := ethtypes.NextSyncCommitteeVariant(ethtypes.SyncCommittee{AggregatePubkey: make([]byte, 48)})
	err := verifyActiveCommitteeTrusted(store, cs, 9999, active)
	require.Error(t, err)
}

func TestVerifyActiveCommitteeTrustedRejectsWrongKindForPeriod(t *testing.T) {
	store := newMemKVStore()
	cs := testClientState()
	require.NoError(t, setConsensusState(store, ethtypes.ConsensusState{Slot: cs.LatestSlot}))

	next := ethtypes.NextSyncCommitteeVariant(ethtypes.SyncCommittee{AggregatePubkey: make([]byte, 48)})
	err := verifyActiveCommitteeTrusted(store, cs, 40, next) // same period but tagged Next
	require.Error(t, err)
}
