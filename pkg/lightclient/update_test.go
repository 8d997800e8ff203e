package lightclient

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
)

func baseClientState() ethtypes.ClientState {
	return ethtypes.ClientState{
		GenesisTime:                  1000,
		GenesisSlot:                  0,
		SecondsPerSlot:               12,
		SlotsPerEpoch:                32,
		EpochsPerSyncCommitteePeriod: 256,
		LatestSlot:                   0,
	}
}

func headerForUpdate(slot uint64, stateRoot, storageRoot byte, timestamp uint64, active ethtypes.ActiveSyncCommittee) ethtypes.Header {
	return ethtypes.Header{
		ActiveSyncCommittee: active,
		ConsensusUpdate: ethtypes.LightClientUpdate{
			FinalizedHeader: ethtypes.LightClientHeader{
				Beacon: ethtypes.BeaconBlockHeader{
					Slot:      slot,
					StateRoot: append([]byte{stateRoot}, make([]byte, 31)...),
				},
				Execution: ethtypes.ExecutionPayloadHeader{
					Timestamp: timestamp,
				},
			},
		},
		AccountUpdate: ethtypes.AccountUpdate{
			StorageRoot: append([]byte{storageRoot}, make([]byte, 31)...),
		},
	}
}

func TestUpdateStateRejectsWhenFrozen(t *testing.T) {
	store := newMemKVStore()
	require.NoError(t, setClientState(store, ethtypes.ClientState{IsFrozen: true}))

	_, err := updateState(store, headerForUpdate(10, 1, 1, 0, ethtypes.CurrentSyncCommittee(ethtypes.SyncCommittee{})))
	require.Error(t, err)
}

func TestUpdateStatePersistsConsensusStateAndAdvancesLatestSlot(t *testing.T) {
	store := newMemKVStore()
	cs := baseClientState()
	cs.LatestSlot = 100
	require.NoError(t, setClientState(store, cs))
	require.NoError(t, setConsensusState(store, ethtypes.ConsensusState{Slot: 100, CurrentSyncCommittee: [48]byte{9}}))

	header := headerForUpdate(101, 7, 8, 1234, ethtypes.CurrentSyncCommittee(ethtypes.SyncCommittee{}))
	heights, err := updateState(store, header)
	require.NoError(t, err)
	require.Len(t, heights, 1)
	require.Equal(t, uint64(101), heights[0].GetRevisionHeight())

	cons, err := getConsensusState(store, 101)
	require.NoError(t, err)
	require.Equal(t, byte(7), cons.StateRoot[0])
	require.Equal(t, byte(8), cons.StorageRoot[0])
	require.Equal(t, uint64(1234), cons.Timestamp)
	// same period: rotateCommittees carries the previously trusted committee forward.
	require.Equal(t, [48]byte{9}, cons.CurrentSyncCommittee)

	got, err := getClientState(store)
	require.NoError(t, err)
	require.Equal(t, uint64(101), got.LatestSlot)
}

func TestUpdateStateDoesNotRewindLatestSlot(t *testing.T) {
	store := newMemKVStore()
	cs := baseClientState()
	cs.LatestSlot = 500
	require.NoError(t, setClientState(store, cs))
	require.NoError(t, setConsensusState(store, ethtypes.ConsensusState{Slot: 500}))

	// A header for an earlier slot than already trusted still gets recorded
	// (e.g. filling in history), but must not move latest_slot backwards.
	_, err := updateState(store, headerForUpdate(10, 1, 1, 0, ethtypes.CurrentSyncCommittee(ethtypes.SyncCommittee{})))
	require.NoError(t, err)

	got, err := getClientState(store)
	require.NoError(t, err)
	require.Equal(t, uint64(500), got.LatestSlot)
}

func TestRotateCommitteesOnPeriodCrossingAdoptsHeaderCommittee(t *testing.T) {
	store := newMemKVStore()
	cs := baseClientState()
	cs.LatestSlot = 0 // period 0
	require.NoError(t, setConsensusState(store, ethtypes.ConsensusState{Slot: 0, CurrentSyncCommittee: [48]byte{1}}))

	slotsPerPeriod := cs.SlotsPerSyncCommitteePeriod()
	active := ethtypes.NextSyncCommitteeVariant(ethtypes.SyncCommittee{AggregatePubkey: append([]byte{2}, make([]byte, 47)...)})

	var cons ethtypes.ConsensusState
	err := rotateCommittees(store, cs, slotsPerPeriod, active, &cons)
	require.NoError(t, err)
	require.Equal(t, byte(2), cons.CurrentSyncCommittee[0])
	require.Nil(t, cons.NextSyncCommittee)
}

func TestRotateCommitteesSamePeriodCarriesStoredCommittee(t *testing.T) {
	store := newMemKVStore()
	cs := baseClientState()
	cs.LatestSlot = 5
	next := [48]byte{4}
	require.NoError(t, setConsensusState(store, ethtypes.ConsensusState{
		Slot:                 5,
		CurrentSyncCommittee: [48]byte{3},
		NextSyncCommittee:    &next,
	}))

	var cons ethtypes.ConsensusState
	err := rotateCommittees(store, cs, 6, ethtypes.CurrentSyncCommittee(ethtypes.SyncCommittee{}), &cons)
	require.NoError(t, err)
	require.Equal(t, [48]byte{3}, cons.CurrentSyncCommittee)
	require.Equal(t, &next, cons.NextSyncCommittee)
}
