package ethtypes_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
)

func testClientState() ethtypes.ClientState {
	return ethtypes.ClientState{
		ChainID:                      "1",
		GenesisTime:                  1000,
		GenesisSlot:                  0,
		SecondsPerSlot:               12,
		SlotsPerEpoch:                32,
		EpochsPerSyncCommitteePeriod: 256,
	}
}

func TestSlotsPerSyncCommitteePeriod(t *testing.T) {
	cs := testClientState()
	require.Equal(t, uint64(32*256), cs.SlotsPerSyncCommitteePeriod())
}

func TestComputeSyncCommitteePeriodAtSlot(t *testing.T) {
	cs := testClientState()
	period := cs.SlotsPerSyncCommitteePeriod()
	require.Equal(t, uint64(0), cs.ComputeSyncCommitteePeriodAtSlot(0))
	require.Equal(t, uint64(0), cs.ComputeSyncCommitteePeriodAtSlot(period-1))
	require.Equal(t, uint64(1), cs.ComputeSyncCommitteePeriodAtSlot(period))
	require.Equal(t, uint64(3), cs.ComputeSyncCommitteePeriodAtSlot(period*3+5))
}

func TestComputeSlotAtTimestamp(t *testing.T) {
	cs := testClientState()

	slot, ok := cs.ComputeSlotAtTimestamp(1000)
	require.True(t, ok)
	require.Equal(t, uint64(0), slot)

	slot, ok = cs.ComputeSlotAtTimestamp(1000 + 12*5)
	require.True(t, ok)
	require.Equal(t, uint64(5), slot)
}

func TestComputeSlotAtTimestampBeforeGenesis(t *testing.T) {
	cs := testClientState()
	_, ok := cs.ComputeSlotAtTimestamp(999)
	require.False(t, ok)
}

func TestEpochAtSlot(t *testing.T) {
	cs := testClientState()
	require.Equal(t, uint64(0), cs.EpochAtSlot(31))
	require.Equal(t, uint64(1), cs.EpochAtSlot(32))
}

func TestIbcCommitmentSlotBigInt(t *testing.T) {
	cs := testClientState()
	cs.IbcCommitmentSlot[31] = 0x07
	require.Equal(t, "7", cs.IbcCommitmentSlotBigInt().String())
}
