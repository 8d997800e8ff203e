package ethtypes_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
)

func TestActiveSyncCommitteeCurrentRoundTrip(t *testing.T) {
	committee := ethtypes.SyncCommittee{
		Pubkeys:         [][]byte{{0x01}, {0x02}},
		AggregatePubkey: []byte{0xaa},
	}
	asc := ethtypes.CurrentSyncCommittee(committee)
	require.False(t, asc.IsNext())

	data, err := json.Marshal(asc)
	require.NoError(t, err)
	require.JSONEq(t, `{"current":{"pubkeys":["AQ==","Ag=="],"aggregate_pubkey":"qg=="}}`, string(data))

	var decoded ethtypes.ActiveSyncCommittee
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, asc, decoded)
}

func TestActiveSyncCommitteeNextRoundTrip(t *testing.T) {
	committee := ethtypes.SyncCommittee{AggregatePubkey: []byte{0xbb}}
	asc := ethtypes.NextSyncCommitteeVariant(committee)
	require.True(t, asc.IsNext())

	data, err := json.Marshal(asc)
	require.NoError(t, err)

	var decoded ethtypes.ActiveSyncCommittee
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, asc, decoded)
	require.True(t, decoded.IsNext())
}

func TestActiveSyncCommitteeUnmarshalMissingTag(t *testing.T) {
	var decoded ethtypes.ActiveSyncCommittee
	err := json.Unmarshal([]byte(`{}`), &decoded)
	require.Error(t, err)
}

func TestHeaderAccessors(t *testing.T) {
	h := ethtypes.Header{
		ConsensusUpdate: ethtypes.LightClientUpdate{
			FinalizedHeader: ethtypes.LightClientHeader{
				Beacon: ethtypes.BeaconBlockHeader{Slot: 42},
			},
			SignatureSlot: 45,
		},
	}
	require.Equal(t, uint64(42), h.FinalizedSlot())
	require.Equal(t, uint64(45), h.SignatureSlot())
}
