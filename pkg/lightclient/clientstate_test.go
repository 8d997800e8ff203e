package lightclient

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	exported "github.com/cosmos/ibc-go/v11/modules/core/exported"

	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
)

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	bz, err := json.Marshal(v)
	require.NoError(t, err)
	return bz
}

func TestInitializeRejectsSlotMismatch(t *testing.T) {
	store := newMemKVStore()
	cs := ethtypes.ClientState{LatestSlot: 10}
	cons := ethtypes.ConsensusState{Slot: 11}

	err := initialize(store, mustJSON(t, cs), mustJSON(t, cons))
	require.Error(t, err)
}

func TestInitializePersistsStateAndVersion(t *testing.T) {
	store := newMemKVStore()
	cs := ethtypes.ClientState{LatestSlot: 10}
	cons := ethtypes.ConsensusState{Slot: 10, Timestamp: 100}

	require.NoError(t, initialize(store, mustJSON(t, cs), mustJSON(t, cons)))

	got, err := getClientState(store)
	require.NoError(t, err)
	require.Equal(t, uint64(10), got.LatestSlot)

	v, found := getVersionRecord(store)
	require.True(t, found)
	require.Equal(t, moduleVersion, v.Version)
}

func TestStatusFrozenIsTerminal(t *testing.T) {
	store := newMemKVStore()
	require.NoError(t, setClientState(store, ethtypes.ClientState{IsFrozen: true, LatestSlot: 1}))

	got, err := status(store, time.Now())
	require.NoError(t, err)
	require.Equal(t, exported.Frozen, got)
}

func TestStatusActiveWhenFresh(t *testing.T) {
	store := newMemKVStore()
	now := time.Now()
	require.NoError(t, setClientState(store, ethtypes.ClientState{LatestSlot: 5}))
	require.NoError(t, setConsensusState(store, ethtypes.ConsensusState{Slot: 5, Timestamp: uint64(now.Unix())}))

	got, err := status(store, now)
	require.NoError(t, err)
	require.Equal(t, exported.Active, got)
}

func TestStatusExpiredWhenStale(t *testing.T) {
	store := newMemKVStore()
	now := time.Now()
	stale := now.Add(-30 * 24 * time.Hour)
	require.NoError(t, setClientState(store, ethtypes.ClientState{LatestSlot: 5}))
	require.NoError(t, setConsensusState(store, ethtypes.ConsensusState{Slot: 5, Timestamp: uint64(stale.Unix())}))

	got, err := status(store, now)
	require.NoError(t, err)
	require.Equal(t, exported.Expired, got)
}

func TestGetTimestampAtHeight(t *testing.T) {
	store := newMemKVStore()
	require.NoError(t, setConsensusState(store, ethtypes.ConsensusState{Slot: 50, Timestamp: 1000}))

	ts, err := getTimestampAtHeight(store, heightFromSlot(50))
	require.NoError(t, err)
	require.Equal(t, uint64(1000)*uint64(time.Second), ts)
}
