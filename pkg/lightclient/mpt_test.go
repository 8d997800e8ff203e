package lightclient

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
)

func TestCommitmentStorageKeyIsDeterministic(t *testing.T) {
	slot := [32]byte{1}
	k1 := commitmentStorageKey([]byte("packet/commitments/1"), slot)
	k2 := commitmentStorageKey([]byte("packet/commitments/1"), slot)
	require.Equal(t, k1, k2)
}

func TestCommitmentStorageKeyVariesByPath(t *testing.T) {
	slot := [32]byte{1}
	k1 := commitmentStorageKey([]byte("packet/commitments/1"), slot)
	k2 := commitmentStorageKey([]byte("packet/commitments/2"), slot)
	require.NotEqual(t, k1, k2)
}

func TestVerifyAccountProofRejectsGarbageProof(t *testing.T) {
	cs := ethtypes.ClientState{IbcContractAddress: [20]byte{1, 2, 3}}
	execution := ethtypes.ExecutionPayloadHeader{StateRoot: make([]byte, 32)}
	update := ethtypes.AccountUpdate{
		AccountProof: ethtypes.AccountProof{Proof: [][]byte{[]byte("not a trie node")}},
		StorageRoot:  make([]byte, 32),
	}

	err := verifyAccountProof(cs, execution, update)
	require.Error(t, err)
}

func TestVerifyStorageProofRejectsGarbageProof(t *testing.T) {
	proof := ethtypes.StorageProof{
		Key:   []byte("key"),
		Value: []byte("value"),
		Proof: [][]byte{[]byte("not a trie node")},
	}
	_, err := verifyStorageProof([32]byte{1}, proof)
	require.Error(t, err)
}

func TestMerklePathUsesLastSegment(t *testing.T) {
	p := MerklePath{[]byte("ibc"), []byte("packet/commitments/1")}
	seg, err := p.commitmentPath()
	require.NoError(t, err)
	require.Equal(t, []byte("packet/commitments/1"), seg)
}

func TestMerklePathRejectsEmpty(t *testing.T) {
	p := MerklePath{}
	_, err := p.commitmentPath()
	require.Error(t, err)
}
