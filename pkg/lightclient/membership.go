package lightclient

import (
	"bytes"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"
	exported "github.com/cosmos/ibc-go/v11/modules/core/exported"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
)

// MerklePath is the key_path a membership proof resolves, mirroring
// cw-ics08-wasm-eth's MerklePath{key_path: Vec<Binary>}. Only the final
// segment is used: the IBC commitment path string hashed into a storage
// slot the same way commitmentStorageKey does for the transaction builder.
type MerklePath [][]byte

func (p MerklePath) commitmentPath() ([]byte, error) {
	if len(p) == 0 {
		return nil, errorsmod.Wrap(ErrDataShape, "merkle path has no segments")
	}
	return p[len(p)-1], nil
}

// commitmentStorageKey derives the Ethereum storage slot a packet-lifecycle
// commitment lives at, keccak256(keccak256(path) . ibc_commitment_slot).
// Duplicated from txbuilder's helper of the same name rather than imported,
// so the verifier has no dependency on the relayer's own transaction
// builder package.
func commitmentStorageKey(path []byte, ibcCommitmentSlot [32]byte) ethcommon.Hash {
	pathHash := crypto.Keccak256(path)
	paddedSlot := ethcommon.LeftPadBytes(ibcCommitmentSlot[:], 32)
	return crypto.Keccak256Hash(pathHash, paddedSlot)
}

// VerifyMembership implements spec.md 4.8's verify_membership: locate the
// ConsensusState trusted at height, derive the IBC contract's storage root,
// and check the storage proof resolves the path's key to value. Delay
// periods are accepted but ignored, matching the rust original's documented
// behavior for an execution-layer source chain with no analogous notion of
// block-time-based delay.
func VerifyMembership(store storetypes.KVStore, height exported.Height, delayTimePeriod, delayBlockPeriod uint64, proof []byte, path MerklePath, value []byte) error {
	return verifyMembershipCommon(store, height, proof, path, value, true)
}

// VerifyNonMembership implements spec.md 4.8's verify_non_membership: same
// lookup, but requires the storage proof resolve to an empty/absent slot.
// Delay periods are accepted and ignored, as in VerifyMembership.
func VerifyNonMembership(store storetypes.KVStore, height exported.Height, delayTimePeriod, delayBlockPeriod uint64, proof []byte, path MerklePath) error {
	return verifyMembershipCommon(store, height, proof, path, nil, false)
}

func verifyMembershipCommon(store kvStore, height exported.Height, proofBz []byte, path MerklePath, value []byte, expectPresent bool) error {
	cs, err := getClientState(store)
	if err != nil {
		return err
	}
	if cs.IsFrozen {
		return errorsmod.Wrap(ErrFrozen, "client is frozen")
	}
	cons, err := getConsensusState(store, height.GetRevisionHeight())
	if err != nil {
		return err
	}

	var sp ethtypes.StorageProof
	if err := unmarshalProof(proofBz, &sp); err != nil {
		return err
	}

	commitmentPath, err := path.commitmentPath()
	if err != nil {
		return err
	}
	wantKey := commitmentStorageKey(commitmentPath, cs.IbcCommitmentSlot)
	if !bytes.Equal(sp.Key, wantKey[:]) {
		return errorsmod.Wrap(ErrDataShape, "storage proof key does not match the derived commitment slot")
	}

	got, err := verifyStorageProof(cons.StorageRoot, sp)
	if err != nil {
		return err
	}

	if expectPresent {
		if got == nil || !bytes.Equal(got, sp.Value) {
			return errorsmod.Wrap(ErrVerification, "storage proof does not resolve to the claimed value")
		}
		if !bytes.Equal(sp.Value, value) {
			return errorsmod.Wrap(ErrVerification, "storage proof value does not match the expected commitment bytes")
		}
	} else if got != nil {
		return errorsmod.Wrap(ErrVerification, "storage proof resolves to a present value, expected absence")
	}
	return nil
}
