package lightclient

import (
	errorsmod "cosmossdk.io/errors"
	blst "github.com/supranational/blst/bindings/go"

	"github.com/cosmos/relayer-eth-lightclient/pkg/ethtypes"
)

// domainSyncCommittee is DOMAIN_SYNC_COMMITTEE from the altair fork choice
// spec, the 4-byte domain type mixed into the sync committee signing root.
var domainSyncCommittee = [4]byte{0x07, 0x00, 0x00, 0x00}

// blsDST is the ciphersuite fastssz/blst consumers use for BLS signatures
// over G2, matching the sync committee's minimal-pubkey-size scheme.
const blsDST = "BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_"

func bitSet(bits []byte, i int) bool {
	byteIdx := i / 8
	if byteIdx >= len(bits) {
		return false
	}
	return bits[byteIdx]&(1<<uint(i%8)) != 0
}

func countSetBits(bits []byte) int {
	n := 0
	for i := 0; i < len(bits)*8; i++ {
		if bitSet(bits, i) {
			n++
		}
	}
	return n
}

// forkDataRoot implements ForkData{current_version, genesis_validators_root}.
func forkDataRoot(version [4]byte, genesisValidatorsRoot [32]byte) [32]byte {
	versionLeaf := make([]byte, 32)
	copy(versionLeaf, version[:])
	return merkleize([][]byte{versionLeaf, genesisValidatorsRoot[:]})
}

// computeDomain implements compute_domain(domain_type, fork_version,
// genesis_validators_root): the domain type concatenated with the first 28
// bytes of the fork data root.
func computeDomain(domainType [4]byte, forkVersion [4]byte, genesisValidatorsRoot [32]byte) [32]byte {
	fdr := forkDataRoot(forkVersion, genesisValidatorsRoot)
	var domain [32]byte
	copy(domain[:4], domainType[:])
	copy(domain[4:], fdr[:28])
	return domain
}

// computeSigningRoot implements compute_signing_root(object_root, domain):
// SigningData{object_root, domain}.
func computeSigningRoot(objectRoot [32]byte, domain [32]byte) [32]byte {
	return merkleize([][]byte{objectRoot[:], domain[:]})
}

// verifySyncAggregate implements spec.md 4.8 bullet (a)/(b): the aggregate
// BLS signature over the attested header's signing root by the committee
// members whose participation bit is set, with a minimum-participant floor.
func verifySyncAggregate(
	cs ethtypes.ClientState,
	committee ethtypes.SyncCommittee,
	aggregate ethtypes.SyncAggregate,
	signatureSlot uint64,
	attestedHeader ethtypes.BeaconBlockHeader,
) error {
	participants := countSetBits(aggregate.SyncCommitteeBits)
	if participants < int(cs.MinSyncCommitteeParticipants) {
		return errorsmod.Wrapf(ErrVerification, "sync committee participation %d below minimum %d", participants, cs.MinSyncCommitteeParticipants)
	}
	if len(committee.Pubkeys) != syncCommitteeSize {
		return errorsmod.Wrapf(ErrDataShape, "sync committee has %d pubkeys, want %d", len(committee.Pubkeys), syncCommitteeSize)
	}

	pks := make([]*blst.P1Affine, 0, participants)
	for i, raw := range committee.Pubkeys {
		if !bitSet(aggregate.SyncCommitteeBits, i) {
			continue
		}
		pk := new(blst.P1Affine).Uncompress(raw)
		if pk == nil {
			return errorsmod.Wrapf(ErrDataShape, "sync committee pubkey %d does not decompress", i)
		}
		pks = append(pks, pk)
	}

	epoch := cs.EpochAtSlot(signatureSlot)
	forkVersion := cs.ForkParameters.ForkVersionAtEpoch(epoch)
	domain := computeDomain(domainSyncCommittee, forkVersion, cs.GenesisValidatorsRoot)
	objectRoot := hashTreeRootBeaconBlockHeader(attestedHeader)
	signingRoot := computeSigningRoot(objectRoot, domain)

	sig := new(blst.P2Affine).Uncompress(aggregate.SyncCommitteeSignature)
	if sig == nil {
		return errorsmod.Wrap(ErrDataShape, "sync committee signature does not decompress")
	}

	if !sig.FastAggregateVerify(true, pks, signingRoot[:], []byte(blsDST)) {
		return errorsmod.Wrap(ErrVerification, "sync committee aggregate signature invalid")
	}
	return nil
}
