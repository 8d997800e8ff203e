package ethtypes

import "math/big"

// ClientState is the Ethereum light-client state persisted on the Cosmos
// destination chain (spec.md §3). Invariant: LatestExecutionBlockNumber is
// the execution block finalized at LatestSlot.
type ClientState struct {
	ChainID                      string         `json:"chain_id"`
	GenesisValidatorsRoot        [32]byte       `json:"genesis_validators_root"`
	GenesisTime                  uint64         `json:"genesis_time"`
	GenesisSlot                  uint64         `json:"genesis_slot"`
	ForkParameters               ForkParameters `json:"fork_parameters"`
	SecondsPerSlot               uint64         `json:"seconds_per_slot"`
	SlotsPerEpoch                uint64         `json:"slots_per_epoch"`
	EpochsPerSyncCommitteePeriod uint64         `json:"epochs_per_sync_committee_period"`
	MinSyncCommitteeParticipants uint64         `json:"min_sync_committee_participants"`
	LatestSlot                   uint64         `json:"latest_slot"`
	LatestExecutionBlockNumber   uint64         `json:"latest_execution_block_number"`
	IbcCommitmentSlot            [32]byte       `json:"ibc_commitment_slot"`
	IbcContractAddress           [20]byte       `json:"ibc_contract_address"`
	IsFrozen                     bool           `json:"is_frozen"`
}

// SlotsPerSyncCommitteePeriod is the number of slots covered by one
// sync-committee period.
func (cs ClientState) SlotsPerSyncCommitteePeriod() uint64 {
	return cs.EpochsPerSyncCommitteePeriod * cs.SlotsPerEpoch
}

// ComputeSyncCommitteePeriodAtSlot implements spec.md 4.4's
// period_of(s) = s / (slots_per_epoch * epochs_per_sync_committee_period).
func (cs ClientState) ComputeSyncCommitteePeriodAtSlot(slot uint64) uint64 {
	return slot / cs.SlotsPerSyncCommitteePeriod()
}

// ComputeSlotAtTimestamp inverts genesis_time/seconds_per_slot, used by the
// post-assembly readiness wait (spec.md 4.6) to compare the destination
// chain's wall clock against the last header's signature slot. Returns
// (0, false) if the timestamp predates genesis.
func (cs ClientState) ComputeSlotAtTimestamp(timestampSeconds uint64) (uint64, bool) {
	if timestampSeconds < cs.GenesisTime {
		return 0, false
	}
	elapsed := timestampSeconds - cs.GenesisTime
	return elapsed/cs.SecondsPerSlot + cs.GenesisSlot, true
}

// EpochAtSlot floors a slot to its containing epoch.
func (cs ClientState) EpochAtSlot(slot uint64) uint64 {
	return slot / cs.SlotsPerEpoch
}

// IbcCommitmentSlotBigInt returns the storage slot index as a big-endian
// big.Int, the form eth_getProof's storage-key argument needs.
func (cs ClientState) IbcCommitmentSlotBigInt() *big.Int {
	return new(big.Int).SetBytes(cs.IbcCommitmentSlot[:])
}

// ConsensusState is the Ethereum light-client consensus state persisted per
// trusted slot (spec.md §3). NextSyncCommittee is present only when a
// LightClientUpdate introduced the next period's committee.
type ConsensusState struct {
	Slot                 uint64   `json:"slot"`
	StateRoot            [32]byte `json:"state_root"`
	StorageRoot          [32]byte `json:"storage_root"`
	Timestamp            uint64   `json:"timestamp"`
	CurrentSyncCommittee [48]byte `json:"current_sync_committee"`
	NextSyncCommittee    *[48]byte `json:"next_sync_committee,omitempty"`
}
