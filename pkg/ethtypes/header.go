package ethtypes

// BeaconBlockHeader is the beacon-chain side of a LightClientHeader.
type BeaconBlockHeader struct {
	Slot          uint64 `json:"slot,string"`
	ProposerIndex uint64 `json:"proposer_index,string"`
	ParentRoot    []byte `json:"parent_root"`
	StateRoot     []byte `json:"state_root"`
	BodyRoot      []byte `json:"body_root"`
}

// ExecutionPayloadHeader is the execution-chain side of a LightClientHeader.
// BlockNumber is the field the update planner pins account proofs to.
type ExecutionPayloadHeader struct {
	ParentHash       []byte `json:"parent_hash"`
	FeeRecipient     []byte `json:"fee_recipient"`
	StateRoot        []byte `json:"state_root"`
	ReceiptsRoot     []byte `json:"receipts_root"`
	LogsBloom        []byte `json:"logs_bloom"`
	PrevRandao       []byte `json:"prev_randao"`
	BlockNumber      uint64 `json:"block_number,string"`
	GasLimit         uint64 `json:"gas_limit,string"`
	GasUsed          uint64 `json:"gas_used,string"`
	Timestamp        uint64 `json:"timestamp,string"`
	ExtraData        []byte `json:"extra_data"`
	BaseFeePerGas    []byte `json:"base_fee_per_gas"`
	BlockHash        []byte `json:"block_hash"`
	TransactionsRoot []byte `json:"transactions_root"`
	WithdrawalsRoot  []byte `json:"withdrawals_root"`
	BlobGasUsed      uint64 `json:"blob_gas_used,string"`
	ExcessBlobGas    uint64 `json:"excess_blob_gas,string"`
}

// LightClientHeader pairs a beacon header with the execution header it
// commits to, plus the branch proving the execution header is included in
// the beacon block body.
type LightClientHeader struct {
	Beacon          BeaconBlockHeader      `json:"beacon"`
	Execution       ExecutionPayloadHeader `json:"execution"`
	ExecutionBranch [][]byte               `json:"execution_branch"`
}

// SyncCommittee is the fixed-size validator set whose aggregate signature
// attests to block roots during one sync-committee period.
type SyncCommittee struct {
	Pubkeys         [][]byte `json:"pubkeys"`
	AggregatePubkey []byte   `json:"aggregate_pubkey"`
}

// SyncAggregate is the participation bitvector and aggregate BLS signature
// a LightClientUpdate carries.
type SyncAggregate struct {
	SyncCommitteeBits      []byte `json:"sync_committee_bits"`
	SyncCommitteeSignature []byte `json:"sync_committee_signature"`
}

// LightClientUpdate is the full beacon-API light-client update: an attested
// header, the next sync committee (with its Merkle branch), a finalized
// header (with its branch against the attested state root), and the sync
// aggregate that signs the attested header.
type LightClientUpdate struct {
	AttestedHeader          LightClientHeader `json:"attested_header"`
	NextSyncCommittee       *SyncCommittee    `json:"next_sync_committee,omitempty"`
	NextSyncCommitteeBranch [][]byte          `json:"next_sync_committee_branch,omitempty"`
	FinalizedHeader         LightClientHeader `json:"finalized_header"`
	FinalityBranch          [][]byte          `json:"finality_branch"`
	SyncAggregate           SyncAggregate     `json:"sync_aggregate"`
	SignatureSlot           uint64            `json:"signature_slot,string"`
}

// LightClientFinalityUpdate is a LightClientUpdate without the
// next-sync-committee fields.
type LightClientFinalityUpdate struct {
	AttestedHeader  LightClientHeader `json:"attested_header"`
	FinalizedHeader LightClientHeader `json:"finalized_header"`
	FinalityBranch  [][]byte          `json:"finality_branch"`
	SyncAggregate   SyncAggregate     `json:"sync_aggregate"`
	SignatureSlot   uint64            `json:"signature_slot,string"`
}

// AsLightClientUpdate widens a finality update into a full update carrying
// no next-sync-committee fields, matching the rust original's
// `finality_update.clone().into()` conversion used to build the trailing
// Current-tagged header in get_update_headers.
func (f LightClientFinalityUpdate) AsLightClientUpdate() LightClientUpdate {
	return LightClientUpdate{
		AttestedHeader:  f.AttestedHeader,
		FinalizedHeader: f.FinalizedHeader,
		FinalityBranch:  f.FinalityBranch,
		SyncAggregate:   f.SyncAggregate,
		SignatureSlot:   f.SignatureSlot,
	}
}
