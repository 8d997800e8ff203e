package ethtypes

import (
	"encoding/json"
	"fmt"
)

// ActiveSyncCommitteeKind discriminates the two shapes a Header's committee
// reference can take.
type ActiveSyncCommitteeKind int

const (
	// ActiveSyncCommitteeCurrent means the committee carried by the header
	// is already trusted for the header's period.
	ActiveSyncCommitteeCurrent ActiveSyncCommitteeKind = iota
	// ActiveSyncCommitteeNext means the header introduces the committee
	// that becomes trusted starting the following period.
	ActiveSyncCommitteeNext
)

// ActiveSyncCommittee is the sum type `{Current(SyncCommittee),
// Next(SyncCommittee)}` from spec.md §9: implemented as a tagged value
// rather than by subclassing, with JSON round-tripping the same externally
// tagged shape ("current"/"next") the rust enum serializes to.
type ActiveSyncCommittee struct {
	Kind      ActiveSyncCommitteeKind
	Committee SyncCommittee
}

// CurrentSyncCommittee wraps committee as the already-trusted variant.
func CurrentSyncCommittee(committee SyncCommittee) ActiveSyncCommittee {
	return ActiveSyncCommittee{Kind: ActiveSyncCommitteeCurrent, Committee: committee}
}

// NextSyncCommitteeVariant wraps committee as the not-yet-trusted variant.
func NextSyncCommitteeVariant(committee SyncCommittee) ActiveSyncCommittee {
	return ActiveSyncCommittee{Kind: ActiveSyncCommitteeNext, Committee: committee}
}

// IsNext reports whether this header introduces a new trusted committee.
func (a ActiveSyncCommittee) IsNext() bool {
	return a.Kind == ActiveSyncCommitteeNext
}

func (a ActiveSyncCommittee) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case ActiveSyncCommitteeCurrent:
		return json.Marshal(struct {
			Current SyncCommittee `json:"current"`
		}{a.Committee})
	case ActiveSyncCommitteeNext:
		return json.Marshal(struct {
			Next SyncCommittee `json:"next"`
		}{a.Committee})
	default:
		return nil, fmt.Errorf("ethtypes: unknown ActiveSyncCommitteeKind %d", a.Kind)
	}
}

func (a *ActiveSyncCommittee) UnmarshalJSON(data []byte) error {
	var tagged struct {
		Current *SyncCommittee `json:"current"`
		Next    *SyncCommittee `json:"next"`
	}
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	switch {
	case tagged.Current != nil:
		*a = CurrentSyncCommittee(*tagged.Current)
	case tagged.Next != nil:
		*a = NextSyncCommitteeVariant(*tagged.Next)
	default:
		return fmt.Errorf("ethtypes: active_sync_committee has neither 'current' nor 'next'")
	}
	return nil
}

// Header is the composite object the relayer submits as a MsgUpdateClient
// body (spec.md §3): a sync-committee reference, the verified light-client
// update, and the account proof pinning it to an execution block.
type Header struct {
	ActiveSyncCommittee ActiveSyncCommittee `json:"active_sync_committee"`
	ConsensusUpdate     LightClientUpdate   `json:"consensus_update"`
	AccountUpdate       AccountUpdate       `json:"account_update"`
}

// FinalizedSlot is a convenience accessor used throughout the planner and
// proof assembler.
func (h Header) FinalizedSlot() uint64 {
	return h.ConsensusUpdate.FinalizedHeader.Beacon.Slot
}

// SignatureSlot is a convenience accessor for the readiness wait.
func (h Header) SignatureSlot() uint64 {
	return h.ConsensusUpdate.SignatureSlot
}
