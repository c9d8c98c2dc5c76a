package domain

// ElectionStatus represents the lifecycle state of an election.
type ElectionStatus string

const (
	ElectionStatusDraft     ElectionStatus = "DRAFT"
	ElectionStatusScheduled ElectionStatus = "SCHEDULED"
	ElectionStatusActive    ElectionStatus = "ACTIVE"
	ElectionStatusPaused    ElectionStatus = "PAUSED"
	ElectionStatusCompleted ElectionStatus = "COMPLETED"
	ElectionStatusCancelled ElectionStatus = "CANCELLED"
)

func (s ElectionStatus) String() string { return string(s) }

func (s ElectionStatus) IsValid() bool {
	switch s {
	case ElectionStatusDraft, ElectionStatusScheduled, ElectionStatusActive,
		ElectionStatusPaused, ElectionStatusCompleted, ElectionStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further status transitions are possible.
func (s ElectionStatus) IsTerminal() bool {
	return s == ElectionStatusCompleted || s == ElectionStatusCancelled
}

// ElectionPhase represents the sub-stage of an election's lifecycle.
// Phases progress monotonically; only an administrative override may
// move a phase backwards.
type ElectionPhase string

const (
	PhaseRegistration ElectionPhase = "REGISTRATION"
	PhaseNomination   ElectionPhase = "NOMINATION"
	PhaseCampaign     ElectionPhase = "CAMPAIGN"
	PhaseVoting       ElectionPhase = "VOTING"
	PhaseResults      ElectionPhase = "RESULTS"
	PhaseCompleted    ElectionPhase = "COMPLETED"
)

func (p ElectionPhase) String() string { return string(p) }

func (p ElectionPhase) IsValid() bool {
	switch p {
	case PhaseRegistration, PhaseNomination, PhaseCampaign,
		PhaseVoting, PhaseResults, PhaseCompleted:
		return true
	}
	return false
}

// phaseOrder assigns each phase its position in the forward progression.
var phaseOrder = map[ElectionPhase]int{
	PhaseRegistration: 0,
	PhaseNomination:   1,
	PhaseCampaign:     2,
	PhaseVoting:       3,
	PhaseResults:      4,
	PhaseCompleted:    5,
}

// Order returns the phase's index in the forward progression, or -1 for an
// unknown phase.
func (p ElectionPhase) Order() int {
	if o, ok := phaseOrder[p]; ok {
		return o
	}
	return -1
}

// Next returns the phase following p, or p itself if p is the last phase.
func (p ElectionPhase) Next() ElectionPhase {
	switch p {
	case PhaseRegistration:
		return PhaseNomination
	case PhaseNomination:
		return PhaseCampaign
	case PhaseCampaign:
		return PhaseVoting
	case PhaseVoting:
		return PhaseResults
	case PhaseResults:
		return PhaseCompleted
	}
	return p
}

// ElectionScope identifies whether an election covers the whole institution
// or a sub-group within it.
type ElectionScope string

const (
	ScopeInstitution ElectionScope = "INSTITUTION"
	ScopeSubGroup    ElectionScope = "SUB_GROUP"
)

func (s ElectionScope) String() string { return string(s) }

func (s ElectionScope) IsValid() bool {
	return s == ScopeInstitution || s == ScopeSubGroup
}

// CandidateStatus represents the approval state of a candidate.
type CandidateStatus string

const (
	CandidateStatusPending  CandidateStatus = "PENDING"
	CandidateStatusApproved CandidateStatus = "APPROVED"
	CandidateStatusRejected CandidateStatus = "REJECTED"
)

func (s CandidateStatus) String() string { return string(s) }

func (s CandidateStatus) IsValid() bool {
	switch s {
	case CandidateStatusPending, CandidateStatusApproved, CandidateStatusRejected:
		return true
	}
	return false
}

// VotingMethod identifies how a position is voted on.
// Single-choice is the only supported method.
type VotingMethod string

const (
	VotingMethodSingleChoice VotingMethod = "SINGLE_CHOICE"
)

func (m VotingMethod) String() string { return string(m) }

func (m VotingMethod) IsValid() bool {
	return m == VotingMethodSingleChoice
}

// AccessStatus represents the state of a voter's access record.
type AccessStatus string

const (
	AccessStatusActive  AccessStatus = "ACTIVE"
	AccessStatusRevoked AccessStatus = "REVOKED"
)

func (s AccessStatus) String() string { return string(s) }

func (s AccessStatus) IsValid() bool {
	return s == AccessStatusActive || s == AccessStatusRevoked
}

// VoteStatus represents the verification state of a vote record.
type VoteStatus string

const (
	VoteStatusCast     VoteStatus = "CAST"
	VoteStatusVerified VoteStatus = "VERIFIED"
	VoteStatusCounted  VoteStatus = "COUNTED"
	VoteStatusDisputed VoteStatus = "DISPUTED"
)

func (s VoteStatus) String() string { return string(s) }

func (s VoteStatus) IsValid() bool {
	switch s {
	case VoteStatusCast, VoteStatusVerified, VoteStatusCounted, VoteStatusDisputed:
		return true
	}
	return false
}

// IsCounted reports whether votes in this status contribute to tabulation.
func (s VoteStatus) IsCounted() bool {
	switch s {
	case VoteStatusCast, VoteStatusVerified, VoteStatusCounted:
		return true
	}
	return false
}

// VoteEventType identifies an entry in a vote's append-only audit trail.
type VoteEventType string

const (
	VoteEventCast     VoteEventType = "CAST"
	VoteEventVerified VoteEventType = "VERIFIED"
	VoteEventDisputed VoteEventType = "DISPUTED"
)

func (t VoteEventType) String() string { return string(t) }

func (t VoteEventType) IsValid() bool {
	switch t {
	case VoteEventCast, VoteEventVerified, VoteEventDisputed:
		return true
	}
	return false
}

// VerificationMethod identifies how a vote was verified.
type VerificationMethod string

const (
	VerificationMethodReceipt VerificationMethod = "RECEIPT"
	VerificationMethodAudit   VerificationMethod = "AUDIT"
	VerificationMethodManual  VerificationMethod = "MANUAL"
)

func (m VerificationMethod) String() string { return string(m) }

func (m VerificationMethod) IsValid() bool {
	switch m {
	case VerificationMethodReceipt, VerificationMethodAudit, VerificationMethodManual:
		return true
	}
	return false
}
