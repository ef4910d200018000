package types

import "fmt"

// ContractStatus is a position in the contract lifecycle.
type ContractStatus string

// Contract statuses. Created through Locked form the forward flow; Revoked
// is a side exit. Locked and Revoked are terminal.
const (
	StatusCreated  ContractStatus = "created"
	StatusApproved ContractStatus = "approved"
	StatusSent     ContractStatus = "sent"
	StatusSigned   ContractStatus = "signed"
	StatusLocked   ContractStatus = "locked"
	StatusRevoked  ContractStatus = "revoked"
)

// StatusFlow is the forward progression in order.
var StatusFlow = []ContractStatus{
	StatusCreated,
	StatusApproved,
	StatusSent,
	StatusSigned,
	StatusLocked,
}

// AllStatuses lists every status, terminal side exit last.
var AllStatuses = append(append([]ContractStatus(nil), StatusFlow...), StatusRevoked)

// nextStatus is the forward transition table.
var nextStatus = map[ContractStatus]ContractStatus{
	StatusCreated:  StatusApproved,
	StatusApproved: StatusSent,
	StatusSent:     StatusSigned,
	StatusSigned:   StatusLocked,
}

// revocable lists the statuses from which a contract may be revoked.
var revocable = map[ContractStatus]bool{
	StatusCreated: true,
	StatusSent:    true,
}

// IsValidStatus reports whether s is a recognized status.
func IsValidStatus(s ContractStatus) bool {
	for _, st := range AllStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// ParseStatus converts a string to a ContractStatus.
// Returns ErrInvalidStatus if it is not recognized.
func ParseStatus(s string) (ContractStatus, error) {
	st := ContractStatus(s)
	if !IsValidStatus(st) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// NextStatus returns the successor of s in the forward flow. The boolean is
// false when s has no successor (locked, revoked, or unknown).
func NextStatus(s ContractStatus) (ContractStatus, bool) {
	next, ok := nextStatus[s]
	return next, ok
}

// CanRevoke reports whether a contract in status s may be revoked.
func CanRevoke(s ContractStatus) bool {
	return revocable[s]
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s ContractStatus) bool {
	return s == StatusLocked || s == StatusRevoked
}

// IsEditable reports whether field values may change in status s.
func IsEditable(s ContractStatus) bool {
	return !IsTerminal(s)
}

// StatusFilter selects contracts for listing. Besides every concrete
// status it accepts the groups below.
type StatusFilter string

// Status filter groups.
const (
	FilterAll     StatusFilter = "all"
	FilterActive  StatusFilter = "active"  // anything not locked or revoked
	FilterPending StatusFilter = "pending" // created, approved, or sent
)

// ParseStatusFilter validates a filter string. The empty string means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive, FilterPending:
		return StatusFilter(s), nil
	}
	if IsValidStatus(ContractStatus(s)) {
		return StatusFilter(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Match reports whether a contract in status s passes the filter.
func (f StatusFilter) Match(s ContractStatus) bool {
	switch f {
	case "", FilterAll:
		return true
	case FilterActive:
		return !IsTerminal(s)
	case FilterPending:
		return s == StatusCreated || s == StatusApproved || s == StatusSent
	default:
		return ContractStatus(f) == s
	}
}
