package lifecycle

import "github.com/mesh-intelligence/folio/pkg/types"

// Filter returns the contracts whose status passes f, in their original
// order. The result shares no slices with cs.
func Filter(cs []types.Contract, f types.StatusFilter) []types.Contract {
	out := make([]types.Contract, 0, len(cs))
	for _, c := range cs {
		if f.Match(c.Status) {
			out = append(out, c.Clone())
		}
	}
	return out
}

// Summary is the dashboard view of the store.
type Summary struct {
	Blueprints int                          `json:"blueprints"`
	Contracts  int                          `json:"contracts"`
	Pending    int                          `json:"pending"` // created, approved, or sent
	Signed     int                          `json:"signed"`  // signed or locked
	Revoked    int                          `json:"revoked"`
	ByStatus   map[types.ContractStatus]int `json:"by_status"`
}

// Summarize counts blueprints and contracts. ByStatus has an entry for
// every status, zero included.
func Summarize(bps []types.Blueprint, cs []types.Contract) Summary {
	s := Summary{
		Blueprints: len(bps),
		Contracts:  len(cs),
		ByStatus:   make(map[types.ContractStatus]int, len(types.AllStatuses)),
	}
	for _, st := range types.AllStatuses {
		s.ByStatus[st] = 0
	}
	for _, c := range cs {
		s.ByStatus[c.Status]++
		switch c.Status {
		case types.StatusCreated, types.StatusApproved, types.StatusSent:
			s.Pending++
		case types.StatusSigned, types.StatusLocked:
			s.Signed++
		case types.StatusRevoked:
			s.Revoked++
		}
	}
	return s
}
