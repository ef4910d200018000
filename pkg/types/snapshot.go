package types

// Snapshot is the full persisted state: every blueprint, every contract,
// and whether the default catalog has ever been seeded. Stores read and
// write it whole.
type Snapshot struct {
	Blueprints  []Blueprint `json:"blueprints"`
	Contracts   []Contract  `json:"contracts"`
	Initialized bool        `json:"initialized"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Initialized: s.Initialized}
	if s.Blueprints != nil {
		out.Blueprints = make([]Blueprint, len(s.Blueprints))
		for i, b := range s.Blueprints {
			out.Blueprints[i] = b.Clone()
		}
	}
	if s.Contracts != nil {
		out.Contracts = make([]Contract, len(s.Contracts))
		for i, c := range s.Contracts {
			out.Contracts[i] = c.Clone()
		}
	}
	return out
}
