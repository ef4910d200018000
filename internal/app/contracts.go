package app

import (
	"time"

	"github.com/mesh-intelligence/folio/internal/blueprint"
	"github.com/mesh-intelligence/folio/internal/lifecycle"
	"github.com/mesh-intelligence/folio/pkg/types"
)

// CreateContract instantiates a contract from the blueprint with the given
// ID. The contract copies the blueprint's name and fields; later changes to
// the blueprint do not reach it.
func (s *State) CreateContract(name, blueprintID string) (types.Contract, error) {
	const op = "create_contract"
	if err := s.begin(); err != nil {
		return types.Contract{}, err
	}
	defer s.mu.Unlock()

	i := blueprint.Index(s.snap.Blueprints, blueprintID)
	if i < 0 {
		err := notFound("blueprint", blueprintID)
		s.observe(op, false, err)
		return types.Contract{}, err
	}
	c, err := lifecycle.New(s.newID(), name, s.snap.Blueprints[i], s.now())
	if err != nil {
		s.observe(op, false, err)
		return types.Contract{}, err
	}
	next := s.snap.Clone()
	next.Contracts = append(next.Contracts, c)
	if err := s.commit(op, next); err != nil {
		s.observe(op, false, err)
		return types.Contract{}, err
	}
	s.log.Info("contract created",
		"contract_id", c.ContractID,
		"blueprint_id", blueprintID,
		"fields", len(c.FieldValues))
	s.observe(op, true, nil)
	return c.Clone(), nil
}

// UpdateContractFields replaces all field values of a contract. On a
// locked or revoked contract the edit is dropped: the stored contract is
// returned with applied false and a nil error, and nothing is written.
func (s *State) UpdateContractFields(id string, values []types.ContractFieldValue) (types.Contract, bool, error) {
	return s.editContract("update_contract_fields", id, func(c types.Contract) (types.Contract, bool, error) {
		return lifecycle.UpdateFieldValues(c, values, s.now())
	})
}

// SetContractField changes one field value, with the same rules as
// UpdateContractFields.
func (s *State) SetContractField(id, fieldID string, v types.FieldValue) (types.Contract, bool, error) {
	return s.editContract("set_contract_field", id, func(c types.Contract) (types.Contract, bool, error) {
		return lifecycle.SetFieldValue(c, fieldID, v, s.now())
	})
}

func (s *State) editContract(op, id string, edit func(types.Contract) (types.Contract, bool, error)) (types.Contract, bool, error) {
	if err := s.begin(); err != nil {
		return types.Contract{}, false, err
	}
	defer s.mu.Unlock()

	i := lifecycle.Index(s.snap.Contracts, id)
	if i < 0 {
		err := notFound("contract", id)
		s.observe(op, false, err)
		return types.Contract{}, false, err
	}
	current := s.snap.Contracts[i]
	c, applied, err := edit(current)
	if err != nil {
		s.observe(op, false, err)
		return types.Contract{}, false, err
	}
	if !applied {
		s.metrics.DroppedEdits.Inc()
		s.log.Info("field edit dropped", "contract_id", id, "status", current.Status)
		s.observe(op, false, nil)
		return current.Clone(), false, nil
	}
	next := s.snap.Clone()
	next.Contracts[i] = c
	if err := s.commit(op, next); err != nil {
		s.observe(op, false, err)
		return types.Contract{}, false, err
	}
	s.observe(op, true, nil)
	return c.Clone(), true, nil
}

// AdvanceContract moves a contract one step along the status flow. The
// boolean is false, with the contract unchanged and nothing written, when
// the contract is already locked or revoked.
func (s *State) AdvanceContract(id string) (types.Contract, bool, error) {
	return s.transition("advance_contract", id, lifecycle.Advance)
}

// RevokeContract revokes a created or sent contract. The boolean is false,
// with nothing written, from any other status.
func (s *State) RevokeContract(id string) (types.Contract, bool, error) {
	return s.transition("revoke_contract", id, lifecycle.Revoke)
}

func (s *State) transition(op, id string, step func(types.Contract, time.Time) (types.Contract, bool)) (types.Contract, bool, error) {
	if err := s.begin(); err != nil {
		return types.Contract{}, false, err
	}
	defer s.mu.Unlock()

	i := lifecycle.Index(s.snap.Contracts, id)
	if i < 0 {
		err := notFound("contract", id)
		s.observe(op, false, err)
		return types.Contract{}, false, err
	}
	current := s.snap.Contracts[i]
	c, ok := step(current, s.now())
	if !ok {
		s.log.Info("transition rejected", "op", op, "contract_id", id, "status", current.Status)
		s.observe(op, false, nil)
		return current.Clone(), false, nil
	}
	next := s.snap.Clone()
	next.Contracts[i] = c
	if err := s.commit(op, next); err != nil {
		s.observe(op, false, err)
		return types.Contract{}, false, err
	}
	s.metrics.Transition(string(current.Status), string(c.Status))
	s.log.Info("contract transitioned", "contract_id", id, "from", current.Status, "to", c.Status)
	s.observe(op, true, nil)
	return c.Clone(), true, nil
}

// DeleteContract removes a contract regardless of its status.
func (s *State) DeleteContract(id string) error {
	const op = "delete_contract"
	if err := s.begin(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	i := lifecycle.Index(s.snap.Contracts, id)
	if i < 0 {
		err := notFound("contract", id)
		s.observe(op, false, err)
		return err
	}
	next := s.snap.Clone()
	next.Contracts = append(next.Contracts[:i], next.Contracts[i+1:]...)
	if err := s.commit(op, next); err != nil {
		s.observe(op, false, err)
		return err
	}
	s.log.Info("contract deleted", "contract_id", id)
	s.observe(op, true, nil)
	return nil
}

// GetContract returns the contract with the given ID.
func (s *State) GetContract(id string) (types.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := lifecycle.Index(s.snap.Contracts, id)
	if i < 0 {
		return types.Contract{}, notFound("contract", id)
	}
	return s.snap.Contracts[i].Clone(), nil
}

// ListContracts returns the contracts whose status passes f, in creation
// order. The result is never nil.
func (s *State) ListContracts(f types.StatusFilter) []types.Contract {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lifecycle.Filter(s.snap.Contracts, f)
}

// Summary returns dashboard counts over the current snapshot.
func (s *State) Summary() lifecycle.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lifecycle.Summarize(s.snap.Blueprints, s.snap.Contracts)
}
