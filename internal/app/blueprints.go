package app

import (
	"github.com/mesh-intelligence/folio/internal/blueprint"
	"github.com/mesh-intelligence/folio/pkg/types"
)

// InitializeDefaults seeds the default blueprint catalog the first time it
// runs against a store. It returns the number of blueprints added, which is
// zero when the store was already initialized or already held blueprints.
// Nothing is written once the store is initialized.
func (s *State) InitializeDefaults() (int, error) {
	const op = "initialize_defaults"
	if err := s.begin(); err != nil {
		return 0, err
	}
	defer s.mu.Unlock()

	if s.snap.Initialized {
		s.observe(op, false, nil)
		return 0, nil
	}
	before := len(s.snap.Blueprints)
	next, seeded := blueprint.Seed(s.snap, s.newID, s.now())
	if err := s.commit(op, next); err != nil {
		s.observe(op, false, err)
		return 0, err
	}
	added := 0
	if seeded {
		added = len(next.Blueprints) - before
		s.metrics.Seeded.Add(float64(added))
	}
	s.log.Info("defaults initialized", "seeded", added)
	s.observe(op, true, nil)
	return added, nil
}

// CreateBlueprint validates and stores a new blueprint.
func (s *State) CreateBlueprint(name, description string, fields []types.BlueprintField) (types.Blueprint, error) {
	const op = "create_blueprint"
	if err := s.begin(); err != nil {
		return types.Blueprint{}, err
	}
	defer s.mu.Unlock()

	bp, err := blueprint.New(s.newID(), name, description, fields, s.now())
	if err != nil {
		s.observe(op, false, err)
		return types.Blueprint{}, err
	}
	next := s.snap.Clone()
	next.Blueprints = append(next.Blueprints, bp)
	if err := s.commit(op, next); err != nil {
		s.observe(op, false, err)
		return types.Blueprint{}, err
	}
	s.log.Info("blueprint created", "blueprint_id", bp.BlueprintID, "name", bp.Name, "fields", len(bp.Fields))
	s.observe(op, true, nil)
	return bp.Clone(), nil
}

// UpdateBlueprint applies patch to the blueprint with the given ID.
// Contracts already created from it are not touched. An empty patch is
// accepted and changes nothing.
func (s *State) UpdateBlueprint(id string, patch types.BlueprintPatch) (types.Blueprint, error) {
	const op = "update_blueprint"
	if err := s.begin(); err != nil {
		return types.Blueprint{}, err
	}
	defer s.mu.Unlock()

	i := blueprint.Index(s.snap.Blueprints, id)
	if i < 0 {
		err := notFound("blueprint", id)
		s.observe(op, false, err)
		return types.Blueprint{}, err
	}
	if patch.IsEmpty() {
		s.observe(op, true, nil)
		return s.snap.Blueprints[i].Clone(), nil
	}
	bp, err := blueprint.Apply(s.snap.Blueprints[i], patch, s.now())
	if err != nil {
		s.observe(op, false, err)
		return types.Blueprint{}, err
	}
	next := s.snap.Clone()
	next.Blueprints[i] = bp
	if err := s.commit(op, next); err != nil {
		s.observe(op, false, err)
		return types.Blueprint{}, err
	}
	s.log.Info("blueprint updated", "blueprint_id", id)
	s.observe(op, true, nil)
	return bp.Clone(), nil
}

// DeleteBlueprint removes a blueprint. Contracts created from it keep
// their own copy of its name and fields and are left as they are.
func (s *State) DeleteBlueprint(id string) error {
	const op = "delete_blueprint"
	if err := s.begin(); err != nil {
		return err
	}
	defer s.mu.Unlock()

	i := blueprint.Index(s.snap.Blueprints, id)
	if i < 0 {
		err := notFound("blueprint", id)
		s.observe(op, false, err)
		return err
	}
	next := s.snap.Clone()
	next.Blueprints = append(next.Blueprints[:i], next.Blueprints[i+1:]...)
	if err := s.commit(op, next); err != nil {
		s.observe(op, false, err)
		return err
	}
	s.log.Info("blueprint deleted", "blueprint_id", id)
	s.observe(op, true, nil)
	return nil
}

// GetBlueprint returns the blueprint with the given ID.
func (s *State) GetBlueprint(id string) (types.Blueprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := blueprint.Index(s.snap.Blueprints, id)
	if i < 0 {
		return types.Blueprint{}, notFound("blueprint", id)
	}
	return s.snap.Blueprints[i].Clone(), nil
}

// ListBlueprints returns every blueprint in creation order. The result is
// never nil.
func (s *State) ListBlueprints() []types.Blueprint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Blueprint, len(s.snap.Blueprints))
	for i, bp := range s.snap.Blueprints {
		out[i] = bp.Clone()
	}
	return out
}
