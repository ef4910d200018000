// Package blueprint holds the pure operations on blueprints: construction,
// patching, validation, and seeding of the default template catalog. Nothing
// here performs I/O; the application facade persists the results.
package blueprint

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/folio/pkg/types"
)

// New builds a blueprint with the given ID and fields, stamping both
// timestamps with now. The field slice is copied.
// Returns a *types.ValidationError if the name is empty, there are no
// fields, or any field is malformed.
func New(id, name, description string, fields []types.BlueprintField, now time.Time) (types.Blueprint, error) {
	if id == "" {
		return types.Blueprint{}, types.ErrInvalidID
	}
	bp := types.Blueprint{
		BlueprintID: id,
		Name:        strings.TrimSpace(name),
		Description: description,
		Fields:      append([]types.BlueprintField(nil), fields...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := Validate(bp); err != nil {
		return types.Blueprint{}, err
	}
	return bp, nil
}

// Apply merges patch into bp and refreshes UpdatedAt. The merged blueprint
// must still pass Validate; on error bp is returned unchanged.
func Apply(bp types.Blueprint, patch types.BlueprintPatch, now time.Time) (types.Blueprint, error) {
	out := bp.Clone()
	if patch.Name != nil {
		out.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		out.Description = *patch.Description
	}
	if patch.Fields != nil {
		out.Fields = append([]types.BlueprintField(nil), patch.Fields...)
	}
	if err := Validate(out); err != nil {
		return bp, err
	}
	out.UpdatedAt = now
	return out, nil
}

// Validate checks the structural invariants of a blueprint: a non-empty
// name, at least one field, and fields with non-empty, unique IDs and
// recognized types.
func Validate(bp types.Blueprint) error {
	if bp.Name == "" {
		return types.Invalid("name", types.ErrInvalidName)
	}
	if len(bp.Fields) == 0 {
		return types.Invalid("fields", types.ErrNoFields)
	}
	seen := make(map[string]bool, len(bp.Fields))
	for i, f := range bp.Fields {
		if strings.TrimSpace(f.ID) == "" {
			return types.Invalid(fmt.Sprintf("fields[%d].id", i), types.ErrInvalidFieldID)
		}
		if seen[f.ID] {
			return types.Invalid(fmt.Sprintf("fields[%d].id", i), fmt.Errorf("%w: %q", types.ErrDuplicateFieldID, f.ID))
		}
		seen[f.ID] = true
		if !types.IsValidFieldType(f.Type) {
			return types.Invalid(fmt.Sprintf("fields[%d].type", i), fmt.Errorf("%w: %q", types.ErrInvalidFieldType, f.Type))
		}
	}
	return nil
}

// Index returns the position of the blueprint with the given ID, or -1.
func Index(bps []types.Blueprint, id string) int {
	for i, bp := range bps {
		if bp.BlueprintID == id {
			return i
		}
	}
	return -1
}
