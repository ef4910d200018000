// Package lifecycle implements the contract state machine and the rules for
// editing contract field values. Every function takes a contract by value
// and returns the new contract; the caller decides whether to keep it.
//
// Transitions follow types.NextStatus and types.CanRevoke. An invalid
// transition is an ordinary outcome reported as false, never an error.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/folio/pkg/types"
)

// New instantiates a contract from bp. The blueprint name, each field's
// type, and each field's required flag are copied; checkbox fields start
// false and every other field starts as "". Status is created and both
// timestamps are now.
func New(id, name string, bp types.Blueprint, now time.Time) (types.Contract, error) {
	if id == "" {
		return types.Contract{}, types.ErrInvalidID
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Contract{}, types.Invalid("name", types.ErrInvalidName)
	}
	values := make([]types.ContractFieldValue, 0, len(bp.Fields))
	for _, f := range bp.Fields {
		v, err := types.DefaultValue(f.Type)
		if err != nil {
			return types.Contract{}, types.Invalid("fields."+f.ID, err)
		}
		values = append(values, types.ContractFieldValue{
			FieldID:  f.ID,
			Type:     f.Type,
			Required: f.Required,
			Value:    v,
		})
	}
	return types.Contract{
		ContractID:    id,
		Name:          name,
		BlueprintID:   bp.BlueprintID,
		BlueprintName: bp.Name,
		Status:        types.StatusCreated,
		FieldValues:   values,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Advance moves c one step along the status flow. It returns c unchanged
// and false when the current status has no successor.
func Advance(c types.Contract, now time.Time) (types.Contract, bool) {
	next, ok := types.NextStatus(c.Status)
	if !ok {
		return c, false
	}
	out := c.Clone()
	out.Status = next
	out.UpdatedAt = now
	return out, true
}

// Revoke moves c to revoked. Only created and sent contracts may be
// revoked; otherwise c is returned unchanged with false.
func Revoke(c types.Contract, now time.Time) (types.Contract, bool) {
	if !types.CanRevoke(c.Status) {
		return c, false
	}
	out := c.Clone()
	out.Status = types.StatusRevoked
	out.UpdatedAt = now
	return out, true
}

// UpdateFieldValues replaces the whole field value sequence of c.
//
// On a locked or revoked contract the edit is dropped: c comes back
// unchanged with applied false and a nil error. Otherwise values must name
// exactly the contract's field IDs, each once, with values in the domain of
// the field's type. Values may arrive in any order; they are stored in the
// contract's field order. The Type and Required attributes on the input are
// ignored in favor of the contract's own.
func UpdateFieldValues(c types.Contract, values []types.ContractFieldValue, now time.Time) (types.Contract, bool, error) {
	if !c.IsEditable() {
		return c, false, nil
	}
	if len(values) != len(c.FieldValues) {
		return c, false, types.Invalid("field_values", fmt.Errorf("%w: got %d values for %d fields",
			types.ErrFieldSetMismatch, len(values), len(c.FieldValues)))
	}
	byID := make(map[string]types.FieldValue, len(values))
	for _, v := range values {
		if _, dup := byID[v.FieldID]; dup {
			return c, false, types.Invalid("field_values", fmt.Errorf("%w: %q given twice", types.ErrFieldSetMismatch, v.FieldID))
		}
		byID[v.FieldID] = v.Value
	}

	out := c.Clone()
	for i, fv := range out.FieldValues {
		v, ok := byID[fv.FieldID]
		if !ok {
			return c, false, types.Invalid("field_values", fmt.Errorf("%w: missing %q", types.ErrFieldSetMismatch, fv.FieldID))
		}
		if err := checkDomain(fv, v); err != nil {
			return c, false, err
		}
		out.FieldValues[i].Value = v
	}
	out.UpdatedAt = now
	return out, true, nil
}

// SetFieldValue changes a single field value. It follows the same rules as
// UpdateFieldValues: dropped silently on locked or revoked contracts,
// ErrFieldNotFound for an unknown field, ErrTypeMismatch for a value of the
// wrong domain.
func SetFieldValue(c types.Contract, fieldID string, v types.FieldValue, now time.Time) (types.Contract, bool, error) {
	if !c.IsEditable() {
		return c, false, nil
	}
	for i, fv := range c.FieldValues {
		if fv.FieldID != fieldID {
			continue
		}
		if err := checkDomain(fv, v); err != nil {
			return c, false, err
		}
		out := c.Clone()
		out.FieldValues[i].Value = v
		out.UpdatedAt = now
		return out, true, nil
	}
	return c, false, types.Invalid("field_id", fmt.Errorf("%w: %q", types.ErrFieldNotFound, fieldID))
}

// checkDomain rejects v if it does not belong to the domain of fv's type.
func checkDomain(fv types.ContractFieldValue, v types.FieldValue) error {
	if v.Domain() != fv.Type.Domain() {
		return types.Invalid("field_values."+fv.FieldID, fmt.Errorf("%w: %s field needs a %s value, got %s",
			types.ErrTypeMismatch, fv.Type, fv.Type.Domain(), v.Domain()))
	}
	return nil
}

// MissingRequired lists the IDs of required fields whose value is still
// empty, in field order. It is informational; no transition checks it.
func MissingRequired(c types.Contract) []string {
	var missing []string
	for _, fv := range c.FieldValues {
		if fv.Required && fv.Value.IsEmpty() {
			missing = append(missing, fv.FieldID)
		}
	}
	return missing
}

// Index returns the position of the contract with the given ID, or -1.
func Index(cs []types.Contract, id string) int {
	for i, c := range cs {
		if c.ContractID == id {
			return i
		}
	}
	return -1
}
