package jsonl

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/folio/pkg/types"
)

// Record structures mirror the on-disk line format. Timestamps are RFC 3339
// strings with nanoseconds in UTC.

// blueprintJSON is one line of blueprints.jsonl.
type blueprintJSON struct {
	BlueprintID string      `json:"blueprint_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Fields      []fieldJSON `json:"fields"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
}

// fieldJSON is a blueprint field inside a blueprint record.
type fieldJSON struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Label    string  `json:"label"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Required bool    `json:"required"`
}

// contractJSON is one line of contracts.jsonl.
type contractJSON struct {
	ContractID    string           `json:"contract_id"`
	Name          string           `json:"name"`
	BlueprintID   string           `json:"blueprint_id"`
	BlueprintName string           `json:"blueprint_name"`
	Status        string           `json:"status"`
	FieldValues   []fieldValueJSON `json:"field_values"`
	CreatedAt     string           `json:"created_at"`
	UpdatedAt     string           `json:"updated_at"`
}

// fieldValueJSON is a contract field value inside a contract record.
type fieldValueJSON struct {
	FieldID  string           `json:"field_id"`
	Type     string           `json:"type"`
	Required bool             `json:"required"`
	Value    types.FieldValue `json:"value"`
}

// metaJSON is the single line of meta.jsonl.
type metaJSON struct {
	Initialized bool   `json:"initialized"`
	SavedAt     string `json:"saved_at"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func toBlueprintJSON(bp types.Blueprint) blueprintJSON {
	fields := make([]fieldJSON, len(bp.Fields))
	for i, f := range bp.Fields {
		fields[i] = fieldJSON{
			ID:       f.ID,
			Type:     string(f.Type),
			Label:    f.Label,
			X:        f.Position.X,
			Y:        f.Position.Y,
			Required: f.Required,
		}
	}
	return blueprintJSON{
		BlueprintID: bp.BlueprintID,
		Name:        bp.Name,
		Description: bp.Description,
		Fields:      fields,
		CreatedAt:   formatTime(bp.CreatedAt),
		UpdatedAt:   formatTime(bp.UpdatedAt),
	}
}

func (r blueprintJSON) toBlueprint() (types.Blueprint, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return types.Blueprint{}, fmt.Errorf("parsing blueprint %s created_at: %w", r.BlueprintID, err)
	}
	updatedAt, err := parseTime(r.UpdatedAt)
	if err != nil {
		return types.Blueprint{}, fmt.Errorf("parsing blueprint %s updated_at: %w", r.BlueprintID, err)
	}
	fields := make([]types.BlueprintField, len(r.Fields))
	for i, f := range r.Fields {
		fields[i] = types.BlueprintField{
			ID:       f.ID,
			Type:     types.FieldType(f.Type),
			Label:    f.Label,
			Position: types.Position{X: f.X, Y: f.Y},
			Required: f.Required,
		}
	}
	return types.Blueprint{
		BlueprintID: r.BlueprintID,
		Name:        r.Name,
		Description: r.Description,
		Fields:      fields,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func toContractJSON(c types.Contract) contractJSON {
	values := make([]fieldValueJSON, len(c.FieldValues))
	for i, fv := range c.FieldValues {
		values[i] = fieldValueJSON{
			FieldID:  fv.FieldID,
			Type:     string(fv.Type),
			Required: fv.Required,
			Value:    fv.Value,
		}
	}
	return contractJSON{
		ContractID:    c.ContractID,
		Name:          c.Name,
		BlueprintID:   c.BlueprintID,
		BlueprintName: c.BlueprintName,
		Status:        string(c.Status),
		FieldValues:   values,
		CreatedAt:     formatTime(c.CreatedAt),
		UpdatedAt:     formatTime(c.UpdatedAt),
	}
}

func (r contractJSON) toContract() (types.Contract, error) {
	status, err := types.ParseStatus(r.Status)
	if err != nil {
		return types.Contract{}, fmt.Errorf("contract %s: %w", r.ContractID, err)
	}
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return types.Contract{}, fmt.Errorf("parsing contract %s created_at: %w", r.ContractID, err)
	}
	updatedAt, err := parseTime(r.UpdatedAt)
	if err != nil {
		return types.Contract{}, fmt.Errorf("parsing contract %s updated_at: %w", r.ContractID, err)
	}
	values := make([]types.ContractFieldValue, len(r.FieldValues))
	for i, fv := range r.FieldValues {
		ft := types.FieldType(fv.Type)
		if fv.Value.Domain() != ft.Domain() {
			return types.Contract{}, fmt.Errorf("contract %s field %s: %w", r.ContractID, fv.FieldID, types.ErrTypeMismatch)
		}
		values[i] = types.ContractFieldValue{
			FieldID:  fv.FieldID,
			Type:     ft,
			Required: fv.Required,
			Value:    fv.Value,
		}
	}
	return types.Contract{
		ContractID:    r.ContractID,
		Name:          r.Name,
		BlueprintID:   r.BlueprintID,
		BlueprintName: r.BlueprintName,
		Status:        status,
		FieldValues:   values,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}
