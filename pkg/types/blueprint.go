package types

import "time"

// Position is advisory layout metadata for a field on the blueprint canvas.
// It has no effect on lifecycle rules.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// BlueprintField is one positioned input slot on a blueprint.
// ID is caller-generated and unique within its blueprint.
type BlueprintField struct {
	ID       string    `json:"id" yaml:"id"`
	Type     FieldType `json:"type" yaml:"type"`
	Label    string    `json:"label" yaml:"label"`
	Position Position  `json:"position" yaml:"position"`
	Required bool      `json:"required" yaml:"required"`
}

// Blueprint is a reusable named template of positioned fields.
type Blueprint struct {
	BlueprintID string           `json:"blueprint_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Fields      []BlueprintField `json:"fields"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// BlueprintPatch carries the attributes to merge into an existing
// blueprint. Nil pointers leave the attribute unchanged.
type BlueprintPatch struct {
	Name        *string
	Description *string
	Fields      []BlueprintField // nil leaves fields unchanged
}

// IsEmpty reports whether the patch changes nothing.
func (p BlueprintPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Fields == nil
}

// Field returns the field with the given ID.
func (b Blueprint) Field(id string) (BlueprintField, bool) {
	for _, f := range b.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return BlueprintField{}, false
}

// Clone returns a copy of the blueprint that shares no slices with b.
func (b Blueprint) Clone() Blueprint {
	out := b
	if b.Fields != nil {
		out.Fields = make([]BlueprintField, len(b.Fields))
		copy(out.Fields, b.Fields)
	}
	return out
}
