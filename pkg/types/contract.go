package types

import "time"

// ContractFieldValue is the value of one field on a contract. Type and
// Required are copied from the originating blueprint field when the
// contract is created, so the contract never needs the blueprint again.
type ContractFieldValue struct {
	FieldID  string     `json:"field_id"`
	Type     FieldType  `json:"type"`
	Required bool       `json:"required"`
	Value    FieldValue `json:"value"`
}

// Contract is one filled instance of a blueprint moving through the
// status flow. The set of FieldIDs in FieldValues is fixed at creation.
type Contract struct {
	ContractID    string               `json:"contract_id"`
	Name          string               `json:"name"`
	BlueprintID   string               `json:"blueprint_id"`
	BlueprintName string               `json:"blueprint_name"`
	Status        ContractStatus       `json:"status"`
	FieldValues   []ContractFieldValue `json:"field_values"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// FieldValue returns the value entry for the given field ID.
func (c Contract) FieldValue(fieldID string) (ContractFieldValue, bool) {
	for _, fv := range c.FieldValues {
		if fv.FieldID == fieldID {
			return fv, true
		}
	}
	return ContractFieldValue{}, false
}

// IsEditable reports whether the contract's field values may change.
func (c Contract) IsEditable() bool {
	return IsEditable(c.Status)
}

// Clone returns a copy of the contract that shares no slices with c.
func (c Contract) Clone() Contract {
	out := c
	if c.FieldValues != nil {
		out.FieldValues = make([]ContractFieldValue, len(c.FieldValues))
		copy(out.FieldValues, c.FieldValues)
	}
	return out
}
