package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FieldType is the kind of input slot a blueprint field describes.
type FieldType string

// Field types. The set is closed; adding a kind means extending this list,
// fieldDomains, and every renderer that draws fields.
const (
	FieldText      FieldType = "text"
	FieldDate      FieldType = "date"
	FieldSignature FieldType = "signature"
	FieldCheckbox  FieldType = "checkbox"
)

// FieldTypes lists every field type in display order.
var FieldTypes = []FieldType{FieldText, FieldDate, FieldSignature, FieldCheckbox}

// ValueDomain is the shape of value a field type accepts.
type ValueDomain int

// Value domains.
const (
	DomainNone ValueDomain = iota
	DomainString
	DomainBool
)

func (d ValueDomain) String() string {
	switch d {
	case DomainString:
		return "string"
	case DomainBool:
		return "bool"
	default:
		return "none"
	}
}

// fieldDomains maps each field type to its value domain.
var fieldDomains = map[FieldType]ValueDomain{
	FieldText:      DomainString,
	FieldDate:      DomainString,
	FieldSignature: DomainString,
	FieldCheckbox:  DomainBool,
}

// DateLayout is the calendar date format stored in date fields.
const DateLayout = "2006-01-02"

// IsValidFieldType reports whether ft is a recognized field type.
func IsValidFieldType(ft FieldType) bool {
	_, ok := fieldDomains[ft]
	return ok
}

// Domain returns the value domain of the field type, or DomainNone if the
// type is not recognized.
func (ft FieldType) Domain() ValueDomain {
	return fieldDomains[ft]
}

// DefaultValue returns the empty value for a field type: false for
// checkboxes and "" for every string-valued type.
// Returns ErrInvalidFieldType if the type is not recognized.
func DefaultValue(ft FieldType) (FieldValue, error) {
	switch ft.Domain() {
	case DomainString:
		return StringValue(""), nil
	case DomainBool:
		return BoolValue(false), nil
	default:
		return FieldValue{}, ErrInvalidFieldType
	}
}

// ParseValue converts user input into a value of the field type's domain.
// Checkboxes accept true/false, yes/no, and 1/0. A non-empty date must be a
// calendar date in DateLayout.
func (ft FieldType) ParseValue(raw string) (FieldValue, error) {
	switch ft {
	case FieldCheckbox:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "yes", "y", "on":
			return BoolValue(true), nil
		case "no", "n", "off", "":
			return BoolValue(false), nil
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return FieldValue{}, fmt.Errorf("%w: %q is not a checkbox value", ErrInvalidValue, raw)
		}
		return BoolValue(b), nil
	case FieldDate:
		raw = strings.TrimSpace(raw)
		if raw != "" {
			if _, err := time.Parse(DateLayout, raw); err != nil {
				return FieldValue{}, fmt.Errorf("%w: %q is not a %s date", ErrInvalidValue, raw, DateLayout)
			}
		}
		return StringValue(raw), nil
	case FieldText, FieldSignature:
		return StringValue(raw), nil
	default:
		return FieldValue{}, ErrInvalidFieldType
	}
}

// FieldValue is the value held by one contract field. It is either a string
// or a boolean; Domain reports which. The zero value has DomainNone and is
// never produced by the lifecycle engine.
type FieldValue struct {
	domain  ValueDomain
	text    string
	checked bool
}

// StringValue returns a string-domain value.
func StringValue(s string) FieldValue {
	return FieldValue{domain: DomainString, text: s}
}

// BoolValue returns a bool-domain value.
func BoolValue(b bool) FieldValue {
	return FieldValue{domain: DomainBool, checked: b}
}

// Domain returns the domain this value belongs to.
func (v FieldValue) Domain() ValueDomain { return v.domain }

// Text returns the string content and whether the value is string-valued.
func (v FieldValue) Text() (string, bool) {
	return v.text, v.domain == DomainString
}

// Checked returns the boolean content and whether the value is bool-valued.
func (v FieldValue) Checked() (bool, bool) {
	return v.checked, v.domain == DomainBool
}

// IsEmpty reports whether the value counts as "not filled in": an empty
// string, an unchecked checkbox, or the zero FieldValue.
func (v FieldValue) IsEmpty() bool {
	switch v.domain {
	case DomainString:
		return v.text == ""
	case DomainBool:
		return !v.checked
	default:
		return true
	}
}

// String renders the value for display.
func (v FieldValue) String() string {
	switch v.domain {
	case DomainString:
		return v.text
	case DomainBool:
		return strconv.FormatBool(v.checked)
	default:
		return ""
	}
}

// MarshalJSON encodes the value as a bare JSON string or boolean.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.domain {
	case DomainString:
		return json.Marshal(v.text)
	case DomainBool:
		return json.Marshal(v.checked)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a JSON string, boolean, or null.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = FieldValue{}
	case string:
		*v = StringValue(x)
	case bool:
		*v = BoolValue(x)
	default:
		return fmt.Errorf("%w: field value must be a string or boolean", ErrInvalidValue)
	}
	return nil
}
