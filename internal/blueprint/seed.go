package blueprint

import (
	"time"

	"github.com/mesh-intelligence/folio/pkg/types"
)

// catalogEntry describes a blueprint seeded on first startup.
type catalogEntry struct {
	name        string
	description string
	fields      []types.BlueprintField
}

// field is shorthand for a catalog field definition.
func field(id string, ft types.FieldType, label string, x, y float64, required bool) types.BlueprintField {
	return types.BlueprintField{
		ID:       id,
		Type:     ft,
		Label:    label,
		Position: types.Position{X: x, Y: y},
		Required: required,
	}
}

// Rows are 100 units apart; the two columns sit at x=30 and x=280.
var catalog = []catalogEntry{
	{
		name:        "Employee Contract",
		description: "Standard employment agreement with key terms and conditions",
		fields: []types.BlueprintField{
			field("emp_name", types.FieldText, "Employee Name", 30, 20, true),
			field("emp_salary", types.FieldText, "Annual Salary", 280, 20, true),
			field("emp_title", types.FieldText, "Job Title", 30, 120, true),
			field("emp_start", types.FieldDate, "Start Date", 280, 120, true),
			field("emp_nda", types.FieldCheckbox, "NDA Agreement", 30, 220, true),
			field("emp_sign", types.FieldSignature, "Employee Signature", 30, 320, true),
			field("mgr_sign", types.FieldSignature, "Manager Signature", 280, 320, true),
		},
	},
	{
		name:        "Client Agreement",
		description: "Professional services agreement for client engagements",
		fields: []types.BlueprintField{
			field("client_name", types.FieldText, "Client Name", 30, 20, true),
			field("client_company", types.FieldText, "Company Name", 280, 20, true),
			field("project_name", types.FieldText, "Project Name", 30, 120, true),
			field("project_value", types.FieldText, "Project Value", 280, 120, true),
			field("start_date", types.FieldDate, "Project Start", 30, 220, true),
			field("end_date", types.FieldDate, "Project End", 280, 220, false),
			field("terms_agree", types.FieldCheckbox, "Terms & Conditions", 30, 320, true),
			field("client_sign", types.FieldSignature, "Client Signature", 30, 420, true),
		},
	},
	{
		name:        "Non-Disclosure Agreement",
		description: "Confidentiality agreement to protect sensitive information",
		fields: []types.BlueprintField{
			field("party1_name", types.FieldText, "Disclosing Party", 30, 20, true),
			field("party2_name", types.FieldText, "Receiving Party", 280, 20, true),
			field("effective_date", types.FieldDate, "Effective Date", 30, 120, true),
			field("duration", types.FieldText, "Duration (years)", 280, 120, true),
			field("confidential_info", types.FieldText, "Confidential Material", 30, 220, true),
			field("nda_agree", types.FieldCheckbox, "I agree to keep all information confidential", 30, 320, true),
			field("party1_sign", types.FieldSignature, "Disclosing Party Signature", 30, 420, true),
			field("party2_sign", types.FieldSignature, "Receiving Party Signature", 280, 420, true),
		},
	},
	{
		name:        "Freelancer Agreement",
		description: "Contract for independent contractor/freelancer services",
		fields: []types.BlueprintField{
			field("freelancer_name", types.FieldText, "Freelancer Name", 30, 20, true),
			field("company_name", types.FieldText, "Company Name", 280, 20, true),
			field("service_desc", types.FieldText, "Services Description", 30, 120, true),
			field("hourly_rate", types.FieldText, "Hourly Rate ($)", 280, 120, true),
			field("start_date", types.FieldDate, "Start Date", 30, 220, true),
			field("end_date", types.FieldDate, "End Date", 280, 220, false),
			field("ip_transfer", types.FieldCheckbox, "IP Rights Transfer", 30, 320, true),
			field("freelancer_sign", types.FieldSignature, "Freelancer Signature", 30, 420, true),
			field("company_sign", types.FieldSignature, "Company Signature", 280, 420, true),
		},
	},
	{
		name:        "Rental Agreement",
		description: "Property lease agreement between landlord and tenant",
		fields: []types.BlueprintField{
			field("landlord_name", types.FieldText, "Landlord Name", 30, 20, true),
			field("tenant_name", types.FieldText, "Tenant Name", 280, 20, true),
			field("property_address", types.FieldText, "Property Address", 30, 120, true),
			field("monthly_rent", types.FieldText, "Monthly Rent ($)", 280, 120, true),
			field("lease_start", types.FieldDate, "Lease Start", 30, 220, true),
			field("lease_end", types.FieldDate, "Lease End", 280, 220, true),
			field("deposit", types.FieldText, "Security Deposit ($)", 30, 320, true),
			field("terms_agree", types.FieldCheckbox, "Agree to Terms & Rules", 280, 320, true),
			field("landlord_sign", types.FieldSignature, "Landlord Signature", 30, 420, true),
			field("tenant_sign", types.FieldSignature, "Tenant Signature", 280, 420, true),
		},
	},
	{
		name:        "Sales Agreement",
		description: "Contract for the sale of goods or products",
		fields: []types.BlueprintField{
			field("seller_name", types.FieldText, "Seller Name", 30, 20, true),
			field("buyer_name", types.FieldText, "Buyer Name", 280, 20, true),
			field("product_desc", types.FieldText, "Product Description", 30, 120, true),
			field("quantity", types.FieldText, "Quantity", 280, 120, true),
			field("total_price", types.FieldText, "Total Price ($)", 30, 220, true),
			field("delivery_date", types.FieldDate, "Delivery Date", 280, 220, true),
			field("warranty", types.FieldCheckbox, "Warranty Included", 30, 320, false),
			field("seller_sign", types.FieldSignature, "Seller Signature", 30, 420, true),
			field("buyer_sign", types.FieldSignature, "Buyer Signature", 280, 420, true),
		},
	},
}

// CatalogSize is the number of blueprints Defaults returns.
var CatalogSize = len(catalog)

// Defaults builds the default template catalog, drawing a fresh ID for each
// blueprint from newID and stamping every timestamp with now.
func Defaults(newID func() string, now time.Time) []types.Blueprint {
	out := make([]types.Blueprint, 0, len(catalog))
	for _, entry := range catalog {
		out = append(out, types.Blueprint{
			BlueprintID: newID(),
			Name:        entry.name,
			Description: entry.description,
			Fields:      append([]types.BlueprintField(nil), entry.fields...),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return out
}

// Seed populates the default catalog the first time it is called on a
// snapshot. It runs only while the snapshot has never been initialized and
// holds no blueprints; either way the returned snapshot is marked
// initialized, so a user who later deletes every blueprint does not get the
// catalog back. The boolean reports whether blueprints were added.
func Seed(s types.Snapshot, newID func() string, now time.Time) (types.Snapshot, bool) {
	if s.Initialized {
		return s, false
	}
	out := s.Clone()
	out.Initialized = true
	if len(out.Blueprints) > 0 {
		return out, false
	}
	out.Blueprints = Defaults(newID, now)
	return out, true
}
