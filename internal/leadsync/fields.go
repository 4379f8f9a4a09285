package leadsync

// FieldIDs holds the Pipedrive custom field API keys the pipeline writes to.
// The keys are opaque identifiers minted per Pipedrive account, so they sit
// here at the boundary and can be overridden from configuration without
// touching pipeline logic.
type FieldIDs struct {
	// ContactType is a person field (single option).
	ContactType string
	// HousingType, PropertySize, DealType and Comment are lead fields.
	HousingType  string
	PropertySize string
	DealType     string
	Comment      string
}

// DefaultFieldIDs returns the field keys of the production Pipedrive account.
func DefaultFieldIDs() FieldIDs {
	return FieldIDs{
		ContactType:  "c0b071d74d13386af76f5681194fd8cd793e6020",
		HousingType:  "35c4e320a6dee7094535c0fe65fd9e748754a171",
		PropertySize: "533158ca6c8a97cc1207b273d5802bd4a074f887",
		DealType:     "761dd27362225e433e1011b3bd4389a48ae4a412",
		Comment:      "1fe6a0769bd867d36c25892576862e9b423302f3",
	}
}
