package pipedrive

// OrganizationRequest is the payload for POST /api/v1/organizations. Name is
// the only required field.
type OrganizationRequest struct {
	Name string `json:"name"`
}

// ContactItem is one entry in a person's emails or phones list.
type ContactItem struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Primary bool   `json:"primary"`
}

// PersonRequest is the payload for POST /api/v2/persons. Emails and Phones
// are omitted entirely when empty; the v2 API rejects empty lists on some
// accounts.
type PersonRequest struct {
	Name         string         `json:"name"`
	OrgID        int            `json:"org_id"`
	Emails       []ContactItem  `json:"emails,omitempty"`
	Phones       []ContactItem  `json:"phones,omitempty"`
	CustomFields map[string]any `json:"custom_fields,omitempty"`
}

// LeadRequest is the payload for POST /api/v1/leads. Custom fields are not
// accepted at creation time for this resource; they go in a follow-up PATCH.
type LeadRequest struct {
	Title          string `json:"title"`
	OrganizationID int    `json:"organization_id"`
	PersonID       int    `json:"person_id"`
}
