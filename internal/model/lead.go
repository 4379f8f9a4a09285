package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// LeadInput is the flat intake record as delivered by the Strøm.no lead feed.
// No field is required at the type level; the pipeline validates at the point
// of use.
type LeadInput struct {
	Name             string  `json:"name,omitempty"`
	OrganizationName string  `json:"organization_name,omitempty"`
	Email            string  `json:"email,omitempty"`
	Phone            string  `json:"phone,omitempty"`
	ContactType      string  `json:"contact_type,omitempty"`
	Title            string  `json:"title,omitempty"`
	HousingType      string  `json:"housing_type,omitempty"`
	PropertySize     FlexInt `json:"property_size,omitempty"`
	DealType         string  `json:"deal_type,omitempty"`
	Comment          string  `json:"comment,omitempty"`
}

// FlexInt decodes from either a JSON number or a numeric string. Values that
// cannot be parsed as a number decode to 0 rather than failing, matching the
// loose typing of the upstream feed.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	s := string(data)
	if s[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			*f = 0
			return nil
		}
		s = strings.TrimSpace(s)
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexInt(int(v))
		return nil
	}
	*f = 0
	return nil
}

// Result holds the identifiers generated by one pipeline invocation. Lead ids
// are strings while organization and person ids are integers; the remote
// system dictates the asymmetry.
type Result struct {
	OrganizationID int    `json:"organization_id"`
	PersonID       int    `json:"person_id"`
	LeadID         string `json:"lead_id"`
}

// SubmissionStatus describes the outcome of a recorded submission.
type SubmissionStatus string

const (
	SubmissionPushed SubmissionStatus = "pushed"
	SubmissionFailed SubmissionStatus = "failed"
)

// Submission is one journal entry: a single pipeline invocation and its
// outcome, successful or not.
type Submission struct {
	ID             string           `json:"id"`
	LeadName       string           `json:"lead_name"`
	OrganizationID int              `json:"organization_id,omitempty"`
	PersonID       int              `json:"person_id,omitempty"`
	LeadID         string           `json:"lead_id,omitempty"`
	Status         SubmissionStatus `json:"status"`
	Error          string           `json:"error,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}
