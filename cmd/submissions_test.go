package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stromno/leadsync/internal/model"
)

func TestFormatSubmissionsList(t *testing.T) {
	subs := []model.Submission{
		{
			ID:             "7c3de1f0-0000-0000-0000-000000000000",
			LeadName:       "Ola Nordmann",
			OrganizationID: 42,
			PersonID:       7,
			LeadID:         "adf21080-0e10-11eb",
			Status:         model.SubmissionPushed,
			CreatedAt:      time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:        "9b2fe8a1-0000-0000-0000-000000000000",
			LeadName:  "Kari Nordmann",
			Status:    model.SubmissionFailed,
			Error:     "pipedrive: create organization: HTTP 502 and then some very long tail",
			CreatedAt: time.Date(2026, 9, 1, 13, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	formatSubmissionsList(&buf, subs)
	out := buf.String()

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Ola Nordmann")
	assert.Contains(t, out, "pushed")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "2026-09-01 12:00")
	// Long error messages are truncated for the table.
	assert.NotContains(t, out, "very long tail")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly10c", truncate("exactly10c", 10))
	assert.Equal(t, "this is...", truncate("this is too long", 10))
}
