package leadsync

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stromno/leadsync/internal/eventlog"
	"github.com/stromno/leadsync/internal/model"
	"github.com/stromno/leadsync/pkg/pipedrive"
)

// captureSink records events for assertions.
type captureSink struct {
	mu     sync.Mutex
	events []string
}

func (s *captureSink) Event(level eventlog.Level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, string(level)+": "+msg)
}

func (s *captureSink) lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

func TestCreateFromInputOrganizationNamePreferred(t *testing.T) {
	client := &mockClient{}
	client.On("CreateOrganization", mock.Anything, pipedrive.OrganizationRequest{Name: "Nordmann AS"}).Return(42, nil)
	client.On("CreatePerson", mock.Anything, mock.Anything).Return(7, nil)
	client.On("CreateLead", mock.Anything, mock.Anything).Return("lead-1", nil)

	p := New(client, DefaultFieldIDs(), eventlog.Nop{})
	result, err := p.CreateFromInput(context.Background(), model.LeadInput{
		Name:             "Ola Nordmann",
		OrganizationName: "Nordmann AS",
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result.OrganizationID)
	assert.Equal(t, 7, result.PersonID)
	assert.Equal(t, "lead-1", result.LeadID)
	client.AssertExpectations(t)
}

func TestCreateFromInputNameFallsBackForOrganization(t *testing.T) {
	client := &mockClient{}
	client.On("CreateOrganization", mock.Anything, pipedrive.OrganizationRequest{Name: "Ola Nordmann"}).Return(42, nil)
	client.On("CreatePerson", mock.Anything, mock.Anything).Return(7, nil)
	client.On("CreateLead", mock.Anything, mock.Anything).Return("lead-1", nil)

	p := New(client, DefaultFieldIDs(), eventlog.Nop{})
	_, err := p.CreateFromInput(context.Background(), model.LeadInput{
		Name:             "Ola Nordmann",
		OrganizationName: "   ",
	})

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestCreateFromInputMissingOrganizationName(t *testing.T) {
	client := &mockClient{}

	p := New(client, DefaultFieldIDs(), eventlog.Nop{})
	_, err := p.CreateFromInput(context.Background(), model.LeadInput{Email: "ola@example.com"})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Error(), "missing organization name")

	// No network call of any kind before validation.
	client.AssertNotCalled(t, "CreateOrganization", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "CreatePerson", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)
}

func TestCreateFromInputMissingPersonName(t *testing.T) {
	client := &mockClient{}
	client.On("CreateOrganization", mock.Anything, mock.Anything).Return(42, nil)

	p := New(client, DefaultFieldIDs(), eventlog.Nop{})
	_, err := p.CreateFromInput(context.Background(), model.LeadInput{OrganizationName: "Nordmann AS"})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Error(), "missing person name")
	client.AssertNotCalled(t, "CreatePerson", mock.Anything, mock.Anything)
}

func TestCreateFromInputRoundTrip(t *testing.T) {
	fields := DefaultFieldIDs()

	client := &mockClient{}
	client.On("CreateOrganization", mock.Anything, pipedrive.OrganizationRequest{Name: "Ola Nordmann"}).Return(42, nil)
	client.On("CreatePerson", mock.Anything, pipedrive.PersonRequest{
		Name:   "Ola Nordmann",
		OrgID:  42,
		Emails: []pipedrive.ContactItem{{Value: "ola@example.com", Label: "work", Primary: true}},
		Phones: []pipedrive.ContactItem{{Value: "99999999", Label: "work", Primary: true}},
		CustomFields: map[string]any{
			fields.ContactType: 27,
		},
	}).Return(7, nil)
	client.On("CreateLead", mock.Anything, pipedrive.LeadRequest{
		Title:          "Lead: Ola Nordmann",
		OrganizationID: 42,
		PersonID:       7,
	}).Return("lead-1", nil)
	client.On("UpdateLeadCustomFields", mock.Anything, "lead-1", map[string]any{
		fields.HousingType:  30,
		fields.PropertySize: 120,
		fields.DealType:     44,
		fields.Comment:      "Ring etter kl 17",
	}).Return(nil)

	sink := &captureSink{}
	p := New(client, fields, sink)
	result, err := p.CreateFromInput(context.Background(), model.LeadInput{
		Name:         "Ola Nordmann",
		Email:        "ola@example.com",
		Phone:        "99999999",
		ContactType:  "Privat",
		HousingType:  "Enebolig",
		PropertySize: 120,
		DealType:     "Spotpris",
		Comment:      "Ring etter kl 17",
	})

	require.NoError(t, err)
	assert.Equal(t, &model.Result{OrganizationID: 42, PersonID: 7, LeadID: "lead-1"}, result)
	client.AssertExpectations(t)

	lines := sink.lines()
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "INFO: created organization"))
	assert.True(t, strings.HasPrefix(lines[1], "INFO: created person"))
	assert.True(t, strings.HasPrefix(lines[2], "INFO: created lead"))
}

func TestCreateFromInputNoPatchWithoutCustomFields(t *testing.T) {
	client := &mockClient{}
	client.On("CreateOrganization", mock.Anything, mock.Anything).Return(42, nil)
	client.On("CreatePerson", mock.Anything, mock.Anything).Return(7, nil)
	client.On("CreateLead", mock.Anything, mock.Anything).Return("lead-1", nil)

	p := New(client, DefaultFieldIDs(), eventlog.Nop{})
	_, err := p.CreateFromInput(context.Background(), model.LeadInput{
		Name:         "Ola Nordmann",
		HousingType:  "slott", // not in the option table
		PropertySize: 0,
		Comment:      "   ",
	})

	require.NoError(t, err)
	client.AssertNotCalled(t, "UpdateLeadCustomFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateFromInputOrganizationFailureAborts(t *testing.T) {
	client := &mockClient{}
	client.On("CreateOrganization", mock.Anything, mock.Anything).
		Return(0, &pipedrive.APIError{Op: "create organization", StatusCode: 400, Message: "name is required"})

	sink := &captureSink{}
	p := New(client, DefaultFieldIDs(), sink)
	_, err := p.CreateFromInput(context.Background(), model.LeadInput{Name: "Ola Nordmann"})

	var apiErr *pipedrive.APIError
	require.ErrorAs(t, err, &apiErr)

	client.AssertNumberOfCalls(t, "CreateOrganization", 1)
	client.AssertNotCalled(t, "CreatePerson", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)

	lines := sink.lines()
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "ERROR: creating organization"))
}

func TestCreateFromInputPatchFailurePropagates(t *testing.T) {
	client := &mockClient{}
	client.On("CreateOrganization", mock.Anything, mock.Anything).Return(42, nil)
	client.On("CreatePerson", mock.Anything, mock.Anything).Return(7, nil)
	client.On("CreateLead", mock.Anything, mock.Anything).Return("lead-1", nil)
	client.On("UpdateLeadCustomFields", mock.Anything, "lead-1", mock.Anything).
		Return(&pipedrive.APIError{Op: "update lead custom fields", StatusCode: 500, Message: "HTTP 500"})

	sink := &captureSink{}
	p := New(client, DefaultFieldIDs(), sink)
	_, err := p.CreateFromInput(context.Background(), model.LeadInput{
		Name:        "Ola Nordmann",
		HousingType: "enebolig",
	})

	// The lead exists remotely at this point; the pipeline still reports the
	// invocation as failed.
	var apiErr *pipedrive.APIError
	require.ErrorAs(t, err, &apiErr)

	lines := sink.lines()
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "ERROR: updating lead lead-1"))
}

func TestCreateFromInputExplicitTitleWins(t *testing.T) {
	client := &mockClient{}
	client.On("CreateOrganization", mock.Anything, mock.Anything).Return(42, nil)
	client.On("CreatePerson", mock.Anything, mock.Anything).Return(7, nil)
	client.On("CreateLead", mock.Anything, mock.MatchedBy(func(req pipedrive.LeadRequest) bool {
		return req.Title == "Strøm til hytta"
	})).Return("lead-1", nil)

	p := New(client, DefaultFieldIDs(), eventlog.Nop{})
	_, err := p.CreateFromInput(context.Background(), model.LeadInput{
		Name:  "Ola Nordmann",
		Title: "  Strøm til hytta  ",
	})

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestFetchLead(t *testing.T) {
	client := &mockClient{}
	client.On("GetLead", mock.Anything, "lead-1").Return(map[string]any{"data": map[string]any{"id": "lead-1"}}, nil)

	p := New(client, DefaultFieldIDs(), eventlog.Nop{})
	lead, err := p.FetchLead(context.Background(), "lead-1")

	require.NoError(t, err)
	assert.Contains(t, lead, "data")
	client.AssertExpectations(t)
}
