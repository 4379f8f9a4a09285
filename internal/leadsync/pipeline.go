// Package leadsync pushes Strøm.no intake records into Pipedrive by creating
// an organization, a person and a lead in sequence, then patching the lead
// with custom field values derived from the intake record.
package leadsync

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/stromno/leadsync/internal/eventlog"
	"github.com/stromno/leadsync/internal/model"
	"github.com/stromno/leadsync/pkg/pipedrive"
)

// fallbackLeadTitle is used when the input carries neither a title nor a name.
const fallbackLeadTitle = "Lead fra integrasjon"

// Pipeline runs the four-step creation flow. Steps are strictly sequential;
// any failure aborts the whole invocation with no compensation of records
// already created remotely.
type Pipeline struct {
	client pipedrive.Client
	fields FieldIDs
	sink   eventlog.Sink
}

// New creates a Pipeline. A nil sink disables event logging.
func New(client pipedrive.Client, fields FieldIDs, sink eventlog.Sink) *Pipeline {
	if sink == nil {
		sink = eventlog.Nop{}
	}
	return &Pipeline{client: client, fields: fields, sink: sink}
}

// CreateFromInput creates organization → person → lead for one intake record
// and returns the three generated identifiers.
func (p *Pipeline) CreateFromInput(ctx context.Context, input model.LeadInput) (*model.Result, error) {
	orgID, err := p.createOrganization(ctx, input)
	if err != nil {
		return nil, err
	}

	personID, err := p.createPerson(ctx, input, orgID)
	if err != nil {
		return nil, err
	}

	leadID, err := p.createLead(ctx, input, orgID, personID)
	if err != nil {
		return nil, err
	}

	return &model.Result{
		OrganizationID: orgID,
		PersonID:       personID,
		LeadID:         leadID,
	}, nil
}

func (p *Pipeline) createOrganization(ctx context.Context, input model.LeadInput) (int, error) {
	name := strings.TrimSpace(input.OrganizationName)
	if name == "" {
		name = strings.TrimSpace(input.Name)
	}
	if name == "" {
		p.sink.Event(eventlog.LevelError, "missing organization name (organization_name or name)")
		return 0, &ValidationError{Msg: "missing organization name (organization_name or name)"}
	}

	id, err := p.client.CreateOrganization(ctx, pipedrive.OrganizationRequest{Name: name})
	if err != nil {
		p.sink.Event(eventlog.LevelError, fmt.Sprintf("creating organization %q failed: %v", name, err))
		return 0, eris.Wrap(err, "leadsync: create organization")
	}

	p.sink.Event(eventlog.LevelInfo, fmt.Sprintf("created organization %q with id=%d", name, id))
	return id, nil
}

func (p *Pipeline) createPerson(ctx context.Context, input model.LeadInput, orgID int) (int, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		p.sink.Event(eventlog.LevelError, "missing person name (name)")
		return 0, &ValidationError{Msg: "missing person name (name)"}
	}

	req := pipedrive.PersonRequest{
		Name:  name,
		OrgID: orgID,
	}
	if email := strings.TrimSpace(input.Email); email != "" {
		req.Emails = []pipedrive.ContactItem{{Value: email, Label: "work", Primary: true}}
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		req.Phones = []pipedrive.ContactItem{{Value: phone, Label: "work", Primary: true}}
	}
	if optID, ok := lookupOption(contactTypeOptions, input.ContactType); ok {
		req.CustomFields = map[string]any{p.fields.ContactType: optID}
	}

	id, err := p.client.CreatePerson(ctx, req)
	if err != nil {
		p.sink.Event(eventlog.LevelError, fmt.Sprintf("creating person %q failed: %v", name, err))
		return 0, eris.Wrap(err, "leadsync: create person")
	}

	p.sink.Event(eventlog.LevelInfo, fmt.Sprintf("created person %q with id=%d, org_id=%d", name, id, orgID))
	return id, nil
}

func (p *Pipeline) createLead(ctx context.Context, input model.LeadInput, orgID, personID int) (string, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		fallback := strings.TrimSpace(input.Name)
		if fallback == "" {
			fallback = strings.TrimSpace(input.OrganizationName)
		}
		if fallback != "" {
			title = "Lead: " + fallback
		} else {
			title = fallbackLeadTitle
		}
	}

	leadID, err := p.client.CreateLead(ctx, pipedrive.LeadRequest{
		Title:          title,
		OrganizationID: orgID,
		PersonID:       personID,
	})
	if err != nil {
		p.sink.Event(eventlog.LevelError, fmt.Sprintf("creating lead %q failed: %v", title, err))
		return "", eris.Wrap(err, "leadsync: create lead")
	}

	// Custom fields are not accepted at lead creation time, so they go in a
	// PATCH right after. A patch failure fails the whole step even though
	// the lead row already exists remotely.
	if err := p.updateLeadCustomFields(ctx, leadID, input); err != nil {
		return "", err
	}

	p.sink.Event(eventlog.LevelInfo, fmt.Sprintf("created lead %q with id=%s, org_id=%d, person_id=%d", title, leadID, orgID, personID))
	return leadID, nil
}

func (p *Pipeline) updateLeadCustomFields(ctx context.Context, leadID string, input model.LeadInput) error {
	fields := map[string]any{}
	if optID, ok := lookupOption(housingTypeOptions, input.HousingType); ok {
		fields[p.fields.HousingType] = optID
	}
	if size := int(input.PropertySize); size > 0 {
		fields[p.fields.PropertySize] = size
	}
	if optID, ok := lookupOption(dealTypeOptions, input.DealType); ok {
		fields[p.fields.DealType] = optID
	}
	if comment, ok := commentValue(input.Comment); ok {
		fields[p.fields.Comment] = comment
	}

	if len(fields) == 0 {
		return nil
	}

	if err := p.client.UpdateLeadCustomFields(ctx, leadID, fields); err != nil {
		p.sink.Event(eventlog.LevelError, fmt.Sprintf("updating lead %s failed: %v", leadID, err))
		return eris.Wrap(err, "leadsync: update lead custom fields")
	}
	return nil
}

// FetchLead reads a lead back from Pipedrive. It is not part of the creation
// flow; the CLI exposes it as a separate read operation.
func (p *Pipeline) FetchLead(ctx context.Context, leadID string) (map[string]any, error) {
	lead, err := p.client.GetLead(ctx, leadID)
	if err != nil {
		return nil, eris.Wrap(err, "leadsync: fetch lead")
	}
	return lead, nil
}
