package leadsync

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/stromno/leadsync/pkg/pipedrive"
)

// mockClient is a testify mock of pipedrive.Client.
type mockClient struct {
	mock.Mock
}

func (m *mockClient) CreateOrganization(ctx context.Context, req pipedrive.OrganizationRequest) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

func (m *mockClient) CreatePerson(ctx context.Context, req pipedrive.PersonRequest) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

func (m *mockClient) CreateLead(ctx context.Context, req pipedrive.LeadRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockClient) UpdateLeadCustomFields(ctx context.Context, leadID string, fields map[string]any) error {
	args := m.Called(ctx, leadID, fields)
	return args.Error(0)
}

func (m *mockClient) GetLead(ctx context.Context, leadID string) (map[string]any, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}
