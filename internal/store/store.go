// Package store persists a journal of pipeline invocations. The journal sits
// beside the pipeline for operator inspection; the creation flow itself never
// reads from it.
package store

import (
	"context"

	"github.com/stromno/leadsync/internal/model"
)

// SubmissionFilter specifies criteria for listing submissions.
type SubmissionFilter struct {
	Status model.SubmissionStatus `json:"status,omitempty"`
	Limit  int                    `json:"limit,omitempty"`
}

// Store defines the persistence interface for the submission journal.
type Store interface {
	// RecordSubmission writes one journal entry and returns it with its
	// generated id and timestamp filled in.
	RecordSubmission(ctx context.Context, sub model.Submission) (*model.Submission, error)
	GetSubmission(ctx context.Context, id string) (*model.Submission, error)
	ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]model.Submission, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
