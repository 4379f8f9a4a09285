package main

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/stromno/leadsync/internal/eventlog"
	"github.com/stromno/leadsync/internal/leadsync"
	"github.com/stromno/leadsync/internal/store"
	"github.com/stromno/leadsync/pkg/pipedrive"
)

// initStore opens the submission journal and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// initClient builds the Pipedrive client from configuration. Fails fast when
// base URL or token is missing.
func initClient() (pipedrive.Client, error) {
	if err := cfg.Pipedrive.Validate(); err != nil {
		return nil, err
	}

	opts := []pipedrive.Option{}
	if cfg.Pipedrive.TimeoutSecs > 0 {
		opts = append(opts, pipedrive.WithTimeout(time.Duration(cfg.Pipedrive.TimeoutSecs)*time.Second))
	}
	if cfg.Pipedrive.RateLimitPerSec > 0 {
		opts = append(opts, pipedrive.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.Pipedrive.RateLimitPerSec), 1)))
	}
	return pipedrive.NewClient(cfg.Pipedrive.BaseURL, cfg.Pipedrive.APIToken, opts...), nil
}

// initPipeline wires the client, field table, and event sinks into a Pipeline.
func initPipeline() (*leadsync.Pipeline, error) {
	client, err := initClient()
	if err != nil {
		return nil, err
	}

	sink := eventlog.MultiSink{
		eventlog.NewFileSink(cfg.Log.EventFile),
		eventlog.ZapSink{},
	}
	return leadsync.New(client, fieldIDs(), sink), nil
}

// fieldIDs starts from the production custom field keys and applies any
// configured overrides.
func fieldIDs() leadsync.FieldIDs {
	ids := leadsync.DefaultFieldIDs()
	if v := cfg.Pipedrive.Fields.ContactType; v != "" {
		ids.ContactType = v
	}
	if v := cfg.Pipedrive.Fields.HousingType; v != "" {
		ids.HousingType = v
	}
	if v := cfg.Pipedrive.Fields.PropertySize; v != "" {
		ids.PropertySize = v
	}
	if v := cfg.Pipedrive.Fields.DealType; v != "" {
		ids.DealType = v
	}
	if v := cfg.Pipedrive.Fields.Comment; v != "" {
		ids.Comment = v
	}
	return ids
}
