package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stromno/leadsync/internal/model"
)

var submitCmd = &cobra.Command{
	Use:   "submit <record.json>",
	Short: "Push one intake record to Pipedrive",
	Long:  "Reads a JSON intake record, creates organization, person and lead in Pipedrive, patches lead custom fields, and journals the outcome.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		input, err := readLeadInput(args[0])
		if err != nil {
			return err
		}

		p, err := initPipeline()
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		result, runErr := p.CreateFromInput(ctx, *input)

		sub := model.Submission{
			LeadName: input.Name,
			Status:   model.SubmissionPushed,
		}
		if runErr != nil {
			sub.Status = model.SubmissionFailed
			sub.Error = runErr.Error()
		} else {
			sub.OrganizationID = result.OrganizationID
			sub.PersonID = result.PersonID
			sub.LeadID = result.LeadID
		}
		// The push already happened; a journal failure is logged, not fatal.
		if _, err := st.RecordSubmission(ctx, sub); err != nil {
			zap.L().Warn("failed to record submission", zap.Error(err))
		}

		if runErr != nil {
			return eris.Wrap(runErr, "submit")
		}

		formatSubmitSummary(os.Stdout, result, input)
		return nil
	},
}

// readLeadInput decodes a single intake record from a JSON file.
func readLeadInput(path string) (*model.LeadInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open record %s", path)
	}
	defer f.Close() //nolint:errcheck

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, eris.Wrapf(err, "read record %s", path)
	}

	var input model.LeadInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, eris.Wrapf(err, "decode record %s", path)
	}
	return &input, nil
}

// formatSubmitSummary prints the one-line human-readable result.
func formatSubmitSummary(w io.Writer, result *model.Result, input *model.LeadInput) {
	orgName := input.OrganizationName
	if orgName == "" {
		orgName = input.Name
	}
	_, _ = fmt.Fprintf(w, "OK: lead=%s person=%d org=%d (%s, %s, orgName=%s)\n",
		result.LeadID,
		result.PersonID,
		result.OrganizationID,
		orNA(input.Name),
		orNA(input.Email),
		orNA(orgName),
	)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func init() {
	rootCmd.AddCommand(submitCmd)
}
