package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/stromno/leadsync/internal/model"
	"github.com/stromno/leadsync/internal/store"
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Inspect the submission journal",
}

var submissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded submissions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		subs, err := st.ListSubmissions(ctx, store.SubmissionFilter{
			Status: model.SubmissionStatus(status),
			Limit:  limit,
		})
		if err != nil {
			return eris.Wrap(err, "submissions list")
		}

		if len(subs) == 0 {
			fmt.Fprintln(os.Stderr, "No submissions found.")
			return nil
		}

		formatSubmissionsList(os.Stdout, subs)
		return nil
	},
}

// formatSubmissionsList writes a tabular list of submissions to w.
func formatSubmissionsList(out io.Writer, subs []model.Submission) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tSTATUS\tLEAD\tCREATED\tERROR")
	_, _ = fmt.Fprintln(w, "--\t----\t------\t----\t-------\t-----")

	for _, s := range subs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			truncate(s.ID, 8),
			truncate(s.LeadName, 30),
			s.Status,
			truncate(s.LeadID, 12),
			s.CreatedAt.Format("2006-01-02 15:04"),
			truncate(s.Error, 40),
		)
	}
	_ = w.Flush()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	submissionsListCmd.Flags().String("status", "", "filter by status (pushed|failed)")
	submissionsListCmd.Flags().Int("limit", 20, "maximum rows")
	submissionsCmd.AddCommand(submissionsListCmd)
	rootCmd.AddCommand(submissionsCmd)
}
