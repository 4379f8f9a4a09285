package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/stromno/leadsync/internal/eventlog"
	"github.com/stromno/leadsync/internal/leadsync"
)

var leadCmd = &cobra.Command{
	Use:   "lead <lead-id>",
	Short: "Fetch a lead from Pipedrive by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := initClient()
		if err != nil {
			return err
		}
		p := leadsync.New(client, fieldIDs(), eventlog.Nop{})

		lead, err := p.FetchLead(cmd.Context(), args[0])
		if err != nil {
			return eris.Wrap(err, "lead")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(lead)
	},
}

func init() {
	rootCmd.AddCommand(leadCmd)
}
