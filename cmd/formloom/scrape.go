package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spindleworks/formloom/internal/client"
	"github.com/spindleworks/formloom/internal/headers"
	"github.com/spindleworks/formloom/internal/schema"
)

// scrape fetches a form page and prints its parsed schema as JSON, so
// the operator can copy question and entry IDs into a run config.
func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape <form-url>",
		Short: "Fetch a form and print its question schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			headers.InitProfilePool(16)

			sub, err := client.NewSubmitter(args[0], 1)
			if err != nil {
				return err
			}
			defer sub.Close()

			page, err := sub.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			form, err := schema.Parse(args[0], page)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(form); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "parsed %d questions\n", len(form.Questions))
			return nil
		},
	}
}
