package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mirawen/course-staff-tools/pkg/core/catalog"
)

func fetchSectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetchSections <section_id> <term_id>",
		Short: "Fetch associated sections from the course catalog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sectionID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("section_id must be a number: %w", err)
			}
			termID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("term_id must be a number: %w", err)
			}

			format, _ := cmd.Flags().GetString("format")
			printFormat := catalog.PrintFormat(format)
			if !printFormat.IsValid() {
				return fmt.Errorf("unknown format %q", format)
			}

			client := catalog.NewClient(app.logger)
			sections, err := client.FetchAssociatedSections(app.ctx, sectionID, termID)
			if err != nil {
				return err
			}

			return catalog.WriteSections(os.Stdout, sections, printFormat)
		},
	}

	cmd.Flags().String("format", string(catalog.FormatTable), "Output format (table or csv)")

	return cmd
}
