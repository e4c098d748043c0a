package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mirawen/course-staff-tools/internal/config"
	"github.com/mirawen/course-staff-tools/pkg/clients/sheetsclient"
	"github.com/mirawen/course-staff-tools/pkg/core/input"
)

func convertSheetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convertSheet <spreadsheet_id>",
		Short: "Convert a colored preference spreadsheet into matcher CSV and JSON files",
		Long: `Read a Google Sheet where preferences are expressed as cell background
colors (red=0, orange=1, yellow=3, green=5) and write the preference CSV
and counts JSON files the match commands read.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spreadsheetID := args[0]

			sectionSheet, _ := cmd.Flags().GetString("section-sheet-name")
			ohSheet, _ := cmd.Flags().GetString("oh-sheet-name")
			sectionCountSheet, _ := cmd.Flags().GetString("section-count-sheet-name")
			ohCountSheet, _ := cmd.Flags().GetString("oh-count-sheet-name")
			sectionOut, _ := cmd.Flags().GetString("section-out")
			ohOut, _ := cmd.Flags().GetString("oh-out")
			sectionConfigOut, _ := cmd.Flags().GetString("section-config-out")
			ohConfigOut, _ := cmd.Flags().GetString("oh-config-out")

			app.logger.Info("Loading OAuth client configuration")
			oauthCfg, err := config.LoadOAuthClient()
			if err != nil {
				return fmt.Errorf("failed to load OAuth client config: %w", err)
			}

			app.logger.Info("Initializing sheets client")
			client, err := sheetsclient.NewClient(app.ctx, oauthCfg)
			if err != nil {
				return fmt.Errorf("failed to create sheets client: %w", err)
			}

			if err := convertOne(client, spreadsheetID, sectionSheet, sectionCountSheet, sectionOut, sectionConfigOut); err != nil {
				return fmt.Errorf("failed to convert section sheet: %w", err)
			}
			if err := convertOne(client, spreadsheetID, ohSheet, ohCountSheet, ohOut, ohConfigOut); err != nil {
				return fmt.Errorf("failed to convert OH sheet: %w", err)
			}

			fmt.Printf("Wrote %s, %s, %s, %s\n", sectionOut, sectionConfigOut, ohOut, ohConfigOut)

			return nil
		},
	}

	cmd.Flags().String("section-sheet-name", "Section Matching", "Sheet with section preferences")
	cmd.Flags().String("oh-sheet-name", "OH Matching", "Sheet with OH preferences")
	cmd.Flags().String("section-count-sheet-name", "Section Counts", "Sheet with per-user section counts")
	cmd.Flags().String("oh-count-sheet-name", "OH Counts", "Sheet with per-user OH counts")
	cmd.Flags().String("section-out", "section_preferences.csv", "Output file for section preferences")
	cmd.Flags().String("oh-out", "oh_preferences.csv", "Output file for OH preferences")
	cmd.Flags().String("section-config-out", "section_config.json", "Output file for section counts")
	cmd.Flags().String("oh-config-out", "oh_config.json", "Output file for OH counts")

	return cmd
}

// convertOne converts a single preference sheet + count sheet pair and
// writes the CSV and JSON outputs.
func convertOne(client *sheetsclient.Client, spreadsheetID, preferenceSheet, countSheet, csvOut, jsonOut string) error {
	app.logger.Info("Reading preference grid", zap.String("sheet", preferenceSheet))
	preferenceGrid, err := client.GetGrid(spreadsheetID, preferenceSheet)
	if err != nil {
		return err
	}

	app.logger.Info("Reading count grid", zap.String("sheet", countSheet))
	countGrid, err := client.GetGrid(spreadsheetID, countSheet)
	if err != nil {
		return err
	}

	converted, err := input.ConvertSheet(coloredCells(preferenceGrid), coloredCells(countGrid))
	if err != nil {
		return err
	}

	csvFile, err := os.Create(csvOut)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", csvOut, err)
	}
	defer csvFile.Close()
	if err := converted.WritePreferencesCSV(csvFile); err != nil {
		return err
	}

	jsonFile, err := os.Create(jsonOut)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jsonOut, err)
	}
	defer jsonFile.Close()
	return converted.WriteCountsJSON(jsonFile)
}

func coloredCells(grid [][]sheetsclient.GridCell) [][]input.ColoredCell {
	converted := make([][]input.ColoredCell, len(grid))
	for i, row := range grid {
		converted[i] = make([]input.ColoredCell, len(row))
		for j, cell := range row {
			converted[i][j] = input.ColoredCell{Value: cell.Value, Color: cell.Color}
		}
	}
	return converted
}
