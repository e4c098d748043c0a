package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mirawen/course-staff-tools/pkg/core/flowmatcher"
	"github.com/mirawen/course-staff-tools/pkg/core/input"
)

func matchFlowCmd() *cobra.Command {
	var files matchFiles

	cmd := &cobra.Command{
		Use:   "matchFlow",
		Short: "Assign users to slots with the min-cost max-flow matcher",
		Long: `Assign users to slots using two min-cost max-flow passes: one over
time groups ignoring location, then one per colliding time group to pick
specific rooms. Handles hard constraints only; the categories are solved
independently, so cross-category conflicts and bonus terms need the
integer-program matcher instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flagSeed, _ := cmd.Flags().GetString("seed")
			format, _ := cmd.Flags().GetString("format")
			showEmpty, _ := cmd.Flags().GetBool("show-empty")

			printFormat := input.PrintFormat(format)
			if !printFormat.IsValid() {
				return fmt.Errorf("unknown format %q", format)
			}

			section, oh, err := files.loadProblems()
			if err != nil {
				return err
			}

			seed, err := resolveSeed(flagSeed)
			if err != nil {
				return err
			}
			app.logger.Info("Shuffling inputs", zap.Int64("seed", seed))
			fmt.Println("seed", seed)
			shuffleProblems(seed, section, oh)

			if !section.Empty() {
				result, err := flowmatcher.Match(section, app.logger)
				if err != nil {
					return reportMatchError(err)
				}
				if err := printResult(result, section, oh, printFormat, showEmpty); err != nil {
					return err
				}
			}

			if !oh.Empty() {
				if !section.Empty() {
					fmt.Println()
				}
				result, err := flowmatcher.Match(oh, app.logger)
				if err != nil {
					return reportMatchError(err)
				}
				if err := printResult(result, section, oh, printFormat, showEmpty); err != nil {
					return err
				}
			}

			return nil
		},
	}

	files.register(cmd)
	cmd.Flags().StringP("seed", "s", "", "Seed for shuffle order (overrides config)")
	cmd.Flags().String("format", string(input.FormatTable), "Output format (table or csv)")
	cmd.Flags().Bool("show-empty", false, "Show users and slots with no assignments")

	return cmd
}
