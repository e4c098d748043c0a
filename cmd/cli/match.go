package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mirawen/course-staff-tools/pkg/core/input"
	"github.com/mirawen/course-staff-tools/pkg/core/matcher"
	"github.com/mirawen/course-staff-tools/pkg/core/model"
	"github.com/mirawen/course-staff-tools/pkg/core/optmatcher"
)

// Slot ID prefixes keep section and OH slot IDs from colliding when both
// categories appear in one solve.
const (
	sectionSlotPrefix = "A"
	ohSlotPrefix      = "B"
)

// matchFiles holds the input file flags shared by the match commands.
type matchFiles struct {
	sectionPreferences string
	sectionConfig      string
	ohPreferences      string
	ohConfig           string
}

func (f *matchFiles) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sectionPreferences, "section-preferences", "", "Preferences CSV file for sections")
	cmd.Flags().StringVar(&f.sectionConfig, "section-config", "", "Counts JSON file for sections")
	cmd.Flags().StringVar(&f.ohPreferences, "oh-preferences", "", "Preferences CSV file for OH")
	cmd.Flags().StringVar(&f.ohConfig, "oh-config", "", "Counts JSON file for OH")
}

// loadProblems reads both categories' input files. A category with no
// files is returned as nil and skipped by the solvers.
func (f *matchFiles) loadProblems() (section, oh *matcher.Problem, err error) {
	section, err = input.LoadProblem(model.CategorySection, f.sectionPreferences, f.sectionConfig, sectionSlotPrefix)
	if err != nil {
		return nil, nil, err
	}

	oh, err = input.LoadProblem(model.CategoryOH, f.ohPreferences, f.ohConfig, ohSlotPrefix)
	if err != nil {
		return nil, nil, err
	}

	if section.Empty() && oh.Empty() {
		return nil, nil, fmt.Errorf("no input given; provide section and/or OH preference and counts files")
	}

	return section, oh, nil
}

// resolveSeed picks the shuffle seed: the --seed flag wins, then the
// config file, then a random seed, which is logged for reproducibility.
func resolveSeed(flagSeed string) (int64, error) {
	if flagSeed != "" {
		seed, err := strconv.ParseInt(flagSeed, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("seed must be a number: %w", err)
		}
		return seed, nil
	}
	if app.cfg.Seed != nil {
		return *app.cfg.Seed, nil
	}
	return rand.Int63n(1 << 16), nil
}

func shuffleProblems(seed int64, problems ...*matcher.Problem) {
	rng := rand.New(rand.NewSource(seed))
	for _, problem := range problems {
		if !problem.Empty() {
			problem.Shuffle(rng)
		}
	}
}

// reportMatchError prints infeasibility distinctly from input errors so
// the caller knows constraint relaxation (not input fixing) is the remedy.
func reportMatchError(err error) error {
	var infeasible *matcher.InfeasibleError
	if errors.As(err, &infeasible) {
		fmt.Fprintf(os.Stderr, "\nNo feasible assignment exists: %s\n", infeasible.Msg)
		fmt.Fprintln(os.Stderr, "Relax slot or user minimums and try again.")
	}
	return err
}

// printResult renders one solve's assignments by user and then by slot.
func printResult(result *matcher.MatchResult, section, oh *matcher.Problem, format input.PrintFormat, showEmpty bool) error {
	fmt.Printf("objective %v\n\n", result.Objective)

	if len(result.Section) > 0 {
		if err := input.WriteAssignmentByUser(os.Stdout, "Discussions", result.Section, section, format, showEmpty); err != nil {
			return err
		}
	}
	if len(result.Section) > 0 && len(result.OH) > 0 {
		fmt.Println()
	}
	if len(result.OH) > 0 {
		if err := input.WriteAssignmentByUser(os.Stdout, "OH", result.OH, oh, format, showEmpty); err != nil {
			return err
		}
	}

	fmt.Println("\n==========")
	fmt.Println()

	if len(result.Section) > 0 {
		if err := input.WriteAssignmentBySlot(os.Stdout, "Discussions", result.Section, section, format, showEmpty); err != nil {
			return err
		}
	}
	if len(result.Section) > 0 && len(result.OH) > 0 {
		fmt.Println()
	}
	if len(result.OH) > 0 {
		if err := input.WriteAssignmentBySlot(os.Stdout, "OH", result.OH, oh, format, showEmpty); err != nil {
			return err
		}
	}

	if len(result.Unmatched) > 0 {
		fmt.Println()
		fmt.Printf("Unmatched users: %v\n", result.Unmatched)
	}

	return nil
}

func matchCmd() *cobra.Command {
	var files matchFiles

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Assign users to section and OH slots with the integer-program matcher",
		Args:  cobra.NoArgs,
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

			result, err := optmatcher.Match(section, oh, app.cfg.ToMatcherConfig(), app.logger)
			if err != nil {
				return reportMatchError(err)
			}

			return printResult(result, section, oh, printFormat, showEmpty)
		},
	}

	files.register(cmd)
	cmd.Flags().StringP("seed", "s", "", "Seed for shuffle order (overrides config)")
	cmd.Flags().String("format", string(input.FormatTable), "Output format (table or csv)")
	cmd.Flags().Bool("show-empty", false, "Show users and slots with no assignments")

	return cmd
}
