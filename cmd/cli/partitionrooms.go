package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mirawen/course-staff-tools/pkg/core/partition"
)

func partitionRoomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partitionRooms <students.csv> <rooms.csv>",
		Short: "Partition students into rooms alphabetically by last name",
		Long: `Partition a roster of students into rooms by last-name initial without
exceeding room capacities. Student names should be "Last, First". When the
rooms are too small, every capacity is raised by one seat until a valid
split exists, and the required relaxation is reported.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := partition.DefaultOptions()
			opts.Scale, _ = cmd.Flags().GetFloat64("scale")
			opts.Sort, _ = cmd.Flags().GetString("sort")
			opts.Limit, _ = cmd.Flags().GetInt("limit")
			opts.NoSinglePrefix, _ = cmd.Flags().GetBool("no-single-prefix")

			studentsFile, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open students file: %w", err)
			}
			defer studentsFile.Close()

			students, err := partition.ParseStudents(studentsFile)
			if err != nil {
				return err
			}

			roomsFile, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open rooms file: %w", err)
			}
			defer roomsFile.Close()

			rooms, err := partition.ParseRooms(roomsFile)
			if err != nil {
				return err
			}

			app.logger.Info("Partitioning students",
				zap.Int("students", len(students)),
				zap.Int("rooms", len(rooms)),
				zap.Float64("scale", opts.Scale),
			)

			result, err := partition.Partition(students, rooms, opts)
			if err != nil {
				return err
			}

			if result.ExtraCapacity == 0 {
				fmt.Printf("%d solutions:\n\n", len(result.Solutions))
			} else {
				fmt.Printf("%d solutions requiring %d extra capacity:\n\n",
					len(result.Solutions), result.ExtraCapacity)
			}

			for _, solution := range result.Solutions {
				fmt.Printf("avg: %.4f, max: %.4f\n", solution.AvgFullness, solution.MaxFullness)
				for _, room := range solution.Rooms {
					fmt.Printf("%s (%d/%d): %s-%s\n",
						room.Room, room.Filled, room.Capacity, room.Start, room.End)
				}
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().Float64("scale", 1.0, "Multiply all room capacities by this value (rounded down)")
	cmd.Flags().String("sort", "avg", "Sort order: avg or max fullness; prefix with - to reverse")
	cmd.Flags().Int("limit", -1, "Number of solutions to print; -1 prints all")
	cmd.Flags().Bool("no-single-prefix", false, "Reject solutions where a room covers only one letter")

	return cmd
}
