package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/trailfeathers/trailfeathers/db"
)

var checklistActivity string

func init() {
	rootCmd.AddCommand(tripCmd)

	tripChecklistCmd.PersistentFlags().StringVar(&checklistActivity, "activity", "", "Activity type, e.g. \"Car Camping\"")
	tripCmd.AddCommand(tripChecklistCmd)
	tripCmd.AddCommand(tripActivitiesCmd)
}

var tripCmd = &cobra.Command{
	Use:     "trips",
	Aliases: []string{"trip"},
	Short:   "Trip helpers",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(0)
	},
}

var tripChecklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Print the packing checklist for an activity",
	Run: func(cmd *cobra.Command, args []string) {
		activity := db.ActivityType(checklistActivity)

		if !activity.IsValid() {
			fmt.Printf("Unknown activity %q\n", checklistActivity)
			fmt.Println("Use command `trailfeathers trip activities` to list valid activities.")
			os.Exit(1)
		}

		for _, item := range activity.Checklist() {
			fmt.Printf("[ ] %s\n", item)
		}
	},
}

var tripActivitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List the supported activity types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, activity := range db.ActivityTypes {
			fmt.Println(activity)
		}
	},
}
