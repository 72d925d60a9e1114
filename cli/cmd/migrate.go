package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema migrations",
	Run: func(cmd *cobra.Command, args []string) {
		store := createStore()
		defer store.Close()

		log.Info("migrations applied")
	},
}
