package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/trailfeathers/trailfeathers/services/server"
)

type userArgs struct {
	username string
	password string
}

var targetUserArgs userArgs

func init() {
	rootCmd.AddCommand(userCmd)

	userAddCmd.PersistentFlags().StringVar(&targetUserArgs.username, "username", "", "New user's username")
	userAddCmd.PersistentFlags().StringVar(&targetUserArgs.password, "password", "", "New user's password")
	userCmd.AddCommand(userAddCmd)
}

var userCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"user"},
	Short:   "Manage users",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(0)
	},
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add new user",
	Run: func(cmd *cobra.Command, args []string) {
		if targetUserArgs.username == "" || targetUserArgs.password == "" {
			fmt.Println("Arguments --username and --password required")
			fmt.Println("Use command `trailfeathers user add --help` for details.")
			os.Exit(1)
		}

		store := createStore()
		defer store.Close()

		user, err := server.NewUserService(store).Signup(targetUserArgs.username, targetUserArgs.password)
		if err != nil {
			fmt.Printf("Cannot add user: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("User %s <%d> added!\n", user.Username, user.ID)
	},
}
