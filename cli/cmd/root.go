package cmd

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/trailfeathers/trailfeathers/db"
	"github.com/trailfeathers/trailfeathers/db/bolt"
	"github.com/trailfeathers/trailfeathers/db/sql"
	"github.com/trailfeathers/trailfeathers/util"
)

var configPath string

var logCloser io.Closer

var rootCmd = &cobra.Command{
	Use:   "trailfeathers",
	Short: "Trail Feathers is a trip planning backend for hikers and their friends",
	Long: `Plan trips with friends, keep a gear library and share packing checklists.
Complete documentation is available in the repository README.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		conf, err := util.LoadConfig(configPath)
		if err != nil {
			return err
		}
		util.Config = conf

		logCloser, err = util.ConfigureLogging(conf)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(0)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the JSON configuration file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newStore builds the store for the configured dialect without connecting.
func newStore(conf util.DbConfig) db.Store {
	if conf.Dialect == util.DbDriverBolt {
		return bolt.CreateBoltDB(conf.Path)
	}
	return sql.CreateDb(conf)
}

// createStore connects to the configured database and applies migrations.
// It exits the process on failure.
func createStore() db.Store {
	store := newStore(util.Config.Database)

	if err := store.Connect(); err != nil {
		log.WithError(err).WithField("dialect", util.Config.Database.Dialect).Fatal("cannot connect to database")
	}

	if err := store.Migrate(); err != nil {
		log.WithError(err).Fatal("cannot migrate database")
	}

	return store
}
