package cmd

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/trailfeathers/trailfeathers/db"
	"github.com/trailfeathers/trailfeathers/services/server"
)

type gearImportArgs struct {
	username string
	dir      string
	file     string
}

var targetGearImportArgs gearImportArgs

func init() {
	gearImportCmd.PersistentFlags().StringVar(&targetGearImportArgs.username, "username", "", "Owner of the imported gear")
	gearImportCmd.PersistentFlags().StringVar(&targetGearImportArgs.dir, "dir", "", "Directory path with gear lists to import")
	gearImportCmd.PersistentFlags().StringVar(&targetGearImportArgs.file, "file", "", "Gear list file path to import")
	gearCmd.AddCommand(gearImportCmd)
	rootCmd.AddCommand(gearCmd)
}

var gearCmd = &cobra.Command{
	Use:   "gear",
	Short: "Manage gear libraries",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(0)
	},
}

var gearImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import gear list(s) into a user's library",
	Run: func(cmd *cobra.Command, args []string) {

		ok := true
		if targetGearImportArgs.username == "" {
			fmt.Println("Argument --username required")
			ok = false
		}

		if targetGearImportArgs.dir == "" && targetGearImportArgs.file == "" {
			fmt.Println("Argument --dir or --file required")
			ok = false
		}

		if targetGearImportArgs.dir != "" && targetGearImportArgs.file != "" {
			fmt.Println("Only one of --dir or --file can be specified")
			ok = false
		}

		if !ok {
			fmt.Println("Use command `trailfeathers gear import --help` for details.")
			os.Exit(1)
		}

		store := createStore()
		defer store.Close()

		user, err := store.GetUserByUsername(targetGearImportArgs.username)
		if err != nil {
			log.Errorf("cannot resolve user %s: %v", targetGearImportArgs.username, err)
			os.Exit(1)
		}

		files, err := collectGearFiles(targetGearImportArgs.file, targetGearImportArgs.dir)
		if err != nil {
			log.Errorf("cannot read %s: %v", targetGearImportArgs.dir, err)
			os.Exit(1)
		}

		if len(files) == 0 {
			fmt.Println("No gear files found to import")
			os.Exit(1)
		}

		gearService := server.NewGearService(store)

		total := 0
		for _, f := range files {
			n, err := importGearFromFile(f, user, gearService)
			if err != nil {
				log.Errorf("failed to import %s: %v", f, err)
			}
			fmt.Printf("Imported %d item(s) from %s\n", n, f)
			total += n
		}

		if total == 0 {
			os.Exit(1)
		}

		fmt.Printf("Gear item(s) imported: %d\n", total)
	},
}

func collectGearFiles(file string, dir string) ([]string, error) {
	files := make([]string, 0)

	if file != "" {
		files = append(files, file)
	}

	if dir != "" {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	// sort for deterministic order
	sort.Strings(files)
	return files, nil
}

// importGearFromFile adds every item of a JSON array file. It keeps going past
// invalid items and returns how many were stored.
func importGearFromFile(path string, user db.User, gearService server.GearService) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var items []db.GearItem
	if err = json.Unmarshal(data, &items); err != nil {
		return 0, err
	}

	imported := 0
	var firstErr error

	for i, item := range items {
		if _, err := gearService.AddItem(user.ID, item); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"file":  path,
				"index": i,
			}).Warn("skipping gear item")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		imported++
	}

	return imported, firstErr
}
