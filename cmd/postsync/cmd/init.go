package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/synclab/postsync/pkg/collection"
	"github.com/synclab/postsync/pkg/errors"
)

var (
	initName        string
	initDescription string
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a skeleton collection document",
	Long: `Init writes an empty collection document at the configured path so the
first sync has something to merge into. An existing file is never
overwritten.`,
	Example: `  postsync init --name "My API"
  postsync init --collection ./postman/api.postman_collection.json`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initName, "name", "API", "Collection display name")
	initCmd.Flags().StringVar(&initDescription, "description", "", "Collection description")
}

func runInit(_ *cobra.Command, _ []string) error {
	path := effectiveCollectionFile()
	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("%w: %s (remove it first to re-initialize)",
			errors.ErrAlreadyExists, path)
	}

	doc := collection.New(initName, initDescription)
	doc.Info.PostmanID = uuid.NewString()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	if err := doc.Write(path); err != nil {
		return err
	}

	fmt.Printf("✅ Created %s\n", path)
	return nil
}
