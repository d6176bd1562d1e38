package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that a sync run could succeed",
	Long: `Validate checks the configuration, the routes directory, the collection
document and the git working tree, and reports every failed check at
once. Nothing is modified.`,
	Example: `  postsync validate
  postsync validate --collection ./postman/api.postman_collection.json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	s, err := newSyncer()
	if err != nil {
		return err
	}

	if err := s.Validate(cmd.Context()); err != nil {
		fmt.Fprintln(os.Stderr, "❌ Validation failed:")
		return err
	}

	fmt.Println("✅ Configuration, routes directory and collection document are valid")
	return nil
}
