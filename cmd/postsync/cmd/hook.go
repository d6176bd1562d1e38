package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/synclab/postsync/internal/gitstage"
)

var hookForce bool

// hookCmd represents the hook command group.
var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage the git pre-commit hook",
	Long: `Hook installs or removes a pre-commit hook that runs postsync when
staged route files change, so the collection document never lags the
code it describes.`,
}

// hookInstallCmd represents the hook install command.
var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the pre-commit hook",
	Long: `Install writes .git/hooks/pre-commit. The hook runs postsync sync when
staged files under the routes directory match *.ts and re-stages the
collection file afterwards.

A pre-commit hook that was not generated by postsync is only replaced
with --force.`,
	Example: `  postsync hook install
  postsync hook install --force`,
	RunE: runHookInstall,
}

// hookUninstallCmd represents the hook uninstall command.
var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the pre-commit hook",
	Long:  `Uninstall removes the pre-commit hook if postsync generated it.`,
	RunE:  runHookUninstall,
}

func init() {
	rootCmd.AddCommand(hookCmd)
	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookUninstallCmd)

	hookInstallCmd.Flags().BoolVar(&hookForce, "force", false, "Overwrite an existing foreign pre-commit hook")
}

// openStager opens the repository around the working directory with the
// configured paths baked into the generated hook script.
func openStager() (*gitstage.Stager, error) {
	return gitstage.Open(".",
		gitstage.WithRoutesDir(effectiveRoutesDir()),
		gitstage.WithCollectionFile(effectiveCollectionFile()),
	)
}

func runHookInstall(_ *cobra.Command, _ []string) error {
	s, err := openStager()
	if err != nil {
		return err
	}
	if err := s.InstallHook(hookForce); err != nil {
		return err
	}
	fmt.Println("✅ Pre-commit hook installed")
	return nil
}

func runHookUninstall(_ *cobra.Command, _ []string) error {
	s, err := openStager()
	if err != nil {
		return err
	}
	if !s.HookInstalled() {
		fmt.Println("No postsync pre-commit hook installed")
		return nil
	}
	if err := s.UninstallHook(); err != nil {
		return err
	}
	fmt.Println("✅ Pre-commit hook removed")
	return nil
}
