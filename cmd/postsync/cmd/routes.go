package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/synclab/postsync/internal/cmd/output"
)

var routesFormat string

// routesCmd represents the routes command.
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the routes extracted from the source files",
	Long: `Routes scans the configured routes directory and lists every extracted
route descriptor without touching the collection document.

Useful for checking what the scanner sees before running a sync.`,
	Example: `  postsync routes
  postsync routes --format json
  postsync routes --format wide    # include handler and source line`,
	RunE: runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)

	routesCmd.Flags().StringVarP(&routesFormat, "format", "f", "", "Output format: table, wide, json, yaml (default: detect)")
}

func runRoutes(cmd *cobra.Command, _ []string) error {
	format, err := output.ParseFormat(routesFormat)
	if err != nil {
		return err
	}
	if format == "" {
		format = output.DetectFormat(os.Stdout)
	}

	s, err := newSyncer()
	if err != nil {
		return err
	}

	rts, err := s.Routes(cmd.Context())
	if err != nil {
		return err
	}
	if len(rts) == 0 {
		fmt.Fprintf(os.Stderr, "No routes found in %s\n", effectiveRoutesDir())
		return nil
	}

	return output.FormatRoutes(os.Stdout, rts, format)
}
