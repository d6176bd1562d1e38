package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/synclab/postsync/internal/openapi"
)

var (
	exportOut     string
	exportFormat  string
	exportTitle   string
	exportVersion string
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the extracted routes as an OpenAPI document",
	Long: `Export scans the routes directory and renders the extracted routes as
an OpenAPI 3 document, without touching the collection. YAML is the
default; use --format json for JSON.`,
	Example: `  postsync export > openapi.yaml
  postsync export --format json --out openapi.json
  postsync export --title "My API" --api-version 2.1.0`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "yaml", "Output format: yaml or json")
	exportCmd.Flags().StringVar(&exportTitle, "title", "API", "OpenAPI document title")
	exportCmd.Flags().StringVar(&exportVersion, "api-version", "1.0.0", "OpenAPI document version")
}

func runExport(cmd *cobra.Command, _ []string) error {
	if exportFormat != "yaml" && exportFormat != "json" {
		return fmt.Errorf("invalid format %q: must be yaml or json", exportFormat)
	}

	s, err := newSyncer()
	if err != nil {
		return err
	}
	rts, err := s.Routes(cmd.Context())
	if err != nil {
		return err
	}

	spec, err := openapi.Build(rts, exportTitle, exportVersion)
	if err != nil {
		return err
	}

	data, err := spec.MarshalJSON()
	if err != nil {
		return err
	}
	if exportFormat == "json" {
		var buf json.RawMessage = data
		if data, err = json.MarshalIndent(buf, "", "  "); err != nil {
			return err
		}
		data = append(data, '\n')
	} else {
		if data, err = yaml.JSONToYAML(data); err != nil {
			return err
		}
	}

	if exportOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(exportOut, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✅ Wrote %s\n", exportOut)
	return nil
}
