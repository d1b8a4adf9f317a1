package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"visadesk/internal/catalog"
	"visadesk/internal/platform/config"
)

var catalogFlags struct {
	path string
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate and print the visa catalog",
	Long: `Loads the catalog the server would use (the embedded default, or the file
named by --path or VISADESK_CATALOG_PATH), validates it and prints the visa
subclasses with their applicant fields.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := catalogFlags.path
		if path == "" {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			path = cfg.CatalogPath
		}
		c, err := loadCatalog(path)
		if err != nil {
			return err
		}
		return printCatalog(cmd.OutOrStdout(), c)
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogFlags.path, "path", "", "Catalog YAML file (default: VISADESK_CATALOG_PATH or the embedded catalog)")
}

// loadCatalog falls back to the embedded catalog when path is empty.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

func printCatalog(w io.Writer, c *catalog.Catalog) error {
	steps := make([]string, 0, c.StepCount())
	for _, s := range c.Steps() {
		steps = append(steps, s.Title)
	}
	fmt.Fprintf(w, "steps: %s\n\n", strings.Join(steps, " > "))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tCATEGORY\tFIELDS\tPROCESSING")
	for _, v := range c.Visas() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", v.Code, v.Name, v.Category, len(c.Fields(v.Code)), v.ProcessingTime)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	required := 0
	for _, d := range c.Documents() {
		if d.Required {
			required++
		}
	}
	fmt.Fprintf(w, "\ndocuments: %d (%d required)\n", len(c.Documents()), required)
	return nil
}
