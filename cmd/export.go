package cmd

import (
	"fmt"

	"github.com/booksnap/booksnap/internal/config"
	"github.com/booksnap/booksnap/internal/library"
	"github.com/booksnap/booksnap/internal/store"
	"github.com/spf13/cobra"
)

func newExportCmd(configPath *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the library as a Parquet dataset",
		Long: `Writes the saved library to a Parquet file, one row per book, for use
with analysis tools.`,
		Example: `  booksnap export --output library.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			lib := store.LoadLibrary(cfg.Data.LibraryPath)
			if len(lib) == 0 {
				return fmt.Errorf("library is empty, nothing to export")
			}

			if err := library.ExportParquet(output, lib); err != nil {
				return err
			}

			fmt.Printf("Exported %d books to %s\n", len(lib), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "library.parquet", "Output parquet file")

	return cmd
}
