package cmd

import (
	"fmt"

	"github.com/booksnap/booksnap/internal/config"
	"github.com/booksnap/booksnap/internal/images"
	"github.com/spf13/cobra"
)

func newFetchCmd(configPath *string) *cobra.Command {
	var isbns []string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download cover images for a list of ISBNs",
		Long: `Downloads cover images from the Open Library Covers API into the
raw-images directory, so a library can be seeded without photographing
covers by hand.`,
		Example: `  # Fetch two covers into the configured images directory
  booksnap fetch --isbn 9780441013593 --isbn 9780547928227`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(isbns) == 0 {
				return fmt.Errorf("at least one --isbn is required")
			}

			dir := outputDir
			if dir == "" {
				cfg, err := config.Load(*configPath)
				if err != nil {
					return err
				}
				dir = cfg.Data.ImagesDir
			}

			fetcher := images.NewFetcher()
			paths := fetcher.FetchCovers(isbns, dir)
			if len(paths) == 0 {
				return fmt.Errorf("no covers could be downloaded")
			}

			fmt.Printf("Downloaded %d of %d covers to %s\n", len(paths), len(isbns), dir)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&isbns, "isbn", nil, "ISBN to fetch a cover for (repeatable)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: configured images directory)")

	return cmd
}
