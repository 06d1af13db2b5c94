package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "booksnap",
		Short: "Personal library tool that discovers books from cover photos",
		Long: `BookSnap extracts text from book cover images, looks up catalog metadata,
and recommends similar books by embedding similarity over the extracted text.

The offline pipeline produces the OCR and recommendation stores; the web
interface drives uploads, library management, and browsing.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "booksnap.yaml", "Path to config file")

	// Add subcommands
	cmd.AddCommand(newPipelineCmd(&configPath))
	cmd.AddCommand(newServeCmd(&configPath))
	cmd.AddCommand(newFetchCmd(&configPath))
	cmd.AddCommand(newExportCmd(&configPath))

	return cmd
}
