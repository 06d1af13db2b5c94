package cmd

import (
	"fmt"
	"log/slog"

	"github.com/booksnap/booksnap/internal/config"
	"github.com/booksnap/booksnap/internal/embeddings"
	"github.com/booksnap/booksnap/internal/ocr"
	"github.com/booksnap/booksnap/internal/recommend"
	"github.com/booksnap/booksnap/internal/store"
	"github.com/spf13/cobra"
)

func newPipelineCmd(configPath *string) *cobra.Command {
	var provider string
	var model string

	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Run the offline OCR and recommendation pipeline",
		Long: `Extracts text from every cover image in the raw-images directory, embeds
the extracted text, and ranks cover similarity into per-image recommendation
lists. Both derived stores are regenerated wholesale on every run.

Images that cannot be decoded are skipped; images with no detected text are
excluded from the recommendation set.`,
		Example: `  # Run with the default config
  booksnap pipeline

  # Use a specific OCR provider and model
  booksnap pipeline --provider openai --model gpt-4o`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if provider != "" {
				cfg.OCR.Provider = provider
			}
			if model != "" {
				cfg.OCR.Model = model
			}

			ctx := cmd.Context()

			slog.Info("Extracting cover text", "images_dir", cfg.Data.ImagesDir, "provider", cfg.OCR.Provider)
			ocrService := ocr.NewService(cfg.OCR)
			results, err := ocrService.ExtractDir(ctx, cfg.Data.ImagesDir)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				return fmt.Errorf("no readable images found in %s", cfg.Data.ImagesDir)
			}

			if err := store.SaveOCR(cfg.Data.OCRStorePath, results); err != nil {
				return err
			}
			slog.Info("Saved OCR store", "path", cfg.Data.OCRStorePath, "images", len(results))

			embedder, err := embeddings.New(cfg.Embeddings)
			if err != nil {
				return err
			}

			recommendations, err := recommend.Build(ctx, results, embedder, cfg.Recommend.TopK)
			if err != nil {
				return err
			}

			if err := store.SaveRecommendations(cfg.Data.RecommendationsPath, recommendations); err != nil {
				return err
			}
			slog.Info("Saved recommendation store", "path", cfg.Data.RecommendationsPath, "images", len(recommendations))

			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "OCR provider (ollama or openai)")
	cmd.Flags().StringVar(&model, "model", "", "OCR model name")

	return cmd
}
