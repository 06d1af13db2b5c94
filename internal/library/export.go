package library

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/parquet-go/parquet-go"
)

// exportRow mirrors Entry with parquet column tags.
type exportRow struct {
	Title    string   `parquet:"title"`
	Author   string   `parquet:"author"`
	Filename string   `parquet:"filename"`
	Rating   int32    `parquet:"rating"`
	Tags     []string `parquet:"tags,list"`
}

// ExportParquet writes the library as a Parquet dataset, one row per entry,
// in library order.
func ExportParquet(path string, l Library) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[exportRow](file)

	rows := make([]exportRow, len(l))
	for i, e := range l {
		rows[i] = exportRow{
			Title:    e.Title,
			Author:   e.Author,
			Filename: e.Filename,
			Rating:   int32(e.Rating),
			Tags:     e.Tags,
		}
	}

	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}

	slog.Info("Exported library", "path", path, "entries", len(rows))
	return nil
}
