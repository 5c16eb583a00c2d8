package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/yildizm/NasaLens/internal/presentation"
)

var emptyItems = []presentation.DisplayImage{}

// csvFormatter writes one row per image
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

func (f *csvFormatter) Format(report *Report) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	headers := []string{"Title", "Photographer", "Date", "Image URL", "Description"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, img := range report.Items {
		record := []string{
			img.Title,
			img.Photographer,
			img.FormattedDate,
			img.ImageURL,
			img.Description,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return b.Bytes(), nil
}
