// Package formatter renders headless search results
package formatter

import (
	"fmt"
	"time"

	"github.com/yildizm/NasaLens/internal/presentation"
)

// Report is the outcome of a headless search
type Report struct {
	Query        string                      `json:"query"`
	Items        []presentation.DisplayImage `json:"items"`
	PagesFetched int                         `json:"pages_fetched"`
	NextPage     int                         `json:"next_page,omitempty"`
	GeneratedAt  time.Time                   `json:"generated_at"`
	// EmptyMessage replaces the default text shown when there are no items
	EmptyMessage string                      `json:"-"`
}

// DefaultEmptyMessage is shown for an empty report without an EmptyMessage
const DefaultEmptyMessage = "No images found."

func (r *Report) emptyMessage() string {
	if r.EmptyMessage != "" {
		return r.EmptyMessage
	}
	return DefaultEmptyMessage
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// New returns the formatter for format: text, json, csv or markdown
func New(format string, color, emoji bool) (Formatter, error) {
	switch format {
	case "", "text":
		return NewTerminal(color, emoji), nil
	case "json":
		return NewJSON(), nil
	case "csv":
		return NewCSV(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (must be one of: text, json, csv, markdown)", format)
	}
}
