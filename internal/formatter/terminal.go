package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/NasaLens/internal/emoji"
	"github.com/yildizm/NasaLens/internal/presentation"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter
func NewTerminal(color, emoji bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = emoji
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, report.Query)
	f.writeSummary(&b, report)

	if len(report.Items) == 0 {
		b.WriteString(termfmt.GetEmoji("info", f.opts) + " " + report.emptyMessage() + "\n")
		return []byte(b.String()), nil
	}

	f.writeItems(&b, report.Items)
	return []byte(b.String()), nil
}

func (f *terminalFormatter) writeHeader(b *strings.Builder, query string) {
	header := fmt.Sprintf("NASA Image Search: %s", query)
	width := len([]rune(header))

	b.WriteString("╔" + strings.Repeat("═", width+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", width+2) + "╝\n\n")
}

func (f *terminalFormatter) writeSummary(b *strings.Builder, report *Report) {
	b.WriteString(termfmt.GetEmoji("statistics", f.opts) + " Summary\n")

	next := "none"
	if report.NextPage > 0 {
		next = fmt.Sprintf("%d", report.NextPage)
	}
	items := []termfmt.TreeItem{
		{Label: "Images", Value: fmt.Sprintf("%d", len(report.Items))},
		{Label: "Pages fetched", Value: fmt.Sprintf("%d", report.PagesFetched)},
		{Label: "Next page", Value: next, Last: true},
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func (f *terminalFormatter) writeItems(b *strings.Builder, images []presentation.DisplayImage) {
	b.WriteString(f.symbol("image") + " Results\n")

	items := make([]termfmt.TreeItem, 0, len(images))
	for i, img := range images {
		var children []termfmt.TreeItem
		if img.Photographer != "" {
			children = append(children, termfmt.TreeItem{Label: "Photographer", Value: img.Photographer})
		}
		if img.FormattedDate != "" {
			children = append(children, termfmt.TreeItem{Label: "Date", Value: img.FormattedDate})
		}
		if img.ImageURL != "" {
			children = append(children, termfmt.TreeItem{Label: "Image", Value: img.ImageURL})
		}
		if len(children) > 0 {
			children[len(children)-1].Last = true
		}

		items = append(items, termfmt.TreeItem{
			Label:    fmt.Sprintf("%d", i+1),
			Value:    titleOrPlaceholder(img.Title),
			Children: children,
			Last:     i == len(images)-1,
		})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n")
}

// symbol honours the formatter's emoji option for keys go-termfmt lacks
func (f *terminalFormatter) symbol(key string) string {
	if f.opts.Emoji {
		return emoji.Symbol(key)
	}
	return emoji.Fallback(key)
}

func titleOrPlaceholder(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
