package formatter

import (
	"fmt"
	"strings"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# NASA Image Search: %s\n\n", report.Query)
	if !report.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	}

	b.WriteString("| Images | Pages fetched | Next page |\n")
	b.WriteString("|--------|---------------|-----------|\n")
	next := "-"
	if report.NextPage > 0 {
		next = fmt.Sprintf("%d", report.NextPage)
	}
	fmt.Fprintf(&b, "| %d | %d | %s |\n\n", len(report.Items), report.PagesFetched, next)

	if len(report.Items) == 0 {
		fmt.Fprintf(&b, "_%s_\n", report.emptyMessage())
		return []byte(b.String()), nil
	}

	b.WriteString("## Results\n\n")
	for i, img := range report.Items {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, escapeMarkdown(titleOrPlaceholder(img.Title)))
		if img.Photographer != "" {
			fmt.Fprintf(&b, "- **Photographer:** %s\n", escapeMarkdown(img.Photographer))
		}
		if img.FormattedDate != "" {
			fmt.Fprintf(&b, "- **Date:** %s\n", img.FormattedDate)
		}
		if img.ImageURL != "" {
			fmt.Fprintf(&b, "- **Image:** <%s>\n", img.ImageURL)
		}
		if img.Description != "" {
			fmt.Fprintf(&b, "\n%s\n", strings.TrimSpace(img.Description))
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer("|", "\\|", "*", "\\*", "_", "\\_", "`", "\\`")
	return replacer.Replace(s)
}
