package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/NasaLens/internal/emoji"
	"github.com/yildizm/NasaLens/internal/presentation"
)

// View renders the current screen
func (m *Model) View() string {
	if m.screen == screenDetail {
		return m.renderDetailScreen()
	}
	return m.renderListScreen()
}

func (m *Model) renderListScreen() string {
	sections := []string{
		m.styles.Title.Render(emoji.GetEmoji("rocket") + " NasaLens"),
		m.styles.Search.Render(m.input.View()),
		m.renderStatus(),
		m.renderResults(),
	}
	if m.toast != "" {
		sections = append(sections, m.styles.Toast.Render(emoji.GetEmoji("error")+" "+m.toast))
	}
	sections = append(sections, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderStatus() string {
	if m.state.IsLoading {
		return m.spinner.View() + " " + m.styles.Info.Render(m.text.Text(presentation.KeyLoading))
	}
	if len(m.state.Items) == 0 {
		return ""
	}
	status := fmt.Sprintf("%s %d · %q", emoji.GetEmoji("image"), len(m.state.Items), m.state.CurrentQuery)
	if m.state.NextPage == 0 && m.cursor == len(m.state.Items)-1 {
		status += " · " + m.text.Text(presentation.KeyEndOfResults)
	}
	return m.styles.Muted.Render(status)
}

func (m *Model) renderResults() string {
	items := m.state.Items
	if len(items) == 0 {
		if m.state.IsLoading {
			return ""
		}
		return m.styles.Muted.Render(emoji.GetEmoji("empty") + " " + m.text.Text(presentation.KeyEmpty))
	}

	end := min(len(items), m.offset+m.listHeight())
	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.renderRow(i, items[i]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderRow(i int, img presentation.DisplayImage) string {
	title := img.Title
	if strings.TrimSpace(title) == "" {
		title = m.text.Text(presentation.KeyUnknown)
	}
	meta := img.FormattedDate
	if img.Photographer != "" {
		if meta != "" {
			meta += " · "
		}
		meta += img.Photographer
	}

	if i == m.cursor && m.focus == focusList {
		return m.styles.ListSelected.Render("▶ " + truncate(title, m.width-8))
	}
	line := m.styles.ListItem.Render("  " + truncate(title, m.width-8))
	if meta != "" {
		line += " " + m.styles.Muted.Render(meta)
	}
	return line
}

func (m *Model) renderHelp() string {
	if m.focus == focusSearch {
		return m.help.View(searchHelp{keys: m.keys})
	}
	return m.help.View(m.keys)
}

func (m *Model) renderDetailScreen() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.styles.Muted.Render(fmt.Sprintf("%3.f%% · esc back", m.viewport.ScrollPercent()*100)),
	)
}

func (m *Model) renderDetailContent() string {
	img := m.detail
	unknown := m.text.Text(presentation.KeyUnknown)
	orUnknown := func(v string) string {
		if strings.TrimSpace(v) == "" {
			return unknown
		}
		return v
	}

	width := max(20, m.viewport.Width-6)
	lines := []string{
		m.styles.Title.Render(orUnknown(img.Title)),
		"",
		emoji.GetEmoji("camera") + " " + m.styles.Label.Render(m.text.Text(presentation.KeyPhotographer)+":") + " " + orUnknown(img.Photographer),
		emoji.GetEmoji("calendar") + " " + m.styles.Label.Render(m.text.Text(presentation.KeyDate)+":") + " " + orUnknown(img.FormattedDate),
		emoji.GetEmoji("link") + " " + m.styles.Label.Render(m.text.Text(presentation.KeyImage)+":") + " " + m.styles.Link.Render(orUnknown(img.ImageURL)),
	}
	if desc := strings.TrimSpace(img.Description); desc != "" {
		lines = append(lines, "", lipgloss.NewStyle().Width(width).Render(desc))
	}
	return m.styles.Detail.Width(width + 4).Render(strings.Join(lines, "\n"))
}

func truncate(s string, width int) string {
	if width <= 1 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
