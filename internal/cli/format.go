package cli

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/lipgloss"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	colorDim    = lipgloss.Color("#928374")
	colorHeader = lipgloss.Color("#fe8019")
)

// Styles renders terminal output. The zero value renders plain text.
type Styles struct {
	enabled bool
	header  lipgloss.Style
	dim     lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	bad     lipgloss.Style
}

// NewStyles returns colored styles when color is true and plain ones otherwise.
func NewStyles(color bool) Styles {
	if !color {
		return Styles{}
	}
	return Styles{
		enabled: true,
		header:  lipgloss.NewStyle().Foreground(colorHeader).Bold(true),
		dim:     lipgloss.NewStyle().Foreground(colorDim),
		ok:      lipgloss.NewStyle().Foreground(colorGreen),
		warn:    lipgloss.NewStyle().Foreground(colorYellow),
		bad:     lipgloss.NewStyle().Foreground(colorRed),
	}
}

func (s Styles) render(st lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return st.Render(text)
}

func (s Styles) Header(text string) string { return s.render(s.header, text) }
func (s Styles) Dim(text string) string    { return s.render(s.dim, text) }
func (s Styles) OK(text string) string     { return s.render(s.ok, text) }
func (s Styles) Warn(text string) string   { return s.render(s.warn, text) }
func (s Styles) Bad(text string) string    { return s.render(s.bad, text) }

// Status colors a task status by how settled it is.
func (s Styles) Status(status domain.TaskStatus) string {
	switch status {
	case domain.TaskStatusCompleted:
		return s.OK(string(status))
	case domain.TaskStatusCancelled:
		return s.Dim(string(status))
	case domain.TaskStatusInProgress:
		return s.Warn(string(status))
	case domain.TaskStatusBlocked:
		return s.Bad(string(status))
	default:
		return string(status)
	}
}

// Table renders an aligned table with a header separator line. Widths are
// measured on visible text so styled cells line up.
func (s Styles) Table(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	const colGap = 2

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := widths[i] - lipgloss.Width(cell)
			b.WriteString(style(cell))
			if i < len(headers)-1 {
				b.WriteString(strings.Repeat(" ", pad+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, s.Header)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("─", w)
	}
	writeRow(sep, s.Dim)
	for _, row := range rows {
		writeRow(row, func(c string) string { return c })
	}
	return b.String()
}

func formatDate(d *civil.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
