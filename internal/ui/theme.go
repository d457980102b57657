package ui

import (
	"github.com/charmbracelet/lipgloss"

	"tachyon/internal/task"
	"tachyon/internal/theme"
)

type palette struct {
	title    lipgloss.Style
	muted    lipgloss.Style
	accent   lipgloss.Style
	danger   lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
	priority map[task.Priority]lipgloss.Style
}

func paletteFor(t theme.Theme) palette {
	high := lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
	medium := lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b"))
	low := lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6"))
	p := palette{
		danger: lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")),
		priority: map[task.Priority]lipgloss.Style{
			task.PriorityHigh:   high,
			task.PriorityMedium: medium,
			task.PriorityLow:    low,
		},
	}
	switch t {
	case theme.Light:
		p.title = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f172a")).Bold(true)
		p.muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b"))
		p.accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#0d9488"))
		p.selected = lipgloss.NewStyle().Background(lipgloss.Color("#e2e8f0")).Foreground(lipgloss.Color("#0f172a"))
		p.done = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8")).Strikethrough(true)
	case theme.Tachyon:
		p.title = lipgloss.NewStyle().Foreground(lipgloss.Color("#2dd4bf")).Bold(true).Italic(true)
		p.muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#7c3aed"))
		p.accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#f0abfc"))
		p.selected = lipgloss.NewStyle().Background(lipgloss.Color("#312e81")).Foreground(lipgloss.Color("#2dd4bf"))
		p.done = lipgloss.NewStyle().Foreground(lipgloss.Color("#6d28d9")).Strikethrough(true)
	default:
		p.title = lipgloss.NewStyle().Foreground(lipgloss.Color("#f8fafc")).Bold(true)
		p.muted = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
		p.accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#2dd4bf"))
		p.selected = lipgloss.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("0"))
		p.done = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Strikethrough(true)
	}
	return p
}

func (p palette) badge(pr task.Priority) string {
	style, ok := p.priority[pr]
	if !ok {
		style = p.muted
	}
	label := pr.Label()
	if label == "" {
		label = "?"
	}
	return style.Render(label[:1])
}
