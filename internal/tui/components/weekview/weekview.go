package weekview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekplan/internal/capacity"
	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

var (
	dayHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	blockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	commitmentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110")).
			Italic(true)

	barFillStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	barOverStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	barEmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

const barWidth = 24

type Model struct {
	viewport viewport.Model
	week     capacity.WeekCapacity
	blocks   []models.TimeBlock
	commits  []models.ExternalCommitment
	subtasks map[string]models.Subtask
	width    int
	height   int
}

func New(width, height int) Model {
	vp := viewport.New(width, height)
	return Model{
		viewport: vp,
		subtasks: make(map[string]models.Subtask),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.week.Days) == 0 {
		return "No working days configured. Set a work profile first."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.render()
}

// SetWeek replaces the rendered week.
func (m *Model) SetWeek(week capacity.WeekCapacity, blocks []models.TimeBlock, commits []models.ExternalCommitment, subtasks []models.Subtask) {
	m.week = week
	m.blocks = blocks
	m.commits = commits
	m.subtasks = make(map[string]models.Subtask, len(subtasks))
	for _, s := range subtasks {
		m.subtasks[s.ID] = s
	}
	m.render()
}

func (m *Model) render() {
	var b strings.Builder

	for _, day := range m.week.Days {
		d, err := timeutil.ParseDate(day.Date)
		if err != nil {
			continue
		}

		b.WriteString(dayHeaderStyle.Render(fmt.Sprintf("%s %s", d.Weekday().String(), day.Date)))
		b.WriteString("  ")
		b.WriteString(capacityBar(day))
		b.WriteString("\n")

		for _, line := range m.dayLines(day.Date) {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
}

// dayLines renders the blocks and commitments of one date sorted by start
// time.
func (m *Model) dayLines(date string) []string {
	type entry struct {
		start string
		line  string
	}
	var entries []entry

	for _, c := range m.commits {
		if c.Date != date {
			continue
		}
		entries = append(entries, entry{
			start: c.Start,
			line: fmt.Sprintf("  %s %s",
				timeStyle.Render(c.Start+" - "+c.End),
				commitmentStyle.Render(c.Title)),
		})
	}
	for _, blk := range m.blocks {
		if blk.Date != date {
			continue
		}
		title := "(unknown subtask)"
		if s, ok := m.subtasks[blk.SubtaskID]; ok {
			title = s.Title
		}
		entries = append(entries, entry{
			start: blk.Start,
			line: fmt.Sprintf("  %s %s %s",
				timeStyle.Render(blk.Start+" - "+blk.End),
				blockStyle.Render(title),
				statusTag(blk.Status)),
		})
	}

	// insertion sort, the lists are tiny
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].start < entries[j-1].start; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.line
	}
	return lines
}

func statusTag(status models.BlockStatus) string {
	switch status {
	case models.BlockStatusCompleted:
		return "✓"
	case models.BlockStatusPartial:
		return "◐"
	default:
		return ""
	}
}

// capacityBar draws scheduled minutes against available minutes. Overflow
// past the available width renders in the over style.
func capacityBar(day capacity.DayCapacity) string {
	if day.AvailableMinutes <= 0 {
		return barOverStyle.Render(strings.Repeat("█", barWidth)) +
			fmt.Sprintf(" %s scheduled, none available", timeutil.FormatDuration(day.ScheduledMinutes))
	}

	filled := day.ScheduledMinutes * barWidth / day.AvailableMinutes
	if filled > barWidth {
		filled = barWidth
	}

	var bar string
	if day.IsOverCapacity {
		bar = barOverStyle.Render(strings.Repeat("█", barWidth))
	} else {
		bar = barFillStyle.Render(strings.Repeat("█", filled)) +
			barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
	}

	label := fmt.Sprintf(" %s / %s",
		timeutil.FormatDuration(day.ScheduledMinutes),
		timeutil.FormatDuration(day.AvailableMinutes))
	if day.IsOverCapacity {
		label += fmt.Sprintf("  OVER by %s", timeutil.FormatDuration(day.OverflowMinutes))
	}
	return bar + label
}
