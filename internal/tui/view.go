package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateWeek:
		content = docStyle.Render(m.weekView.View())
	case StateBacklog:
		content = docStyle.Render(m.backlog.View())
	case StatePickDay:
		content = m.viewPickDay()
	case StateResolve:
		content = m.viewResolve()
	case StateConfirmCommit:
		content = m.viewConfirmCommit()
	case StateConfirmReplan:
		content = m.viewConfirmReplan()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		m.viewStatusBar(),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	var tabs []string
	for i, title := range []string{"Week", "Backlog"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}

	plan := fmt.Sprintf("  week of %s", m.week.WeekStart)
	if m.plan.Status == models.PlanStatusCommitted {
		plan += committedStyle.Render("  [committed]")
	} else {
		plan += statusBarStyle.Render("  [planning]")
	}
	if m.week.IsOverCapacity {
		plan += overCapacityStyle.Render(fmt.Sprintf("  over by %s",
			timeutil.FormatDuration(m.week.OverflowMinutes)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, append(tabs, plan)...)
}

func (m Model) viewStatusBar() string {
	bar := m.statusMsg
	if m.validationWarning != "" {
		if bar != "" {
			bar += "   "
		}
		bar += m.validationWarning
	}
	return statusBarStyle.Render(bar)
}

func (m Model) viewPickDay() string {
	if m.pendingSubtask == nil {
		return ""
	}

	lines := []string{
		fmt.Sprintf("Schedule %q (%s) on:", m.pendingSubtask.Title,
			timeutil.FormatDuration(m.pendingSubtask.EstimatedMinutes)),
		"",
	}
	for i, day := range m.week.Days {
		d, err := timeutil.ParseDate(day.Date)
		if err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("[%d] %-9s %s remaining", i+1,
			d.Weekday().String(), timeutil.FormatDuration(day.RemainingMinutes)))
	}
	lines = append(lines, "", "[esc] Cancel")

	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, lines...),
	)
}

func (m Model) viewResolve() string {
	if len(m.resolveQueue) == 0 {
		return ""
	}
	sub := m.resolveQueue[0]

	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			fmt.Sprintf("Overflow: %s (%s)", sub.Title, timeutil.FormatDuration(sub.EstimatedMinutes)),
			fmt.Sprintf("%d remaining", len(m.resolveQueue)),
			"",
			"[1] Reschedule next week",
			"[2] Return to backlog",
			"[3] Reduce estimate",
			"[4] Delete subtask",
			"",
			"[esc] Cancel",
		),
	)
}

func (m Model) viewConfirmCommit() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			fmt.Sprintf("Commit the week of %s?", m.week.WeekStart),
			fmt.Sprintf("%s scheduled, %s remaining",
				timeutil.FormatDuration(m.week.ScheduledMinutes),
				timeutil.FormatDuration(m.week.RemainingMinutes)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewConfirmReplan() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Reopen this committed week for planning?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
