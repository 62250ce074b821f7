package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/weekplan/internal/lifecycle"
	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/overflow"
	"github.com/julianstephens/weekplan/internal/scheduler"
	"github.com/julianstephens/weekplan/internal/storage"
	"github.com/julianstephens/weekplan/internal/timeutil"
	"github.com/julianstephens/weekplan/internal/tui/components/backlog"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.weekView.SetSize(msg.Width-4, msg.Height-6)
		m.backlog.SetSize(msg.Width-4, msg.Height-6)

	case backlog.ScheduleSubtaskMsg:
		if !lifecycle.CanEdit(m.plan) {
			m.statusMsg = "week is committed, replan first (r)"
			return m, nil
		}
		sub := msg.Subtask
		m.pendingSubtask = &sub
		m.state = StatePickDay
		return m, nil

	case backlog.UnscheduleSubtaskMsg:
		if !lifecycle.CanEdit(m.plan) {
			m.statusMsg = "week is committed, replan first (r)"
			return m, nil
		}
		m.unschedule(msg.Subtask)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateComponents(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""

	switch m.state {
	case StatePickDay:
		return m.handlePickDayKey(msg)
	case StateResolve:
		return m.handleResolveKey(msg)
	case StateConfirmCommit:
		return m.handleConfirmCommitKey(msg)
	case StateConfirmReplan:
		return m.handleConfirmReplanKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
		m.state = (m.state + 1) % 2
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab), key.Matches(msg, m.keys.Left):
		m.state = (m.state + 1) % 2 // two tabs, prev == next
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.PrevWeek):
		m.weekStart = m.weekStart.AddDate(0, 0, -7)
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.NextWeek):
		m.weekStart = m.weekStart.AddDate(0, 0, 7)
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Commit):
		if m.plan.Status == models.PlanStatusCommitted {
			m.statusMsg = "week is already committed"
			return m, nil
		}
		if m.week.IsOverCapacity {
			m.statusMsg = fmt.Sprintf("cannot commit: over capacity by %s",
				timeutil.FormatDuration(m.week.OverflowMinutes))
			return m, nil
		}
		if over := m.overflowSubtasks(); len(over) > 0 {
			m.statusMsg = fmt.Sprintf("cannot commit: %d overflow subtasks, press o to resolve", len(over))
			return m, nil
		}
		m.state = StateConfirmCommit
		return m, nil
	case key.Matches(msg, m.keys.Replan):
		if m.plan.Status != models.PlanStatusCommitted {
			m.statusMsg = "week is not committed"
			return m, nil
		}
		m.state = StateConfirmReplan
		return m, nil
	case key.Matches(msg, m.keys.Resolve):
		over := m.overflowSubtasks()
		if len(over) == 0 {
			m.statusMsg = "no overflow subtasks"
			return m, nil
		}
		m.resolveQueue = over
		m.state = StateResolve
		return m, nil
	}

	return m.updateComponents(msg)
}

func (m Model) handlePickDayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pendingSubtask == nil {
		m.state = StateBacklog
		return m, nil
	}
	if msg.String() == "esc" || msg.String() == "q" {
		m.pendingSubtask = nil
		m.state = StateBacklog
		return m, nil
	}

	n, err := strconv.Atoi(msg.String())
	if err != nil || n < 1 || n > len(m.week.Days) {
		return m, nil
	}

	sub := *m.pendingSubtask
	m.pendingSubtask = nil
	m.state = StateBacklog

	date := m.week.Days[n-1].Date
	block, updated := scheduler.Schedule(sub, date, m.blocks, m.commits)

	if err := m.store.AddBlock(block); err != nil {
		m.statusMsg = fmt.Sprintf("failed to save block: %v", err)
		return m, nil
	}
	if err := m.store.UpdateSubtask(updated); err != nil {
		// Revert the block so the subtask never points at orphaned state.
		if delErr := m.store.DeleteBlock(block.ID); delErr != nil {
			m.statusMsg = fmt.Sprintf("failed to update subtask and revert block: %v", delErr)
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("failed to update subtask: %v", err)
		return m, nil
	}

	m.statusMsg = fmt.Sprintf("scheduled %q on %s %s–%s", sub.Title, block.Date, block.Start, block.End)
	m.refresh()
	return m, nil
}

func (m *Model) unschedule(sub models.Subtask) {
	if sub.BlockID == "" {
		m.statusMsg = "subtask has no block"
		return
	}
	blockID := sub.BlockID
	updated := scheduler.Unschedule(sub)
	if err := m.store.UpdateSubtask(updated); err != nil {
		m.statusMsg = fmt.Sprintf("failed to update subtask: %v", err)
		return
	}
	if err := m.store.DeleteBlock(blockID); err != nil {
		if revErr := m.store.UpdateSubtask(sub); revErr != nil {
			m.statusMsg = fmt.Sprintf("failed to delete block and revert subtask: %v", revErr)
			return
		}
		m.statusMsg = fmt.Sprintf("failed to delete block: %v", err)
		return
	}
	m.statusMsg = fmt.Sprintf("unscheduled %q", sub.Title)
	m.refresh()
}

var resolveActions = map[string]overflow.Resolution{
	"1": overflow.ResolutionReschedule,
	"2": overflow.ResolutionBacklog,
	"3": overflow.ResolutionReduce,
	"4": overflow.ResolutionDelete,
}

func (m Model) handleResolveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" || msg.String() == "q" {
		m.resolveQueue = nil
		m.state = StateBacklog
		return m, nil
	}

	action, ok := resolveActions[msg.String()]
	if !ok {
		return m, nil
	}

	sub := m.resolveQueue[0]
	result := overflow.Resolve([]models.Subtask{sub}, map[string]overflow.Resolution{sub.ID: action})

	for _, updated := range result.Updated {
		if err := m.store.UpdateSubtask(updated); err != nil {
			m.statusMsg = fmt.Sprintf("failed to update subtask: %v", err)
			return m, nil
		}
	}
	for _, id := range result.DeletedIDs {
		if err := m.store.DeleteSubtask(id); err != nil {
			m.statusMsg = fmt.Sprintf("failed to delete subtask: %v", err)
			return m, nil
		}
	}

	m.resolveQueue = m.resolveQueue[1:]
	if len(m.resolveQueue) == 0 {
		m.state = StateBacklog
		m.statusMsg = "overflow resolved"
		m.refresh()
	}
	return m, nil
}

func (m Model) handleConfirmCommitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		committed, ok := lifecycle.Commit(m.plan, m.week, len(m.overflowSubtasks()), time.Now())
		if !ok {
			m.statusMsg = "commit refused, check capacity and overflow"
			m.state = StateWeek
			return m, nil
		}
		var err error
		m.plan, err = storage.Apply(m.plan, committed, m.store.SaveWeeklyPlan)
		if err != nil {
			m.statusMsg = fmt.Sprintf("failed to save plan: %v", err)
			m.state = StateWeek
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("committed week of %s", m.week.WeekStart)
		m.state = StateWeek
	case "n", "N", "esc", "q":
		m.state = StateWeek
	}
	return m, nil
}

func (m Model) handleConfirmReplanKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		reopened, ok := lifecycle.Replan(m.plan)
		if !ok {
			m.statusMsg = "week is not committed"
			m.state = StateWeek
			return m, nil
		}
		var err error
		m.plan, err = storage.Apply(m.plan, reopened, m.store.SaveWeeklyPlan)
		if err != nil {
			m.statusMsg = fmt.Sprintf("failed to save plan: %v", err)
			m.state = StateWeek
			return m, nil
		}
		m.statusMsg = "week reopened for planning"
		m.state = StateWeek
	case "n", "N", "esc", "q":
		m.state = StateWeek
	}
	return m, nil
}

func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case StateWeek:
		m.weekView, cmd = m.weekView.Update(msg)
	case StateBacklog:
		m.backlog, cmd = m.backlog.Update(msg)
	}
	return m, cmd
}
